package wordpress

import (
	"listing-sync/core/reconcile"
	"listing-sync/core/utils"

	"go.uber.org/zap"
)

// Custom field names of a property post.
const (
	FieldCRMID             = "crm_id"
	FieldCRMUpdated        = "crm_updated"
	FieldThumbnailID       = "_thumbnail_id"
	FieldThumbnailName     = "_thumbnail_name"
	FieldCRMImageIDs       = "crm_image_ids"
	FieldImages            = "fave_property_images"
	FieldCRMAttachmentIDs  = "crm_attachment_ids"
	FieldAttachments       = "fave_attachments"
	FieldStatus            = "property_status"
	FieldOptions           = "fw_options"
	FieldFloorPlans        = "floor_plans"
	FieldFloorPlansEnabled = "fave_floor_plans_enable"
	FieldShowMap           = "fave_property_map"
	FieldCountry           = "fave_property_country"
)

type rendered struct {
	Rendered string `json:"rendered"`
}

// post is a property post as returned by the site. Custom fields come back as
// numbers, strings, arrays or "" depending on how they were last written.
type post struct {
	ID               int      `json:"id"`
	Link             string   `json:"link"`
	Title            rendered `json:"title"`
	Content          rendered `json:"content"`
	CRMID            any      `json:"crm_id"`
	CRMUpdated       any      `json:"crm_updated"`
	ThumbnailID      any      `json:"_thumbnail_id"`
	ThumbnailName    any      `json:"_thumbnail_name"`
	CRMImageIDs      any      `json:"crm_image_ids"`
	Images           any      `json:"fave_property_images"`
	CRMAttachmentIDs any      `json:"crm_attachment_ids"`
	Attachments      any      `json:"fave_attachments"`
	Status           any      `json:"property_status"`
}

func (p post) toRecord(logger *zap.Logger) reconcile.PublishedRecord {
	return reconcile.PublishedRecord{
		ID:              p.ID,
		Title:           p.Title.Rendered,
		Content:         p.Content.Rendered,
		SourceID:        utils.ToString(p.CRMID),
		SourceUpdated:   utils.ToString(p.CRMUpdated),
		FeaturedMediaID: utils.ToInt(p.ThumbnailID),
		FeaturedSource:  utils.ToString(p.ThumbnailName),
		Images:          toLinks(p.ID, FieldImages, p.CRMImageIDs, p.Images, logger),
		Documents:       toLinks(p.ID, FieldAttachments, p.CRMAttachmentIDs, p.Attachments, logger),
		StatusTags:      utils.ToStrings(p.Status),
	}
}

// toLinks zips the site's parallel id arrays into a link table. Arrays of unequal
// length are cut to the shorter one.
func toLinks(postID int, field string, crmIDs, mediaIDs any, logger *zap.Logger) reconcile.Links {
	sources := utils.ToStrings(crmIDs)
	media := utils.ToStrings(mediaIDs)
	n := len(sources)
	if len(media) != n {
		logger.Warn("Link table arrays differ in length, truncating",
			zap.Int("post_id", postID),
			zap.String("field", field),
			zap.Int("crm_ids", len(sources)),
			zap.Int("media_ids", len(media)))
		n = min(n, len(media))
	}
	links := make(reconcile.Links, 0, n)
	for i := 0; i < n; i++ {
		links = append(links, reconcile.Link{SourceID: sources[i], MediaID: utils.ToInt(media[i])})
	}
	return links
}

// fromLinks splits a link table into the site's parallel arrays.
func fromLinks(links reconcile.Links) ([]string, []int) {
	return links.SourceIDs(), links.MediaIDs()
}
