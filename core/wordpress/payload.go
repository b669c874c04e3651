package wordpress

import (
	"listing-sync/core/reconcile"
)

// OFITimeLayout is how open-for-inspection times are stored on the site.
const OFITimeLayout = "2006/01/02 15:04"

// FloorPlanTitle is the title given to every floor plan.
const FloorPlanTitle = "Floor plan"

// payload builds the property post body for a listing. Presentation details are
// written first so the sync fields always win.
func (c *Client) payload(l reconcile.Listing) map[string]any {
	body := make(map[string]any, len(l.Presentation.Details)+24)
	for k, v := range l.Presentation.Details {
		body[k] = v
	}

	crmImages, images := fromLinks(l.Images)
	crmDocs, docs := fromLinks(l.Documents)

	body["title"] = l.Presentation.Title
	body["content"] = l.Presentation.Content
	body["status"] = "publish"
	body["author"] = c.cfg.AuthorID
	body[FieldCRMID] = l.SourceID
	body[FieldCRMUpdated] = l.SourceUpdated
	body[FieldThumbnailName] = l.FeaturedSource
	body[FieldStatus] = nonNil(l.StatusTags)
	body[FieldCRMImageIDs] = crmImages
	body[FieldImages] = images
	body[FieldCRMAttachmentIDs] = crmDocs
	body[FieldAttachments] = docs
	body[FieldCountry] = c.cfg.Country

	if l.FeaturedMediaID != 0 {
		body[FieldThumbnailID] = l.FeaturedMediaID
	} else {
		body[FieldThumbnailID] = ""
	}

	if l.Inspection != nil {
		body[FieldOptions] = map[string]any{
			"property_ofi": map[string]string{
				"from": l.Inspection.Start.Format(OFITimeLayout),
				"to":   l.Inspection.End.Format(OFITimeLayout),
			},
		}
	} else {
		body[FieldOptions] = ""
	}

	if l.ShowFloorPlans && len(l.FloorPlans) > 0 {
		plans := make([]map[string]string, 0, len(l.FloorPlans))
		for _, fp := range l.FloorPlans {
			plans = append(plans, map[string]string{
				"fave_plan_title": FloorPlanTitle,
				"fave_plan_image": fp.URL,
			})
		}
		body[FieldFloorPlans] = plans
		body[FieldFloorPlansEnabled] = "enable"
	} else {
		body[FieldFloorPlans] = ""
		body[FieldFloorPlansEnabled] = "disable"
	}

	if l.ShowMap {
		body[FieldShowMap] = 1
	} else {
		body[FieldShowMap] = 0
	}

	return body
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
