package reconcile

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// MediaStore is the part of the Publishing Store the attachment reconciler needs.
type MediaStore interface {
	UploadMedia(ctx context.Context, url string, kind MediaKind) (int, error)
	DeleteMedia(ctx context.Context, id int, force bool) (bool, error)
}

// AttachmentStats counts what happened to one link table during reconciliation.
type AttachmentStats struct {
	Carried      int `json:"carried"`
	Uploaded     int `json:"uploaded"`
	UploadFailed int `json:"upload_failed"`
	Deleted      int `json:"deleted"`
	DeleteFailed int `json:"delete_failed"`
}

// Add accumulates other into s.
func (s *AttachmentStats) Add(other AttachmentStats) {
	s.Carried += other.Carried
	s.Uploaded += other.Uploaded
	s.UploadFailed += other.UploadFailed
	s.Deleted += other.Deleted
	s.DeleteFailed += other.DeleteFailed
}

// AttachmentReconciler keeps a record's link table in step with the CRM's sub-resource list.
type AttachmentReconciler struct {
	media  MediaStore
	logger *zap.Logger
}

// NewAttachmentReconciler creates an AttachmentReconciler.
func NewAttachmentReconciler(media MediaStore, logger *zap.Logger) *AttachmentReconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttachmentReconciler{media: media, logger: logger}
}

// Reconcile produces the new link table for source.
//
// Without isUpdate every source item is uploaded. With isUpdate the prior pairs
// still present upstream are carried forward in prior order, unseen items are
// uploaded after them in source order, and pairs that vanished upstream have
// their media deleted. A pair whose deletion fails is appended again so the next
// run retries it.
func (a *AttachmentReconciler) Reconcile(ctx context.Context, source []SubResource, prior Links, isUpdate bool, kind MediaKind) (Links, AttachmentStats) {
	var stats AttachmentStats
	source = uniqueSubResources(source)

	if !isUpdate {
		out := make(Links, 0, len(source))
		for _, item := range source {
			if link, ok := a.upload(ctx, item, kind, &stats); ok {
				out = append(out, link)
			}
		}
		return out, stats
	}

	current := make(map[string]struct{}, len(source))
	for _, item := range source {
		current[item.ID] = struct{}{}
	}

	out := make(Links, 0, len(source))
	kept := make(map[string]struct{}, len(prior))
	var removed Links
	for _, link := range prior {
		_, isCurrent := current[link.SourceID]
		_, isKept := kept[link.SourceID]
		if isCurrent && !isKept {
			kept[link.SourceID] = struct{}{}
			out = append(out, link)
			stats.Carried++
			continue
		}
		removed = append(removed, link)
	}

	for _, item := range source {
		if _, ok := kept[item.ID]; ok {
			continue
		}
		if link, ok := a.upload(ctx, item, kind, &stats); ok {
			out = append(out, link)
		}
	}

	for _, link := range removed {
		deleted, err := a.media.DeleteMedia(ctx, link.MediaID, true)
		if err == nil && deleted {
			stats.Deleted++
			a.logger.Debug("Removed media",
				zap.String("source_id", link.SourceID),
				zap.Int("media_id", link.MediaID))
			continue
		}
		if err == nil {
			err = fmt.Errorf("media %d not deleted", link.MediaID)
		}
		stats.DeleteFailed++
		// A sub-id appears at most once in the output; the first pair wins.
		if _, taken := kept[link.SourceID]; taken {
			a.logger.Warn("Failed to remove duplicate media, dropping its link",
				zap.String("source_id", link.SourceID),
				zap.Int("media_id", link.MediaID),
				zap.Error(err))
			continue
		}
		a.logger.Warn("Failed to remove media, will retry next run",
			zap.String("source_id", link.SourceID),
			zap.Int("media_id", link.MediaID),
			zap.Error(err))
		kept[link.SourceID] = struct{}{}
		out = append(out, link)
	}

	return out, stats
}

func (a *AttachmentReconciler) upload(ctx context.Context, item SubResource, kind MediaKind, stats *AttachmentStats) (Link, bool) {
	id, err := uploadMedia(ctx, a.media, item.URL, kind)
	if err != nil {
		stats.UploadFailed++
		a.logger.Warn("Failed to upload attachment",
			zap.String("source_id", item.ID),
			zap.String("url", item.URL),
			zap.Error(err))
		return Link{}, false
	}
	stats.Uploaded++
	a.logger.Debug("Uploaded attachment",
		zap.String("source_id", item.ID),
		zap.Int("media_id", id))
	return Link{SourceID: item.ID, MediaID: id}, true
}

// uploadMedia wraps every way an upload can fail in ErrUploadFailed.
func uploadMedia(ctx context.Context, media MediaStore, url string, kind MediaKind) (int, error) {
	if url == "" {
		return 0, fmt.Errorf("%w: empty url", ErrUploadFailed)
	}
	id, err := media.UploadMedia(ctx, url, kind)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("%w: no media id returned", ErrUploadFailed)
	}
	return id, nil
}

// uniqueSubResources drops repeated ids, keeping the first occurrence.
func uniqueSubResources(items []SubResource) []SubResource {
	seen := make(map[string]struct{}, len(items))
	out := make([]SubResource, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}
