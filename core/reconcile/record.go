package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Decision is what the record reconciler does with one CRM record.
type Decision string

const (
	DecisionCreate Decision = "create"
	DecisionUpdate Decision = "update"
	DecisionRetire Decision = "retire"
	DecisionNoop   Decision = "noop"
	DecisionIgnore Decision = "ignore"
)

// Decide picks the action for src given its linked published record, if any.
func Decide(src SourceRecord, linked *PublishedRecord) Decision {
	if linked == nil {
		if src.Status.Publishable() {
			return DecisionCreate
		}
		return DecisionIgnore
	}
	if src.UpdatedAt == linked.SourceUpdated {
		return DecisionNoop
	}
	if src.Status.Publishable() {
		return DecisionUpdate
	}
	return DecisionRetire
}

// Status tags shown on the site.
const (
	TagForSale          = "for sale"
	TagForRent          = "for rent"
	TagSalesOFI         = "sales OFI"
	TagRentalOFI        = "rental OFI"
	TagUnderOffer       = "under offer"
	TagUnderApplication = "under application"
	TagLeased           = "leased"
	TagSold             = "sold"
)

// StatusTags derives the site's status tag set. Statuses that are never published yield nil.
func StatusTags(status Status, market Market, hasInspection bool) []string {
	switch status {
	case StatusActive:
		switch market {
		case MarketRent:
			if hasInspection {
				return []string{TagForRent, TagRentalOFI}
			}
			return []string{TagForRent}
		case MarketSale:
			if hasInspection {
				return []string{TagForSale, TagSalesOFI}
			}
			return []string{TagForSale}
		}
		return nil
	case StatusUnderOffer:
		return []string{TagForSale, TagUnderOffer}
	case StatusUnderApplication:
		return []string{TagForRent, TagUnderApplication}
	case StatusLet:
		return []string{TagLeased}
	case StatusSold:
		return []string{TagSold}
	}
	return nil
}

// Outcome reports what Execute did for one CRM record.
type Outcome struct {
	SourceID    string          `json:"source_id"`
	PublishedID int             `json:"published_id,omitempty"`
	Decision    Decision        `json:"decision"`
	Matched     bool            `json:"matched"`
	Link        string          `json:"link,omitempty"`
	Images      AttachmentStats `json:"images"`
	Documents   AttachmentStats `json:"documents"`
	Err         error           `json:"-"`
}

// Failed reports whether the action did not complete.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Message returns the failure message, or an empty string.
func (o Outcome) Message() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

type outcomeJSON struct {
	outcomeFields
	Failed bool   `json:"failed"`
	Error  string `json:"error,omitempty"`
}

type outcomeFields Outcome

// MarshalJSON adds the failed flag and the failure message.
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(outcomeJSON{outcomeFields: outcomeFields(o), Failed: o.Failed(), Error: o.Message()})
}

// UnmarshalJSON restores Err from the failure message.
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var aux outcomeJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*o = Outcome(aux.outcomeFields)
	if aux.Error != "" {
		o.Err = errors.New(aux.Error)
	}
	return nil
}

// RecordReconciler carries out decisions against the Publishing Store.
type RecordReconciler struct {
	source      SourceDirectory
	store       PublishingStore
	presenter   Presenter
	attachments *AttachmentReconciler
	logger      *zap.Logger
	now         func() time.Time
}

// NewRecordReconciler creates a RecordReconciler. now defaults to time.Now.
func NewRecordReconciler(source SourceDirectory, store PublishingStore, presenter Presenter, logger *zap.Logger, now func() time.Time) *RecordReconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &RecordReconciler{
		source:      source,
		store:       store,
		presenter:   presenter,
		attachments: NewAttachmentReconciler(store, logger),
		logger:      logger,
		now:         now,
	}
}

// Execute performs decision for src. linked is the published record for update and retire.
func (r *RecordReconciler) Execute(ctx context.Context, decision Decision, src SourceRecord, linked *PublishedRecord) Outcome {
	out := Outcome{SourceID: src.ID, Decision: decision}
	if linked != nil {
		out.PublishedID = linked.ID
	}

	switch decision {
	case DecisionCreate:
		r.write(ctx, src, nil, &out)
	case DecisionUpdate:
		if linked == nil {
			out.Err = fmt.Errorf("%w: update of %s without a linked record", ErrWriteFailed, src.ID)
			return out
		}
		r.write(ctx, src, linked, &out)
	case DecisionRetire:
		if linked == nil {
			out.Err = fmt.Errorf("%w: retire of %s without a linked record", ErrRetireFailed, src.ID)
			return out
		}
		r.retire(ctx, src, linked, &out)
	}
	return out
}

func (r *RecordReconciler) retire(ctx context.Context, src SourceRecord, linked *PublishedRecord, out *Outcome) {
	deleted, err := r.store.Retire(ctx, linked.ID)
	if err != nil {
		out.Err = fmt.Errorf("%w: record %d: %w", ErrRetireFailed, linked.ID, err)
		return
	}
	if !deleted {
		out.Err = fmt.Errorf("%w: record %d not deleted", ErrRetireFailed, linked.ID)
		return
	}
	r.logger.Info("Retired published record",
		zap.String("source_id", src.ID),
		zap.Int("published_id", linked.ID),
		zap.Strings("previous_tags", linked.StatusTags),
		zap.String("status", string(src.Status)))
}

// write creates a new record when linked is nil and overwrites linked otherwise.
func (r *RecordReconciler) write(ctx context.Context, src SourceRecord, linked *PublishedRecord, out *Outcome) {
	isUpdate := linked != nil

	// Read everything from the CRM before uploading anything.
	var subs [4][]SubResource
	for i, kind := range []SubResourceKind{KindImages, KindDocuments, KindInspections, KindFloorPlans} {
		items, err := r.source.SubResources(ctx, src, kind)
		if err != nil {
			out.Err = fmt.Errorf("%w: list %s of %s: %w", ErrWriteFailed, kind, src.ID, err)
			return
		}
		subs[i] = items
	}
	images, documents, inspections, floorPlans := subs[0], subs[1], subs[2], subs[3]

	listing := Listing{
		SourceID:       src.ID,
		SourceUpdated:  src.UpdatedAt,
		FeaturedSource: src.PrimaryImage,
		Inspection:     NextInspection(inspections, r.now()),
		FloorPlans:     floorPlans,
		ShowFloorPlans: len(floorPlans) > 0,
	}
	listing.StatusTags = StatusTags(src.Status, src.Market, listing.Inspection != nil)

	if r.presenter != nil {
		presentation, err := r.presenter.Present(ctx, src)
		if err != nil {
			out.Err = fmt.Errorf("%w: present %s: %w", ErrWriteFailed, src.ID, err)
			return
		}
		listing.Presentation = presentation
		listing.ShowMap = presentation.ShowMap
	}

	// Terms are cleared only once every read has succeeded.
	var priorImages, priorDocuments Links
	if isUpdate {
		if err := r.store.ClearTerms(ctx, linked.ID); err != nil {
			r.logger.Warn("Failed to clear terms",
				zap.Int("published_id", linked.ID),
				zap.Error(err))
		}
		priorImages, priorDocuments = linked.Images, linked.Documents
	}
	listing.FeaturedMediaID = r.featuredMedia(ctx, src, linked)
	listing.Images, out.Images = r.attachments.Reconcile(ctx, images, priorImages, isUpdate, MediaImage)
	listing.Documents, out.Documents = r.attachments.Reconcile(ctx, documents, priorDocuments, isUpdate, MediaApplication)

	var (
		res WriteResult
		err error
	)
	if isUpdate {
		res, err = r.store.Update(ctx, linked.ID, listing)
	} else {
		res, err = r.store.Create(ctx, listing)
	}
	if err != nil {
		out.Err = fmt.Errorf("%w: %s %s: %w", ErrWriteFailed, out.Decision, src.ID, err)
		return
	}
	if res.ID == 0 && isUpdate {
		res.ID = linked.ID
	}
	if res.ID == 0 {
		out.Err = fmt.Errorf("%w: %s %s: no record id returned", ErrWriteFailed, out.Decision, src.ID)
		return
	}
	out.PublishedID = res.ID
	out.Link = res.Link

	r.logger.Info("Wrote published record",
		zap.String("decision", string(out.Decision)),
		zap.String("source_id", src.ID),
		zap.Int("published_id", res.ID),
		zap.String("link", res.Link))

	if ids := listing.MediaIDs(); len(ids) > 0 {
		if err := r.store.AttachMedia(ctx, res.ID, ids); err != nil {
			r.logger.Warn("Failed to attach media",
				zap.Int("published_id", res.ID),
				zap.Ints("media_ids", ids),
				zap.Error(err))
		}
	}
}

// featuredMedia returns the featured media id to write. On update the stored media is
// reused while the CRM's primary image URL is unchanged.
func (r *RecordReconciler) featuredMedia(ctx context.Context, src SourceRecord, linked *PublishedRecord) int {
	if src.PrimaryImage == "" {
		return 0
	}
	if linked != nil && linked.FeaturedMediaID != 0 && linked.FeaturedSource == src.PrimaryImage {
		return linked.FeaturedMediaID
	}
	id, err := uploadMedia(ctx, r.store, src.PrimaryImage, MediaImage)
	if err != nil {
		r.logger.Warn("Failed to upload featured image",
			zap.String("source_id", src.ID),
			zap.String("url", src.PrimaryImage),
			zap.Error(err))
		return 0
	}
	return id
}

// Inspection attribute keys, RFC 3339 timestamps.
const (
	InspectionStartAttr = "start_datetime"
	InspectionEndAttr   = "end_datetime"
)

// NextInspection returns the earliest inspection that has not ended by now.
// Entries with unparseable times are skipped.
func NextInspection(events []SubResource, now time.Time) *Inspection {
	var next *Inspection
	for _, ev := range events {
		start, err := time.Parse(time.RFC3339, ev.Attributes[InspectionStartAttr])
		if err != nil {
			continue
		}
		end, err := time.Parse(time.RFC3339, ev.Attributes[InspectionEndAttr])
		if err != nil {
			continue
		}
		if !end.After(now) {
			continue
		}
		if next == nil || start.Before(next.Start) {
			next = &Inspection{Start: start, End: end}
		}
	}
	return next
}
