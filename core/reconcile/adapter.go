package reconcile

import (
	"context"
)

// SourceDirectory is the read-only feed of CRM records and their sub-resources.
type SourceDirectory interface {
	// ListRecords returns every CRM record. Implementations paginate until a short page.
	ListRecords(ctx context.Context) ([]SourceRecord, error)

	// SubResources returns one of the record's ordered sub-resource collections.
	SubResources(ctx context.Context, record SourceRecord, kind SubResourceKind) ([]SubResource, error)

	// Agents returns the roster of CRM agents.
	Agents(ctx context.Context) ([]Agent, error)
}

// PublishingStore is the read/write feed of site records and media objects.
type PublishingStore interface {
	// ListRecords returns every published record, paginated the same way as the CRM.
	ListRecords(ctx context.Context) ([]PublishedRecord, error)

	// Create writes a new record and returns its id and canonical link.
	Create(ctx context.Context, listing Listing) (WriteResult, error)

	// Update overwrites the record with the given id.
	Update(ctx context.Context, id int, listing Listing) (WriteResult, error)

	// ClearTerms removes every categorical term assigned to the record.
	ClearTerms(ctx context.Context, id int) error

	// Retire soft-deletes the record. The boolean is the store's "deleted" acknowledgement.
	Retire(ctx context.Context, id int) (bool, error)

	// UploadMedia fetches the binary at url and stores it as a media object.
	UploadMedia(ctx context.Context, url string, kind MediaKind) (int, error)

	// DeleteMedia removes a media object; force bypasses the trash.
	DeleteMedia(ctx context.Context, id int, force bool) (bool, error)

	// AttachMedia associates media objects with a parent record.
	AttachMedia(ctx context.Context, parentID int, mediaIDs []int) error
}

// SnapshotStore persists the CRM record list seen by the previous run.
type SnapshotStore interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snapshot Snapshot) error
}

// Presenter builds the presentation fields of a published record.
type Presenter interface {
	Present(ctx context.Context, record SourceRecord) (Presentation, error)
}

// PresenterFunc adapts a function to the Presenter interface.
type PresenterFunc func(ctx context.Context, record SourceRecord) (Presentation, error)

// Present implements Presenter.
func (f PresenterFunc) Present(ctx context.Context, record SourceRecord) (Presentation, error) {
	return f(ctx, record)
}
