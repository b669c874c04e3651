package reconcile

import (
	"context"
	"fmt"
)

// fakeSource is an in-memory CRM.
type fakeSource struct {
	records []SourceRecord
	subs    map[string]map[SubResourceKind][]SubResource
	agents  []Agent
	listErr error
	subErr  error
}

func (f *fakeSource) ListRecords(ctx context.Context) ([]SourceRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.records, nil
}

func (f *fakeSource) SubResources(ctx context.Context, record SourceRecord, kind SubResourceKind) ([]SubResource, error) {
	if f.subErr != nil {
		return nil, f.subErr
	}
	return f.subs[record.ID][kind], nil
}

func (f *fakeSource) Agents(ctx context.Context) ([]Agent, error) {
	return f.agents, nil
}

func (f *fakeSource) setSubs(id string, kind SubResourceKind, items ...SubResource) {
	if f.subs == nil {
		f.subs = make(map[string]map[SubResourceKind][]SubResource)
	}
	if f.subs[id] == nil {
		f.subs[id] = make(map[SubResourceKind][]SubResource)
	}
	f.subs[id][kind] = items
}

// fakeStore is an in-memory publishing site that records every call.
type fakeStore struct {
	records []PublishedRecord
	listErr error

	nextRecord int
	nextMedia  int

	created   []Listing
	updated   map[int]Listing
	cleared   []int
	retired   []int
	uploads   []string
	deleted   []int
	attached  map[int][]int
	createErr error
	updateErr error
	retireErr error
	// retireRefused makes Retire answer deleted=false.
	retireRefused bool
	uploadFail    map[string]bool
	deleteFail    map[int]bool
}

func newFakeStore(records ...PublishedRecord) *fakeStore {
	return &fakeStore{
		records:    records,
		nextRecord: 1000,
		nextMedia:  500,
		updated:    make(map[int]Listing),
		attached:   make(map[int][]int),
		uploadFail: make(map[string]bool),
		deleteFail: make(map[int]bool),
	}
}

func (f *fakeStore) ListRecords(ctx context.Context) ([]PublishedRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.records, nil
}

func (f *fakeStore) Create(ctx context.Context, listing Listing) (WriteResult, error) {
	if f.createErr != nil {
		return WriteResult{}, f.createErr
	}
	f.nextRecord++
	f.created = append(f.created, listing)
	return WriteResult{ID: f.nextRecord, Link: fmt.Sprintf("https://site.test/property/%d", f.nextRecord)}, nil
}

func (f *fakeStore) Update(ctx context.Context, id int, listing Listing) (WriteResult, error) {
	if f.updateErr != nil {
		return WriteResult{}, f.updateErr
	}
	f.updated[id] = listing
	return WriteResult{ID: id, Link: fmt.Sprintf("https://site.test/property/%d", id)}, nil
}

func (f *fakeStore) ClearTerms(ctx context.Context, id int) error {
	f.cleared = append(f.cleared, id)
	return nil
}

func (f *fakeStore) Retire(ctx context.Context, id int) (bool, error) {
	if f.retireErr != nil {
		return false, f.retireErr
	}
	if f.retireRefused {
		return false, nil
	}
	f.retired = append(f.retired, id)
	return true, nil
}

func (f *fakeStore) UploadMedia(ctx context.Context, url string, kind MediaKind) (int, error) {
	if f.uploadFail[url] {
		return 0, fmt.Errorf("upload of %s refused", url)
	}
	f.nextMedia++
	f.uploads = append(f.uploads, url)
	return f.nextMedia, nil
}

func (f *fakeStore) DeleteMedia(ctx context.Context, id int, force bool) (bool, error) {
	if f.deleteFail[id] {
		return false, nil
	}
	f.deleted = append(f.deleted, id)
	return true, nil
}

func (f *fakeStore) AttachMedia(ctx context.Context, parentID int, mediaIDs []int) error {
	f.attached[parentID] = append(f.attached[parentID], mediaIDs...)
	return nil
}

// memSnapshots keeps the snapshot in memory.
type memSnapshots struct {
	snapshot Snapshot
	saved    *Snapshot
	saves    int
	loadErr  error
	saveErr  error
}

func (m *memSnapshots) Load(ctx context.Context) (Snapshot, error) {
	if m.loadErr != nil {
		return Snapshot{}, m.loadErr
	}
	return m.snapshot, nil
}

func (m *memSnapshots) Save(ctx context.Context, snapshot Snapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.saved = &snapshot
	return nil
}

var titlePresenter = PresenterFunc(func(ctx context.Context, r SourceRecord) (Presentation, error) {
	return Presentation{
		Title:   r.Address + ", " + r.State + ", " + r.Postcode,
		Content: "<p><strong>" + r.Headline + "</strong></p>\n" + r.Description,
	}, nil
})
