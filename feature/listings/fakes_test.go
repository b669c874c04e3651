package listings

import (
	"context"
	"sync"

	"listing-sync/core/reconcile"
	"listing-sync/core/wordpress"
)

type fakeCRM struct {
	records   []reconcile.SourceRecord
	agents    []reconcile.Agent
	listErr   error
	agentErr  error
	agentHits int
	// block, when set, holds ListRecords until closed.
	block chan struct{}
	calls int
	mu    sync.Mutex
}

func (f *fakeCRM) ListRecords(ctx context.Context) ([]reconcile.SourceRecord, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	return f.records, f.listErr
}

func (f *fakeCRM) SubResources(ctx context.Context, rec reconcile.SourceRecord, kind reconcile.SubResourceKind) ([]reconcile.SubResource, error) {
	return nil, nil
}

func (f *fakeCRM) Agents(ctx context.Context) ([]reconcile.Agent, error) {
	f.agentHits++
	return f.agents, f.agentErr
}

type fakeSite struct {
	records []reconcile.PublishedRecord
	agents   []wordpress.Agent
	agentErr error
	created  []reconcile.Listing
	mu       sync.Mutex
}

func (f *fakeSite) ListRecords(ctx context.Context) ([]reconcile.PublishedRecord, error) {
	return f.records, nil
}

func (f *fakeSite) Create(ctx context.Context, l reconcile.Listing) (reconcile.WriteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, l)
	return reconcile.WriteResult{ID: 2000 + len(f.created)}, nil
}

func (f *fakeSite) Update(ctx context.Context, id int, l reconcile.Listing) (reconcile.WriteResult, error) {
	return reconcile.WriteResult{ID: id}, nil
}

func (f *fakeSite) ClearTerms(ctx context.Context, id int) error { return nil }

func (f *fakeSite) Retire(ctx context.Context, id int) (bool, error) { return true, nil }

func (f *fakeSite) UploadMedia(ctx context.Context, url string, kind reconcile.MediaKind) (int, error) {
	return 501, nil
}

func (f *fakeSite) DeleteMedia(ctx context.Context, id int, force bool) (bool, error) {
	return true, nil
}

func (f *fakeSite) AttachMedia(ctx context.Context, parentID int, mediaIDs []int) error { return nil }

func (f *fakeSite) Agents(ctx context.Context) ([]wordpress.Agent, error) {
	if f.agentErr != nil {
		return nil, f.agentErr
	}
	return f.agents, nil
}

type memSnapshots struct {
	snap  reconcile.Snapshot
	saves int
}

func (m *memSnapshots) Load(ctx context.Context) (reconcile.Snapshot, error) { return m.snap, nil }

func (m *memSnapshots) Save(ctx context.Context, s reconcile.Snapshot) error {
	m.snap = s
	m.saves++
	return nil
}

func activeRecord(id string) reconcile.SourceRecord {
	return reconcile.SourceRecord{
		ID:          id,
		Address:     id + " Queen Street, Blackburn",
		State:       "VIC",
		Postcode:    "3130",
		Headline:    "Sunny",
		Description: "A sunny home",
		Status:      reconcile.StatusActive,
		Market:      reconcile.MarketSale,
		UpdatedAt:   "2024-02-28T10:00:00+11:00",
	}
}
