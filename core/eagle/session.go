package eagle

import (
	"context"

	"listing-sync/core/reconcile"
)

// PerPass wraps a client so that every listing opens a new session first.
// A pass lists records once, so each pass runs on a fresh token.
type PerPass struct {
	*Client
}

// NewPerPass wraps c.
func NewPerPass(c *Client) *PerPass {
	return &PerPass{Client: c}
}

// ListRecords authenticates and then lists every property.
func (p *PerPass) ListRecords(ctx context.Context) ([]reconcile.SourceRecord, error) {
	if err := p.Authenticate(ctx); err != nil {
		return nil, err
	}
	return p.Client.ListRecords(ctx)
}
