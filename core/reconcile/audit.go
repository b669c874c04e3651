package reconcile

import (
	"context"

	"go.uber.org/zap"
)

// AuditMatch pairs a CRM record with the unlinked published record it would be linked to.
type AuditMatch struct {
	SourceID     string `json:"source_id"`
	PublishedID  int    `json:"published_id"`
	CandidateIDs []int  `json:"candidate_ids,omitempty"`
}

// AuditReport describes how the CRM and the site line up, without changing either.
type AuditReport struct {
	SourceCount    int          `json:"source_count"`
	PublishedCount int          `json:"published_count"`
	Linked         int          `json:"linked"`
	Matched        []AuditMatch `json:"matched"`
	Ambiguous      []AuditMatch `json:"ambiguous"`
	Unmatched      []string     `json:"unmatched"`
	// TitleOnly lists published ids whose title matched a CRM record but whose content did not.
	TitleOnly []int `json:"title_only"`
}

// Audit matches every CRM record that has no linked published record against the
// unlinked pool, the same way Run does, and reports the result.
func (d *Driver) Audit(ctx context.Context) (*AuditReport, error) {
	in, err := d.load(ctx, false)
	if err != nil {
		return nil, err
	}

	report := &AuditReport{
		SourceCount:    len(in.sources),
		PublishedCount: len(in.published),
	}
	linked := d.indexLinked(in.published)
	unlinked := newPool(in.published)
	titleOnly := make(map[int]struct{})

	for _, src := range in.sources {
		if _, ok := linked[src.ID]; ok {
			report.Linked++
			continue
		}

		keys := newMatchKeys(src)
		for _, entry := range unlinked.records() {
			if keys.sameTitle(entry) && !keys.sameContent(entry) {
				titleOnly[entry.ID] = struct{}{}
			}
		}

		m := Match(src, unlinked.records())
		if !m.Found() {
			report.Unmatched = append(report.Unmatched, src.ID)
			continue
		}
		match := AuditMatch{SourceID: src.ID, PublishedID: m.Record.ID}
		if m.Ambiguous() {
			match.CandidateIDs = m.CandidateIDs()
			report.Ambiguous = append(report.Ambiguous, match)
		}
		report.Matched = append(report.Matched, match)
		unlinked.claim(m.Record.ID)
		delete(titleOnly, m.Record.ID)
	}

	for _, entry := range in.published {
		if _, ok := titleOnly[entry.ID]; ok {
			report.TitleOnly = append(report.TitleOnly, entry.ID)
		}
	}

	d.logger.Info("Audit finished",
		zap.Int("crm_records", report.SourceCount),
		zap.Int("published_records", report.PublishedCount),
		zap.Int("linked", report.Linked),
		zap.Int("matched", len(report.Matched)),
		zap.Int("ambiguous", len(report.Ambiguous)),
		zap.Int("unmatched", len(report.Unmatched)))

	return report, nil
}
