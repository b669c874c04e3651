package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options controls a sync pass.
type Options struct {
	// DryRun decides every record but writes nothing, snapshot included.
	DryRun bool

	// AbortOnWriteFailure stops the pass at the first failed create or update.
	AbortOnWriteFailure bool

	// Now is the clock used for inspections and report timestamps.
	Now func() time.Time
}

// DefaultOptions returns the options of a normal pass.
func DefaultOptions() Options {
	return Options{AbortOnWriteFailure: true, Now: time.Now}
}

// RunReport summarizes one sync pass.
type RunReport struct {
	StartedAt      time.Time       `json:"started_at"`
	FinishedAt     time.Time       `json:"finished_at"`
	SourceCount    int             `json:"source_count"`
	PublishedCount int             `json:"published_count"`
	Attention      int             `json:"attention"`
	Skipped        int             `json:"skipped"`
	Created        int             `json:"created"`
	Updated        int             `json:"updated"`
	Retired        int             `json:"retired"`
	Ignored        int             `json:"ignored"`
	Noop           int             `json:"noop"`
	Matched        int             `json:"matched"`
	Failed         int             `json:"failed"`
	Ambiguous      int             `json:"ambiguous"`
	Aborted        bool            `json:"aborted"`
	DryRun         bool            `json:"dry_run"`
	SnapshotSaved  bool            `json:"snapshot_saved"`
	Images         AttachmentStats `json:"images"`
	Documents      AttachmentStats `json:"documents"`
	Outcomes       []Outcome       `json:"outcomes"`
}

// Duration returns how long the pass took.
func (r *RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

func (r *RunReport) count(out Outcome) {
	r.Outcomes = append(r.Outcomes, out)
	if out.Matched {
		r.Matched++
	}
	r.Images.Add(out.Images)
	r.Documents.Add(out.Documents)
	if out.Failed() {
		r.Failed++
		return
	}
	switch out.Decision {
	case DecisionCreate:
		r.Created++
	case DecisionUpdate:
		r.Updated++
	case DecisionRetire:
		r.Retired++
	case DecisionIgnore:
		r.Ignored++
	case DecisionNoop:
		r.Noop++
	}
}

// Driver runs sync passes between the CRM and the publishing site.
type Driver struct {
	source    SourceDirectory
	store     PublishingStore
	snapshots SnapshotStore
	records   *RecordReconciler
	logger    *zap.Logger
	opts      Options
}

// NewDriver creates a Driver.
func NewDriver(source SourceDirectory, store PublishingStore, snapshots SnapshotStore, presenter Presenter, logger *zap.Logger, opts Options) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Driver{
		source:    source,
		store:     store,
		snapshots: snapshots,
		records:   NewRecordReconciler(source, store, presenter, logger, opts.Now),
		logger:    logger,
		opts:      opts,
	}
}

// inputs is everything a pass reads before deciding anything.
type inputs struct {
	snapshot  Snapshot
	sources   []SourceRecord
	published []PublishedRecord
}

// load reads the snapshot and both record lists concurrently.
func (d *Driver) load(ctx context.Context, withSnapshot bool) (*inputs, error) {
	in := &inputs{}
	g, gctx := errgroup.WithContext(ctx)

	if withSnapshot {
		g.Go(func() error {
			snap, err := d.snapshots.Load(gctx)
			if err != nil {
				return fmt.Errorf("failed to load snapshot: %w", err)
			}
			in.snapshot = snap
			return nil
		})
	}
	g.Go(func() error {
		records, err := d.source.ListRecords(gctx)
		if err != nil {
			return fmt.Errorf("failed to list CRM records: %w", err)
		}
		in.sources = records
		return nil
	})
	g.Go(func() error {
		records, err := d.store.ListRecords(gctx)
		if err != nil {
			return fmt.Errorf("failed to list published records: %w", err)
		}
		in.published = records
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return in, nil
}

// indexLinked maps CRM ids to the published records that carry them.
func (d *Driver) indexLinked(published []PublishedRecord) map[string]*PublishedRecord {
	linked := make(map[string]*PublishedRecord, len(published))
	for i := range published {
		rec := &published[i]
		if !rec.Linked() {
			continue
		}
		if prev, ok := linked[rec.SourceID]; ok {
			d.logger.Warn("CRM id linked to more than one published record, keeping the first",
				zap.String("source_id", rec.SourceID),
				zap.Int("kept", prev.ID),
				zap.Int("ignored", rec.ID))
			continue
		}
		linked[rec.SourceID] = rec
	}
	return linked
}

// Run performs one sync pass. On a read failure nothing is written and the
// report is nil. On an aborted pass the partial report is returned with the error.
func (d *Driver) Run(ctx context.Context) (*RunReport, error) {
	report := &RunReport{StartedAt: d.opts.Now(), DryRun: d.opts.DryRun}

	in, err := d.load(ctx, true)
	if err != nil {
		return nil, err
	}
	report.SourceCount = len(in.sources)
	report.PublishedCount = len(in.published)

	if in.snapshot.Empty() {
		d.logger.Info("No previous snapshot, every CRM record needs attention")
	}

	linked := d.indexLinked(in.published)
	unlinked := newPool(in.published)
	failed := make(map[string]struct{})

	for _, src := range in.sources {
		if err := ctx.Err(); err != nil {
			report.Aborted = true
			report.FinishedAt = d.opts.Now()
			return report, err
		}

		if !in.snapshot.NeedsAttention(src) {
			report.Skipped++
			continue
		}
		report.Attention++

		target, matched := linked[src.ID], false
		if target == nil {
			target, matched = d.match(src, unlinked, report)
		}

		decision := Decide(src, target)
		log := d.logger.With(
			zap.String("source_id", src.ID),
			zap.String("status", string(src.Status)),
			zap.String("decision", string(decision)))

		if d.opts.DryRun {
			out := Outcome{SourceID: src.ID, Decision: decision, Matched: matched}
			if target != nil {
				out.PublishedID = target.ID
			}
			log.Info("Planned")
			report.count(out)
			continue
		}

		out := d.records.Execute(ctx, decision, src, target)
		out.Matched = matched
		report.count(out)

		if !out.Failed() {
			log.Debug("Reconciled", zap.Int("published_id", out.PublishedID))
			continue
		}

		failed[src.ID] = struct{}{}
		if errors.Is(out.Err, ErrRetireFailed) {
			log.Error("Failed to retire published record", zap.Error(out.Err))
			continue
		}
		log.Error("Failed to write published record", zap.Error(out.Err))
		if d.opts.AbortOnWriteFailure {
			report.Aborted = true
			report.FinishedAt = d.opts.Now()
			return report, fmt.Errorf("sync aborted at CRM record %s: %w", src.ID, out.Err)
		}
	}

	if !d.opts.DryRun {
		if err := d.snapshots.Save(ctx, nextSnapshot(in.snapshot, in.sources, failed)); err != nil {
			report.FinishedAt = d.opts.Now()
			return report, fmt.Errorf("failed to save snapshot: %w", err)
		}
		report.SnapshotSaved = true
	}

	report.FinishedAt = d.opts.Now()
	d.logger.Info("Sync pass finished",
		zap.Int("crm_records", report.SourceCount),
		zap.Int("published_records", report.PublishedCount),
		zap.Int("attention", report.Attention),
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("retired", report.Retired),
		zap.Int("failed", report.Failed),
		zap.Int("ambiguous", report.Ambiguous),
		zap.Bool("dry_run", report.DryRun),
		zap.Duration("duration", report.Duration()))

	return report, nil
}

// match looks src up in the unlinked pool and claims the result.
func (d *Driver) match(src SourceRecord, unlinked *pool, report *RunReport) (*PublishedRecord, bool) {
	m := Match(src, unlinked.records())
	if m.Ambiguous() {
		report.Ambiguous++
		d.logger.Warn("CRM record matches more than one published record, taking the first",
			zap.String("source_id", src.ID),
			zap.Ints("candidates", m.CandidateIDs()))
	}
	if !m.Found() {
		return nil, false
	}
	unlinked.claim(m.Record.ID)
	d.logger.Info("Matched CRM record to unlinked published record",
		zap.String("source_id", src.ID),
		zap.Int("published_id", m.Record.ID))
	return m.Record, true
}

// nextSnapshot is the current CRM list, except failed records keep their previous
// entry (or are left out when new) so the next pass retries them.
func nextSnapshot(prev Snapshot, sources []SourceRecord, failed map[string]struct{}) Snapshot {
	entries := make([]SnapshotEntry, 0, len(sources))
	for _, src := range sources {
		if _, ok := failed[src.ID]; ok {
			if entry, ok := prev.Lookup(src.ID); ok {
				entries = append(entries, entry)
			}
			continue
		}
		entries = append(entries, EntryOf(src))
	}
	return NewSnapshot(entries)
}
