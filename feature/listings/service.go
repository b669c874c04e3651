package listings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"listing-sync/core/database"
	"listing-sync/core/logger"
	"listing-sync/core/reconcile"
	"listing-sync/feature/listings/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// recentRuns is how many runs are kept in memory.
const recentRuns = 50

// ErrRunNotFound is returned for an unknown run id.
var ErrRunNotFound = errors.New("sync run not found")

// Deps are the collaborators of the listings service.
type Deps struct {
	Source    reconcile.SourceDirectory
	Store     reconcile.PublishingStore
	Snapshots reconcile.SnapshotStore
	Presenter reconcile.Presenter
	Options   reconcile.Options
	Logger    *zap.Logger
	Metrics   *Metrics

	// DB stores the run history. Nil keeps it in memory only.
	DB *gorm.DB
	// SnapshotTable includes the snapshot table in schema checks.
	SnapshotTable bool
}

// Service runs sync passes and keeps their history.
type Service struct {
	deps   Deps
	logger *zap.Logger
	group  singleflight.Group

	mu     sync.Mutex
	recent []models.SyncRun
}

// NewService creates a listings service.
func NewService(deps Deps) *Service {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Options.Now == nil {
		deps.Options.Now = time.Now
	}
	return &Service{deps: deps, logger: deps.Logger}
}

// Migrate creates the run history table when a database is configured.
func (s *Service) Migrate() error {
	if s.deps.DB == nil {
		return nil
	}
	return s.deps.DB.AutoMigrate(&models.SyncRun{})
}

func (s *Service) driver(log *zap.Logger, dryRun bool) *reconcile.Driver {
	opts := s.deps.Options
	opts.DryRun = opts.DryRun || dryRun
	return reconcile.NewDriver(s.deps.Source, s.deps.Store, s.deps.Snapshots, s.deps.Presenter, log, opts)
}

// Sync runs one pass. Concurrent calls of the same mode share the pass already
// running and all receive its result. A dry run may overlap a real pass.
func (s *Service) Sync(ctx context.Context, trigger string, dryRun bool) (models.SyncRun, error) {
	key := "sync"
	if dryRun || s.deps.Options.DryRun {
		key = "dry-run"
	}
	v, err, shared := s.group.Do(key, func() (any, error) {
		return s.sync(ctx, trigger, dryRun)
	})
	if shared {
		s.logger.Debug("Joined a sync pass already running", zap.String("trigger", trigger))
	}
	run, _ := v.(models.SyncRun)
	return run, err
}

func (s *Service) sync(ctx context.Context, trigger string, dryRun bool) (models.SyncRun, error) {
	id := uuid.NewString()
	started := s.deps.Options.Now()
	log := logger.WithRun(s.logger, id, trigger)
	log.Info("Sync pass started", zap.Bool("dry_run", dryRun || s.deps.Options.DryRun))

	report, err := s.driver(log, dryRun).Run(ctx)
	if s.deps.Metrics != nil {
		s.deps.Metrics.Observe(report, err)
	}

	run := models.NewSyncRun(id, trigger, started, report, err)
	s.remember(ctx, log, run)

	if err != nil {
		log.Error("Sync pass failed", zap.Error(err))
		return run, err
	}
	return run, nil
}

func (s *Service) remember(ctx context.Context, log *zap.Logger, run models.SyncRun) {
	s.mu.Lock()
	s.recent = append([]models.SyncRun{run}, s.recent...)
	if len(s.recent) > recentRuns {
		s.recent = s.recent[:recentRuns]
	}
	s.mu.Unlock()

	if s.deps.DB == nil {
		return
	}
	if err := s.deps.DB.WithContext(ctx).Create(&run).Error; err != nil {
		log.Warn("Failed to store sync run", zap.Error(err))
	}
}

// Runs returns the most recent runs, newest first.
func (s *Service) Runs(ctx context.Context, limit int) ([]models.SyncRun, error) {
	if limit <= 0 || limit > recentRuns {
		limit = recentRuns
	}
	if s.deps.DB != nil {
		var runs []models.SyncRun
		err := s.deps.DB.WithContext(ctx).Order("started_at DESC").Limit(limit).Find(&runs).Error
		if err != nil {
			return nil, fmt.Errorf("failed to read sync runs: %w", err)
		}
		return runs, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n := min(limit, len(s.recent))
	runs := make([]models.SyncRun, n)
	for i := range runs {
		runs[i] = s.recent[i]
		runs[i].Report = nil
	}
	return runs, nil
}

// Run returns one run. Runs still in memory include the full report.
func (s *Service) Run(ctx context.Context, id string) (models.SyncRun, error) {
	s.mu.Lock()
	for _, run := range s.recent {
		if run.ID == id {
			s.mu.Unlock()
			return run, nil
		}
	}
	s.mu.Unlock()

	if s.deps.DB == nil {
		return models.SyncRun{}, ErrRunNotFound
	}
	var run models.SyncRun
	err := s.deps.DB.WithContext(ctx).Where("id = ?", id).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.SyncRun{}, ErrRunNotFound
	}
	if err != nil {
		return models.SyncRun{}, fmt.Errorf("failed to read sync run %s: %w", id, err)
	}
	return run, nil
}

// Audit reports how unlinked CRM records would match site records.
func (s *Service) Audit(ctx context.Context) (*reconcile.AuditReport, error) {
	return s.driver(s.logger, true).Audit(ctx)
}

// CheckSchema returns the missing columns per table. Tables with every
// column present are left out.
func (s *Service) CheckSchema() (map[string][]string, error) {
	report := map[string][]string{}
	if s.deps.DB == nil {
		return report, nil
	}

	tables := map[string][]string{models.SyncRun{}.TableName(): models.RunColumns}
	if s.deps.SnapshotTable {
		tables[models.SnapshotRow{}.TableName()] = models.SnapshotColumns
	}
	for table, columns := range tables {
		missing, err := database.MissingColumns(s.deps.DB, table, columns)
		if err != nil {
			return nil, err
		}
		if len(missing) > 0 {
			report[table] = missing
		}
	}
	return report, nil
}
