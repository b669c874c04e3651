package cmd

import (
	"fmt"
	"log"

	"listing-sync/core/config"
	"listing-sync/core/database"
	"listing-sync/core/eagle"
	"listing-sync/core/logger"
	"listing-sync/core/reconcile"
	"listing-sync/core/storage"
	"listing-sync/core/wordpress"
	"listing-sync/feature/listings"
	"listing-sync/feature/listings/snapshot"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// bootstrap loads configuration and the logger, exiting on failure.
func bootstrap() (*config.Config, *zap.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	zap.ReplaceGlobals(logg)
	return cfg, logg
}

// buildDeps wires the CRM, the site, the snapshot store and the run history.
// reg may be nil, in which case no metrics are recorded.
func buildDeps(cfg *config.Config, logg *zap.Logger, reg prometheus.Registerer) (listings.Deps, error) {
	agentMap, err := wordpress.ParseAgentMap(cfg.Site.AgentMap)
	if err != nil {
		return listings.Deps{}, err
	}

	crm := eagle.NewPerPass(eagle.New(cfg.CRM, logg.Named("crm")))
	site := wordpress.New(cfg.Site, logg.Named("site"))

	// The database keeps run history. It is required only when it also holds the snapshot.
	var db *gorm.DB
	if conn, err := database.Connect(cfg.Database); err != nil {
		if cfg.Sync.SnapshotBackend == reconcile.SnapshotBackendDatabase {
			return listings.Deps{}, fmt.Errorf("snapshot database: %w", err)
		}
		logg.Warn("Optional database connection failed, run history stays in memory", zap.Error(err))
	} else {
		db = conn
		logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver))
	}

	deps := listings.Deps{
		Source:    crm,
		Store:     site,
		Presenter: listings.NewPresenter(agentMap, crm, site, logg.Named("presenter")),
		Options:   cfg.Sync.Options(),
		Logger:    logg,
		DB:        db,
	}
	if reg != nil {
		deps.Metrics = listings.NewMetrics(reg)
	}

	switch cfg.Sync.SnapshotBackend {
	case reconcile.SnapshotBackendStorage:
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return listings.Deps{}, fmt.Errorf("failed to create storage client: %w", err)
		}
		deps.Snapshots = snapshot.NewObjectStore(client, cfg.Storage.Bucket, cfg.Sync.SnapshotObject, cfg.Storage.Region)
		logg.Info("Snapshot kept in object storage",
			zap.String("bucket", cfg.Storage.Bucket),
			zap.String("object", cfg.Sync.SnapshotObject),
		)
	default:
		store := snapshot.NewDBStore(db)
		if err := store.Migrate(); err != nil {
			return listings.Deps{}, fmt.Errorf("failed to migrate snapshot table: %w", err)
		}
		deps.Snapshots = store
		deps.SnapshotTable = true
	}

	return deps, nil
}
