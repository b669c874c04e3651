package reconcile

import "time"

// Snapshot backends.
const (
	SnapshotBackendDatabase = "database"
	SnapshotBackendStorage  = "storage"
)

// Config holds configuration for sync passes.
type Config struct {
	// DryRun decides every record without writing anything.
	DryRun bool `mapstructure:"dry_run" default:"false"`
	// AbortOnWriteFailure stops a pass at the first failed create or update.
	AbortOnWriteFailure bool `mapstructure:"abort_on_write_failure" default:"true"`
	// IntervalMinutes is the period of the scheduled pass in server mode. Zero disables it.
	IntervalMinutes int `mapstructure:"interval_minutes" default:"15"`
	// SnapshotBackend selects where the snapshot lives (database, storage).
	SnapshotBackend string `mapstructure:"snapshot_backend" default:"database"`
	// SnapshotObject is the object name used by the storage backend.
	SnapshotObject string `mapstructure:"snapshot_object" default:"listing-sync/snapshot.json"`
}

// Options converts the configuration into pass options.
func (c Config) Options() Options {
	opts := DefaultOptions()
	opts.DryRun = c.DryRun
	opts.AbortOnWriteFailure = c.AbortOnWriteFailure
	return opts
}

// Interval returns the scheduled pass period.
func (c Config) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// IsValidSnapshotBackend checks if the configured snapshot backend is known.
func (c Config) IsValidSnapshotBackend() bool {
	switch c.SnapshotBackend {
	case SnapshotBackendDatabase, SnapshotBackendStorage:
		return true
	default:
		return false
	}
}
