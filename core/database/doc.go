// Package database handles database connections and schema inspection.
//
// It wraps GORM to open either MySQL (shared deployments) or SQLite (single
// host, tests) from the application's configuration.
//
// # Schema Inspection
//
// GetTableColumns lists the columns of a table on either dialect, and
// MissingColumns compares a table against the columns a feature expects. The
// listings feature uses it to report a snapshot or run-history table that an
// operator created by hand with the wrong shape.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return err
//	}
//
//	missing, err := database.MissingColumns(db, "sync_snapshots", []string{"crm_id", "updated_at"})
package database
