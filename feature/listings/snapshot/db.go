package snapshot

import (
	"context"
	"fmt"

	"listing-sync/core/reconcile"
	"listing-sync/feature/listings/models"

	"gorm.io/gorm"
)

const batchSize = 500

// DBStore keeps the snapshot in the sync_snapshots table.
type DBStore struct {
	db *gorm.DB
}

// NewDBStore creates a database-backed snapshot store.
func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db}
}

// Migrate creates or updates the snapshot table.
func (s *DBStore) Migrate() error {
	return s.db.AutoMigrate(&models.SnapshotRow{})
}

// Load returns the stored snapshot in CRM order. No rows means an empty snapshot.
func (s *DBStore) Load(ctx context.Context) (reconcile.Snapshot, error) {
	var rows []models.SnapshotRow
	if err := s.db.WithContext(ctx).Order("position").Find(&rows).Error; err != nil {
		return reconcile.Snapshot{}, fmt.Errorf("failed to read snapshot rows: %w", err)
	}
	entries := make([]reconcile.SnapshotEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.ToEntry())
	}
	return reconcile.NewSnapshot(entries), nil
}

// Save replaces the stored snapshot in one transaction.
func (s *DBStore) Save(ctx context.Context, snap reconcile.Snapshot) error {
	rows := make([]models.SnapshotRow, 0, len(snap.Entries))
	seen := make(map[string]bool, len(snap.Entries))
	for _, e := range snap.Entries {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		rows = append(rows, models.SnapshotRowOf(e, len(rows)))
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.SnapshotRow{}).Error; err != nil {
			return fmt.Errorf("failed to clear snapshot rows: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, batchSize).Error; err != nil {
			return fmt.Errorf("failed to write snapshot rows: %w", err)
		}
		return nil
	})
}
