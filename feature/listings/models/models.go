package models

import (
	"time"

	"listing-sync/core/reconcile"
)

// SnapshotRow is one CRM record remembered between sync passes.
type SnapshotRow struct {
	CRMID     string `gorm:"column:crm_id;type:varchar(64);primaryKey"`
	Position  int    `gorm:"column:position;not null;index"`
	UpdatedAt string `gorm:"column:crm_updated;type:varchar(64);not null"`
	Status    string `gorm:"column:status;type:varchar(32)"`
}

// TableName overrides the table name.
func (SnapshotRow) TableName() string {
	return "sync_snapshots"
}

// SnapshotColumns are the columns the snapshot store reads and writes.
var SnapshotColumns = []string{"crm_id", "position", "crm_updated", "status"}

// ToEntry converts the row to a snapshot entry.
func (r SnapshotRow) ToEntry() reconcile.SnapshotEntry {
	return reconcile.SnapshotEntry{ID: r.CRMID, UpdatedAt: r.UpdatedAt, Status: reconcile.Status(r.Status)}
}

// SnapshotRowOf converts a snapshot entry to a row at the given position.
func SnapshotRowOf(e reconcile.SnapshotEntry, position int) SnapshotRow {
	return SnapshotRow{CRMID: e.ID, Position: position, UpdatedAt: e.UpdatedAt, Status: string(e.Status)}
}

// Triggers of a sync run.
const (
	TriggerSchedule = "schedule"
	TriggerHTTP     = "http"
	TriggerCLI      = "cli"
)

// SyncRun is the history entry of one sync pass.
type SyncRun struct {
	ID            string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Trigger       string    `gorm:"column:trigger_source;type:varchar(16);not null" json:"trigger"`
	StartedAt     time.Time `gorm:"column:started_at;not null;index" json:"started_at"`
	FinishedAt    time.Time `gorm:"column:finished_at" json:"finished_at"`
	DryRun        bool      `gorm:"column:dry_run" json:"dry_run"`
	Aborted       bool      `gorm:"column:aborted" json:"aborted"`
	SnapshotSaved bool      `gorm:"column:snapshot_saved" json:"snapshot_saved"`
	SourceCount   int       `gorm:"column:source_count" json:"source_count"`
	Attention     int       `gorm:"column:attention" json:"attention"`
	Created       int       `gorm:"column:created" json:"created"`
	Updated       int       `gorm:"column:updated" json:"updated"`
	Retired       int       `gorm:"column:retired" json:"retired"`
	Failed        int       `gorm:"column:failed" json:"failed"`
	Ambiguous     int       `gorm:"column:ambiguous" json:"ambiguous"`
	Error         string    `gorm:"column:error;type:text" json:"error,omitempty"`

	Report *reconcile.RunReport `gorm:"-" json:"report,omitempty"`
}

// TableName overrides the table name.
func (SyncRun) TableName() string {
	return "sync_runs"
}

// RunColumns are the columns the run history reads and writes.
var RunColumns = []string{
	"id", "trigger_source", "started_at", "finished_at", "dry_run", "aborted", "snapshot_saved",
	"source_count", "attention", "created", "updated", "retired", "failed", "ambiguous", "error",
}

// NewSyncRun summarizes a pass. report may be nil when the pass failed before deciding anything.
func NewSyncRun(id, trigger string, startedAt time.Time, report *reconcile.RunReport, err error) SyncRun {
	run := SyncRun{ID: id, Trigger: trigger, StartedAt: startedAt, FinishedAt: startedAt, Report: report}
	if err != nil {
		run.Error = err.Error()
	}
	if report == nil {
		return run
	}
	run.StartedAt = report.StartedAt
	run.FinishedAt = report.FinishedAt
	run.DryRun = report.DryRun
	run.Aborted = report.Aborted
	run.SnapshotSaved = report.SnapshotSaved
	run.SourceCount = report.SourceCount
	run.Attention = report.Attention
	run.Created = report.Created
	run.Updated = report.Updated
	run.Retired = report.Retired
	run.Failed = report.Failed
	run.Ambiguous = report.Ambiguous
	return run
}

// Succeeded reports whether the pass completed without error.
func (r SyncRun) Succeeded() bool {
	return r.Error == ""
}
