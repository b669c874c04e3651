// Package models defines the database tables of the listings feature: the
// snapshot of CRM records seen by the last pass and the sync run history.
package models
