// Package snapshot implements the two snapshot stores of a sync pass: a table
// in the configured database and a JSON object in the storage bucket.
//
// Both keep entries in CRM order and treat "never saved" as an empty snapshot,
// which makes the next pass look at every record.
package snapshot
