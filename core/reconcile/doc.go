// Package reconcile keeps listing posts on the publishing site in step with the
// listing records held in the CRM.
//
// The CRM is the source of truth and is only read. The site is written through
// the PublishingStore port. A sync pass is run by the Driver:
//
//  1. Load the previous snapshot and both record lists.
//  2. Skip CRM records that did not change since the snapshot.
//  3. Find the linked published record, or match one from the unlinked pool.
//  4. Decide create, update, retire, noop or ignore, and execute it.
//  5. Save the new snapshot, keeping the old entry for records that failed.
//
// # Matching
//
// An unlinked published record is the same listing as a CRM record when its
// normalized title equals the record's normalized address and one normalized
// description contains the other. The first match in store order wins; a
// multi-match is logged and counted.
//
// # Attachments
//
// Images and documents are tracked as ordered link tables of (CRM sub-resource id,
// media id) pairs. Updates carry unchanged pairs forward, upload new items and
// delete media for items removed upstream. A failed deletion keeps its pair so
// the next pass retries it.
//
// # Usage Example
//
//	driver := reconcile.NewDriver(crm, site, snapshots, presenter, logger, reconcile.DefaultOptions())
//	report, err := driver.Run(ctx)
package reconcile
