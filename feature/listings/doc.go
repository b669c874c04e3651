// Package listings exposes listing sync as a feature of the HTTP server.
//
// The Service wraps reconcile.Driver: it runs passes (coalescing concurrent
// triggers), records each run in the sync_runs table and in memory, feeds the
// Prometheus collectors and runs the read-only matching audit. The Presenter
// maps a CRM record to the site's property fields, resolving the listing agent
// through the configured agent map or, failing that, by name.
//
// # Routes
//
//   - POST /listings/sync: run a pass (dry_run=true to only plan)
//   - GET /listings/runs: recent runs
//   - GET /listings/runs/:id: one run with its outcomes
//   - GET /listings/audit: matching audit
//   - GET /listings/schema: missing columns of the sync tables
package listings
