// Package eagle is the read-only client for the Eagle CRM JSON:API.
//
// Authenticate exchanges the configured login for a session token, which is then
// sent bare in the Authorization header. Properties are listed with offset
// pagination (page[limit], page[offset]) until a short page comes back. Each
// property's images, documents, inspections and floor plans are read from its
// relationship links.
//
// The Client implements reconcile.SourceDirectory.
//
// # Usage
//
//	crm := eagle.New(cfg.CRM, logger)
//	if err := crm.Authenticate(ctx); err != nil {
//	    return err
//	}
//	records, err := crm.ListRecords(ctx)
package eagle
