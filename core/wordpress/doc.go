// Package wordpress is the client for the publishing site's WordPress REST API.
//
// Listings are "property" posts. The CRM link, the last synced CRM timestamp and
// the attachment link tables are custom fields exposed on the post. The site
// stores each link table as two parallel arrays (CRM ids and media ids); the
// client converts them to and from reconcile.Links.
//
// The Client implements reconcile.PublishingStore.
//
// # Endpoints
//
//   - GET/POST /wp-json/wp/v2/property, POST/DELETE /wp-json/wp/v2/property/{id}
//   - DELETE /wp-json/wp/v2/property-terms/{id}
//   - POST /wp-json/wp/v2/media, POST/DELETE /wp-json/wp/v2/media/{id}
//   - GET /wp-json/wp/v2/houzez_agent
package wordpress
