// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation protecting the sync and audit routes.
//   - rayid: a request id (RayID) for every incoming request, stored in the
//     context under "ray_id" and echoed in the X-Ray-ID response header.
//
// RayID is registered first so every log line of a request carries it.
package middleware
