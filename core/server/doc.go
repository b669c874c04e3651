// Package server holds the HTTP server configuration.
//
// The start command owns the Fiber app; this package only defines the port,
// the API key protecting the routes and the server timeouts.
package server
