// Package transport provides the HTTP client shared by the CRM and site adapters.
//
// A Client applies an Authenticator to every request, throttles outgoing calls
// with a token bucket, and turns non-2xx responses into *APIError values.
//
// # Usage
//
//	auth := &transport.BasicAuth{User: "sync", Password: "secret"}
//	client := transport.New(transport.Options{Auth: auth, RequestsPerSecond: 5})
//
//	var out []map[string]any
//	err := client.JSON(ctx, http.MethodGet, "https://example.com/wp-json/wp/v2/property", nil, &out)
package transport
