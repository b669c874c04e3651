package transport

import (
	"net/http"
	"sync"
)

// Authenticator applies authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request)
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request) {}

// BasicAuth implements HTTP basic authentication.
type BasicAuth struct {
	User     string
	Password string
}

// Apply implements the Authenticator interface for BasicAuth.
func (a *BasicAuth) Apply(req *http.Request) {
	req.SetBasicAuth(a.User, a.Password)
}

// TokenAuth sends a session token obtained at runtime.
// An empty Scheme sends the bare token, as the CRM expects.
type TokenAuth struct {
	Header string
	Scheme string

	mu    sync.RWMutex
	token string
}

// Set replaces the token.
func (a *TokenAuth) Set(token string) {
	a.mu.Lock()
	a.token = token
	a.mu.Unlock()
}

// Token returns the current token.
func (a *TokenAuth) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

// Apply implements the Authenticator interface for TokenAuth.
func (a *TokenAuth) Apply(req *http.Request) {
	token := a.Token()
	if token == "" {
		return
	}
	header := a.Header
	if header == "" {
		header = "Authorization"
	}
	if a.Scheme != "" {
		token = a.Scheme + " " + token
	}
	req.Header.Set(header, token)
}
