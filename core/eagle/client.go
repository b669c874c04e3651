package eagle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"listing-sync/core/reconcile"
	"listing-sync/core/transport"

	"go.uber.org/zap"
)

// ContentType is the JSON:API media type the CRM expects.
const ContentType = "application/vnd.api+json"

// ErrAuthentication is returned when the CRM refuses the configured login.
var ErrAuthentication = errors.New("eagle authentication failed")

// Client reads listings from the Eagle CRM.
type Client struct {
	cfg    Config
	base   string
	http   *transport.Client
	token  *transport.TokenAuth
	logger *zap.Logger

	mu      sync.RWMutex
	related map[string]map[string]string
}

// New creates a CRM client. Call Authenticate before any other method.
func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 60
	}
	token := &transport.TokenAuth{}
	return &Client{
		cfg:   cfg,
		base:  strings.TrimRight(cfg.BaseURL, "/"),
		token: token,
		http: transport.New(transport.Options{
			Auth:              token,
			Timeout:           time.Duration(cfg.TimeoutSeconds) * time.Second,
			RequestsPerSecond: cfg.RequestsPerSecond,
			ContentType:       ContentType,
		}),
		logger:  logger,
		related: make(map[string]map[string]string),
	}
}

type sessionRequest struct {
	Data struct {
		Type       string `json:"type"`
		Attributes struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		} `json:"attributes"`
	} `json:"data"`
}

// Authenticate obtains a session token for the configured login.
func (c *Client) Authenticate(ctx context.Context) error {
	var body sessionRequest
	body.Data.Type = "sessions"
	body.Data.Attributes.Email = c.cfg.Email
	body.Data.Attributes.Password = c.cfg.Password

	var doc singleDocument
	err := c.http.JSON(ctx, http.MethodPost, c.base+"/sessions", body, &doc)
	if err != nil {
		var apiErr *transport.APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusUnprocessableEntity) {
			return fmt.Errorf("%w: %w", ErrAuthentication, err)
		}
		return fmt.Errorf("failed to create CRM session: %w", err)
	}
	if msg := firstError(doc.Errors); msg != "" {
		return fmt.Errorf("%w: %s", ErrAuthentication, msg)
	}
	if doc.Data == nil || doc.Data.attr("token") == "" {
		return fmt.Errorf("%w: no token in session response", ErrAuthentication)
	}

	c.token.Set(doc.Data.attr("token"))
	c.logger.Debug("CRM session created")
	return nil
}

// ListRecords returns every property, paging until a short page.
func (c *Client) ListRecords(ctx context.Context) ([]reconcile.SourceRecord, error) {
	var records []reconcile.SourceRecord
	for offset := 0; ; offset += c.cfg.PageSize {
		q := url.Values{}
		q.Set("page[limit]", strconv.Itoa(c.cfg.PageSize))
		q.Set("page[offset]", strconv.Itoa(offset))

		var doc document
		if err := c.get(ctx, c.base+"/properties?"+q.Encode(), &doc); err != nil {
			return nil, fmt.Errorf("failed to list properties at offset %d: %w", offset, err)
		}

		for _, res := range doc.Data {
			c.rememberLinks(res)
			records = append(records, res.toRecord())
		}

		if len(doc.Data) < c.cfg.PageSize {
			c.logger.Debug("Received CRM records", zap.Int("count", len(records)))
			return records, nil
		}
	}
}

// SubResources returns one of a property's related collections in CRM order.
func (c *Client) SubResources(ctx context.Context, record reconcile.SourceRecord, kind reconcile.SubResourceKind) ([]reconcile.SubResource, error) {
	link := c.relatedLink(record.ID, kind)
	if kind == reconcile.KindImages {
		link = withQuery(link, "sort", "position")
	}

	var doc document
	if err := c.get(ctx, link, &doc); err != nil {
		return nil, fmt.Errorf("failed to list %s of property %s: %w", kind, record.ID, err)
	}

	items := make([]reconcile.SubResource, 0, len(doc.Data))
	for _, res := range doc.Data {
		items = append(items, res.toSubResource())
	}
	return items, nil
}

// Agents returns the CRM's agent roster.
func (c *Client) Agents(ctx context.Context) ([]reconcile.Agent, error) {
	var doc document
	if err := c.get(ctx, c.base+"/agents", &doc); err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	agents := make([]reconcile.Agent, 0, len(doc.Data))
	for _, res := range doc.Data {
		agents = append(agents, res.toAgent())
	}
	return agents, nil
}

func (c *Client) get(ctx context.Context, link string, doc *document) error {
	if err := c.http.JSON(ctx, http.MethodGet, link, nil, doc); err != nil {
		return err
	}
	if msg := firstError(doc.Errors); msg != "" {
		return fmt.Errorf("CRM error: %s", msg)
	}
	return nil
}

func (c *Client) rememberLinks(res resource) {
	if len(res.Relationships) == 0 {
		return
	}
	links := make(map[string]string, len(res.Relationships))
	for name, rel := range res.Relationships {
		if rel.Links.Related != "" {
			links[name] = rel.Links.Related
		}
	}
	c.mu.Lock()
	c.related[res.ID] = links
	c.mu.Unlock()
}

// relatedLink prefers the link the CRM advertised and falls back to the conventional path.
func (c *Client) relatedLink(id string, kind reconcile.SubResourceKind) string {
	c.mu.RLock()
	link := c.related[id][string(kind)]
	c.mu.RUnlock()
	if link != "" {
		return link
	}
	return fmt.Sprintf("%s/properties/%s/%s", c.base, url.PathEscape(id), kind)
}

func withQuery(link, key, value string) string {
	u, err := url.Parse(link)
	if err != nil {
		return link
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}
