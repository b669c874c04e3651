package wordpress

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"listing-sync/core/reconcile"
	"listing-sync/core/transport"
	"listing-sync/core/utils"

	"go.uber.org/zap"
)

const apiPrefix = "/wp-json/wp/v2"

// Client reads and writes property posts and media on the publishing site.
type Client struct {
	cfg    Config
	api    string
	http   *transport.Client
	logger *zap.Logger
}

// New creates a site client.
func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	return &Client{
		cfg: cfg,
		api: strings.TrimRight(cfg.BaseURL, "/") + apiPrefix,
		http: transport.New(transport.Options{
			Auth:              &transport.BasicAuth{User: cfg.User, Password: cfg.Password},
			Timeout:           time.Duration(cfg.TimeoutSeconds) * time.Second,
			RequestsPerSecond: cfg.RequestsPerSecond,
			UserAgent:         cfg.UserAgent,
		}),
		logger: logger,
	}
}

// ListRecords returns every property post, paging until a short page.
func (c *Client) ListRecords(ctx context.Context) ([]reconcile.PublishedRecord, error) {
	var records []reconcile.PublishedRecord
	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("per_page", strconv.Itoa(c.cfg.PageSize))
		q.Set("page", strconv.Itoa(page))

		var posts []post
		err := c.http.JSON(ctx, http.MethodGet, c.api+"/property?"+q.Encode(), nil, &posts)
		if err != nil {
			// WordPress answers 400 for a page past the end.
			if page > 1 && transport.StatusCode(err) == http.StatusBadRequest {
				break
			}
			return nil, fmt.Errorf("failed to list properties on page %d: %w", page, err)
		}

		for _, p := range posts {
			records = append(records, p.toRecord(c.logger))
		}
		if len(posts) < c.cfg.PageSize {
			break
		}
	}
	c.logger.Debug("Received site records", zap.Int("count", len(records)))
	return records, nil
}

type writeResponse struct {
	ID   int    `json:"id"`
	Link string `json:"link"`
}

// Create writes a new property post.
func (c *Client) Create(ctx context.Context, listing reconcile.Listing) (reconcile.WriteResult, error) {
	return c.write(ctx, c.api+"/property", listing)
}

// Update overwrites an existing property post.
func (c *Client) Update(ctx context.Context, id int, listing reconcile.Listing) (reconcile.WriteResult, error) {
	return c.write(ctx, fmt.Sprintf("%s/property/%d", c.api, id), listing)
}

func (c *Client) write(ctx context.Context, endpoint string, listing reconcile.Listing) (reconcile.WriteResult, error) {
	var resp writeResponse
	if err := c.http.JSON(ctx, http.MethodPost, endpoint, c.payload(listing), &resp); err != nil {
		return reconcile.WriteResult{}, err
	}
	if resp.ID == 0 {
		return reconcile.WriteResult{}, fmt.Errorf("POST %s: response has no id", endpoint)
	}
	return reconcile.WriteResult{ID: resp.ID, Link: resp.Link}, nil
}

// ClearTerms removes every taxonomy term from a property post.
func (c *Client) ClearTerms(ctx context.Context, id int) error {
	return c.http.JSON(ctx, http.MethodDelete, fmt.Sprintf("%s/property-terms/%d", c.api, id), nil, nil)
}

type deleteResponse struct {
	Deleted any    `json:"deleted"`
	Status  string `json:"status"`
}

func (d deleteResponse) ok() bool {
	return utils.ToBool(d.Deleted) || d.Status == "trash"
}

// Retire moves a property post to the trash.
func (c *Client) Retire(ctx context.Context, id int) (bool, error) {
	var resp deleteResponse
	err := c.http.JSON(ctx, http.MethodDelete, fmt.Sprintf("%s/property/%d", c.api, id), map[string]bool{"force": false}, &resp)
	if err != nil {
		return false, err
	}
	return resp.ok(), nil
}

// UploadMedia downloads url and stores it in the media library.
func (c *Client) UploadMedia(ctx context.Context, fileURL string, kind reconcile.MediaKind) (int, error) {
	data, err := c.http.Download(ctx, fileURL)
	if err != nil {
		return 0, err
	}

	name, contentType := mediaFile(fileURL, kind)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.api+"/media", bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Content-Disposition", "attachment; filename="+name)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("POST %s/media: %w", c.api, err)
	}
	var out writeResponse
	if err := transport.DecodeResponse(resp, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

// DeleteMedia removes a media object. force bypasses the trash.
func (c *Client) DeleteMedia(ctx context.Context, id int, force bool) (bool, error) {
	var resp deleteResponse
	err := c.http.JSON(ctx, http.MethodDelete, fmt.Sprintf("%s/media/%d", c.api, id), map[string]bool{"force": force}, &resp)
	if err != nil {
		return false, err
	}
	return resp.ok(), nil
}

// AttachMedia sets the parent post of each media object. Every id is tried; the
// failures are joined.
func (c *Client) AttachMedia(ctx context.Context, parentID int, mediaIDs []int) error {
	var errs []error
	for _, id := range mediaIDs {
		err := c.http.JSON(ctx, http.MethodPost, fmt.Sprintf("%s/media/%d", c.api, id), map[string]int{"post_parent": parentID}, nil)
		if err != nil {
			errs = append(errs, fmt.Errorf("media %d: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// Agent is an agent profile published on the site.
type Agent struct {
	ID   int
	Name string
}

// Agents returns the agent profiles published on the site.
func (c *Client) Agents(ctx context.Context) ([]Agent, error) {
	var posts []post
	if err := c.http.JSON(ctx, http.MethodGet, c.api+"/houzez_agent?per_page=100", nil, &posts); err != nil {
		return nil, fmt.Errorf("failed to list site agents: %w", err)
	}
	agents := make([]Agent, 0, len(posts))
	for _, p := range posts {
		agents = append(agents, Agent{ID: p.ID, Name: p.Title.Rendered})
	}
	return agents, nil
}

// mediaFile derives the upload file name and content type from a file URL.
func mediaFile(fileURL string, kind reconcile.MediaKind) (string, string) {
	name := path.Base(fileURL)
	if u, err := url.Parse(fileURL); err == nil {
		name = path.Base(u.Path)
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	if ext == "jpg" {
		ext = "jpeg"
	}
	return name, string(kind) + "/" + ext
}
