// Package catalog is a client for the public data portal's dataset listing
package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	perr "opendash/internal/platform/errors"
	"opendash/internal/platform/logger"
)

const (
	baseURLDefault     = "https://api.odcloud.kr/api"
	servicePathDefault = "15013094/v1/uddi:6480c9ae-983b-4cf1-87bb-8388c2e0f8d6"
	defaultTimeout     = 10 * time.Second
	defaultPerPage     = 1000
	maxBody            = 16 << 20
)

// Options configures the Client
type Options struct {
	BaseURL     string
	ServicePath string
	// ServiceKey may be given raw or already url-encoded, portals hand out both
	ServiceKey string
	Timeout    time.Duration
	PerPage    int
}

// Client fetches listing pages
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
}

// NewClient creates a Client with defaults filled in
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.ServicePath == "" {
		o.ServicePath = servicePathDefault
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.PerPage <= 0 {
		o.PerPage = defaultPerPage
	}
	// portal keys come raw (with + / =) or percent-encoded, only %XX is decoded
	if k, err := url.PathUnescape(o.ServiceKey); err == nil {
		o.ServiceKey = k
	}
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("catalog"),
	}
}

// HasKey reports whether a service key is configured
func (c *Client) HasKey() bool { return strings.TrimSpace(c.opts.ServiceKey) != "" }

// PerPage is the page size used when the caller gives none
func (c *Client) PerPage() int { return c.opts.PerPage }

// List fetches one page; page starts at 1
func (c *Client) List(ctx context.Context, page, perPage int) (Page, error) {
	if !c.HasKey() {
		return Page{}, perr.Configf("catalog service key is not set")
	}
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = c.opts.PerPage
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("perPage", strconv.Itoa(perPage))
	q.Set("serviceKey", c.opts.ServiceKey)
	u := strings.TrimRight(c.opts.BaseURL, "/") + "/" + strings.TrimLeft(c.opts.ServicePath, "/") + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Page{}, perr.Wrapf(err, perr.ErrorCodeUnknown, "catalog new request")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return Page{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "catalog request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return Page{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "catalog read body")
	}
	c.log.Debug().
		Int("status", resp.StatusCode).
		Int("page", page).
		Int("per_page", perPage).
		Dur("latency", time.Since(start)).
		Msg("catalog http response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Page{}, perr.Newf(statusCode(resp.StatusCode), "catalog status %d body %s", resp.StatusCode, tail(body))
	}

	var out Page
	if err := json.Unmarshal(body, &out); err != nil {
		return Page{}, perr.Wrapf(err, perr.ErrorCodeJSON, "catalog decode")
	}
	return out, nil
}

func statusCode(status int) perr.ErrorCode {
	switch {
	case status == http.StatusTooManyRequests:
		return perr.ErrorCodeTooManyRequests
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return perr.ErrorCodeUnauthorized
	case status >= 500:
		return perr.ErrorCodeUnavailable
	default:
		return perr.ErrorCodeUnknown
	}
}

func tail(b []byte) string {
	if len(b) > 512 {
		b = b[:512]
	}
	return string(b)
}
