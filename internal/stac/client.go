// Package stac is a minimal client for STAC item-search APIs.
package stac

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"
)

// ErrCatalogUnavailable indicates the catalog could not be reached or
// returned something other than a valid ItemCollection. A reachable catalog
// with zero matches is not an error.
var ErrCatalogUnavailable = errors.New("stac catalog unavailable")

const (
	dateFormat     = "2006-01-02"
	defaultTimeout = 30 * time.Second
)

// Client talks to one STAC catalog. It performs no retries; a failed call
// propagates immediately.
type Client struct {
	base   string
	client *http.Client
	log    zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (e.g. to shorten the
// timeout in tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithLogger attaches a logger to the client.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient creates a client for the catalog rooted at base
// (e.g. "https://earth-search.aws.element84.com/v1").
func NewClient(base string, opts ...Option) *Client {
	c := &Client{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: defaultTimeout},
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search issues one item-search request and returns the matching items,
// sorted most-recent-first by the catalog. An empty result is returned
// as an empty slice, not an error.
func (c *Client) Search(ctx context.Context, q SearchQuery) ([]Item, error) {
	body := searchRequest{
		Collections: q.Collections,
		Limit:       q.Limit,
		SortBy: []sortSpec{
			{Field: "properties.datetime", Direction: "desc"},
		},
	}
	if q.Intersects != nil {
		body.Intersects = geojson.NewGeometry(q.Intersects)
	}
	if !q.Start.IsZero() || !q.End.IsZero() {
		body.Datetime = searchDatetime(q.Start, q.End)
	}
	if q.MaxCloudCover != nil {
		body.Query = map[string]map[string]float64{
			"eo:cloud_cover": {"lte": *q.MaxCloudCover},
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding search request: %v", ErrCatalogUnavailable, err)
	}

	url := c.base + "/search"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/geo+json")

	c.log.Debug().
		Str("url", url).
		Str("datetime", body.Datetime).
		Strs("collections", q.Collections).
		Msg("stac search")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrCatalogUnavailable, url, resp.StatusCode)
	}

	var result itemCollection
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decoding search response: %v", ErrCatalogUnavailable, err)
	}

	c.log.Debug().Int("items", len(result.Features)).Msg("stac search done")
	return result.Features, nil
}

// searchDatetime formats a STAC search range like "2022-12-01/2023-01-01".
func searchDatetime(start, end time.Time) string {
	return start.Format(dateFormat) + "/" + end.Format(dateFormat)
}
