// Package esi implements a universe.Fetcher backed by EVE's ESI API.
//
// A system name is resolved to its id via POST /universe/ids/, then the
// system record is fetched from GET /universe/systems/{id}/. The response
// body is kept opaque: the domain stores raw JSON and callers decode it.
//
// The client holds no mutable state besides the http.Client, so one Client
// can serve all scheduler workers concurrently.
package esi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/starmap/internal/log"
	"github.com/zjrosen/starmap/internal/tracing"
	"github.com/zjrosen/starmap/internal/universe"
)

const (
	// DefaultBaseURL is the public ESI endpoint.
	DefaultBaseURL = "https://esi.evetech.net/latest"

	// DefaultTimeout bounds a single HTTP request.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent is sent with every request; ESI asks clients to
	// identify themselves.
	DefaultUserAgent = "starmap (github.com/zjrosen/starmap)"

	// errorBodyLimit caps how much of an error response body is carried
	// into error messages.
	errorBodyLimit = 512
)

// Config holds configuration for the ESI client.
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Client fetches solar system records from ESI.
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
	tracer    trace.Tracer
}

// Compile-time check that Client is a usable fetcher.
var _ universe.Fetcher = (*Client)(nil)

// NewClient creates an ESI client. Zero-value config fields fall back to
// the package defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		http:      &http.Client{Timeout: cfg.Timeout},
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		tracer:    otel.Tracer("starmap/esi"),
	}
}

// Fetch resolves name to a system id and returns the system record with its
// raw JSON payload. Failures come back as *universe.FetchError: unknown
// names are NotFound, bad status codes and connection errors are Transport,
// deadline overruns are Timeout.
func (c *Client) Fetch(ctx context.Context, name string) (universe.System, error) {
	ctx, span := c.tracer.Start(ctx, "esi.fetch", trace.WithAttributes(
		attribute.String(tracing.AttrSystemName, name),
	))
	defer span.End()

	id, err := c.resolveID(ctx, name)
	if err != nil {
		span.SetStatus(codes.Error, "resolve failed")
		return universe.System{}, err
	}
	span.SetAttributes(attribute.Int64(tracing.AttrSystemID, id))

	endpoint := fmt.Sprintf("%s/universe/systems/%d/", c.baseURL, id)
	span.SetAttributes(attribute.String(tracing.AttrESIEndpoint, endpoint))
	body, err := c.get(ctx, name, endpoint)
	if err != nil {
		span.SetStatus(codes.Error, "fetch failed")
		return universe.System{}, err
	}

	log.Debug(log.CatESI, "Fetched system", "name", name, "id", id, "bytes", len(body))
	return universe.NewSystem(name, body), nil
}

// FetchSystemIDs returns the ids of all systems known to ESI.
func (c *Client) FetchSystemIDs(ctx context.Context) ([]int64, error) {
	ctx, span := c.tracer.Start(ctx, "esi.fetch_system_ids")
	defer span.End()

	body, err := c.get(ctx, "", c.baseURL+"/universe/systems/")
	if err != nil {
		span.SetStatus(codes.Error, "fetch failed")
		return nil, err
	}

	var ids []int64
	if err := json.Unmarshal(body, &ids); err != nil {
		return nil, fmt.Errorf("decode system ids: %w", err)
	}
	log.Debug(log.CatESI, "Fetched system ids", "count", len(ids))
	return ids, nil
}

// idsResponse is the slice of the /universe/ids/ response we care about.
type idsResponse struct {
	Systems []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"systems"`
}

// resolveID maps a system name to its id via POST /universe/ids/.
func (c *Client) resolveID(ctx context.Context, name string) (int64, error) {
	payload, err := json.Marshal([]string{name})
	if err != nil {
		return 0, universe.NewTransport(name, err)
	}

	endpoint := c.baseURL + "/universe/ids/"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, universe.NewTransport(name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	body, err := c.do(name, endpoint, req)
	if err != nil {
		return 0, err
	}

	var resolved idsResponse
	if err := json.Unmarshal(body, &resolved); err != nil {
		return 0, universe.NewTransport(name, fmt.Errorf("decode ids response: %w", err))
	}
	for _, sys := range resolved.Systems {
		if sys.Name == name {
			return sys.ID, nil
		}
	}
	return 0, universe.NewNotFound(name)
}

// get issues a GET request and returns the response body.
// name may be empty for requests not tied to a single system.
func (c *Client) get(ctx context.Context, name, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, universe.NewTransport(name, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	return c.do(name, endpoint, req)
}

// do executes the request, mapping failures onto the domain's error kinds.
func (c *Client) do(name, endpoint string, req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			log.Warn(log.CatESI, "Request timed out", "endpoint", endpoint, "name", name)
			return nil, universe.NewTimeout(name)
		}
		log.ErrorErr(log.CatESI, "Request failed", err, "endpoint", endpoint)
		return nil, universe.NewTransport(name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	trace.SpanFromContext(req.Context()).SetAttributes(
		attribute.Int(tracing.AttrHTTPStatus, resp.StatusCode))

	if resp.StatusCode == http.StatusNotFound {
		return nil, universe.NewNotFound(name)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		log.Error(log.CatESI, "Bad status code",
			"endpoint", endpoint, "status", resp.StatusCode, "body", string(snippet))
		return nil, universe.NewTransport(name,
			fmt.Errorf("%s: status %d: %s", endpoint, resp.StatusCode, snippet))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, universe.NewTransport(name, err)
	}
	return body, nil
}

// isTimeout reports whether err is a deadline or network timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
