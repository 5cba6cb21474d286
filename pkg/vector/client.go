package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/Zereker/vecdb/pkg/log"
)

// Operation paths, relative to the index host.
const (
	pathDescribeIndexStats = "describe_index_stats"
	pathQuery              = "query"
	pathUpsert             = "vectors/upsert"
	pathDelete             = "vectors/delete"
)

// Client sends data plane requests to one index.
// It is immutable after construction and safe for concurrent use when its
// Doer is.
type Client struct {
	logger *slog.Logger
	doer   Doer
	apiKey string
	index  string
	host   string
}

var _ Index = (*Client)(nil)

// NewHTTPClient returns the default transport used when none is injected.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: http.DefaultTransport.(*http.Transport).Clone(),
	}
}

// NewClient creates a client, resolving the index host on the control plane
// unless cfg.IndexHost is set.
func NewClient(ctx context.Context, cfg Config, doer Doer) (*Client, error) {
	if cfg.IndexHost != "" {
		return WithExplicitHost(cfg, cfg.IndexHost, doer)
	}
	return WithResolvedHost(ctx, cfg, doer)
}

// WithExplicitHost creates a client for a known index host. The control
// plane is never contacted. A host without scheme is given https.
func WithExplicitHost(cfg Config, host string, doer Doer) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithMessage(err, "invalid config")
	}
	if strings.TrimSpace(host) == "" {
		return nil, invalidArgument("host is empty")
	}
	if doer == nil {
		doer = NewHTTPClient()
	}

	return newClient(cfg, normalizeHost(host), doer), nil
}

// WithResolvedHost creates a client after a single control plane lookup of
// the index host. A failed lookup returns an *EndpointResolutionError and no client.
func WithResolvedHost(ctx context.Context, cfg Config, doer Doer) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithMessage(err, "invalid config")
	}
	if doer == nil {
		doer = NewHTTPClient()
	}

	host, err := ResolveHost(ctx, doer, cfg.APIKey, cfg.Index, cfg.controlPlane())
	if err != nil {
		return nil, err
	}

	return newClient(cfg, host, doer), nil
}

func newClient(cfg Config, host string, doer Doer) *Client {
	return &Client{
		logger: log.Logger("vector").With("index", cfg.Index),
		doer:   doer,
		apiKey: cfg.APIKey,
		index:  cfg.Index,
		host:   host,
	}
}

// Host returns the base URL requests are sent to.
func (c *Client) Host() string {
	return c.host
}

// IndexName returns the index name.
func (c *Client) IndexName() string {
	return c.index
}

// DescribeIndexStats returns statistics about the index contents.
// Decode the response into IndexStats for a typed view.
func (c *Client) DescribeIndexStats(ctx context.Context) (*Response, error) {
	return c.send(ctx, pathDescribeIndexStats, describeIndexStatsRequest{})
}

// Query searches for the records nearest to params.Vector.
func (c *Client) Query(ctx context.Context, params QueryParams) (*Response, error) {
	if len(params.Vector) == 0 {
		return nil, invalidArgument("query vector is empty")
	}
	if params.TopK < 0 {
		return nil, invalidArgument("topK must not be negative")
	}

	topK := params.TopK
	if topK == 0 {
		topK = DefaultTopK
	}

	return c.send(ctx, pathQuery, queryRequest{
		Vector:          params.Vector,
		TopK:            topK,
		IncludeValues:   params.IncludeValues,
		IncludeMetadata: params.IncludeMetadata,
		Namespace:       params.Namespace,
		Filter:          params.Filter,
	})
}

// Upsert inserts or overwrites records. Records are sent as given.
func (c *Client) Upsert(ctx context.Context, records []Record, namespace string) (*Response, error) {
	if len(records) == 0 {
		return nil, invalidArgument("no records to upsert")
	}

	return c.send(ctx, pathUpsert, upsertRequest{
		Vectors:   records,
		Namespace: namespace,
	})
}

// Delete deletes a single record by id.
func (c *Client) Delete(ctx context.Context, id string, namespace string) (*Response, error) {
	return c.DeleteBulk(ctx, []string{id}, namespace)
}

// DeleteBulk deletes records by id.
func (c *Client) DeleteBulk(ctx context.Context, ids []string, namespace string) (*Response, error) {
	if len(ids) == 0 {
		return nil, invalidArgument("no ids to delete")
	}

	return c.send(ctx, pathDelete, deleteRequest{
		DeleteAll: false,
		IDs:       ids,
		Namespace: namespace,
	})
}

// DeleteAll deletes every record in namespace.
func (c *Client) DeleteAll(ctx context.Context, namespace string) (*Response, error) {
	return c.send(ctx, pathDelete, deleteAllRequest{
		DeleteAll: true,
		Namespace: namespace,
	})
}

// send performs one POST round trip. Non-2xx statuses are returned in the
// Response, only transport failures are errors.
func (c *Client) send(ctx context.Context, path string, body any) (*Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrapf(err, "marshal %s request", path)
	}

	req, err := c.buildRequest(ctx, http.MethodPost, path, payload)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s request", path)
	}

	start := time.Now()
	resp, err := c.doer.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "path", path, "error", err)
		return nil, &TransportError{Op: req.Method, URL: req.URL.String(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: req.Method, URL: req.URL.String(), Err: errors.Wrap(err, "read body")}
	}

	c.logger.Debug("request",
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start).Milliseconds(),
	)

	return NewResponse(resp.StatusCode, resp.Header, raw), nil
}

func (c *Client) buildRequest(ctx context.Context, method, path string, payload []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, joinURL(c.host, path), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func normalizeHost(host string) string {
	host = strings.TrimSpace(host)
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	return strings.TrimRight(host, "/") + "/"
}

func joinURL(host, path string) string {
	return strings.TrimRight(host, "/") + "/" + strings.TrimLeft(path, "/")
}
