package greenhouse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/honeycarbs/atsbridge/pkg/logging"
	"github.com/honeycarbs/atsbridge/pkg/pagination"
	"github.com/honeycarbs/atsbridge/pkg/transport"
)

const (
	DefaultBaseURL  = "https://harvest.greenhouse.io/v1"
	defaultPageSize = 100
)

// NewClient instantiates a Harvest API client
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("greenhouse: api key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	logger := logging.OrNop(cfg.Logger)

	tc, err := transport.NewClient(transport.Config{
		BaseURL:           baseURL,
		Auth:              transport.BasicAuth{Username: cfg.APIKey},
		Timeout:           cfg.Timeout,
		MaxAttempts:       cfg.MaxAttempts,
		InitialBackoff:    cfg.InitialBackoff,
		MaxBackoff:        cfg.MaxBackoff,
		RequestsPerSecond: cfg.RequestsPerSecond,
		HTTPClient:        cfg.HTTPClient,
		Logger:            logger,
	})
	if err != nil {
		return nil, fmt.Errorf("greenhouse: %w", err)
	}

	return &Client{
		http:       tc,
		pager:      pagination.NewPager(defaultPageSize, logger),
		onBehalfOf: cfg.OnBehalfOf,
		logger:     logger,
	}, nil
}

// ListJobs drains every page of GET /jobs
func (c *Client) ListJobs(ctx context.Context, params ListJobsParams) ([]Job, error) {
	q := url.Values{}
	if params.Status != "" {
		q.Set("status", strings.ToLower(params.Status))
	}
	return pagination.Paginate(ctx, c.pager, listPage[Job](c, "jobs"), q)
}

// ListApplications drains every page of GET /applications for one job
func (c *Client) ListApplications(ctx context.Context, jobID string) ([]Application, error) {
	q := url.Values{}
	q.Set("job_id", jobID)
	return pagination.Paginate(ctx, c.pager, listPage[Application](c, "applications"), q)
}

// CreateCandidate creates a candidate together with its application
func (c *Client) CreateCandidate(ctx context.Context, req CandidateRequest) (CreatedCandidate, error) {
	var h http.Header
	if c.onBehalfOf != "" {
		h = http.Header{"On-Behalf-Of": {c.onBehalfOf}}
	}

	resp, err := c.http.Do(ctx, transport.Request{
		Method:   http.MethodPost,
		Endpoint: "candidates",
		Body:     req,
		Header:   h,
	})
	if err != nil {
		return CreatedCandidate{}, err
	}

	var out CreatedCandidate
	if err := resp.Decode(&out); err != nil {
		return CreatedCandidate{}, fmt.Errorf("greenhouse: decode candidate: %w", err)
	}
	return out, nil
}

// Ping issues the smallest possible authenticated read
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.http.Get(ctx, "jobs", url.Values{"per_page": {"1"}})
	return err
}

func listPage[T any](c *Client, endpoint string) pagination.PageFunc[T] {
	return func(ctx context.Context, params url.Values) ([]T, http.Header, error) {
		resp, err := c.http.Get(ctx, endpoint, params)
		if err != nil {
			return nil, nil, err
		}
		items, err := decodeItems[T](c.logger, endpoint, resp.Body)
		if err != nil {
			return nil, nil, err
		}
		return items, resp.Header, nil
	}
}

// decodeItems decodes a JSON array item by item; malformed items are logged and skipped.
// A body that is not an array yields no items.
func decodeItems[T any](logger *logging.Logger, endpoint string, body []byte) ([]T, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '[' {
		if len(body) > 0 {
			logger.Warn("unexpected list payload", "endpoint", endpoint)
		}
		return nil, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("greenhouse: decode %s: %w", endpoint, err)
	}

	out := make([]T, 0, len(raw))
	for i, item := range raw {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			logger.Warn("skipping malformed item", "endpoint", endpoint, "index", i, "err", err)
			continue
		}
		out = append(out, v)
	}
	return out, nil
}
