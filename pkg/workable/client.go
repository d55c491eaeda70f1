package workable

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/honeycarbs/atsbridge/pkg/logging"
	"github.com/honeycarbs/atsbridge/pkg/pagination"
	"github.com/honeycarbs/atsbridge/pkg/transport"
)

const defaultPageSize = 100

// NewClient instantiates a Workable client
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("workable: api key is required")
	}

	subdomain := strings.TrimSpace(cfg.Subdomain)
	baseURL := cfg.BaseURL
	if baseURL == "" {
		if subdomain == "" {
			return nil, fmt.Errorf("workable: subdomain is required")
		}
		baseURL = fmt.Sprintf("https://%s.workable.com/spi/v3", subdomain)
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	logger := logging.OrNop(cfg.Logger)

	tc, err := transport.NewClient(transport.Config{
		BaseURL:           baseURL,
		Auth:              transport.BearerToken(cfg.APIKey),
		Timeout:           cfg.Timeout,
		MaxAttempts:       cfg.MaxAttempts,
		InitialBackoff:    cfg.InitialBackoff,
		MaxBackoff:        cfg.MaxBackoff,
		RequestsPerSecond: cfg.RequestsPerSecond,
		HTTPClient:        cfg.HTTPClient,
		Logger:            logger,
	})
	if err != nil {
		return nil, fmt.Errorf("workable: %w", err)
	}

	return &Client{
		http:      tc,
		pager:     &pagination.Pager{PageSize: pageSize, Logger: logger},
		subdomain: subdomain,
		pageSize:  pageSize,
		logger:    logger,
	}, nil
}

// Subdomain returns the account subdomain used for public job URLs
func (c *Client) Subdomain() string {
	return c.subdomain
}

// ListJobs drains GET jobs; state is published, closed, draft or archived, empty for all
func (c *Client) ListJobs(ctx context.Context, state string) ([]Job, error) {
	first := url.Values{}
	first.Set("limit", strconv.Itoa(c.pageSize))
	if state != "" {
		first.Set("state", state)
	}

	return pagination.PaginateCursor(ctx, c.pager, func(ctx context.Context, cursor string) ([]Job, string, error) {
		q, err := pageQuery(first, cursor)
		if err != nil {
			return nil, "", err
		}

		resp, err := c.http.Get(ctx, "jobs", q)
		if err != nil {
			return nil, "", err
		}

		var out listJobsResponse
		if err := resp.Decode(&out); err != nil {
			return nil, "", fmt.Errorf("workable: decode jobs: %w", err)
		}
		return out.Jobs, nextCursor(out.Paging), nil
	})
}

// ListCandidates drains the candidates of one job
func (c *Client) ListCandidates(ctx context.Context, shortcode string) ([]Candidate, error) {
	endpoint := "jobs/" + url.PathEscape(shortcode) + "/candidates"
	first := url.Values{}
	first.Set("limit", strconv.Itoa(c.pageSize))

	return pagination.PaginateCursor(ctx, c.pager, func(ctx context.Context, cursor string) ([]Candidate, string, error) {
		q, err := pageQuery(first, cursor)
		if err != nil {
			return nil, "", err
		}

		resp, err := c.http.Get(ctx, endpoint, q)
		if err != nil {
			return nil, "", err
		}

		var out listCandidatesResponse
		if err := resp.Decode(&out); err != nil {
			return nil, "", fmt.Errorf("workable: decode candidates: %w", err)
		}
		return out.Candidates, nextCursor(out.Paging), nil
	})
}

// CreateCandidate adds a candidate to a job, which also creates the application
func (c *Client) CreateCandidate(ctx context.Context, shortcode string, in NewCandidate) (Candidate, error) {
	endpoint := "jobs/" + url.PathEscape(shortcode) + "/candidates"

	resp, err := c.http.Post(ctx, endpoint, createCandidateRequest{Candidate: in})
	if err != nil {
		return Candidate{}, err
	}

	var out createCandidateResponse
	if err := resp.Decode(&out); err != nil {
		return Candidate{}, fmt.Errorf("workable: decode candidate: %w", err)
	}
	return out.Candidate, nil
}

// Ping lists a single job
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.http.Get(ctx, "jobs", url.Values{"limit": {"1"}})
	return err
}

// pageQuery returns the first-page query, or the query carried by the paging.next URL
func pageQuery(first url.Values, cursor string) (url.Values, error) {
	if cursor == "" {
		return first, nil
	}
	u, err := url.Parse(cursor)
	if err != nil {
		return nil, fmt.Errorf("workable: parse paging.next: %w", err)
	}
	return u.Query(), nil
}

func nextCursor(p *Paging) string {
	if p == nil {
		return ""
	}
	return p.Next
}
