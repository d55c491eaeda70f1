package zohorecruit

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/oauth2"

	"github.com/honeycarbs/atsbridge/pkg/logging"
	"github.com/honeycarbs/atsbridge/pkg/pagination"
	"github.com/honeycarbs/atsbridge/pkg/transport"
)

const (
	defaultRegion   = "com"
	defaultPageSize = 200
)

// NewClient instantiates a Zoho Recruit client with its own token cache
func NewClient(cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RefreshToken == "" {
		return nil, fmt.Errorf("zohorecruit: client_id, client_secret and refresh_token are required")
	}

	region := strings.TrimPrefix(strings.TrimSpace(cfg.Region), ".")
	if region == "" {
		region = defaultRegion
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://recruit.zoho.%s/recruit/v2", region)
	}

	accountsURL := cfg.AccountsURL
	if accountsURL == "" {
		accountsURL = fmt.Sprintf("https://accounts.zoho.%s", region)
	}
	accountsURL = strings.TrimSuffix(accountsURL, "/")

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	logger := logging.OrNop(cfg.Logger)

	conf := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  accountsURL + "/oauth/v2/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	tokens := NewTokenSource(conf, cfg.RefreshToken, cfg.HTTPClient, logger)

	tc, err := transport.NewClient(transport.Config{
		BaseURL:           baseURL,
		Auth:              tokenAuth(tokens),
		Timeout:           cfg.Timeout,
		MaxAttempts:       cfg.MaxAttempts,
		InitialBackoff:    cfg.InitialBackoff,
		MaxBackoff:        cfg.MaxBackoff,
		RequestsPerSecond: cfg.RequestsPerSecond,
		HTTPClient:        cfg.HTTPClient,
		Logger:            logger,
	})
	if err != nil {
		return nil, fmt.Errorf("zohorecruit: %w", err)
	}

	return &Client{
		http:     tc,
		tokens:   tokens,
		region:   region,
		pageSize: pageSize,
		logger:   logger,
	}, nil
}

// Region returns the data-center suffix used for public URLs
func (c *Client) Region() string {
	return c.region
}

// Token returns a valid access token, refreshing it when needed
func (c *Client) Token() (*oauth2.Token, error) {
	return c.tokens.Token()
}

// ListJobOpenings drains the Job_Openings module
func (c *Client) ListJobOpenings(ctx context.Context) ([]JobOpening, error) {
	return listRecords[JobOpening](ctx, c, "Job_Openings", nil)
}

// ListApplications returns the Applications records attached to a job opening
func (c *Client) ListApplications(ctx context.Context, jobOpeningID string) ([]Application, error) {
	q := url.Values{}
	q.Set("criteria", fmt.Sprintf("(Job_Opening_ID:equals:%s)", escapeCriteria(jobOpeningID)))
	return listRecords[Application](ctx, c, "Applications", q)
}

// CreateCandidate inserts one Candidates record
func (c *Client) CreateCandidate(ctx context.Context, rec CandidateRecord) (RecordResult, error) {
	return insertRecord(ctx, c, "Candidates", rec)
}

// CreateApplication inserts one Applications record
func (c *Client) CreateApplication(ctx context.Context, rec ApplicationRecord) (RecordResult, error) {
	return insertRecord(ctx, c, "Applications", rec)
}

// Ping lists the org's modules
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.http.Get(ctx, "settings/modules", nil)
	return err
}

// listRecords follows info.more_records. Zoho pages are 1-based.
func listRecords[T any](ctx context.Context, c *Client, module string, base url.Values) ([]T, error) {
	page := 0
	fetch := func(ctx context.Context, offset, limit int) ([]T, int, error) {
		page++

		q := url.Values{}
		for k, vs := range base {
			q[k] = vs
		}
		q.Set("page", strconv.Itoa(page))
		q.Set("per_page", strconv.Itoa(limit))

		resp, err := c.http.Get(ctx, module, q)
		if err != nil {
			return nil, 0, err
		}

		var out listResponse[T]
		if err := resp.Decode(&out); err != nil {
			return nil, 0, fmt.Errorf("zohorecruit: decode %s: %w", module, err)
		}

		total := offset + len(out.Data)
		if out.Info.MoreRecords {
			total++
		}
		return out.Data, total, nil
	}

	return pagination.PaginateOffset(ctx, fetch, c.pageSize, 0)
}

func insertRecord[T any](ctx context.Context, c *Client, module string, rec T) (RecordResult, error) {
	resp, err := c.http.Post(ctx, module, recordsRequest[T]{Data: []T{rec}})
	if err != nil {
		return RecordResult{}, err
	}

	var out insertResponse
	if err := resp.Decode(&out); err != nil {
		return RecordResult{}, fmt.Errorf("zohorecruit: decode %s insert: %w", module, err)
	}
	if len(out.Data) == 0 {
		return RecordResult{Message: "Unknown error"}, nil
	}
	return out.Data[0], nil
}

// IsRecordID reports whether s looks like a Zoho record id (digits only)
func IsRecordID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

var criteriaEscaper = strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`, ",", `\,`)

// escapeCriteria backslash-escapes the characters that delimit a criteria expression
func escapeCriteria(v string) string {
	return criteriaEscaper.Replace(v)
}
