package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cenkalti/backoff/v4"

	"github.com/honeycarbs/atsbridge/pkg/atserr"
	"github.com/honeycarbs/atsbridge/pkg/logging"
)

// NewClient instantiates a transport client
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("transport: base url is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("transport: parse base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	initial := cfg.InitialBackoff
	if initial <= 0 {
		initial = defaultInitialBackoff
	}

	maxBackoff := cfg.MaxBackoff
	if maxBackoff <= 0 {
		maxBackoff = defaultMaxBackoff
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	var limiter *RateLimiter
	if cfg.RequestsPerSecond > 0 {
		limiter = NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst)
	}

	return &Client{
		baseURL:        strings.TrimSuffix(cfg.BaseURL, "/"),
		auth:           cfg.Auth,
		header:         cfg.Header.Clone(),
		httpClient:     httpClient,
		maxAttempts:    maxAttempts,
		initialBackoff: initial,
		maxBackoff:     maxBackoff,
		userAgent:      userAgent,
		limiter:        limiter,
		logger:         logging.OrNop(cfg.Logger).Named("transport"),
	}, nil
}

// BaseURL returns the normalized base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET request
func (c *Client) Get(ctx context.Context, endpoint string, query url.Values) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Endpoint: endpoint, Query: query})
}

// Post issues a POST request with a JSON body
func (c *Client) Post(ctx context.Context, endpoint string, body any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Endpoint: endpoint, Body: body})
}

// Do executes req, retrying timeouts and 5xx responses with exponential backoff.
// The error of the last attempt is returned unchanged.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	var resp *Response
	attempt := 0

	op := func() error {
		attempt++
		r, err := c.exchange(ctx, req)
		if err == nil {
			resp = r
			return nil
		}
		if ctx.Err() != nil || !shouldRetry(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		c.logger.Warn("retrying request",
			"method", req.Method,
			"endpoint", req.Endpoint,
			"attempt", attempt,
			"wait", wait,
			"err", err,
		)
	}

	if err := backoff.RetryNotify(op, c.newBackOff(ctx), notify); err != nil {
		if _, ok := atserr.As(err); !ok {
			// context cancelled while sleeping between attempts
			return nil, atserr.Connection("Request to ATS service was cancelled", err)
		}
		return nil, err
	}

	return resp, nil
}

func (c *Client) newBackOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.initialBackoff
	exp.MaxInterval = c.maxBackoff
	exp.Multiplier = 2
	exp.RandomizationFactor = 0
	exp.MaxElapsedTime = 0

	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(c.maxAttempts-1)), ctx)
}

func (c *Client) exchange(ctx context.Context, req Request) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, atserr.Connection("Request to ATS service was cancelled", err)
		}
	}

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("making request", "method", httpReq.Method, "url", httpReq.URL.Redacted())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyNetError(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyNetError(err)
	}

	if err := c.classifyStatus(req, resp, body); err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	u := c.baseURL + "/" + strings.TrimPrefix(req.Endpoint, "/")
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, atserr.Internal(fmt.Errorf("transport: encode body: %w", err))
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, methodOf(req), u, body)
	if err != nil {
		return nil, atserr.Internal(fmt.Errorf("transport: build request: %w", err))
	}

	for k, vs := range c.header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	for k, vs := range req.Header {
		httpReq.Header[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if c.auth != nil {
		if err := c.auth.Authenticate(ctx, httpReq); err != nil {
			if _, ok := atserr.As(err); ok {
				return nil, err
			}
			return nil, atserr.Authentication("").Wrap(err)
		}
	}

	return httpReq, nil
}

func (c *Client) classifyStatus(req Request, resp *http.Response, body []byte) error {
	status := resp.StatusCode

	switch {
	case status == http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		if c.limiter != nil {
			c.limiter.Pause(retryAfter)
		}
		c.logger.Warn("rate limited", "endpoint", req.Endpoint, "retry_after", retryAfter)
		return atserr.RateLimit(retryAfter)

	case status == http.StatusUnauthorized:
		return atserr.Authentication("Invalid API credentials")

	case status == http.StatusForbidden:
		return atserr.Authentication("Access forbidden - check API permissions")

	case status >= http.StatusInternalServerError:
		c.logger.Warn("server error", "endpoint", req.Endpoint, "status", status)
		return atserr.Service(fmt.Sprintf("Server error: %d", status), status, true).
			WithDetail(excerpt(body))

	case status == http.StatusNotFound:
		return atserr.ResourceNotFound().
			WithDetail(fmt.Sprintf("%s %s: %s", methodOf(req), req.Endpoint, excerpt(body)))

	case status >= http.StatusBadRequest:
		detail := excerpt(body)
		c.logger.Warn("request failed", "endpoint", req.Endpoint, "status", status, "detail", detail)
		return atserr.Service(fmt.Sprintf("Request failed with status %d", status), status, false).
			WithDetail(detail)
	}

	return nil
}

func methodOf(req Request) string {
	if req.Method == "" {
		return http.MethodGet
	}
	return req.Method
}

func shouldRetry(err error) bool {
	e, ok := atserr.As(err)
	if !ok {
		return false
	}
	if e.Timeout {
		return true
	}
	return e.Kind == atserr.KindService && e.StatusCode >= http.StatusInternalServerError
}

func classifyNetError(err error) error {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return atserr.Timeout(err)
	}
	return atserr.Connection("Failed to connect to ATS service", err)
}

func parseRetryAfter(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return atserr.DefaultRetryAfter
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if ts, err := http.ParseTime(v); err == nil {
		if d := time.Until(ts); d > 0 {
			return d
		}
		return 0
	}
	return atserr.DefaultRetryAfter
}

func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if s == "" {
		return "Unknown error"
	}
	if utf8.RuneCountInString(s) <= bodyExcerptLimit {
		return s
	}
	r := []rune(s)
	return string(r[:bodyExcerptLimit])
}
