package transport

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/honeycarbs/atsbridge/pkg/logging"
)

const (
	defaultTimeout        = 30 * time.Second
	defaultMaxAttempts    = 3
	defaultInitialBackoff = 2 * time.Second
	defaultMaxBackoff     = 10 * time.Second
	defaultUserAgent      = "atsbridge/1.0"

	// bodyExcerptLimit bounds the diagnostic excerpt kept from failed responses
	bodyExcerptLimit = 200
)

// Config defines transport settings
type Config struct {
	BaseURL string
	Auth    Authenticator

	// Header is sent with every request (e.g. On-Behalf-Of)
	Header http.Header

	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	UserAgent      string

	// RequestsPerSecond enables a client-side throttle when > 0
	RequestsPerSecond float64
	Burst             int

	HTTPClient *http.Client
	Logger     *logging.Logger
}

// Client performs authenticated, retried exchanges against one provider
type Client struct {
	baseURL        string
	auth           Authenticator
	header         http.Header
	httpClient     *http.Client
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	userAgent      string
	limiter        *RateLimiter
	logger         *logging.Logger
}

// Request describes one exchange; Endpoint is relative to the base URL
type Request struct {
	Method   string
	Endpoint string
	Query    url.Values
	Body     any

	// Header is merged over the client-wide headers for this request only
	Header http.Header
}

// Response is a successful exchange. Header is always populated so callers
// can drive pagination from it.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v. An empty body leaves v untouched.
func (r *Response) Decode(v any) error {
	if r == nil || len(r.Body) == 0 {
		return nil
	}
	return json.Unmarshal(r.Body, v)
}
