package workable

import (
	"net/http"
	"time"

	"github.com/honeycarbs/atsbridge/pkg/logging"
	"github.com/honeycarbs/atsbridge/pkg/pagination"
	"github.com/honeycarbs/atsbridge/pkg/transport"
)

// Config defines Workable SPI v3 client settings
type Config struct {
	APIKey    string
	Subdomain string

	// BaseURL overrides https://{subdomain}.workable.com/spi/v3
	BaseURL string

	PageSize          int
	Timeout           time.Duration
	MaxAttempts       int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	RequestsPerSecond float64
	HTTPClient        *http.Client
	Logger            *logging.Logger
}

// Client talks to the Workable SPI v3 API
type Client struct {
	http      *transport.Client
	pager     *pagination.Pager
	subdomain string
	pageSize  int
	logger    *logging.Logger
}

// Job is a Workable job; Shortcode is the identifier used in every job route
type Job struct {
	ID        string    `json:"id"`
	Shortcode string    `json:"shortcode"`
	Title     string    `json:"title"`
	State     string    `json:"state"`
	URL       string    `json:"url"`
	Location  *Location `json:"location"`
}

type Location struct {
	City        string `json:"city"`
	Region      string `json:"region"`
	Country     string `json:"country"`
	Telecommute bool   `json:"telecommuting"`
}

// Candidate is a job-level candidate; Workable has no separate application record
type Candidate struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Stage        string `json:"stage"`
	Disqualified bool   `json:"disqualified"`
}

// NewCandidate is the body of POST jobs/{shortcode}/candidates
type NewCandidate struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	ResumeURL string `json:"resume_url,omitempty"`
}

type Paging struct {
	Next string `json:"next"`
}

type createCandidateRequest struct {
	Candidate NewCandidate `json:"candidate"`
}

type createCandidateResponse struct {
	Candidate Candidate `json:"candidate"`
}

type listJobsResponse struct {
	Jobs   []Job   `json:"jobs"`
	Paging *Paging `json:"paging"`
}

type listCandidatesResponse struct {
	Candidates []Candidate `json:"candidates"`
	Paging     *Paging     `json:"paging"`
}
