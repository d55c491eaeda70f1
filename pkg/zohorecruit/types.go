package zohorecruit

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/honeycarbs/atsbridge/pkg/logging"
	"github.com/honeycarbs/atsbridge/pkg/transport"
)

// Config defines Zoho Recruit client settings
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string

	// Region is the data-center suffix (com, eu, in, com.au, ...)
	Region string

	// BaseURL overrides https://recruit.zoho.{region}/recruit/v2
	BaseURL string
	// AccountsURL overrides https://accounts.zoho.{region}
	AccountsURL string

	PageSize          int
	Timeout           time.Duration
	MaxAttempts       int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	RequestsPerSecond float64
	HTTPClient        *http.Client
	Logger            *logging.Logger
}

// Client talks to the Zoho Recruit v2 API
type Client struct {
	http     *transport.Client
	tokens   oauth2.TokenSource
	region   string
	pageSize int
	logger   *logging.Logger
}

// JobOpening is a record of the Job_Openings module
type JobOpening struct {
	ID           string `json:"id"`
	PostingTitle string `json:"Posting_Title"`
	City         string `json:"City"`
	Status       string `json:"Job_Opening_Status"`
}

// Application is a record of the Applications module
type Application struct {
	ID        string  `json:"id"`
	Status    string  `json:"Application_Status"`
	Candidate *Lookup `json:"Candidate_ID"`
}

// Lookup is a reference field; Zoho sends either an object or a bare id
type Lookup struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (l *Lookup) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &l.ID)
	}
	type plain Lookup
	return json.Unmarshal(b, (*plain)(l))
}

// CandidateRecord is the Candidates module insert body
type CandidateRecord struct {
	FirstName string `json:"First_Name"`
	LastName  string `json:"Last_Name"`
	Email     string `json:"Email"`
	Phone     string `json:"Phone"`
}

// ApplicationRecord is the Applications module insert body
type ApplicationRecord struct {
	CandidateID  string `json:"Candidate_ID"`
	JobOpeningID string `json:"Job_Opening_ID"`
	Status       string `json:"Application_Status"`
}

// RecordResult is the per-record outcome of an insert
type RecordResult struct {
	Code    string `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Details struct {
		ID string `json:"id"`
	} `json:"details"`
}

// Succeeded reports whether Zoho accepted the record
func (r RecordResult) Succeeded() bool {
	return r.Code == "SUCCESS"
}

type recordsRequest[T any] struct {
	Data []T `json:"data"`
}

type listResponse[T any] struct {
	Data []T `json:"data"`
	Info struct {
		MoreRecords bool `json:"more_records"`
		Count       int  `json:"count"`
		Page        int  `json:"page"`
		PerPage     int  `json:"per_page"`
	} `json:"info"`
}

type insertResponse struct {
	Data []RecordResult `json:"data"`
}
