package greenhouse

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/honeycarbs/atsbridge/pkg/logging"
	"github.com/honeycarbs/atsbridge/pkg/pagination"
	"github.com/honeycarbs/atsbridge/pkg/transport"
)

// Config defines Harvest API client settings
type Config struct {
	APIKey  string
	BaseURL string

	// OnBehalfOf is the Greenhouse user id sent with write requests
	OnBehalfOf string

	Timeout           time.Duration
	MaxAttempts       int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	RequestsPerSecond float64
	HTTPClient        *http.Client
	Logger            *logging.Logger
}

// Client queries the Greenhouse Harvest API
type Client struct {
	http       *transport.Client
	pager      *pagination.Pager
	onBehalfOf string
	logger     *logging.Logger
}

// ID accepts both numeric and string identifiers
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// ListJobsParams filters GET /jobs
type ListJobsParams struct {
	// Status is one of open, closed, draft; empty lists every job
	Status string
}

// Job is a Harvest job record
type Job struct {
	ID      ID       `json:"id"`
	Name    string   `json:"name"`
	Status  string   `json:"status"`
	Offices []Office `json:"offices"`

	// Location is either {"name": "..."} or a plain string depending on the account
	Location json.RawMessage `json:"location"`

	JobPost *JobPost `json:"job_post"`
}

type Office struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

type JobPost struct {
	ExternalURL string `json:"external_url"`
}

// Application is a Harvest application record with its embedded candidate
type Application struct {
	ID           ID         `json:"id"`
	Status       string     `json:"status"`
	RejectedAt   *string    `json:"rejected_at"`
	CurrentStage *Stage     `json:"current_stage"`
	Candidate    *Candidate `json:"candidate"`
}

type Stage struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

type Candidate struct {
	ID             ID             `json:"id"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	EmailAddresses []ContactValue `json:"email_addresses"`
}

// ContactValue is an email address or phone number entry
type ContactValue struct {
	Value string `json:"value"`
	Type  string `json:"type,omitempty"`
}

type Attachment struct {
	Filename string `json:"filename"`
	Type     string `json:"type"`
	URL      string `json:"url"`
}

type ApplicationRef struct {
	JobID int64 `json:"job_id"`
}

// CandidateRequest is the POST /candidates body
type CandidateRequest struct {
	FirstName      string           `json:"first_name"`
	LastName       string           `json:"last_name"`
	EmailAddresses []ContactValue   `json:"email_addresses"`
	PhoneNumbers   []ContactValue   `json:"phone_numbers,omitempty"`
	Attachments    []Attachment     `json:"attachments,omitempty"`
	Applications   []ApplicationRef `json:"applications"`
}

// CreatedCandidate is the POST /candidates response
type CreatedCandidate struct {
	ID           ID                   `json:"id"`
	Applications []CreatedApplication `json:"applications"`
}

type CreatedApplication struct {
	ID ID `json:"id"`
}

// ParseJobID converts a caller supplied job id into the numeric form Harvest expects
func ParseJobID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
