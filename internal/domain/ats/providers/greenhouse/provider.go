package greenhouse

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/honeycarbs/atsbridge/internal/config"
	"github.com/honeycarbs/atsbridge/internal/domain"
	"github.com/honeycarbs/atsbridge/internal/domain/ats"
	"github.com/honeycarbs/atsbridge/pkg/atserr"
	"github.com/honeycarbs/atsbridge/pkg/greenhouse"
	"github.com/honeycarbs/atsbridge/pkg/logging"
)

const (
	providerName = "greenhouse"

	defaultTitle    = "Untitled Position"
	defaultLocation = "Remote"
	boardsURL       = "https://boards.greenhouse.io/jobs/%s"
)

var jobStatuses = ats.StatusMap[domain.JobStatus]{
	Values: map[string]domain.JobStatus{
		"open":   domain.JobOpen,
		"closed": domain.JobClosed,
		"draft":  domain.JobDraft,
	},
	Fallback: domain.JobDraft,
}

// stageStatuses is matched by substring against the lowercased current stage name
var stageStatuses = ats.StageTable{
	{Pattern: "application review", Status: domain.ApplicationApplied},
	{Pattern: "applied", Status: domain.ApplicationApplied},
	{Pattern: "new", Status: domain.ApplicationApplied},

	{Pattern: "phone screen", Status: domain.ApplicationScreening},
	{Pattern: "screening", Status: domain.ApplicationScreening},
	{Pattern: "recruiter screen", Status: domain.ApplicationScreening},
	{Pattern: "phone interview", Status: domain.ApplicationScreening},
	{Pattern: "technical screen", Status: domain.ApplicationScreening},

	{Pattern: "interview", Status: domain.ApplicationScreening},
	{Pattern: "onsite", Status: domain.ApplicationScreening},
	{Pattern: "onsite interview", Status: domain.ApplicationScreening},
	{Pattern: "final interview", Status: domain.ApplicationScreening},

	{Pattern: "offer", Status: domain.ApplicationScreening},
	{Pattern: "reference check", Status: domain.ApplicationScreening},
	{Pattern: "background check", Status: domain.ApplicationScreening},

	{Pattern: "hired", Status: domain.ApplicationHired},
	{Pattern: "rejected", Status: domain.ApplicationRejected},
}

// harvestClient describes the subset of the Harvest client used by the provider
type harvestClient interface {
	ListJobs(ctx context.Context, params greenhouse.ListJobsParams) ([]greenhouse.Job, error)
	ListApplications(ctx context.Context, jobID string) ([]greenhouse.Application, error)
	CreateCandidate(ctx context.Context, req greenhouse.CandidateRequest) (greenhouse.CreatedCandidate, error)
	Ping(ctx context.Context) error
}

// Provider implements ats.Provider using the Greenhouse Harvest API
type Provider struct {
	client harvestClient
	logger *logging.Logger
}

var _ ats.Provider = (*Provider)(nil)

// New builds the provider from configuration
func New(cfg config.Config, logger *logging.Logger) (ats.Provider, error) {
	client, err := greenhouse.NewClient(greenhouse.Config{
		APIKey:            cfg.APIKey,
		BaseURL:           cfg.BaseURL,
		OnBehalfOf:        cfg.Greenhouse.OnBehalfOf,
		Timeout:           cfg.HTTP.Timeout,
		MaxAttempts:       cfg.HTTP.MaxAttempts,
		RequestsPerSecond: cfg.HTTP.RateLimit,
		Logger:            logger,
	})
	if err != nil {
		return nil, err
	}
	return NewProvider(client, logger)
}

// NewProvider builds a Greenhouse provider
func NewProvider(client harvestClient, logger *logging.Logger) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("greenhouse provider: client is required")
	}
	return &Provider{client: client, logger: logging.OrNop(logger)}, nil
}

// Name returns provider identifier
func (p *Provider) Name() string {
	return providerName
}

// ListJobs filters server-side by the lowercased status
func (p *Provider) ListJobs(ctx context.Context, status domain.JobStatus) ([]domain.Job, error) {
	raw, err := p.client.ListJobs(ctx, greenhouse.ListJobsParams{Status: strings.ToLower(string(status))})
	if err != nil {
		return nil, err
	}

	jobs := make([]domain.Job, 0, len(raw))
	for _, j := range raw {
		jobs = append(jobs, normalizeJob(j))
	}

	p.logger.Debug("normalized jobs", "count", len(jobs))
	return jobs, nil
}

// CreateCandidate posts the candidate with an embedded application
func (p *Provider) CreateCandidate(ctx context.Context, in domain.CandidateCreate) (domain.CandidateResponse, error) {
	jobID, err := parseJobID(in.JobID)
	if err != nil {
		return domain.CandidateResponse{}, err
	}

	req := greenhouse.CandidateRequest{
		FirstName:      ats.FirstName(in.Name),
		LastName:       ats.LastName(in.Name),
		EmailAddresses: []greenhouse.ContactValue{{Value: in.Email, Type: "personal"}},
		Applications:   []greenhouse.ApplicationRef{{JobID: jobID}},
	}
	if in.Phone != "" {
		req.PhoneNumbers = []greenhouse.ContactValue{{Value: in.Phone, Type: "mobile"}}
	}
	if in.ResumeURL != "" {
		req.Attachments = []greenhouse.Attachment{{Filename: "resume.pdf", Type: "resume", URL: in.ResumeURL}}
	}

	created, err := p.client.CreateCandidate(ctx, req)
	if err != nil {
		return domain.CandidateResponse{}, err
	}

	if created.ID == "" {
		p.logger.Error("candidate response carried no id", "job_id", in.JobID)
		return domain.CandidateResponse{}, atserr.Service("Failed to create candidate in Greenhouse", 500, false)
	}
	if len(created.Applications) == 0 || created.Applications[0].ID == "" {
		p.logger.Error("candidate created without application", "candidate_id", created.ID.String(), "job_id", in.JobID)
		return domain.CandidateResponse{}, atserr.Service("Failed to create application for candidate", 500, false)
	}

	return domain.NewCandidateResponse(in, created.ID.String(), created.Applications[0].ID.String()), nil
}

// ListApplications returns the job's applications
func (p *Provider) ListApplications(ctx context.Context, jobID string) ([]domain.Application, error) {
	id, err := parseJobID(jobID)
	if err != nil {
		return nil, err
	}

	raw, err := p.client.ListApplications(ctx, strconv.FormatInt(id, 10))
	if err != nil {
		return nil, err
	}

	apps := make([]domain.Application, 0, len(raw))
	for _, a := range raw {
		apps = append(apps, normalizeApplication(a))
	}
	return apps, nil
}

// HealthCheck reports false on any error
func (p *Provider) HealthCheck(ctx context.Context) bool {
	if err := p.client.Ping(ctx); err != nil {
		p.logger.Error("health check failed", "err", err)
		return false
	}
	return true
}

// parseJobID rejects non-numeric ids before any request reaches Harvest
func parseJobID(raw string) (int64, error) {
	id, err := greenhouse.ParseJobID(strings.TrimSpace(raw))
	if err != nil {
		return 0, atserr.Validation(
			fmt.Sprintf("Invalid Greenhouse job ID '%s'", raw),
			map[string]string{"job_id": "Must be a numeric job ID"},
		)
	}
	return id, nil
}

func normalizeJob(j greenhouse.Job) domain.Job {
	id := j.ID.String()

	title := strings.TrimSpace(j.Name)
	if title == "" {
		title = defaultTitle
	}

	url := fmt.Sprintf(boardsURL, id)
	if j.JobPost != nil && j.JobPost.ExternalURL != "" {
		url = j.JobPost.ExternalURL
	}

	return domain.Job{
		ID:          id,
		Title:       title,
		Location:    locationOf(j),
		Status:      jobStatuses.Lookup(strings.ToLower(j.Status)),
		ExternalURL: url,
	}
}

// locationOf tries offices, then the location object, then the location string
func locationOf(j greenhouse.Job) string {
	var names []string
	for _, o := range j.Offices {
		if n := strings.TrimSpace(o.Name); n != "" {
			names = append(names, n)
		}
	}
	if len(names) > 0 {
		return strings.Join(names, ", ")
	}

	if len(j.Location) > 0 {
		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(j.Location, &obj); err == nil && strings.TrimSpace(obj.Name) != "" {
			return obj.Name
		}

		var s string
		if err := json.Unmarshal(j.Location, &s); err == nil && strings.TrimSpace(s) != "" {
			return s
		}
	}

	return defaultLocation
}

func normalizeApplication(a greenhouse.Application) domain.Application {
	var first, last, email string
	if c := a.Candidate; c != nil {
		first, last = c.FirstName, c.LastName
		if len(c.EmailAddresses) > 0 {
			email = c.EmailAddresses[0].Value
		}
	}

	return domain.Application{
		ID:            a.ID.String(),
		CandidateName: ats.FormatName(first, last),
		Email:         email,
		Status:        applicationStatus(a),
	}
}

// applicationStatus checks rejection and hire before matching the stage name
func applicationStatus(a greenhouse.Application) domain.ApplicationStatus {
	if a.RejectedAt != nil && *a.RejectedAt != "" {
		return domain.ApplicationRejected
	}

	var stage string
	if a.CurrentStage != nil {
		stage = strings.ToLower(a.CurrentStage.Name)
	}

	if strings.EqualFold(a.Status, "hired") || strings.Contains(stage, "hired") {
		return domain.ApplicationHired
	}

	if st, ok := stageStatuses.Match(stage); ok {
		return st
	}
	return domain.ApplicationApplied
}
