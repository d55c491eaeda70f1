package workable

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/honeycarbs/atsbridge/internal/config"
	"github.com/honeycarbs/atsbridge/internal/domain"
	"github.com/honeycarbs/atsbridge/internal/domain/ats"
	"github.com/honeycarbs/atsbridge/pkg/atserr"
	"github.com/honeycarbs/atsbridge/pkg/logging"
	"github.com/honeycarbs/atsbridge/pkg/workable"
)

const (
	providerName = "workable"

	defaultTitle    = "Untitled Position"
	defaultLocation = "Remote"
	jobURL          = "https://%s.workable.com/j/%s"
)

// states maps the unified filter onto Workable's state query parameter
var states = map[domain.JobStatus]string{
	domain.JobOpen:   "published",
	domain.JobClosed: "closed",
	domain.JobDraft:  "draft",
}

var jobStatuses = ats.StatusMap[domain.JobStatus]{
	Values: map[string]domain.JobStatus{
		"published": domain.JobOpen,
		"closed":    domain.JobClosed,
		"archived":  domain.JobClosed,
		"draft":     domain.JobDraft,
	},
	Fallback: domain.JobDraft,
}

var stageStatuses = ats.StatusMap[domain.ApplicationStatus]{
	Values: map[string]domain.ApplicationStatus{
		"Applied":   domain.ApplicationApplied,
		"Screening": domain.ApplicationScreening,
		"Interview": domain.ApplicationScreening,
		"Offer":     domain.ApplicationScreening,
		"Hired":     domain.ApplicationHired,
		"Rejected":  domain.ApplicationRejected,
	},
	Fallback: domain.ApplicationApplied,
}

// spiClient describes the subset of the Workable client used by the provider
type spiClient interface {
	Subdomain() string
	ListJobs(ctx context.Context, state string) ([]workable.Job, error)
	ListCandidates(ctx context.Context, shortcode string) ([]workable.Candidate, error)
	CreateCandidate(ctx context.Context, shortcode string, in workable.NewCandidate) (workable.Candidate, error)
	Ping(ctx context.Context) error
}

// Provider implements ats.Provider using Workable
type Provider struct {
	client spiClient
	logger *logging.Logger
}

var _ ats.Provider = (*Provider)(nil)

// New builds the provider from configuration
func New(cfg config.Config, logger *logging.Logger) (ats.Provider, error) {
	client, err := workable.NewClient(workable.Config{
		APIKey:            cfg.WorkableAPIKey(),
		Subdomain:         cfg.Workable.Subdomain,
		BaseURL:           cfg.BaseURL,
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

// NewProvider builds a Workable provider
func NewProvider(client spiClient, logger *logging.Logger) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("workable provider: client is required")
	}
	return &Provider{client: client, logger: logging.OrNop(logger)}, nil
}

// Name returns provider identifier
func (p *Provider) Name() string {
	return providerName
}

// ListJobs filters server-side through the state parameter
func (p *Provider) ListJobs(ctx context.Context, status domain.JobStatus) ([]domain.Job, error) {
	raw, err := p.client.ListJobs(ctx, states[status])
	if err != nil {
		return nil, err
	}

	jobs := make([]domain.Job, 0, len(raw))
	for _, j := range raw {
		jobs = append(jobs, p.normalizeJob(j))
	}
	return jobs, nil
}

// CreateCandidate adds the candidate to the job; the candidate id doubles as the application id
func (p *Provider) CreateCandidate(ctx context.Context, in domain.CandidateCreate) (domain.CandidateResponse, error) {
	cand, err := p.client.CreateCandidate(ctx, in.JobID, workable.NewCandidate{
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		ResumeURL: in.ResumeURL,
	})
	if err != nil {
		return domain.CandidateResponse{}, err
	}

	if cand.ID == "" {
		p.logger.Error("candidate response without id", "job_id", in.JobID)
		return domain.CandidateResponse{}, atserr.Service("Workable did not return a candidate ID", http.StatusInternalServerError, false)
	}

	return domain.NewCandidateResponse(in, cand.ID, cand.ID), nil
}

// ListApplications lists the job's candidates
func (p *Provider) ListApplications(ctx context.Context, jobID string) ([]domain.Application, error) {
	raw, err := p.client.ListCandidates(ctx, jobID)
	if err != nil {
		return nil, err
	}

	apps := make([]domain.Application, 0, len(raw))
	for _, c := range raw {
		apps = append(apps, normalizeApplication(c))
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

func (p *Provider) normalizeJob(j workable.Job) domain.Job {
	title := strings.TrimSpace(j.Title)
	if title == "" {
		title = defaultTitle
	}

	location := defaultLocation
	if j.Location != nil && strings.TrimSpace(j.Location.City) != "" {
		location = j.Location.City
	}

	url := j.URL
	if url == "" {
		url = fmt.Sprintf(jobURL, p.client.Subdomain(), j.Shortcode)
	}

	return domain.Job{
		ID:          j.Shortcode,
		Title:       title,
		Location:    location,
		Status:      jobStatuses.Lookup(j.State),
		ExternalURL: url,
	}
}

func normalizeApplication(c workable.Candidate) domain.Application {
	status := stageStatuses.Lookup(c.Stage)
	if c.Disqualified {
		status = domain.ApplicationRejected
	}

	return domain.Application{
		ID:            c.ID,
		CandidateName: ats.OrUnknown(c.Name),
		Email:         c.Email,
		Status:        status,
	}
}
