package zoho

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
	"github.com/honeycarbs/atsbridge/pkg/zohorecruit"
)

const (
	providerName = "zoho_recruit"

	// ManualAssociation is returned as the application id when the candidate was
	// created but could not be attached to the job opening
	ManualAssociation = "MANUAL_ASSOC_REQUIRED"

	// Zoho rejects candidates without a last name
	lastNamePlaceholder = "."

	defaultTitle    = "Untitled Position"
	defaultLocation = "Remote"
	jobOpeningURL   = "https://recruit.zoho.%s/recruit/JobOpenings.do?id=%s"
)

var jobStatuses = ats.StatusMap[domain.JobStatus]{
	Values: map[string]domain.JobStatus{
		"In-progress": domain.JobOpen,
		"Filled":      domain.JobClosed,
		"Cancelled":   domain.JobClosed,
		"Draft":       domain.JobDraft,
		"On-hold":     domain.JobDraft,
	},
	Fallback: domain.JobDraft,
}

var applicationStatuses = ats.StatusMap[domain.ApplicationStatus]{
	Values: map[string]domain.ApplicationStatus{
		"Applied":   domain.ApplicationApplied,
		"Screening": domain.ApplicationScreening,
		"Rejected":  domain.ApplicationRejected,
		"Hired":     domain.ApplicationHired,
	},
	Fallback: domain.ApplicationApplied,
}

// recruitClient describes the subset of the Zoho Recruit client used by the provider
type recruitClient interface {
	Region() string
	ListJobOpenings(ctx context.Context) ([]zohorecruit.JobOpening, error)
	ListApplications(ctx context.Context, jobOpeningID string) ([]zohorecruit.Application, error)
	CreateCandidate(ctx context.Context, rec zohorecruit.CandidateRecord) (zohorecruit.RecordResult, error)
	CreateApplication(ctx context.Context, rec zohorecruit.ApplicationRecord) (zohorecruit.RecordResult, error)
	Ping(ctx context.Context) error
}

// Option configures Provider
type Option func(*Provider)

// WithStrictAssociation turns a failed job association into an error instead of
// a ManualAssociation application id
func WithStrictAssociation(strict bool) Option {
	return func(p *Provider) {
		p.strict = strict
	}
}

// Provider implements ats.Provider using Zoho Recruit
type Provider struct {
	client recruitClient
	strict bool
	logger *logging.Logger
}

var _ ats.Provider = (*Provider)(nil)

// New builds the provider from configuration
func New(cfg config.Config, logger *logging.Logger) (ats.Provider, error) {
	client, err := zohorecruit.NewClient(zohorecruit.Config{
		ClientID:          cfg.Zoho.ClientID,
		ClientSecret:      cfg.Zoho.ClientSecret,
		RefreshToken:      cfg.Zoho.RefreshToken,
		Region:            cfg.Zoho.Region,
		BaseURL:           cfg.BaseURL,
		Timeout:           cfg.HTTP.Timeout,
		MaxAttempts:       cfg.HTTP.MaxAttempts,
		RequestsPerSecond: cfg.HTTP.RateLimit,
		Logger:            logger,
	})
	if err != nil {
		return nil, err
	}
	return NewProvider(client, logger, WithStrictAssociation(cfg.Zoho.StrictAssociation))
}

// NewProvider builds a Zoho Recruit provider
func NewProvider(client recruitClient, logger *logging.Logger, opts ...Option) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("zoho provider: client is required")
	}

	p := &Provider{client: client, logger: logging.OrNop(logger)}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Name returns provider identifier
func (p *Provider) Name() string {
	return providerName
}

// ListJobs filters after normalization; Zoho has no server-side status filter here
func (p *Provider) ListJobs(ctx context.Context, status domain.JobStatus) ([]domain.Job, error) {
	raw, err := p.client.ListJobOpenings(ctx)
	if err != nil {
		return nil, err
	}

	jobs := make([]domain.Job, 0, len(raw))
	for _, j := range raw {
		job := p.normalizeJob(j)
		if status != "" && job.Status != status {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// CreateCandidate inserts the candidate, then an Applications record linking it to the job
func (p *Provider) CreateCandidate(ctx context.Context, in domain.CandidateCreate) (domain.CandidateResponse, error) {
	if err := checkJobID(in.JobID); err != nil {
		return domain.CandidateResponse{}, err
	}

	last := ats.LastName(in.Name)
	if last == "" {
		last = lastNamePlaceholder
	}

	res, err := p.client.CreateCandidate(ctx, zohorecruit.CandidateRecord{
		FirstName: ats.FirstName(in.Name),
		LastName:  last,
		Email:     in.Email,
		Phone:     in.Phone,
	})
	if err != nil {
		return domain.CandidateResponse{}, err
	}
	if !res.Succeeded() || res.Details.ID == "" {
		msg := res.Message
		if msg == "" {
			msg = "Unknown error"
		}
		return domain.CandidateResponse{}, atserr.Service(
			fmt.Sprintf("Failed to create candidate in Zoho: %s", msg),
			http.StatusInternalServerError,
			false,
		)
	}
	candidateID := res.Details.ID

	applicationID, err := p.associate(ctx, candidateID, in.JobID)
	if err != nil {
		return domain.CandidateResponse{}, err
	}

	return domain.NewCandidateResponse(in, candidateID, applicationID), nil
}

// associate creates the Applications record. Failures degrade to ManualAssociation
// unless strict association is enabled.
func (p *Provider) associate(ctx context.Context, candidateID, jobID string) (string, error) {
	res, err := p.client.CreateApplication(ctx, zohorecruit.ApplicationRecord{
		CandidateID:  candidateID,
		JobOpeningID: jobID,
		Status:       "Applied",
	})
	if err == nil && res.Succeeded() && res.Details.ID != "" {
		return res.Details.ID, nil
	}

	reason := res.Message
	if err != nil {
		reason = err.Error()
	}

	if p.strict {
		p.logger.Error("job association failed", "candidate_id", candidateID, "job_id", jobID, "reason", reason)
		e := atserr.Service(
			fmt.Sprintf("Candidate %s was created but could not be associated with job %s", candidateID, jobID),
			http.StatusBadGateway,
			false,
		)
		e.Details = map[string]string{"candidate_id": candidateID, "job_id": jobID}
		return "", e.Wrap(err)
	}

	p.logger.Warn("failed to create application record, association must be done manually",
		"candidate_id", candidateID,
		"job_id", jobID,
		"reason", reason,
	)
	return ManualAssociation, nil
}

// ListApplications returns the Applications records of one job opening
func (p *Provider) ListApplications(ctx context.Context, jobID string) ([]domain.Application, error) {
	if err := checkJobID(jobID); err != nil {
		return nil, err
	}

	raw, err := p.client.ListApplications(ctx, jobID)
	if err != nil {
		return nil, err
	}

	apps := make([]domain.Application, 0, len(raw))
	for _, a := range raw {
		apps = append(apps, normalizeApplication(a))
	}
	return apps, nil
}

// HealthCheck obtains a token and lists modules; any error reports false
func (p *Provider) HealthCheck(ctx context.Context) bool {
	if err := p.client.Ping(ctx); err != nil {
		p.logger.Error("health check failed", "err", err)
		return false
	}
	return true
}

func (p *Provider) normalizeJob(j zohorecruit.JobOpening) domain.Job {
	title := strings.TrimSpace(j.PostingTitle)
	if title == "" {
		title = defaultTitle
	}

	location := strings.TrimSpace(j.City)
	if location == "" {
		location = defaultLocation
	}

	return domain.Job{
		ID:          j.ID,
		Title:       title,
		Location:    location,
		Status:      jobStatuses.Lookup(j.Status),
		ExternalURL: fmt.Sprintf(jobOpeningURL, p.client.Region(), j.ID),
	}
}

func normalizeApplication(a zohorecruit.Application) domain.Application {
	var name, email string
	if c := a.Candidate; c != nil {
		name, email = c.Name, c.Email
	}

	return domain.Application{
		ID:            a.ID,
		CandidateName: ats.OrUnknown(name),
		Email:         ats.OrUnknown(email),
		Status:        applicationStatuses.Lookup(a.Status),
	}
}

// checkJobID rejects ids that are not Zoho record ids before any request is made
func checkJobID(jobID string) error {
	if zohorecruit.IsRecordID(jobID) {
		return nil
	}
	return atserr.Validation(
		fmt.Sprintf("Invalid Zoho Recruit job ID '%s'", jobID),
		map[string]string{"job_id": "Must be a numeric job ID"},
	)
}
