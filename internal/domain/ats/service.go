package ats

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/honeycarbs/atsbridge/internal/domain"
	"github.com/honeycarbs/atsbridge/pkg/atserr"
	"github.com/honeycarbs/atsbridge/pkg/logging"
)

// Health reports provider reachability
type Health struct {
	Provider  string    `json:"provider"`
	Healthy   bool      `json:"healthy"`
	CheckedAt time.Time `json:"checked_at"`
}

// Service is the provider-agnostic entry point used by the REST and MCP surfaces
type Service interface {
	ProviderName() string
	ListJobs(ctx context.Context, status string) (domain.JobList, error)
	CreateCandidate(ctx context.Context, in domain.CandidateCreate) (domain.CandidateResponse, error)
	ListApplications(ctx context.Context, jobID string) (domain.ApplicationList, error)
	Health(ctx context.Context) Health
}

// Option configures Service
type Option func(*serviceConfig)

type serviceConfig struct {
	provider  Provider
	logger    *logging.Logger
	validator *domain.Validator
	clock     func() time.Time
}

// WithProvider sets the active provider
func WithProvider(p Provider) Option {
	return func(c *serviceConfig) {
		c.provider = p
	}
}

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(c *serviceConfig) {
		c.logger = l
	}
}

// WithValidator sets the input validator
func WithValidator(v *domain.Validator) Option {
	return func(c *serviceConfig) {
		c.validator = v
	}
}

// WithClock sets a custom clock
func WithClock(clock func() time.Time) Option {
	return func(c *serviceConfig) {
		c.clock = clock
	}
}

// NewService builds Service from options
func NewService(opts ...Option) (Service, error) {
	cfg := &serviceConfig{
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.provider == nil {
		return nil, fmt.Errorf("ats.Service: provider is required")
	}
	if cfg.validator == nil {
		cfg.validator = domain.NewValidator()
	}

	return &service{
		provider:  cfg.provider,
		logger:    logging.OrNop(cfg.logger),
		validator: cfg.validator,
		clock:     cfg.clock,
	}, nil
}

// NewServiceWithDeps creates a Service with direct dependencies (Wire-compatible)
func NewServiceWithDeps(provider Provider, logger *logging.Logger) (Service, error) {
	return NewService(WithProvider(provider), WithLogger(logger))
}

type service struct {
	provider  Provider
	logger    *logging.Logger
	validator *domain.Validator
	clock     func() time.Time
}

func (s *service) ProviderName() string {
	return s.provider.Name()
}

// ListJobs validates the optional status filter and lists the provider's jobs
func (s *service) ListJobs(ctx context.Context, status string) (domain.JobList, error) {
	var filter domain.JobStatus
	if strings.TrimSpace(status) != "" {
		st, ok := domain.ParseJobStatus(status)
		if !ok {
			return domain.JobList{}, atserr.Validation(
				fmt.Sprintf("Invalid status '%s'. Must be one of: OPEN, CLOSED, DRAFT", status),
				map[string]string{"status": "Must be one of: OPEN, CLOSED, DRAFT"},
			)
		}
		filter = st
	}

	start := s.clock()
	jobs, err := s.provider.ListJobs(ctx, filter)
	if err != nil {
		return domain.JobList{}, s.fail("list jobs", start, err)
	}
	if jobs == nil {
		jobs = []domain.Job{}
	}

	s.logger.Info("listed jobs", "provider", s.provider.Name(), "status", string(filter), "count", len(jobs), "duration", s.clock().Sub(start))
	return domain.JobList{Jobs: jobs, TotalCount: len(jobs)}, nil
}

// CreateCandidate validates the input before any provider call
func (s *service) CreateCandidate(ctx context.Context, in domain.CandidateCreate) (domain.CandidateResponse, error) {
	in, err := s.validator.ValidateCandidate(in)
	if err != nil {
		return domain.CandidateResponse{}, err
	}

	start := s.clock()
	resp, err := s.provider.CreateCandidate(ctx, in)
	if err != nil {
		return domain.CandidateResponse{}, s.fail("create candidate", start, err)
	}

	s.logger.Info("created candidate",
		"provider", s.provider.Name(),
		"candidate_id", resp.CandidateID,
		"application_id", resp.ApplicationID,
		"job_id", resp.JobID,
		"duration", s.clock().Sub(start),
	)
	return resp, nil
}

// ListApplications rejects a blank job id before any provider call
func (s *service) ListApplications(ctx context.Context, jobID string) (domain.ApplicationList, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return domain.ApplicationList{}, atserr.Validation(
			"job_id is required",
			map[string]string{"job_id": "This field is required"},
		)
	}

	start := s.clock()
	apps, err := s.provider.ListApplications(ctx, jobID)
	if err != nil {
		return domain.ApplicationList{}, s.fail("list applications", start, err)
	}
	if apps == nil {
		apps = []domain.Application{}
	}

	s.logger.Info("listed applications", "provider", s.provider.Name(), "job_id", jobID, "count", len(apps), "duration", s.clock().Sub(start))
	return domain.ApplicationList{Applications: apps, JobID: jobID, TotalCount: len(apps)}, nil
}

// Health never fails; provider errors are reported as unhealthy
func (s *service) Health(ctx context.Context) Health {
	healthy := s.provider.HealthCheck(ctx)
	if !healthy {
		s.logger.Warn("provider health check failed", "provider", s.provider.Name())
	}
	return Health{
		Provider:  s.provider.Name(),
		Healthy:   healthy,
		CheckedAt: s.clock().UTC(),
	}
}

func (s *service) fail(op string, start time.Time, err error) error {
	e := atserr.Normalize(err)
	keyvals := []any{
		"provider", s.provider.Name(),
		"kind", string(e.Kind),
		"duration", s.clock().Sub(start),
		"error", err,
	}
	if e.Detail != "" {
		keyvals = append(keyvals, "detail", e.Detail)
	}

	switch {
	case e.Kind == atserr.KindInternal, errors.Is(err, context.Canceled):
		s.logger.Error(op+" failed", keyvals...)
	default:
		s.logger.Warn(op+" failed", keyvals...)
	}
	return e
}
