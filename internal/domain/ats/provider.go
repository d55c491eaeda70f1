package ats

import (
	"context"

	"github.com/honeycarbs/atsbridge/internal/domain"
)

// Provider is the capability contract every ATS adapter satisfies
type Provider interface {
	// e.g. "greenhouse" or "workable"
	Name() string

	// ListJobs returns normalized jobs; an empty status means no filter
	ListJobs(ctx context.Context, status domain.JobStatus) ([]domain.Job, error)

	// CreateCandidate creates the candidate and attaches it to in.JobID
	CreateCandidate(ctx context.Context, in domain.CandidateCreate) (domain.CandidateResponse, error)

	// ListApplications returns normalized applications for one job
	ListApplications(ctx context.Context, jobID string) ([]domain.Application, error)

	// HealthCheck issues one side-effect-free call and never returns provider errors
	HealthCheck(ctx context.Context) bool
}
