package domain

import "strings"

// JobStatus is the unified job lifecycle state
type JobStatus string

const (
	JobOpen   JobStatus = "OPEN"
	JobClosed JobStatus = "CLOSED"
	JobDraft  JobStatus = "DRAFT"
)

// ParseJobStatus accepts any casing; ok is false for values outside the taxonomy
func ParseJobStatus(s string) (JobStatus, bool) {
	switch st := JobStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case JobOpen, JobClosed, JobDraft:
		return st, true
	}
	return "", false
}

// ApplicationStatus is the unified (lossy) projection of a provider pipeline stage
type ApplicationStatus string

const (
	ApplicationApplied   ApplicationStatus = "APPLIED"
	ApplicationScreening ApplicationStatus = "SCREENING"
	ApplicationRejected  ApplicationStatus = "REJECTED"
	ApplicationHired     ApplicationStatus = "HIRED"
)

// Job is the normalized job posting
type Job struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	Status      JobStatus `json:"status"`
	ExternalURL string    `json:"external_url"`
}

// JobList is the job listing envelope
type JobList struct {
	Jobs       []Job `json:"jobs"`
	TotalCount int   `json:"total_count"`
}

// CandidateCreate is the caller-supplied candidate application
type CandidateCreate struct {
	Name      string `json:"name" validate:"required,min=1,max=255"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,max=50"`
	ResumeURL string `json:"resume_url,omitempty" validate:"omitempty,url"`
	JobID     string `json:"job_id" validate:"required"`
}

// CandidateResponse reports a created candidate and its application
type CandidateResponse struct {
	CandidateID   string            `json:"candidate_id"`
	ApplicationID string            `json:"application_id"`
	Name          string            `json:"name"`
	Email         string            `json:"email"`
	JobID         string            `json:"job_id"`
	Status        ApplicationStatus `json:"status"`
}

// NewCandidateResponse echoes the input with a fresh APPLIED status
func NewCandidateResponse(in CandidateCreate, candidateID, applicationID string) CandidateResponse {
	return CandidateResponse{
		CandidateID:   candidateID,
		ApplicationID: applicationID,
		Name:          in.Name,
		Email:         in.Email,
		JobID:         in.JobID,
		Status:        ApplicationApplied,
	}
}

// Application is a candidate's application to a job
type Application struct {
	ID            string            `json:"id"`
	CandidateName string            `json:"candidate_name"`
	Email         string            `json:"email"`
	Status        ApplicationStatus `json:"status"`
}

// ApplicationList is the application listing envelope
type ApplicationList struct {
	Applications []Application `json:"applications"`
	JobID        string        `json:"job_id"`
	TotalCount   int           `json:"total_count"`
}
