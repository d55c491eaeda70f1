package ats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/atsbridge/internal/domain"
	"github.com/honeycarbs/atsbridge/pkg/atserr"
)

type mockProvider struct {
	mock.Mock
	name string
}

func (m *mockProvider) Name() string {
	return m.name
}

func (m *mockProvider) ListJobs(ctx context.Context, status domain.JobStatus) ([]domain.Job, error) {
	args := m.Called(ctx, status)
	jobs, _ := args.Get(0).([]domain.Job)
	return jobs, args.Error(1)
}

func (m *mockProvider) CreateCandidate(ctx context.Context, in domain.CandidateCreate) (domain.CandidateResponse, error) {
	args := m.Called(ctx, in)
	resp, _ := args.Get(0).(domain.CandidateResponse)
	return resp, args.Error(1)
}

func (m *mockProvider) ListApplications(ctx context.Context, jobID string) ([]domain.Application, error) {
	args := m.Called(ctx, jobID)
	apps, _ := args.Get(0).([]domain.Application)
	return apps, args.Error(1)
}

func (m *mockProvider) HealthCheck(ctx context.Context) bool {
	return m.Called(ctx).Bool(0)
}

func newTestService(t *testing.T, p Provider) Service {
	t.Helper()
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s, err := NewService(WithProvider(p), WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)
	return s
}

func TestNewService_RequiresProvider(t *testing.T) {
	_, err := NewService()
	assert.Error(t, err)
}

func TestListJobs_StatusFilter(t *testing.T) {
	p := &mockProvider{name: "greenhouse"}
	jobs := []domain.Job{{ID: "1", Title: "Engineer", Location: "Remote", Status: domain.JobOpen}}
	p.On("ListJobs", mock.Anything, domain.JobOpen).Return(jobs, nil)
	p.On("ListJobs", mock.Anything, domain.JobStatus("")).Return(nil, nil)

	s := newTestService(t, p)

	got, err := s.ListJobs(context.Background(), "open")
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalCount)
	assert.Equal(t, jobs, got.Jobs)

	got, err = s.ListJobs(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, got.Jobs)
	assert.Zero(t, got.TotalCount)

	p.AssertExpectations(t)
}

func TestListJobs_InvalidStatus(t *testing.T) {
	p := &mockProvider{name: "greenhouse"}
	s := newTestService(t, p)

	_, err := s.ListJobs(context.Background(), "published")
	assert.Equal(t, atserr.KindValidation, atserr.KindOf(err))
	p.AssertNotCalled(t, "ListJobs", mock.Anything, mock.Anything)
}

func TestListJobs_NormalizesProviderErrors(t *testing.T) {
	p := &mockProvider{name: "greenhouse"}
	p.On("ListJobs", mock.Anything, domain.JobStatus("")).Return(nil, errors.New("decode exploded"))

	s := newTestService(t, p)

	_, err := s.ListJobs(context.Background(), "")
	e, ok := atserr.As(err)
	require.True(t, ok)
	assert.Equal(t, atserr.KindInternal, e.Kind)
	assert.Equal(t, "An unexpected error occurred", e.Message)
}

func TestCreateCandidate_ValidationBeforeProvider(t *testing.T) {
	p := &mockProvider{name: "zoho"}
	s := newTestService(t, p)

	_, err := s.CreateCandidate(context.Background(), domain.CandidateCreate{Name: "John", Email: "not-an-email", JobID: "1"})
	e, ok := atserr.As(err)
	require.True(t, ok)
	assert.Equal(t, atserr.KindValidation, e.Kind)
	assert.Contains(t, e.Details, "email")
	p.AssertNotCalled(t, "CreateCandidate", mock.Anything, mock.Anything)
}

func TestCreateCandidate_PassesTrimmedInput(t *testing.T) {
	p := &mockProvider{name: "workable"}
	want := domain.CandidateCreate{Name: "John Doe", Email: "john@example.com", JobID: "ABC123"}
	resp := domain.NewCandidateResponse(want, "c1", "c1")
	p.On("CreateCandidate", mock.Anything, want).Return(resp, nil)

	s := newTestService(t, p)

	got, err := s.CreateCandidate(context.Background(), domain.CandidateCreate{Name: " John Doe ", Email: "john@example.com", JobID: " ABC123 "})
	require.NoError(t, err)
	assert.Equal(t, resp, got)
	assert.Equal(t, domain.ApplicationApplied, got.Status)
	p.AssertExpectations(t)
}

func TestListApplications_BlankJobID(t *testing.T) {
	p := &mockProvider{name: "greenhouse"}
	s := newTestService(t, p)

	_, err := s.ListApplications(context.Background(), "  ")
	assert.Equal(t, atserr.KindValidation, atserr.KindOf(err))
	p.AssertNotCalled(t, "ListApplications", mock.Anything, mock.Anything)
}

func TestListApplications_PropagatesClassifiedErrors(t *testing.T) {
	p := &mockProvider{name: "greenhouse"}
	p.On("ListApplications", mock.Anything, "42").Return(nil, atserr.RateLimit(7*time.Second))

	s := newTestService(t, p)

	_, err := s.ListApplications(context.Background(), "42")
	e, ok := atserr.As(err)
	require.True(t, ok)
	assert.Equal(t, atserr.KindRateLimit, e.Kind)
	assert.Equal(t, 7*time.Second, e.RetryAfter)
}

func TestListApplications_Envelope(t *testing.T) {
	p := &mockProvider{name: "greenhouse"}
	apps := []domain.Application{{ID: "a1", CandidateName: "Jane Roe", Email: "jane@example.com", Status: domain.ApplicationScreening}}
	p.On("ListApplications", mock.Anything, "42").Return(apps, nil)

	s := newTestService(t, p)

	got, err := s.ListApplications(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "42", got.JobID)
	assert.Equal(t, 1, got.TotalCount)
	assert.Equal(t, apps, got.Applications)
}

func TestHealth(t *testing.T) {
	p := &mockProvider{name: "zoho"}
	p.On("HealthCheck", mock.Anything).Return(false)

	s := newTestService(t, p)

	h := s.Health(context.Background())
	assert.Equal(t, "zoho", h.Provider)
	assert.False(t, h.Healthy)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), h.CheckedAt)
}
