package mcp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/atsbridge/internal/api"
	"github.com/honeycarbs/atsbridge/internal/config"
	"github.com/honeycarbs/atsbridge/internal/domain"
	"github.com/honeycarbs/atsbridge/internal/domain/ats"
)

type stubProvider struct {
	healthy bool
}

func (stubProvider) Name() string { return "greenhouse" }

func (stubProvider) ListJobs(context.Context, domain.JobStatus) ([]domain.Job, error) {
	return []domain.Job{{ID: "1", Title: "Engineer", Location: "Remote", Status: domain.JobOpen}}, nil
}

func (stubProvider) CreateCandidate(_ context.Context, in domain.CandidateCreate) (domain.CandidateResponse, error) {
	return domain.NewCandidateResponse(in, "789", "456"), nil
}

func (stubProvider) ListApplications(context.Context, string) ([]domain.Application, error) {
	return nil, nil
}

func (p stubProvider) HealthCheck(context.Context) bool { return p.healthy }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	svc, err := ats.NewService(ats.WithProvider(stubProvider{healthy: true}))
	require.NoError(t, err)

	cfg := config.Config{Host: "127.0.0.1", Port: "0", Provider: "greenhouse"}
	s := NewServer(nil, cfg, NewMCPServer(svc, nil), api.NewRouter(svc, nil))

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestServer_Healthz(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestServer_MountsRESTRouter(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/jobs?status=OPEN")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list domain.JobList
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Equal(t, 1, list.TotalCount)
}

func TestServer_MCPStream(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, &sdkmcp.StreamableClientTransport{Endpoint: ts.URL + StreamPath}, nil)
	require.NoError(t, err)
	defer func() { _ = session.Close() }()

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name: "create_candidate",
		Arguments: map[string]any{
			"name":   "John Doe",
			"email":  "john@example.com",
			"job_id": "123",
		},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Len(t, res.Content, 1)

	txt, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)

	var got domain.CandidateResponse
	require.NoError(t, json.Unmarshal([]byte(txt.Text), &got))
	assert.Equal(t, "789", got.CandidateID)
	assert.Equal(t, domain.ApplicationApplied, got.Status)
}

func TestServer_RunAndShutdown(t *testing.T) {
	svc, err := ats.NewService(ats.WithProvider(stubProvider{}))
	require.NoError(t, err)

	s := NewServer(nil, config.Config{Host: "127.0.0.1", Port: "0"}, NewMCPServer(svc, nil), nil)

	done := make(chan error, 1)
	go func() { done <- s.Run() }()

	// second Run is a no-op once started
	time.Sleep(50 * time.Millisecond)
	assert.NoError(t, s.Run())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Shutdown")
	}
}
