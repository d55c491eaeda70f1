package greenhouse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc, onBehalfOf string) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{
		APIKey:         "harvest-key",
		BaseURL:        srv.URL + "/v1",
		OnBehalfOf:     onBehalfOf,
		Timeout:        time.Second,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     time.Millisecond,
	})
	require.NoError(t, err)
	return c
}

func TestListJobs_FollowsLinkHeader(t *testing.T) {
	var queries []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		user, _, _ := r.BasicAuth()
		assert.Equal(t, "harvest-key", user)
		assert.Equal(t, "/v1/jobs", r.URL.Path)
		queries = append(queries, r.URL.RawQuery)

		if r.URL.Query().Get("page") == "" {
			w.Header().Set("Link", fmt.Sprintf(`<http://%s/v1/jobs?page=2&per_page=100&status=open>; rel="next"`, r.Host))
			_, _ = w.Write([]byte(`[{"id": 1, "name": "Engineer", "status": "open"}, {"id": {"bad": true}}]`))
			return
		}
		_, _ = w.Write([]byte(`[{"id": "2", "name": "Designer", "status": "open", "location": "Berlin"}]`))
	}, "")

	jobs, err := c.ListJobs(context.Background(), ListJobsParams{Status: "OPEN"})
	require.NoError(t, err)

	require.Len(t, jobs, 2, "malformed item is skipped")
	assert.Equal(t, ID("1"), jobs[0].ID)
	assert.Equal(t, ID("2"), jobs[1].ID)
	assert.JSONEq(t, `"Berlin"`, string(jobs[1].Location))

	require.Len(t, queries, 2)
	assert.Equal(t, "per_page=100&status=open", queries[0])
	assert.Contains(t, queries[1], "page=2")
}

func TestListApplications_PassesJobID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/applications", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("job_id"))
		_, _ = w.Write([]byte(`[{"id": 7, "rejected_at": null, "current_stage": {"name": "Phone Screen"},
			"candidate": {"first_name": "John", "last_name": "Doe", "email_addresses": [{"value": "john@example.com"}]}}]`))
	}, "")

	apps, err := c.ListApplications(context.Background(), "42")
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Nil(t, apps[0].RejectedAt)
	assert.Equal(t, "Phone Screen", apps[0].CurrentStage.Name)
	assert.Equal(t, "john@example.com", apps[0].Candidate.EmailAddresses[0].Value)
}

func TestListJobs_NonArrayBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message": "nothing here"}`))
	}, "")

	jobs, err := c.ListJobs(context.Background(), ListJobsParams{})
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestCreateCandidate_SendsOnBehalfOf(t *testing.T) {
	var body CandidateRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/candidates", r.URL.Path)
		assert.Equal(t, "1234", r.Header.Get("On-Behalf-Of"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 789, "applications": [{"id": 456}]}`))
	}, "1234")

	out, err := c.CreateCandidate(context.Background(), CandidateRequest{
		FirstName:      "John",
		LastName:       "Doe",
		EmailAddresses: []ContactValue{{Value: "john@example.com", Type: "personal"}},
		Applications:   []ApplicationRef{{JobID: 123}},
	})
	require.NoError(t, err)

	assert.Equal(t, ID("789"), out.ID)
	require.Len(t, out.Applications, 1)
	assert.Equal(t, ID("456"), out.Applications[0].ID)
	assert.Equal(t, int64(123), body.Applications[0].JobID)
	assert.Nil(t, body.PhoneNumbers)
}

func TestPing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("per_page"))
		assert.Empty(t, r.Header.Get("On-Behalf-Of"), "reads are not impersonated")
		_, _ = w.Write([]byte(`[]`))
	}, "1234")

	assert.NoError(t, c.Ping(context.Background()))
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestID_Unmarshal(t *testing.T) {
	var v struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 4000123456, "b": "xyz", "c": null}`), &v))
	assert.Equal(t, ID("4000123456"), v.A)
	assert.Equal(t, ID("xyz"), v.B)
	assert.Equal(t, ID(""), v.C)
}
