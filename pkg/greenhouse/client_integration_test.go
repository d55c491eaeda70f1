package greenhouse

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestListJobsIntegration(t *testing.T) {
	apiKey := os.Getenv("GREENHOUSE_API_KEY")
	if apiKey == "" {
		t.Skip("GREENHOUSE_API_KEY must be set to run this test")
	}

	client, err := NewClient(Config{
		APIKey:  apiKey,
		BaseURL: os.Getenv("GREENHOUSE_BASE_URL"),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	jobs, err := client.ListJobs(ctx, ListJobsParams{Status: "open"})
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}

	if len(jobs) == 0 {
		t.Log("Greenhouse returned zero open jobs; check account or credentials")
		return
	}

	for i, job := range jobs {
		if i >= 5 {
			break
		}
		t.Logf("Result %d: %s (%s)", i+1, job.Name, job.ID)
	}
	t.Logf("Greenhouse returned %d open jobs", len(jobs))
}
