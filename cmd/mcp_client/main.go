package main

import (
	"context"
	"fmt"
	"log"
	"os"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultEndpoint = "http://localhost:8080/mcp/stream"

func main() {
	ctx := context.Background()

	endpoint := os.Getenv("MCP_ENDPOINT")
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "atsbridge-test-client",
		Version: "0.1.0",
	}, nil)

	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{
		Endpoint: endpoint,
	}, nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer func() { _ = session.Close() }()

	log.Printf("Connected to server (session ID: %s)\n", session.ID())

	testListTools(ctx, session)
	testHealth(ctx, session)
	jobID := testListJobs(ctx, session)
	if jobID == "" {
		fmt.Println("\nno open jobs, skipping application tests")
		return
	}
	testListApplications(ctx, session, jobID)

	// Writes are opt-in: they create real records in the ATS
	if os.Getenv("MCP_CLIENT_WRITE") == "true" {
		testCreateCandidate(ctx, session, jobID)
	}

	fmt.Println("\nAll tests completed")
}

func testListTools(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("\nTEST: tools/list")

	res, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	if err != nil {
		log.Printf("list tools failed: %v", err)
		return
	}
	for _, tool := range res.Tools {
		fmt.Printf("  %s: %s\n", tool.Name, tool.Description)
	}
}

func testHealth(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("\nTEST: ats_health")

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "ats_health",
		Arguments: map[string]any{},
	})
	if err != nil {
		log.Printf("ats_health failed: %v", err)
		return
	}
	printResult(result)
}

// testListJobs returns the first open job id, if any
func testListJobs(ctx context.Context, session *mcp.ClientSession) string {
	fmt.Println("\nTEST: list_jobs")

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "list_jobs",
		Arguments: map[string]any{"status": "OPEN"},
	})
	if err != nil {
		log.Printf("list_jobs failed: %v", err)
		return ""
	}
	printResult(result)

	if result.IsError {
		return ""
	}
	return firstJobID(result)
}

func testListApplications(ctx context.Context, session *mcp.ClientSession, jobID string) {
	fmt.Printf("\nTEST: list_applications (job_id=%s)\n", jobID)

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "list_applications",
		Arguments: map[string]any{"job_id": jobID},
	})
	if err != nil {
		log.Printf("list_applications failed: %v", err)
		return
	}
	printResult(result)
}

func testCreateCandidate(ctx context.Context, session *mcp.ClientSession, jobID string) {
	fmt.Printf("\nTEST: create_candidate (job_id=%s)\n", jobID)

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: "create_candidate",
		Arguments: map[string]any{
			"name":   "Test Candidate",
			"email":  "test.candidate@example.com",
			"job_id": jobID,
		},
	})
	if err != nil {
		log.Printf("create_candidate failed: %v", err)
		return
	}
	printResult(result)
}

func printResult(res *mcp.CallToolResult) {
	if res.IsError {
		fmt.Println("  (tool error)")
	}
	for _, c := range res.Content {
		if txt, ok := c.(*mcp.TextContent); ok {
			fmt.Println(txt.Text)
		}
	}
}
