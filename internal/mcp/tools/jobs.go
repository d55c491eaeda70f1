package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ListJobsParams defines the arguments for the list_jobs tool
type ListJobsParams struct {
	Status string `json:"status,omitempty" jsonschema:"Optional status filter: OPEN, CLOSED or DRAFT"`
}

// WithListJobs registers the list_jobs tool
func WithListJobs() Option {
	return func(reg *registry) {
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "list_jobs",
			Description: "List job postings from the configured ATS, optionally filtered by status",
		}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params ListJobsParams) (*sdkmcp.CallToolResult, any, error) {
			reg.logger.Debug("list_jobs called", "status", params.Status)

			list, err := reg.svc.ListJobs(ctx, params.Status)
			if err != nil {
				return errorResult(err), nil, nil
			}

			res, err := jsonResult(list)
			return res, nil, err
		})
		reg.add("list_jobs")
	}
}
