package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ListApplicationsParams defines the arguments for the list_applications tool
type ListApplicationsParams struct {
	JobID string `json:"job_id,omitempty" jsonschema:"Provider job identifier"`
}

// WithListApplications registers the list_applications tool
func WithListApplications() Option {
	return func(reg *registry) {
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "list_applications",
			Description: "List applications submitted to a job in the configured ATS",
		}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params ListApplicationsParams) (*sdkmcp.CallToolResult, any, error) {
			reg.logger.Debug("list_applications called", "job_id", params.JobID)

			list, err := reg.svc.ListApplications(ctx, params.JobID)
			if err != nil {
				return errorResult(err), nil, nil
			}

			res, err := jsonResult(list)
			return res, nil, err
		})
		reg.add("list_applications")
	}
}
