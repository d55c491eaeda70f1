package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HealthParams is empty; ats_health takes no arguments
type HealthParams struct{}

// WithHealth registers the ats_health tool
func WithHealth() Option {
	return func(reg *registry) {
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "ats_health",
			Description: "Check connectivity and credentials for the configured ATS",
		}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ HealthParams) (*sdkmcp.CallToolResult, any, error) {
			res, err := jsonResult(reg.svc.Health(ctx))
			return res, nil, err
		})
		reg.add("ats_health")
	}
}
