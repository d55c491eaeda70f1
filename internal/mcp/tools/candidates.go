package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/atsbridge/internal/domain"
)

// CreateCandidateParams defines the arguments for the create_candidate tool.
// Fields are optional at the schema level so missing values come back as a
// VALIDATION_ERROR payload instead of a protocol error.
type CreateCandidateParams struct {
	Name      string `json:"name,omitempty" jsonschema:"Candidate full name"`
	Email     string `json:"email,omitempty" jsonschema:"Candidate email address"`
	Phone     string `json:"phone,omitempty" jsonschema:"Optional phone number"`
	ResumeURL string `json:"resume_url,omitempty" jsonschema:"Optional link to the resume"`
	JobID     string `json:"job_id,omitempty" jsonschema:"Provider job identifier to apply to"`
}

// WithCreateCandidate registers the create_candidate tool
func WithCreateCandidate() Option {
	return func(reg *registry) {
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "create_candidate",
			Description: "Create a candidate in the configured ATS and apply them to a job",
		}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params CreateCandidateParams) (*sdkmcp.CallToolResult, any, error) {
			reg.logger.Info("create_candidate called", "job_id", params.JobID)

			resp, err := reg.svc.CreateCandidate(ctx, domain.CandidateCreate{
				Name:      params.Name,
				Email:     params.Email,
				Phone:     params.Phone,
				ResumeURL: params.ResumeURL,
				JobID:     params.JobID,
			})
			if err != nil {
				return errorResult(err), nil, nil
			}

			res, err := jsonResult(resp)
			return res, nil, err
		})
		reg.add("create_candidate")
	}
}
