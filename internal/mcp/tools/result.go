package tools

import (
	"encoding/json"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/atsbridge/pkg/atserr"
)

// textResult returns a text-only ToolResult
func textResult(msg string) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{
			&sdkmcp.TextContent{Text: msg},
		},
	}
}

// jsonResult renders v as the JSON text content of the result
func jsonResult(v any) (*sdkmcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return textResult(string(b)), nil
}

// errorResult reports err in-band with the same payload the REST surface returns
func errorResult(err error) *sdkmcp.CallToolResult {
	payload := atserr.Normalize(err).Payload()
	b, mErr := json.Marshal(payload)
	if mErr != nil {
		b = []byte(`{"error":"INTERNAL_ERROR","message":"An unexpected error occurred","retryable":false}`)
	}
	res := textResult(string(b))
	res.IsError = true
	return res
}
