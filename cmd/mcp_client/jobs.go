package main

import (
	"encoding/json"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type jobList struct {
	Jobs []struct {
		ID string `json:"id"`
	} `json:"jobs"`
}

func firstJobID(res *mcp.CallToolResult) string {
	for _, c := range res.Content {
		txt, ok := c.(*mcp.TextContent)
		if !ok {
			continue
		}
		var list jobList
		if err := json.Unmarshal([]byte(txt.Text), &list); err != nil {
			continue
		}
		if len(list.Jobs) > 0 {
			return list.Jobs[0].ID
		}
	}
	return ""
}
