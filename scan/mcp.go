package scan

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anujgupta2in/Manualsscan/kit"
)

// RegisterMCP registers the scan tools on an MCP server.
func (m *Manager) RegisterMCP(srv *mcp.Server) {
	m.registerRunTool(srv)
	m.registerResultsTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

type runReq struct {
	Root    string `json:"root"`
	Workers int    `json:"workers"`
}

func (m *Manager) registerRunTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "scan_run",
		Description: "Start a background scan of a document folder. Returns the scan ID; poll scan_results for the outcome.",
		InputSchema: inputSchema(map[string]any{
			"root":    map[string]any{"type": "string", "description": "Folder to scan"},
			"workers": map[string]any{"type": "integer", "description": "Concurrent files; 0 keeps the configured default"},
		}, []string{"root"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*runReq)
		id, err := m.StartScan(ctx, r.Root, r.Workers)
		if err != nil {
			return nil, err
		}
		return map[string]any{"id": id, "status": "running"}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r runReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

type resultsReq struct {
	ID string `json:"id"`
}

func (m *Manager) registerResultsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "scan_results",
		Description: "Fetch a scan's status, counters and per-file records by scan ID.",
		InputSchema: inputSchema(map[string]any{
			"id": map[string]any{"type": "string", "description": "Scan ID from scan_run"},
		}, []string{"id"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*resultsReq)
		info, err := m.GetScan(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		results, err := m.Results(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"scan": info, "results": results}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r resultsReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
