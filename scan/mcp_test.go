package scan

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var testMCPImpl = &mcp.Implementation{Name: "scan-test", Version: "0.1.0"}

func mcpSession(t *testing.T, m *Manager) *mcp.ClientSession {
	t.Helper()
	srv := mcp.NewServer(testMCPImpl, nil)
	m.RegisterMCP(srv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(testMCPImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func mcpCallTool(t *testing.T, session *mcp.ClientSession, name string, args any) (string, error) {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if result.IsError {
		msg := "tool error"
		if len(result.Content) > 0 {
			if tc, ok := result.Content[0].(*mcp.TextContent); ok {
				msg = tc.Text
			}
		}
		return "", errors.New(msg)
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("CallTool(%s): expected TextContent", name)
	}
	return tc.Text, nil
}

func TestMCP_RunAndResults(t *testing.T) {
	root := writeTree(t)
	m := newTestManager(t)
	session := mcpSession(t, m)

	text, err := mcpCallTool(t, session, "scan_run", map[string]any{"root": root})
	if err != nil {
		t.Fatalf("scan_run: %v", err)
	}
	var started struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal([]byte(text), &started); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if started.ID == "" || started.Status != "running" {
		t.Fatalf("scan_run response = %+v", started)
	}

	// Poll scan_results until the background run finishes.
	deadline := time.Now().Add(10 * time.Second)
	for {
		if time.Now().After(deadline) {
			t.Fatal("scan did not finish")
		}
		text, err = mcpCallTool(t, session, "scan_results", map[string]any{"id": started.ID})
		if err != nil {
			t.Fatalf("scan_results: %v", err)
		}
		var resp struct {
			Scan    ScanInfo `json:"scan"`
			Results []Result `json:"results"`
		}
		if err := json.Unmarshal([]byte(text), &resp); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if resp.Scan.Status == "running" {
			time.Sleep(10 * time.Millisecond)
			continue
		}
		if resp.Scan.Status != "done" {
			t.Fatalf("status = %q", resp.Scan.Status)
		}
		if len(resp.Results) != 4 {
			t.Fatalf("got %d results, want 4", len(resp.Results))
		}
		break
	}
}

func TestMCP_RunBadRoot(t *testing.T) {
	m := newTestManager(t)
	session := mcpSession(t, m)

	if _, err := mcpCallTool(t, session, "scan_run", map[string]any{"root": "/does/not/exist"}); err == nil {
		t.Fatal("expected tool error for missing root")
	}
}

func TestMCP_ResultsUnknownID(t *testing.T) {
	m := newTestManager(t)
	session := mcpSession(t, m)

	if _, err := mcpCallTool(t, session, "scan_results", map[string]any{"id": "scn_missing"}); err == nil {
		t.Fatal("expected tool error for unknown scan id")
	}
}
