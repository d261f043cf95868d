package titlescan

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anujgupta2in/Manualsscan/kit"
)

// RegisterMCP registers the title extraction tools on an MCP server. The
// package is stateless, so registration needs no receiver.
func RegisterMCP(srv *mcp.Server) {
	registerIdentifyTool(srv)
	registerClassifyTool(srv)
	registerCleanTool(srv)
	registerFieldsTool(srv)
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

// --- identify ---

type identifyReq struct {
	Text       string            `json:"text"`
	Filename   string            `json:"filename"`
	FolderPath string            `json:"folder_path"`
	Metadata   map[string]string `json:"metadata"`
}

func registerIdentifyTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "title_identify",
		Description: "Extract the manual/equipment/system name from document text, filename, folder and metadata, with a confidence grade and clues.",
		InputSchema: inputSchema(map[string]any{
			"text":        map[string]any{"type": "string", "description": "Extracted document text"},
			"filename":    map[string]any{"type": "string", "description": "Document file name"},
			"folder_path": map[string]any{"type": "string", "description": "Path of the containing folder"},
			"metadata":    map[string]any{"type": "object", "description": "Document metadata, e.g. the Title key"},
		}, []string{"filename"}),
	}

	endpoint := func(_ context.Context, req any) (any, error) {
		r := req.(*identifyReq)
		name := IdentifyManualName(r.Text, r.Filename, r.FolderPath, r.Metadata)
		conf, clues := ScoreConfidence(r.Text, name, r.Filename, r.FolderPath, r.Metadata)
		return map[string]any{
			"name":       name,
			"confidence": string(conf),
			"clues":      clues,
		}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r identifyReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- classify ---

type classifyReq struct {
	Text       string `json:"text"`
	Filename   string `json:"filename"`
	FolderPath string `json:"folder_path"`
}

func registerClassifyTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "title_classify",
		Description: "Classify a document as Machinery/System Manual, Capacity Plan / Datasheet, Certificate / Report, Drawing or Unknown.",
		InputSchema: inputSchema(map[string]any{
			"text":        map[string]any{"type": "string", "description": "Extracted document text"},
			"filename":    map[string]any{"type": "string", "description": "Document file name"},
			"folder_path": map[string]any{"type": "string", "description": "Path of the containing folder"},
		}, []string{"filename"}),
	}

	endpoint := func(_ context.Context, req any) (any, error) {
		r := req.(*classifyReq)
		return map[string]any{
			"doc_type": string(ClassifyDocType(r.Text, r.Filename, r.FolderPath)),
		}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r classifyReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- clean ---

type cleanReq struct {
	Text string `json:"text"`
}

func registerCleanTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "title_clean",
		Description: "Clean a raw candidate title: canonicalize abbreviations, strip stamps and garbage tokens, apply smart casing.",
		InputSchema: inputSchema(map[string]any{
			"text": map[string]any{"type": "string", "description": "Raw candidate title"},
		}, []string{"text"}),
	}

	endpoint := func(_ context.Context, req any) (any, error) {
		r := req.(*cleanReq)
		cleaned := CleanManualName(r.Text)
		return map[string]any{
			"title":      cleaned,
			"meaningful": IsMeaningfulTitle(cleaned),
		}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r cleanReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- fields ---

type fieldsReq struct {
	Text string `json:"text"`
}

func registerFieldsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "title_fields",
		Description: "Extract labelled header fields (Document Title, Engine Type, Ship No, Vessel Name, Document Number, Maker, Model) from document text.",
		InputSchema: inputSchema(map[string]any{
			"text": map[string]any{"type": "string", "description": "Extracted document text"},
		}, []string{"text"}),
	}

	endpoint := func(_ context.Context, req any) (any, error) {
		r := req.(*fieldsReq)
		fields := ExtractFields(r.Text, LabelPatterns)
		for label, value := range ExtractFields(r.Text, MetadataPatterns) {
			fields[label] = value
		}
		return map[string]any{"fields": fields}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r fieldsReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
