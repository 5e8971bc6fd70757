package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/agentic-research/opal/internal/doc"
)

// ServerVersion is reported to MCP clients during initialization.
const ServerVersion = "1.0.0"

// NewServer builds the MCP tool server around a Service.
func NewServer(svc *Service) *server.MCPServer {
	s := server.NewMCPServer("opal", ServerVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.AddTool(mcp.NewTool("open_document",
		mcp.WithDescription("Open a .op design document and summarize it: pages, node count, variables, warnings."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the document file (.op, .pen, .json).")),
	), svc.handleOpenDocument)

	s.AddTool(mcp.NewTool("batch_get",
		mcp.WithDescription("Fetch document fragments by JSONPath pattern and/or node id, optionally limiting child depth."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the document file.")),
		mcp.WithArray("patterns", mcp.Description("JSONPath selectors, e.g. $.children[?(@.type=='frame')].")),
		mcp.WithArray("ids", mcp.Description("Node ids to fetch.")),
		mcp.WithNumber("depth", mcp.Description("Children nesting levels to include; omit for unlimited.")),
	), svc.handleBatchGet)

	s.AddTool(mcp.NewTool("find_empty_space",
		mcp.WithDescription("Suggest a clear canvas position for new content of the given size."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the document file.")),
		mcp.WithNumber("width", mcp.Description("Width of the content to place.")),
		mcp.WithNumber("height", mcp.Description("Height of the content to place.")),
		mcp.WithString("direction", mcp.Description("right (default) or down.")),
		mcp.WithNumber("padding", mcp.Description("Gap from existing content, default 20.")),
	), svc.handleFindEmptySpace)

	s.AddTool(mcp.NewTool("get_variables",
		mcp.WithDescription("Return the document's variable definitions."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the document file.")),
	), svc.handleGetVariables)

	s.AddTool(mcp.NewTool("set_variables",
		mcp.WithDescription("Merge variable definitions into the document and save it."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the document file.")),
		mcp.WithObject("variables", mcp.Required(), mcp.Description("Map of name to variable definition.")),
	), svc.handleSetVariables)

	s.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List documents known to the catalog, most recently opened first."),
	), svc.handleListDocuments)

	return s
}

// ServeStdio runs the tool server on stdin/stdout until the client
// disconnects.
func ServeStdio(svc *Service) error {
	return server.ServeStdio(NewServer(svc))
}

func (s *Service) handleOpenDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	info, err := s.OpenDocument(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(info)
}

func (s *Service) handleBatchGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	args := req.GetArguments()
	patterns := stringList(args["patterns"])
	ids := stringList(args["ids"])
	depth := req.GetInt("depth", -1)

	matches, err := s.BatchGet(path, patterns, ids, depth)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"matches": matches})
}

func (s *Service) handleFindEmptySpace(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	width := req.GetFloat("width", 0)
	height := req.GetFloat("height", 0)
	direction := req.GetString("direction", "right")
	padding := req.GetFloat("padding", doc.DuplicateGap)

	space, err := s.FindEmptySpace(path, width, height, direction, padding)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(space)
}

func (s *Service) handleGetVariables(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	vars, err := s.GetVariables(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if vars == nil {
		vars = map[string]doc.VariableDefinition{}
	}
	return jsonResult(vars)
}

func (s *Service) handleSetVariables(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, ok := req.GetArguments()["variables"].(map[string]any)
	if !ok {
		return mcp.NewToolResultError("variables must be an object"), nil
	}
	defs, err := decodeDefinitions(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.SetVariables(path, defs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("set %d variable(s)", len(defs))), nil
}

func (s *Service) handleListDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := s.ListDocuments()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"documents": entries})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// decodeDefinitions converts the raw tool argument into typed variable
// definitions via a JSON round trip, so themed value lists come through
// with full fidelity.
func decodeDefinitions(raw map[string]any) (map[string]doc.VariableDefinition, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode variables: %w", err)
	}
	var defs map[string]doc.VariableDefinition
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("variables malformed: %w", err)
	}
	return defs, nil
}
