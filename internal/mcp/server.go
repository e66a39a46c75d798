package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/radutopala/rememberizer-mcp/internal/resources"
	"github.com/radutopala/rememberizer-mcp/internal/tools"
)

const (
	methodCallTool      = "tools/call"
	methodListResources = "resources/list"
)

// VectorDBServer exposes one Rememberizer vector store over MCP
type VectorDBServer struct {
	server    *mcp.Server
	logger    *slog.Logger
	registry  *tools.Registry
	resources *resources.Adapter
}

// NewVectorDBServer creates the MCP server and registers the tool catalog and
// document resources.
func NewVectorDBServer(name, version string, registry *tools.Registry, adapter *resources.Adapter, logger *slog.Logger) (*VectorDBServer, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry cannot be nil")
	}
	if adapter == nil {
		return nil, fmt.Errorf("resource adapter cannot be nil")
	}

	s := &VectorDBServer{
		logger:    logger,
		registry:  registry,
		resources: adapter,
	}

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    name,
			Version: version,
		},
		&mcp.ServerOptions{
			Logger:       logger,
			HasTools:     true,
			HasResources: true,
		},
	)

	s.registerTools(server)
	s.registerResources(server)
	server.AddReceivingMiddleware(s.middleware)

	s.server = server

	logger.Info("VectorDB server initialized",
		"name", name,
		"version", version,
		"vector_store_id", registry.StoreID(),
		"tools", len(registry.ListAll()),
	)

	return s, nil
}

// Server returns the underlying MCP server.
func (s *VectorDBServer) Server() *mcp.Server {
	return s.server
}

// Run starts the MCP server with the given transport
func (s *VectorDBServer) Run(ctx context.Context, transport mcp.Transport) error {
	return s.server.Run(ctx, transport)
}

// === TOOLS ===

func (s *VectorDBServer) registerTools(server *mcp.Server) {
	for _, tool := range s.registry.ListAll() {
		server.AddTool(&mcp.Tool{
			Name:        string(tool.Name),
			Description: tool.Description,
			InputSchema: tool.InputSchema,
		}, s.toolHandler(tool.Name))
	}
}

// toolHandler adapts a catalog entry to the MCP runtime. Failures are reported
// as tool errors so the model sees the message.
func (s *VectorDBServer) toolHandler(name tools.ToolName) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := decodeArguments(req.Params.Arguments)
		if err != nil {
			return errorResult(&tools.ArgumentError{Tool: name, Reason: tools.ReasonInvalid, Cause: err}), nil
		}

		result, err := s.registry.Execute(ctx, string(name), args)
		if err != nil {
			return errorResult(err), nil
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: result.Text()},
			},
		}, nil
	}
}

func decodeArguments(raw json.RawMessage) (map[string]any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return map[string]any{}, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var args map[string]any
	if err := decoder.Decode(&args); err != nil {
		return nil, fmt.Errorf("arguments must be a JSON object: %w", err)
	}
	for k, v := range args {
		args[k] = normalizeNumbers(v)
	}
	return args, nil
}

// normalizeNumbers replaces json.Number values with int64 when the literal is
// an integer in range and float64 otherwise. Schema validation types
// json.Number as a string.
func normalizeNumbers(v any) any {
	switch v := v.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		f, err := v.Float64()
		if err != nil {
			// Out of float64 range; keep the literal so validation rejects it.
			return v.String()
		}
		return f
	case map[string]any:
		for k, item := range v {
			v[k] = normalizeNumbers(item)
		}
		return v
	case []any:
		for i, item := range v {
			v[i] = normalizeNumbers(item)
		}
		return v
	default:
		return v
	}
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: err.Error()},
		},
	}
}

// === RESOURCES ===

func (s *VectorDBServer) registerResources(server *mcp.Server) {
	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: resources.URITemplate,
		Name:        "document",
		Description: "A document stored in the Rememberizer vector store",
		MIMEType:    resources.MIMEType,
	}, s.readResource)
}

func (s *VectorDBServer) readResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	text, err := s.resources.Read(ctx, req.Params.URI)
	if err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      req.Params.URI,
				MIMEType: resources.MIMEType,
				Text:     text,
			},
		},
	}, nil
}

// === MIDDLEWARE ===

// middleware answers resources/list from the live document listing and turns
// calls to unknown tools into tool errors carrying a suggestion.
func (s *VectorDBServer) middleware(next mcp.MethodHandler) mcp.MethodHandler {
	return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
		switch method {
		case methodListResources:
			result, err := s.listResources(ctx)
			if err != nil {
				return nil, err
			}
			return result, nil
		case methodCallTool:
			if call, ok := req.(*mcp.CallToolRequest); ok && call.Params != nil {
				if _, err := s.registry.Get(call.Params.Name); err != nil {
					s.logger.WarnContext(ctx, "Call to unknown tool", "name", call.Params.Name, "error", err)
					return errorResult(err), nil
				}
			}
		}
		return next(ctx, method, req)
	}
}

func (s *VectorDBServer) listResources(ctx context.Context) (*mcp.ListResourcesResult, error) {
	list, err := s.resources.ListResources(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list documents", "error", err)
		return nil, err
	}
	return &mcp.ListResourcesResult{Resources: list}, nil
}
