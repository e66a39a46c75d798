package tools

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/google/jsonschema-go/jsonschema"
)

// ToolName identifies a tool. The set of names is closed; see AllToolNames.
type ToolName string

const (
	ToolInformation    ToolName = "rememberizer_vectordb_information"
	ToolSearch         ToolName = "rememberizer_vectordb_search"
	ToolAgenticSearch  ToolName = "rememberizer_vectordb_agentic_search"
	ToolListDocuments  ToolName = "rememberizer_vectordb_list_documents"
	ToolCreateDocument ToolName = "rememberizer_vectordb_create_document"
	ToolDeleteDocument ToolName = "rememberizer_vectordb_delete_document"
	ToolModifyDocument ToolName = "rememberizer_vectordb_modify_document"
)

// AllToolNames returns every tool name in catalog order.
func AllToolNames() []ToolName {
	return []ToolName{
		ToolInformation,
		ToolSearch,
		ToolAgenticSearch,
		ToolListDocuments,
		ToolCreateDocument,
		ToolDeleteDocument,
		ToolModifyDocument,
	}
}

// RemoteClient is the subset of the Rememberizer API client the tools need.
type RemoteClient interface {
	Get(ctx context.Context, path string, query url.Values) (any, error)
	Post(ctx context.Context, path string, body any) (any, error)
	Patch(ctx context.Context, path string, body any) (any, error)
	Delete(ctx context.Context, path string) (any, error)
}

// Invocation is everything a handler needs for a single call.
type Invocation struct {
	API     RemoteClient
	StoreID string    // Bound vector store, resolved at startup
	Args    Arguments // Validated, with defaults applied
}

// ToolHandler performs one tool call and returns the upstream JSON value.
type ToolHandler func(ctx context.Context, inv *Invocation) (any, error)

// Tool represents a single executable tool with its metadata and handler.
type Tool struct {
	Name        ToolName           // Tool name
	Description string             // Tool description
	InputSchema *jsonschema.Schema // Schema for tool parameters
	Method      string             // HTTP method of the upstream call
	Path        string             // Upstream path template
	Handler     ToolHandler        // Handler function
}

// Result is the outcome of a successful tool call.
type Result struct {
	ToolName ToolName
	Value    any // Decoded upstream body; nil when the upstream returned no content
}

// Text renders the result as compact JSON.
func (r *Result) Text() string {
	data, err := json.Marshal(r.Value)
	if err != nil {
		// Values come from a JSON decoder, so this only happens for handler bugs
		return "null"
	}
	return string(data)
}

// ToolMetadata represents tool information for discovery output.
type ToolMetadata struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Method      string   `json:"method"`
	Path        string   `json:"path"`
	Required    []string `json:"required,omitempty"`
}
