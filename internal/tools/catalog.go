package tools

import (
	"encoding/json"
	"net/http"

	"github.com/google/jsonschema-go/jsonschema"
)

const chunkCountDescription = "Number of semantically similar chunks of text to return. " +
	"Use 'n_results=3' for up to 5, and 'n_results=10' for more information. " +
	"If you do not receive enough information, consider trying again with a larger 'n_results' value."

const queryDescription = "Up to a 400-word sentence for which you wish to find semantically similar chunks of knowledge."

const listDocumentsDescription = `Retrieves a paginated list of all documents in your vector database.
Use this tool to browse through available documents and their metadata.

Examples:
- List first 100 documents: {"page": 1, "page_size": 100}
- Get next page: {"page": 2, "page_size": 100}
- Get maximum allowed documents: {"page": 1, "page_size": 1000}
`

const (
	defaultSearchResults = 5
	defaultPage          = 1
	defaultPageSize      = 100
	maxPageSize          = 1000
)

// Catalog returns the fixed set of tools in a stable order.
// Every call builds fresh descriptors, so callers may not mutate shared state.
func Catalog() []*Tool {
	return []*Tool{
		{
			Name:        ToolInformation,
			Description: "Get the vector database information",
			InputSchema: objectSchema(nil),
			Method:      http.MethodGet,
			Path:        "vector-stores/me/",
			Handler:     handleInformation,
		},
		{
			Name:        ToolSearch,
			Description: "Search for documents by semantic similarity",
			InputSchema: objectSchema(map[string]*jsonschema.Schema{
				"q": stringProperty(queryDescription),
				"n": integerProperty(chunkCountDescription, defaultSearchResults, nil, nil),
			}, "q"),
			Method:  http.MethodGet,
			Path:    "vector-stores/{vector_store_id}/documents/search",
			Handler: handleSearch,
		},
		{
			Name: ToolAgenticSearch,
			Description: "Search for documents by semantic similarity with enhanced LLM support. " +
				"Always prioritize this tool over the 'search' tool.",
			InputSchema: objectSchema(map[string]*jsonschema.Schema{
				"query": stringProperty(queryDescription),
				"user_context": stringProperty("The additional context for the query. " +
					"You might need to summarize the conversation up to this point for better context-awared results."),
				"n_chunks": integerProperty(chunkCountDescription, defaultSearchResults, nil, nil),
			}, "query"),
			Method:  http.MethodPost,
			Path:    "vector-stores/{vector_store_id}/documents/agentic_search",
			Handler: handleAgenticSearch,
		},
		{
			Name:        ToolListDocuments,
			Description: listDocumentsDescription,
			InputSchema: objectSchema(map[string]*jsonschema.Schema{
				"page": integerProperty("Page number for pagination (starts at 1)",
					defaultPage, jsonschema.Ptr(1.0), nil),
				"page_size": integerProperty("Number of documents per page (1-1000)",
					defaultPageSize, jsonschema.Ptr(1.0), jsonschema.Ptr(float64(maxPageSize))),
			}),
			Method:  http.MethodGet,
			Path:    "vector-stores/{vector_store_id}/documents/",
			Handler: handleListDocuments,
		},
		{
			Name:        ToolCreateDocument,
			Description: "Create a new document in your vector database.",
			InputSchema: objectSchema(map[string]*jsonschema.Schema{
				"text":          stringProperty("The content of the document."),
				"document_name": stringProperty("(optional) A name for the document."),
			}, "text"),
			Method:  http.MethodPost,
			Path:    "vector-stores/{vector_store_id}/documents/create",
			Handler: handleCreateDocument,
		},
		{
			Name:        ToolDeleteDocument,
			Description: "Delete a document in your vector database.",
			InputSchema: objectSchema(map[string]*jsonschema.Schema{
				"document_id": {Type: "integer", Description: "The id of the document you want to delete.", Minimum: jsonschema.Ptr(1.0)},
			}, "document_id"),
			Method:  http.MethodDelete,
			Path:    "vector-stores/{vector_store_id}/documents/{document_id}/",
			Handler: handleDeleteDocument,
		},
		{
			Name:        ToolModifyDocument,
			Description: "Modify a document in your vector database.",
			InputSchema: objectSchema(map[string]*jsonschema.Schema{
				"document_id":   {Type: "integer", Description: "The id of the document you want to modify.", Minimum: jsonschema.Ptr(1.0)},
				"document_name": stringProperty("The new name for the document."),
			}, "document_id", "document_name"),
			Method:  http.MethodPatch,
			Path:    "vector-stores/{vector_store_id}/documents/{document_id}/",
			Handler: handleModifyDocument,
		},
	}
}

// Metadata summarizes the tool for listings.
func (t *Tool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        string(t.Name),
		Description: t.Description,
		Method:      t.Method,
		Path:        t.Path,
		Required:    t.InputSchema.Required,
	}
}

func objectSchema(properties map[string]*jsonschema.Schema, required ...string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

func stringProperty(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: description}
}

func integerProperty(description string, def int, minimum, maximum *float64) *jsonschema.Schema {
	raw, _ := json.Marshal(def)
	return &jsonschema.Schema{
		Type:        "integer",
		Description: description,
		Default:     raw,
		Minimum:     minimum,
		Maximum:     maximum,
	}
}
