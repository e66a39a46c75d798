// Package resources exposes vector store documents as MCP resources.
package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/radutopala/rememberizer-mcp/internal/apiclient"
	"github.com/radutopala/rememberizer-mcp/internal/tools"
)

const (
	// URIScheme is the scheme of every document URI
	URIScheme = "rememberizer"

	// URITemplate matches every document URI
	URITemplate = URIScheme + "://document/{id}"

	// MIMEType is reported for listed and read documents
	MIMEType = "text/json"
)

// Document is one entry of the store's document listing.
type Document struct {
	ID   string
	Name string
}

// URI returns the resource URI of the document.
func (d Document) URI() string {
	return DocumentURI(d.ID)
}

// Resource converts the document into an MCP resource descriptor.
func (d Document) Resource() *mcp.Resource {
	name := d.Name
	if name == "" {
		name = "document " + d.ID
	}
	return &mcp.Resource{
		URI:      d.URI(),
		Name:     name,
		MIMEType: MIMEType,
	}
}

// DocumentURI builds the resource URI for a document id.
func DocumentURI(id string) string {
	return fmt.Sprintf("%s://document/%s", URIScheme, id)
}

// Adapter lists and reads documents of the bound vector store.
type Adapter struct {
	api     tools.RemoteClient
	storeID string
	logger  *slog.Logger
}

// New creates a resource adapter bound to storeID.
func New(api tools.RemoteClient, storeID string, logger *slog.Logger) *Adapter {
	return &Adapter{
		api:     api,
		storeID: storeID,
		logger:  logger,
	}
}

// List fetches the document listing of the store.
func (a *Adapter) List(ctx context.Context) ([]Document, error) {
	data, err := a.api.Get(ctx, apiclient.DocumentsPath(a.storeID), nil)
	if err != nil {
		return nil, err
	}

	entries, err := documentEntries(data)
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(entries))
	for _, entry := range entries {
		obj, ok := entry.(map[string]any)
		if !ok {
			a.logger.WarnContext(ctx, "Skipping malformed document entry", "type", fmt.Sprintf("%T", entry))
			continue
		}
		id := idString(obj["id"])
		if id == "" {
			a.logger.WarnContext(ctx, "Skipping document without id")
			continue
		}
		name, _ := obj["name"].(string)
		docs = append(docs, Document{ID: id, Name: name})
	}

	a.logger.DebugContext(ctx, "Listed documents", "count", len(docs))
	return docs, nil
}

// ListResources is List rendered as MCP resource descriptors.
func (a *Adapter) ListResources(ctx context.Context) ([]*mcp.Resource, error) {
	docs, err := a.List(ctx)
	if err != nil {
		return nil, err
	}

	resources := make([]*mcp.Resource, 0, len(docs))
	for _, doc := range docs {
		resources = append(resources, doc.Resource())
	}
	return resources, nil
}

// Read fetches the document named by uri and returns it as indented JSON.
func (a *Adapter) Read(ctx context.Context, uri string) (string, error) {
	documentID, err := ParseDocumentURI(uri)
	if err != nil {
		a.logger.WarnContext(ctx, "Rejected resource URI", "uri", uri, "error", err)
		return "", mcp.ResourceNotFoundError(uri)
	}

	data, err := a.api.Get(ctx, apiclient.DocumentPath(a.storeID, documentID), nil)
	if err != nil {
		return "", err
	}

	text, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode document %d: %w", documentID, err)
	}
	return string(text), nil
}

// ParseDocumentURI extracts the document id from rememberizer://document/{id}.
func ParseDocumentURI(uri string) (int64, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return 0, fmt.Errorf("invalid resource uri: %w", err)
	}
	if parsed.Scheme != URIScheme {
		return 0, fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host != "document" {
		return 0, fmt.Errorf("unsupported resource type %q", parsed.Host)
	}

	raw := strings.TrimPrefix(parsed.Path, "/")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid document id %q", raw)
	}
	return id, nil
}

// documentEntries accepts a bare array or a paginated object with a results array.
func documentEntries(data any) ([]any, error) {
	switch v := data.(type) {
	case []any:
		return v, nil
	case map[string]any:
		results, ok := v["results"].([]any)
		if !ok {
			return nil, fmt.Errorf("document listing has no results array")
		}
		return results, nil
	default:
		return nil, fmt.Errorf("unexpected document listing of type %T", data)
	}
}

func idString(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case json.Number:
		return id.String()
	default:
		return fmt.Sprint(id)
	}
}
