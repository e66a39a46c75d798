package tools

import (
	"context"
	"net/url"
	"strconv"

	"github.com/radutopala/rememberizer-mcp/internal/apiclient"
)

type agenticSearchRequest struct {
	Query       string  `json:"query"`
	UserContext *string `json:"user_context"`
	NChunks     int64   `json:"n_chunks"`
}

type createDocumentRequest struct {
	Text         string  `json:"text"`
	DocumentName *string `json:"document_name"`
}

// modifyDocumentRequest only carries fields the caller supplied.
type modifyDocumentRequest struct {
	Name *string `json:"name,omitempty"`
}

func handleInformation(ctx context.Context, inv *Invocation) (any, error) {
	return inv.API.Get(ctx, apiclient.MeVectorStorePath, nil)
}

func handleSearch(ctx context.Context, inv *Invocation) (any, error) {
	q, err := inv.Args.RequireString(ToolSearch, "q")
	if err != nil {
		return nil, err
	}
	n, err := inv.Args.RequireInt(ToolSearch, "n")
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("q", q)
	query.Set("n", strconv.FormatInt(n, 10))
	return inv.API.Get(ctx, apiclient.SearchPath(inv.StoreID), query)
}

func handleAgenticSearch(ctx context.Context, inv *Invocation) (any, error) {
	q, err := inv.Args.RequireString(ToolAgenticSearch, "query")
	if err != nil {
		return nil, err
	}
	nChunks, err := inv.Args.RequireInt(ToolAgenticSearch, "n_chunks")
	if err != nil {
		return nil, err
	}

	return inv.API.Post(ctx, apiclient.AgenticSearchPath(inv.StoreID), agenticSearchRequest{
		Query:       q,
		UserContext: inv.Args.OptionalString("user_context"),
		NChunks:     nChunks,
	})
}

func handleListDocuments(ctx context.Context, inv *Invocation) (any, error) {
	page, err := inv.Args.RequireInt(ToolListDocuments, "page")
	if err != nil {
		return nil, err
	}
	pageSize, err := inv.Args.RequireInt(ToolListDocuments, "page_size")
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("page", strconv.FormatInt(page, 10))
	query.Set("page_size", strconv.FormatInt(pageSize, 10))
	return inv.API.Get(ctx, apiclient.DocumentsPath(inv.StoreID), query)
}

func handleCreateDocument(ctx context.Context, inv *Invocation) (any, error) {
	text, err := inv.Args.RequireString(ToolCreateDocument, "text")
	if err != nil {
		return nil, err
	}

	return inv.API.Post(ctx, apiclient.CreateDocumentPath(inv.StoreID), createDocumentRequest{
		Text:         text,
		DocumentName: inv.Args.OptionalString("document_name"),
	})
}

func handleDeleteDocument(ctx context.Context, inv *Invocation) (any, error) {
	documentID, err := inv.Args.RequireInt(ToolDeleteDocument, "document_id")
	if err != nil {
		return nil, err
	}

	return inv.API.Delete(ctx, apiclient.DocumentPath(inv.StoreID, documentID))
}

func handleModifyDocument(ctx context.Context, inv *Invocation) (any, error) {
	documentID, err := inv.Args.RequireInt(ToolModifyDocument, "document_id")
	if err != nil {
		return nil, err
	}

	return inv.API.Patch(ctx, apiclient.DocumentPath(inv.StoreID, documentID), modifyDocumentRequest{
		Name: inv.Args.OptionalString("document_name"),
	})
}
