package apiclient

import (
	"fmt"
	"net/url"
)

// MeVectorStorePath resolves the vector store bound to the API key.
const MeVectorStorePath = "vector-stores/me/"

// SearchPath returns the semantic search endpoint of a vector store.
func SearchPath(storeID string) string {
	return fmt.Sprintf("vector-stores/%s/documents/search", url.PathEscape(storeID))
}

// AgenticSearchPath returns the agentic search endpoint of a vector store.
func AgenticSearchPath(storeID string) string {
	return fmt.Sprintf("vector-stores/%s/documents/agentic_search", url.PathEscape(storeID))
}

// DocumentsPath returns the document listing endpoint of a vector store.
func DocumentsPath(storeID string) string {
	return fmt.Sprintf("vector-stores/%s/documents/", url.PathEscape(storeID))
}

// CreateDocumentPath returns the document creation endpoint of a vector store.
func CreateDocumentPath(storeID string) string {
	return fmt.Sprintf("vector-stores/%s/documents/create", url.PathEscape(storeID))
}

// DocumentPath returns the endpoint of a single document.
func DocumentPath(storeID string, documentID int64) string {
	return fmt.Sprintf("vector-stores/%s/documents/%d/", url.PathEscape(storeID), documentID)
}
