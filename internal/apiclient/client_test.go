package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// recordedRequest captures what the fake API received
type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   string
}

// ClientTestSuite is the test suite for Client
type ClientTestSuite struct {
	suite.Suite
	server   *httptest.Server
	client   *Client
	ctx      context.Context
	mu       sync.Mutex
	requests []recordedRequest
	handler  http.HandlerFunc
}

// SetupTest starts a fake API for each test
func (s *ClientTestSuite) SetupTest() {
	s.requests = nil
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}

	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		defer s.mu.Unlock()
		s.requests = append(s.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   string(body),
		})
		s.handler(w, r)
	}))

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError, // Quiet during tests
	}))

	client, err := NewClient(Options{
		BaseURL:  s.server.URL + "/api/v1",
		APIKey:   "test-key",
		Timeouts: DefaultTimeouts(),
	}, logger)
	require.NoError(s.T(), err)

	s.client = client
	s.ctx = context.Background()
}

// TearDownTest stops the fake API
func (s *ClientTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *ClientTestSuite) respond(status int, body string) {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

// TestGet_SendsAuthHeadersAndQuery tests header injection and query encoding
func (s *ClientTestSuite) TestGet_SendsAuthHeadersAndQuery() {
	data, err := s.client.Get(s.ctx, SearchPath("vs_1"), url.Values{"q": {"hello"}, "n": {"5"}})
	require.NoError(s.T(), err)
	require.Equal(s.T(), map[string]any{"ok": true}, data)

	require.Len(s.T(), s.requests, 1)
	req := s.requests[0]
	require.Equal(s.T(), http.MethodGet, req.Method)
	require.Equal(s.T(), "/api/v1/vector-stores/vs_1/documents/search", req.Path)
	require.Equal(s.T(), "hello", req.Query.Get("q"))
	require.Equal(s.T(), "5", req.Query.Get("n"))
	require.Equal(s.T(), "test-key", req.Header.Get("X-API-Key"))
	require.Equal(s.T(), "application/json", req.Header.Get("Content-Type"))
	require.NotEmpty(s.T(), req.Header.Get("X-Request-ID"))
}

// TestPost_EncodesBody tests JSON body encoding
func (s *ClientTestSuite) TestPost_EncodesBody() {
	_, err := s.client.Post(s.ctx, CreateDocumentPath("vs_1"), map[string]any{"text": "hello", "document_name": nil})
	require.NoError(s.T(), err)

	require.Len(s.T(), s.requests, 1)
	require.Equal(s.T(), http.MethodPost, s.requests[0].Method)
	require.Equal(s.T(), "/api/v1/vector-stores/vs_1/documents/create", s.requests[0].Path)
	require.JSONEq(s.T(), `{"text":"hello","document_name":null}`, s.requests[0].Body)
}

// TestPatch_EncodesBody tests PATCH requests
func (s *ClientTestSuite) TestPatch_EncodesBody() {
	_, err := s.client.Patch(s.ctx, DocumentPath("vs_1", 7), map[string]string{"name": "x"})
	require.NoError(s.T(), err)

	require.Equal(s.T(), http.MethodPatch, s.requests[0].Method)
	require.Equal(s.T(), "/api/v1/vector-stores/vs_1/documents/7/", s.requests[0].Path)
	require.JSONEq(s.T(), `{"name":"x"}`, s.requests[0].Body)
}

// TestDelete_NoContent tests that a 204 yields no value rather than an empty object
func (s *ClientTestSuite) TestDelete_NoContent() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}

	data, err := s.client.Delete(s.ctx, DocumentPath("vs_1", 3))
	require.NoError(s.T(), err)
	require.Nil(s.T(), data)
	require.Equal(s.T(), http.MethodDelete, s.requests[0].Method)
}

// TestDelete_WithBody tests that a delete returning JSON is decoded
func (s *ClientTestSuite) TestDelete_WithBody() {
	s.respond(http.StatusOK, `{}`)

	data, err := s.client.Delete(s.ctx, DocumentPath("vs_1", 3))
	require.NoError(s.T(), err)
	require.Equal(s.T(), map[string]any{}, data)
}

// TestDelete_EmptyBody tests that an empty delete response is no value, while
// other verbs still require a JSON body
func (s *ClientTestSuite) TestDelete_EmptyBody() {
	s.respond(http.StatusOK, ``)

	data, err := s.client.Delete(s.ctx, DocumentPath("vs_1", 3))
	require.NoError(s.T(), err)
	require.Nil(s.T(), data)

	_, err = s.client.Get(s.ctx, MeVectorStorePath, nil)
	require.True(s.T(), IsInvalidResponse(err))
}

// TestUnauthorized tests that a 401 is never reported as a generic status error
func (s *ClientTestSuite) TestUnauthorized() {
	s.respond(http.StatusUnauthorized, `{"detail":"whatever the server says"}`)

	for _, call := range []func() (any, error){
		func() (any, error) { return s.client.Get(s.ctx, MeVectorStorePath, nil) },
		func() (any, error) { return s.client.Post(s.ctx, CreateDocumentPath("vs"), map[string]any{}) },
		func() (any, error) { return s.client.Patch(s.ctx, DocumentPath("vs", 1), map[string]any{}) },
		func() (any, error) { return s.client.Delete(s.ctx, DocumentPath("vs", 1)) },
	} {
		_, err := call()
		require.Error(s.T(), err)
		require.True(s.T(), IsUnauthorized(err))
		require.False(s.T(), IsHTTPStatus(err, 0))
		require.Equal(s.T(), unauthorizedMessage, err.Error())
	}
}

// TestHTTPStatus tests non-2xx handling
func (s *ClientTestSuite) TestHTTPStatus() {
	s.respond(http.StatusNotFound, `{"detail":"not found"}`)

	_, err := s.client.Get(s.ctx, DocumentPath("vs_1", 9), nil)
	require.Error(s.T(), err)
	require.True(s.T(), IsHTTPStatus(err, http.StatusNotFound))
	require.False(s.T(), IsUnauthorized(err))
	require.Equal(s.T(), "Failed to fetch vector-stores/vs_1/documents/9/. Status: 404", err.Error())

	_, err = s.client.Post(s.ctx, CreateDocumentPath("vs_1"), map[string]any{})
	require.Equal(s.T(), "Failed to post to vector-stores/vs_1/documents/create. Status: 404", err.Error())

	_, err = s.client.Delete(s.ctx, DocumentPath("vs_1", 9))
	require.Equal(s.T(), "Failed to delete vector-stores/vs_1/documents/9/. Status: 404", err.Error())
}

// TestConnectionError tests transport failures
func (s *ClientTestSuite) TestConnectionError() {
	s.server.Close()

	_, err := s.client.Get(s.ctx, MeVectorStorePath, nil)
	require.Error(s.T(), err)
	require.True(s.T(), IsConnection(err))
	require.Equal(s.T(), "Failed to fetch vector-stores/me/. Connection error.", err.Error())

	var apiErr *Error
	require.ErrorAs(s.T(), err, &apiErr)
	require.Error(s.T(), apiErr.Unwrap())
}

// TestInvalidResponse tests undecodable success bodies
func (s *ClientTestSuite) TestInvalidResponse() {
	s.respond(http.StatusOK, `not json`)

	_, err := s.client.Get(s.ctx, MeVectorStorePath, nil)
	require.Error(s.T(), err)
	require.True(s.T(), IsInvalidResponse(err))
}

// TestNumbersArePreserved tests that large ids survive decoding
func (s *ClientTestSuite) TestNumbersArePreserved() {
	s.respond(http.StatusOK, `{"id":9007199254740993}`)

	data, err := s.client.Get(s.ctx, MeVectorStorePath, nil)
	require.NoError(s.T(), err)
	require.Equal(s.T(), json.Number("9007199254740993"), data.(map[string]any)["id"])
}

// TestWhoAmI tests vector store resolution
func (s *ClientTestSuite) TestWhoAmI() {
	s.respond(http.StatusOK, `{"id":"vs_abc","name":"My store"}`)

	store, err := s.client.WhoAmI(s.ctx)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "vs_abc", store.ID)
	require.Equal(s.T(), "My store", store.Info["name"])
	require.Equal(s.T(), "/api/v1/vector-stores/me/", s.requests[0].Path)
}

// TestWhoAmI_NumericID tests stores identified by a number
func (s *ClientTestSuite) TestWhoAmI_NumericID() {
	s.respond(http.StatusOK, `{"id":42}`)

	store, err := s.client.WhoAmI(s.ctx)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "42", store.ID)
}

// TestWhoAmI_MissingID tests that an id-less store is rejected
func (s *ClientTestSuite) TestWhoAmI_MissingID() {
	s.respond(http.StatusOK, `{"name":"no id"}`)

	_, err := s.client.WhoAmI(s.ctx)
	require.Error(s.T(), err)
	require.Contains(s.T(), err.Error(), "no id")
}

// TestWhoAmI_Unauthorized tests that startup sees the typed error
func (s *ClientTestSuite) TestWhoAmI_Unauthorized() {
	s.respond(http.StatusUnauthorized, ``)

	_, err := s.client.WhoAmI(s.ctx)
	require.True(s.T(), IsUnauthorized(err))
}

// TestClientTestSuite runs the test suite
func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func TestNewClient_Validation(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	_, err := NewClient(Options{BaseURL: "https://example.com"}, logger)
	require.Error(t, err)
	require.Contains(t, err.Error(), "api key cannot be empty")

	_, err = NewClient(Options{APIKey: "k", BaseURL: "ftp://example.com"}, logger)
	require.Error(t, err)

	client, err := NewClient(Options{APIKey: "k"}, logger)
	require.NoError(t, err)
	require.Equal(t, DefaultBaseURL, client.baseURL)
}

func TestNewHTTPClient_Timeouts(t *testing.T) {
	client := newHTTPClient(Timeouts{}, false)
	transport := client.Transport.(*http.Transport)

	defaults := DefaultTimeouts()
	require.Equal(t, defaults.Read, transport.ResponseHeaderTimeout)
	require.Equal(t, defaults.Write, transport.TLSHandshakeTimeout)
	require.Equal(t, defaults.Connect+defaults.Read, client.Timeout)
	require.Equal(t, defaults.Pool, transport.IdleConnTimeout)
	require.True(t, transport.TLSClientConfig == nil || !transport.TLSClientConfig.InsecureSkipVerify)

	insecure := newHTTPClient(DefaultTimeouts(), true).Transport.(*http.Transport)
	require.True(t, insecure.TLSClientConfig.InsecureSkipVerify)
	if transport.TLSClientConfig != nil {
		require.Equal(t, transport.TLSClientConfig.NextProtos, insecure.TLSClientConfig.NextProtos)
	}
}
