package tests

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/apifold/openapi-bridge/internal/config"
	"github.com/apifold/openapi-bridge/internal/requester"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequester(t *testing.T, endpoint *config.EndpointConfig) *requester.HTTPRequester {
	t.Helper()
	auth, err := requester.NewEndpointAuthenticator(endpoint)
	require.NoError(t, err)
	return requester.NewHTTPRequester(requester.HTTPRequesterParams{
		ServiceConfig: endpoint,
		Authenticator: auth,
	})
}

func TestRouteExecutor_EndToEnd(t *testing.T) {
	var gotPath, gotKey, gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		gotHeader = r.Header.Get("X-Tenant")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	endpoint := &config.EndpointConfig{
		BaseURL:  srv.URL,
		AuthType: config.AuthTypeAPIKey,
		APIKey: config.APIKeyAuth{
			Key:       "abc",
			Location:  config.APIKeyInQuery,
			ParamName: "key",
		},
		Headers: []string{"X-Tenant: acme"},
	}

	r := newRequester(t, endpoint)
	executor, err := r.BuildRouteExecutor(&requester.RouteConfig{
		Path:   "/pets/{id}",
		Method: "GET",
	})
	require.NoError(t, err)

	resp, err := executor(context.Background(), map[string]interface{}{"id": 7})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"ok":true}`, string(resp.Body))
	assert.Equal(t, "/pets/7", gotPath)
	assert.Equal(t, "abc", gotKey)
	assert.Equal(t, "acme", gotHeader)
}

func TestRouteExecutor_ErrorStatusPassedThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	r := newRequester(t, &config.EndpointConfig{BaseURL: srv.URL})
	executor, err := r.BuildRouteExecutor(&requester.RouteConfig{Path: "/secret", Method: "GET"})
	require.NoError(t, err)

	resp, err := executor(context.Background(), nil)
	require.NoError(t, err, "HTTP error statuses are results, not errors")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouteExecutor_ContextCancellation(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	r := newRequester(t, &config.EndpointConfig{BaseURL: srv.URL})
	executor, err := r.BuildRouteExecutor(&requester.RouteConfig{Path: "/slow", Method: "GET"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = executor(ctx, nil)
	require.Error(t, err)
}

func TestBuildRouteExecutor_NilRoute(t *testing.T) {
	r := newRequester(t, &config.EndpointConfig{})
	_, err := r.BuildRouteExecutor(nil)
	require.Error(t, err)
}
