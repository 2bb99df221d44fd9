package httpclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datapond/lakecat/internal/httpclient"
)

// newTestServer creates a new test server with keep-alives disabled.
// This prevents flaky tests when running in parallel, as closing a server
// with keep-alives enabled can affect other tests sharing the HTTP transport.
func newTestServer(handler http.Handler) *httptest.Server {
	server := httptest.NewServer(handler)
	server.Config.SetKeepAlivesEnabled(false)
	return server
}

func TestNewDefaultClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		timeout time.Duration
	}{
		{
			name:    "create client with custom timeout",
			timeout: 5 * time.Second,
		},
		{
			name:    "create client with zero timeout uses default",
			timeout: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := httpclient.NewDefaultClient(tt.timeout)
			require.NotNil(t, client, "client should not be nil")
		})
	}
}

func TestDefaultClient_Get(t *testing.T) {
	t.Parallel()

	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, httpclient.UserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "application/cbor", r.Header.Get("Accept"))
		_, _ = w.Write([]byte("catalog payload"))
	}))
	defer server.Close()

	client := httpclient.NewDefaultClient(0)
	body, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("catalog payload"), body)
}

func TestDefaultClient_Get_ErrorStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
	}{
		{name: "not found", statusCode: http.StatusNotFound},
		{name: "server error", statusCode: http.StatusInternalServerError},
		{name: "unauthorized", statusCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			client := httpclient.NewDefaultClient(0)
			_, err := client.Get(context.Background(), server.URL)
			require.Error(t, err)

			var httpErr *httpclient.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.statusCode, httpErr.StatusCode)
			assert.Equal(t, server.URL, httpErr.URL)
		})
	}
}

func TestDefaultClient_Get_ContextCancelled(t *testing.T) {
	t.Parallel()

	server := newTestServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := httpclient.NewDefaultClient(0)
	_, err := client.Get(ctx, server.URL)
	require.Error(t, err)
}

func TestDefaultClient_Get_Timeout(t *testing.T) {
	t.Parallel()

	server := newTestServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	client := httpclient.NewDefaultClient(50 * time.Millisecond)
	_, err := client.Get(context.Background(), server.URL)
	require.Error(t, err)
}

func TestDefaultClient_Get_InvalidURL(t *testing.T) {
	t.Parallel()

	client := httpclient.NewDefaultClient(0)
	_, err := client.Get(context.Background(), "http://[invalid-url")
	require.Error(t, err)
}
