package vector

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResolveAndQueryOverHTTP runs a control plane and a data plane on one
// TLS test server and drives a resolved client against it.
func TestResolveAndQueryOverHTTP(t *testing.T) {
	var (
		lookups  atomic.Int32
		gotBody  string
		gotKey   string
		gotPath  string
		dataHost string
	)

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/indexes/idx":
			lookups.Add(1)
			_ = json.NewEncoder(w).Encode(map[string]string{"name": "idx", "host": dataHost})
		case r.Method == http.MethodPost:
			b, _ := io.ReadAll(r.Body)
			gotBody = string(b)
			gotKey = r.Header.Get("Api-Key")
			gotPath = r.URL.Path
			_, _ = w.Write([]byte(`{"matches":[{"id":"a","score":1}],"namespace":""}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	dataHost = strings.TrimPrefix(srv.URL, "https://")

	cfg := Config{APIKey: "k", Index: "idx", ControlPlaneURL: srv.URL}
	client, err := NewClient(context.Background(), cfg, srv.Client())
	require.NoError(t, err)
	assert.Equal(t, int32(1), lookups.Load())
	assert.Equal(t, srv.URL+"/", client.Host())

	resp, err := client.Query(context.Background(), QueryParams{Vector: []float32{0.1, 0.2}, TopK: 5})
	require.NoError(t, err)
	assert.True(t, resp.IsSuccessful())
	assert.Equal(t, "/query", gotPath)
	assert.Equal(t, "k", gotKey)
	assert.Equal(t, `{"vector":[0.1,0.2],"topK":5,"includeValues":false,"includeMetadata":false}`, gotBody)

	var result QueryResult
	require.NoError(t, resp.Decode(&result))
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "a", result.Matches[0].ID)

	// the host is never looked up again
	assert.Equal(t, int32(1), lookups.Load())
}

func TestResolveHostNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"NOT_FOUND"}}`))
	}))
	defer srv.Close()

	host, err := ResolveHost(context.Background(), srv.Client(), "k", "missing", srv.URL)
	assert.Empty(t, host)
	assert.ErrorIs(t, err, ErrEndpointResolution)
	assert.Contains(t, err.Error(), "404")
}
