package embed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type embeddingCall struct {
	Path  string
	Auth  string
	Model string
	Dim   int
	Input []string
}

// newFakeServer serves OpenAI-compatible embedding responses where every
// component of input i equals i+1.
func newFakeServer(t *testing.T, dim int, calls *[]embeddingCall) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model      string   `json:"model"`
			Input      []string `json:"input"`
			Dimensions int      `json:"dimensions"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		*calls = append(*calls, embeddingCall{
			Path:  r.URL.Path,
			Auth:  r.Header.Get("Authorization"),
			Model: req.Model,
			Dim:   req.Dimensions,
			Input: req.Input,
		})

		data := make([]map[string]any, len(req.Input))
		// reversed order to check index placement
		for i := range req.Input {
			vec := make([]float64, dim)
			for j := range vec {
				vec[j] = float64(i + 1)
			}
			data[len(req.Input)-1-i] = map[string]any{"object": "embedding", "index": i, "embedding": vec}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  req.Model,
			"data":   data,
			"usage":  map[string]int{"prompt_tokens": 1, "total_tokens": 1},
		})
	}))
}

func TestOpenAIEmbed(t *testing.T) {
	var calls []embeddingCall
	srv := newFakeServer(t, 4, &calls)
	defer srv.Close()

	e := NewOpenAI(Config{APIKey: "sk-test", BaseURL: srv.URL, Dimension: 4}, srv.Client())
	assert.Equal(t, 4, e.Dimension())

	vec, err := e.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 1, 1, 1}, vec)

	require.Len(t, calls, 1)
	assert.Equal(t, "/embeddings", calls[0].Path)
	assert.Equal(t, "Bearer sk-test", calls[0].Auth)
	assert.Equal(t, DefaultModel, calls[0].Model)
	assert.Equal(t, 4, calls[0].Dim)
	assert.Equal(t, []string{"hello"}, calls[0].Input)
}

func TestOpenAIEmbedBatch(t *testing.T) {
	var calls []embeddingCall
	srv := newFakeServer(t, 2, &calls)
	defer srv.Close()

	e := NewOpenAI(Config{APIKey: "sk-test", BaseURL: srv.URL, Model: "m", Dimension: 2}, srv.Client())

	vecs, err := e.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 1}, {2, 2}, {3, 3}}, vecs)
	assert.Equal(t, "m", calls[0].Model)
}

func TestOpenAIEmptyInput(t *testing.T) {
	e := NewOpenAI(Config{APIKey: "sk-test"}, nil)
	assert.Equal(t, DefaultDimension, e.Dimension())

	_, err := e.Embed(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = e.EmbedBatch(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{}
	assert.NoError(t, cfg.Validate())

	cfg.Enabled = true
	assert.Error(t, cfg.Validate())

	cfg.APIKey = "sk"
	assert.NoError(t, cfg.Validate())

	cfg.Dimension = -1
	assert.Error(t, cfg.Validate())
}
