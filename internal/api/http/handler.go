package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/pkg/errors"

	"github.com/Zereker/vecdb/pkg/embed"
	"github.com/Zereker/vecdb/pkg/log"
	"github.com/Zereker/vecdb/pkg/vector"
)

// Handler serves the gateway API on top of an index client
type Handler struct {
	logger   *slog.Logger
	index    vector.Index
	embedder embed.Embedder // optional, enables text queries
	metrics  http.Handler   // optional, served on /metrics
}

// NewHandler creates a new HTTP handler. embedder and metrics may be nil.
func NewHandler(index vector.Index, embedder embed.Embedder, metrics http.Handler) *Handler {
	return &Handler{
		logger:   log.Logger("http.handler"),
		index:    index,
		embedder: embedder,
		metrics:  metrics,
	}
}

// Response represents a standard API response
type Response struct {
	Success bool   `json:"success"`
	Status  int    `json:"status,omitempty"` // upstream status code
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// QueryRequest is the body of POST /api/v1/query. Either Vector or Text is set.
type QueryRequest struct {
	Vector          []float32      `json:"vector"`
	Text            string         `json:"text"`
	Namespace       string         `json:"namespace"`
	TopK            int            `json:"topK"`
	IncludeValues   bool           `json:"includeValues"`
	IncludeMetadata bool           `json:"includeMetadata"`
	Filter          map[string]any `json:"filter"`
}

// RegisterRoutes registers all HTTP routes
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/stats", h.Stats)
	mux.HandleFunc("POST /api/v1/query", h.Query)

	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics)
	}

	// Health check
	mux.HandleFunc("GET /health", h.Health)
}

// Stats handles GET /api/v1/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	resp, err := h.index.DescribeIndexStats(r.Context())
	h.forward(w, "stats", resp, err)
}

// Query handles POST /api/v1/query
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if len(req.Vector) == 0 && req.Text != "" {
		if h.embedder == nil {
			h.writeError(w, http.StatusBadRequest, "text queries need embedding enabled")
			return
		}

		vec, err := h.embedder.Embed(r.Context(), req.Text)
		if err != nil {
			h.logger.Error("embed failed", "error", err)
			h.writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		req.Vector = vec
	}

	resp, err := h.index.Query(r.Context(), vector.QueryParams{
		Vector:          req.Vector,
		Namespace:       req.Namespace,
		TopK:            req.TopK,
		IncludeValues:   req.IncludeValues,
		IncludeMetadata: req.IncludeMetadata,
		Filter:          req.Filter,
	})
	h.forward(w, "query", resp, err)
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]string{
			"status": "healthy",
		},
	})
}

// forward maps an index response onto the gateway response. Upstream status
// codes are passed through; client errors become 4xx/5xx of our own.
func (h *Handler) forward(w http.ResponseWriter, op string, resp *vector.Response, err error) {
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, vector.ErrInvalidArgument):
			status = http.StatusBadRequest
		case errors.Is(err, vector.ErrTransport):
			status = http.StatusBadGateway
		}
		h.logger.Error(op+" failed", "error", err)
		h.writeError(w, status, err.Error())
		return
	}

	if !resp.IsSuccessful() {
		h.writeJSON(w, resp.StatusCode, Response{
			Success: false,
			Status:  resp.StatusCode,
			Error:   string(resp.Raw()),
		})
		return
	}

	data, err := resp.JSON()
	if err != nil {
		h.logger.Error(op+" returned undecodable body", "error", err)
		h.writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, Response{
		Success: true,
		Status:  resp.StatusCode,
		Data:    data,
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, Response{
		Success: false,
		Error:   message,
	})
}
