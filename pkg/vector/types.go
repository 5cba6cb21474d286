package vector

// DefaultTopK is used when QueryParams.TopK is zero.
const DefaultTopK = 10

// Record is a vector with its id and optional metadata, as sent to upsert.
type Record struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// QueryParams describes a nearest neighbour query.
type QueryParams struct {
	// Vector to search with, required
	Vector []float32

	// Namespace to search in, empty means the default namespace
	Namespace string

	// TopK is the number of matches to return, zero means DefaultTopK
	TopK int

	IncludeValues   bool
	IncludeMetadata bool

	// Filter on metadata, empty means unfiltered
	Filter map[string]any
}

// Wire bodies. Optional fields use omitempty so that empty values are left
// out of the payload instead of being sent as null or {}.

type queryRequest struct {
	Vector          []float32      `json:"vector"`
	TopK            int            `json:"topK"`
	IncludeValues   bool           `json:"includeValues"`
	IncludeMetadata bool           `json:"includeMetadata"`
	Namespace       string         `json:"namespace,omitempty"`
	Filter          map[string]any `json:"filter,omitempty"`
}

type upsertRequest struct {
	Vectors   []Record `json:"vectors"`
	Namespace string   `json:"namespace,omitempty"`
}

type deleteRequest struct {
	DeleteAll bool     `json:"deleteAll"`
	IDs       []string `json:"ids"`
	Namespace string   `json:"namespace,omitempty"`
}

// deleteAllRequest always carries namespace, even the empty one.
type deleteAllRequest struct {
	DeleteAll bool   `json:"deleteAll"`
	Namespace string `json:"namespace"`
}

type describeIndexStatsRequest struct{}

type indexDescription struct {
	Name string `json:"name"`
	Host string `json:"host"`
}

// IndexStats is the typed view of a describe_index_stats response.
type IndexStats struct {
	Namespaces       map[string]NamespaceSummary `json:"namespaces"`
	Dimension        int                         `json:"dimension"`
	IndexFullness    float64                     `json:"indexFullness"`
	TotalVectorCount int                         `json:"totalVectorCount"`
}

// NamespaceSummary holds per-namespace statistics.
type NamespaceSummary struct {
	VectorCount int `json:"vectorCount"`
}

// QueryResult is the typed view of a query response.
type QueryResult struct {
	Matches   []Match `json:"matches"`
	Namespace string  `json:"namespace"`
}

// Match is a single query hit.
type Match struct {
	ID       string         `json:"id"`
	Score    float32        `json:"score"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata"`
}
