package vector

import (
	"context"
	"net/http"
)

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Index defines the operations of an index data plane.
// *Client implements it; consumers accept it so tests can substitute a fake.
type Index interface {
	// DescribeIndexStats returns index level statistics
	DescribeIndexStats(ctx context.Context) (*Response, error)

	// Query searches the index for the nearest records to a vector
	Query(ctx context.Context, params QueryParams) (*Response, error)

	// Upsert inserts or overwrites records by id
	Upsert(ctx context.Context, records []Record, namespace string) (*Response, error)

	// Delete deletes one record by id
	Delete(ctx context.Context, id string, namespace string) (*Response, error)

	// DeleteBulk deletes records by id
	DeleteBulk(ctx context.Context, ids []string, namespace string) (*Response, error)

	// DeleteAll deletes every record in a namespace
	DeleteAll(ctx context.Context, namespace string) (*Response, error)
}
