// Package vector is a client for the Pinecone REST data plane.
//
// # Construction
//
// A Client is bound to one index. Its host is either given explicitly or
// looked up once on the control plane:
//
//	client, err := vector.WithExplicitHost(cfg, "my-index-abc.svc.pinecone.io", nil)
//	client, err := vector.WithResolvedHost(ctx, cfg, nil)
//
// NewClient picks one of the two from Config.IndexHost. Resolution failures
// are returned as *EndpointResolutionError and no client is created.
//
// # Operations
//
//	DescribeIndexStats  POST describe_index_stats
//	Query               POST query
//	Upsert              POST vectors/upsert
//	Delete, DeleteBulk  POST vectors/delete  {deleteAll: false, ids}
//	DeleteAll           POST vectors/delete  {deleteAll: true, namespace}
//
// Every operation is one round trip and returns a *Response. A non-2xx
// status is not an error; check Response.IsSuccessful. Network failures are
// returned as *TransportError. Nothing is retried.
//
// Optional body fields (namespace, filter, metadata) are omitted from the
// payload when empty.
//
// The HTTP transport is injected as a Doer; nil selects NewHTTPClient.
package vector
