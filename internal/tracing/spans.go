package tracing

// Span attribute keys for fetch tracing.
// These constants define the semantic conventions for span attributes
// across the scheduler and fetcher implementations.
const (
	// Batch attributes
	AttrBatchID      = "batch.id"
	AttrBatchSize    = "batch.size"
	AttrBatchWorkers = "batch.workers"
	AttrBatchFailed  = "batch.failed"

	// System attributes
	AttrSystemName = "system.name"
	AttrSystemID   = "system.id"

	// ESI request attributes
	AttrESIEndpoint = "esi.endpoint"
	AttrHTTPStatus  = "http.status_code"

	// Error attributes
	AttrErrorKind = "error.kind"
)
