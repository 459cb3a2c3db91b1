package constants

// Content Types
const (
	ContentTypeJSON   = "application/json"
	ContentTypeHeader = "Content-Type"
)

// Routes
const (
	RouteExtract     = "/api/extract"
	RouteGenerateSQL = "/api/generate-sql"
	RouteDeriveKeys  = "/api/derive-keys"
	RouteTemplate    = "/api/template/{kind}"
	RouteHealth      = "/api/health"
)

// Multipart form field carrying the upload.
const UploadField = "file"

// Header carrying the per-request id.
const RequestIDHeader = "X-Request-ID"
