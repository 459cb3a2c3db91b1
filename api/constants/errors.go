package constants

// ============================================================================
// REQUEST ERRORS
// ============================================================================

const (
	ErrNoFile           = "no file"
	ErrUnsupportedFile  = "only .xlsx, .xls and .csv files are supported"
	ErrInvalidJSON      = "Invalid JSON"
	ErrRowsNotArray     = "rows must be an array"
	ErrInvalidRow       = "row %d: %v"
	ErrBodyTooLarge     = "request body exceeds %d MB"
	ErrMultipartParse   = "Failed to parse multipart form"
	ErrFileOpen         = "Failed to open file: %s"
	ErrUnknownTemplate  = "unknown template %q, use xlsx or csv"
	ErrTemplateMissing  = "template is not available yet"
	ErrMethodNotAllowed = "Method Not Allowed"
	ErrRouteNotFound    = "404 - Route not found"
	ErrInternal         = "internal error"
)
