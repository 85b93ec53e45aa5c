// internal/app/system/limits/limits.go
package limits

// Request body size limits for various features.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxJSONBodySize is the maximum size for JSON request bodies.
	MaxJSONBodySize = 1 << 20 // 1 MB

	// MaxUploadFormSize is the maximum in-memory size handed to
	// ParseMultipartForm for ticket and document uploads. The per-file
	// limit is enforced separately by the upload manager.
	MaxUploadFormSize = 10 << 20 // 10 MB
)
