package constants

import "time"

// Schema parsing conventions.
const (
	// LinkSuffix marks a field as a hyperlink to a related resource.
	LinkSuffix = "_url"

	// URLKey is the schema field that re-homes a resource at a new URL.
	URLKey = "url"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry limits.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 3

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// HTTP status code boundaries.
const (
	// HTTPStatusOK represents a successful HTTP response.
	HTTPStatusOK = 200

	// HTTPStatusNotModified marks a conditional request hit.
	HTTPStatusNotModified = 304

	// HTTPStatusBadRequest is the lower bound of the client error family.
	HTTPStatusBadRequest = 400

	// HTTPStatusNotFound represents a missing resource.
	HTTPStatusNotFound = 404

	// HTTPStatusInternalServerError is the lower bound of the server error family.
	HTTPStatusInternalServerError = 500

	// HTTPStatusUpperBound is the first value past the defined status range.
	HTTPStatusUpperBound = 600
)

// Token handling.
const (
	// TokenExpirationBuffer is the buffer time before token expiration.
	TokenExpirationBuffer = 30 * time.Second
)

// Cache defaults.
const (
	// DefaultCacheSize is the maximum number of cached responses.
	DefaultCacheSize = 1000

	// DefaultCacheTTL is how long a cached response stays fresh.
	DefaultCacheTTL = 5 * time.Minute
)

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// Output format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for tabular output format.
	FormatTable = "table"
)
