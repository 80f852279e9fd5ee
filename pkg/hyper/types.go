package hyper

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Session is the transport collaborator shared by every resource in a
// graph. It prepares and sends one HTTP request and reports the raw
// status code and body; everything above that contract (status mapping,
// schema parsing) belongs to this package.
type Session interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// Request describes one HTTP request handed to the Session.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Query   url.Values
	Body    interface{}
}

// Response is the raw result of a Session round trip.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// RequestOptions carries per-call overrides for a verb dispatch: extra
// headers, query parameters, a JSON body, and named URI-template
// bindings.
type RequestOptions struct {
	Headers  map[string]string
	Query    url.Values
	Body     interface{}
	Bindings map[string]string
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a hyperwalk client.
//
// # Authentication precedence
//
// The following precedence is applied by hyperclient.New:
//  1. AccessToken: used directly as a static Bearer token.
//  2. ClientID/ClientSecret: OAuth2 client_credentials grant against
//     TokenURL (RefreshToken, Username, Password refine the grant).
//  3. Username/Password: OAuth2 password grant against TokenURL.
//  4. No credentials: requests are sent without authentication.
//
// # Timeouts and retries
//
// Per-request timeouts are controlled via the context passed to resource
// methods. Retry behavior for transient failures can be tuned via
// RetryMax/RetryWaitMin/RetryWaitMax.
type Config struct {
	// RootURL is the entry point of the hypermedia API
	// (e.g., "https://api.github.com"). hyperclient.New normalizes this
	// value by trimming a trailing slash and adding "https://" if no
	// scheme is present.
	RootURL string

	// AccessToken: if set, used directly as a Bearer token.
	AccessToken string
	// ClientID: OAuth2 client ID for the client_credentials grant.
	ClientID string
	// ClientSecret: OAuth2 client secret used with ClientID.
	ClientSecret string
	// Username: account username for the OAuth2 password grant.
	Username string
	// Password: account password for the OAuth2 password grant.
	Password string
	// RefreshToken: optional refresh token used to renew access tokens.
	RefreshToken string
	// TokenURL: full OAuth2 token endpoint. Required when any OAuth2
	// credentials are provided.
	TokenURL string

	// RetryMax: maximum number of retries for transient failures
	// (>=500, 429, and connection errors). If 0, a default is used.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries.
	RetryWaitMax time.Duration
	// Debug: enables verbose HTTP request/response logging when a Logger
	// is provided.
	Debug bool
	// Logger: optional structured logger used by the transport.
	Logger Logger
	// UserAgent overrides the default User-Agent header.
	UserAgent string
	// Cache: optional response cache used by the transport for ETag
	// conditional requests. The resource graph itself never consults it.
	Cache Cache
}
