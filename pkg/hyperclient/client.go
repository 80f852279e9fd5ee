package hyperclient

import (
	"strings"
	"time"

	"github.com/hyperwalk-io/hyperwalk/internal/auth"
	internalhttp "github.com/hyperwalk-io/hyperwalk/internal/http"
	"github.com/hyperwalk-io/hyperwalk/pkg/hyper"
)

// Client bundles the wired transport session with the root of the
// resource graph. Every node derived from Root shares the session.
type Client struct {
	session hyper.Session
	root    *hyper.Resource
	rootURL string
}

// New creates a client for the hypermedia API rooted at config.RootURL.
func New(config *hyper.Config) (*Client, error) {
	if config == nil {
		return nil, hyper.ErrConfigRequired
	}

	if config.RootURL == "" {
		return nil, hyper.ErrRootURLRequired
	}

	// Normalize the root URL
	rootURL := strings.TrimSuffix(config.RootURL, "/")
	if !strings.HasPrefix(rootURL, "http://") && !strings.HasPrefix(rootURL, "https://") {
		rootURL = "https://" + rootURL
	}

	tokenManager := createTokenManager(config)
	session := internalhttp.NewClient(tokenManager, createHTTPOptions(config)...)

	return &Client{
		session: session,
		root:    hyper.New(session, rootURL, "Root"),
		rootURL: rootURL,
	}, nil
}

// NewWithToken creates a client authenticated with a static bearer token.
func NewWithToken(rootURL, token string) (*Client, error) {
	return New(&hyper.Config{
		RootURL:     rootURL,
		AccessToken: token,
	})
}

// NewWithPassword creates a client using the OAuth2 password grant.
func NewWithPassword(rootURL, tokenURL, username, password string) (*Client, error) {
	return New(&hyper.Config{
		RootURL:  rootURL,
		TokenURL: tokenURL,
		Username: username,
		Password: password,
	})
}

// Root returns the unloaded root of the resource graph. Its first
// accessor fetches the API's entry document.
func (c *Client) Root() *hyper.Resource {
	return c.root
}

// Session returns the shared transport session, for callers that want
// to build additional root nodes.
func (c *Client) Session() hyper.Session {
	return c.session
}

// RootURL returns the normalized root endpoint.
func (c *Client) RootURL() string {
	return c.rootURL
}

// createTokenManager picks a token manager from the credential mix:
// static token, then client credentials, then password grant, then none.
func createTokenManager(config *hyper.Config) auth.TokenManager {
	if config.AccessToken != "" {
		return auth.NewStaticTokenManager(config.AccessToken)
	}

	if config.ClientID != "" && config.ClientSecret != "" {
		return auth.NewOAuth2TokenManager(&auth.OAuth2Config{
			TokenURL:     config.TokenURL,
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Username:     config.Username,
			Password:     config.Password,
			RefreshToken: config.RefreshToken,
		})
	}

	if config.Username != "" && config.Password != "" {
		return auth.NewOAuth2TokenManager(&auth.OAuth2Config{
			TokenURL:     config.TokenURL,
			Username:     config.Username,
			Password:     config.Password,
			RefreshToken: config.RefreshToken,
		})
	}

	return nil // No authentication
}

// createHTTPOptions builds transport options from config.
func createHTTPOptions(config *hyper.Config) []internalhttp.Option {
	var opts []internalhttp.Option

	if config.Logger != nil {
		opts = append(opts, internalhttp.WithLogger(config.Logger))
	}

	if config.Debug {
		opts = append(opts, internalhttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		opts = append(opts, internalhttp.WithUserAgent(config.UserAgent))
	}

	if config.RetryMax > 0 {
		waitMin := config.RetryWaitMin
		waitMax := config.RetryWaitMax

		if waitMin <= 0 {
			waitMin = 1 * time.Second
		}

		if waitMax <= 0 {
			waitMax = 10 * time.Second
		}

		opts = append(opts, internalhttp.WithRetryConfig(config.RetryMax, waitMin, waitMax))
	}

	if config.Cache != nil {
		opts = append(opts, internalhttp.WithCache(config.Cache))
	}

	return opts
}
