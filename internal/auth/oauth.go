package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hyperwalk-io/hyperwalk/internal/constants"
)

// OAuth2Config configures the OAuth2 token manager.
// Static errors for err113 compliance.
var (
	ErrNoValidCredentials = errors.New("no valid credentials available")
	ErrTokenRequestFailed = errors.New("token request failed")
)

type OAuth2Config struct {
	// TokenURL is the full OAuth2 token endpoint.
	TokenURL string

	// ClientID and ClientSecret select the client_credentials grant.
	ClientID     string
	ClientSecret string

	// Username and Password select the password grant.
	Username string
	Password string

	// RefreshToken, when present, is preferred for renewing tokens.
	RefreshToken string

	// AccessToken seeds the store with an existing token.
	AccessToken string

	// Scopes requested with the grant.
	Scopes []string
}

// OAuth2TokenManager obtains and renews tokens from an OAuth2 token
// endpoint using whichever grant the config allows: refresh_token,
// client_credentials, then password.
type OAuth2TokenManager struct {
	config     *OAuth2Config
	store      tokenStore
	httpClient *http.Client
}

// NewOAuth2TokenManager creates a new OAuth2 token manager.
func NewOAuth2TokenManager(config *OAuth2Config) *OAuth2TokenManager {
	manager := &OAuth2TokenManager{
		config: config,
		httpClient: &http.Client{
			Timeout: constants.ShortHTTPTimeout,
		},
	}

	if config.AccessToken != "" {
		manager.store.Set(&Token{
			AccessToken:  config.AccessToken,
			RefreshToken: config.RefreshToken,
			TokenType:    "bearer",
		})
	}

	return manager
}

// GetToken returns a valid access token, fetching or refreshing one
// when the stored token is missing or expiring soon.
func (m *OAuth2TokenManager) GetToken(ctx context.Context) (string, error) {
	token := m.store.Get()
	if token != nil && !m.expiringSoon(token) {
		return token.AccessToken, nil
	}

	err := m.fetchToken(ctx)
	if err != nil {
		return "", err
	}

	return m.store.Get().AccessToken, nil
}

// RefreshToken forces a token refresh regardless of expiry.
func (m *OAuth2TokenManager) RefreshToken(ctx context.Context) error {
	return m.fetchToken(ctx)
}

// SetToken manually sets the access token.
func (m *OAuth2TokenManager) SetToken(token string, expiresAt time.Time) {
	m.store.Set(&Token{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	})
}

// expiringSoon reports whether the token is past, or within the buffer
// of, its expiry. Tokens without an expiry never expire.
func (m *OAuth2TokenManager) expiringSoon(token *Token) bool {
	if token.ExpiresAt.IsZero() {
		return false
	}

	return time.Now().Add(constants.TokenExpirationBuffer).After(token.ExpiresAt)
}

// fetchToken obtains a fresh token with the best available grant.
func (m *OAuth2TokenManager) fetchToken(ctx context.Context) error {
	refreshToken := m.config.RefreshToken

	current := m.store.Get()
	if current != nil && current.RefreshToken != "" {
		refreshToken = current.RefreshToken
	}

	switch {
	case refreshToken != "":
		return m.requestToken(ctx, url.Values{
			"grant_type":    []string{"refresh_token"},
			"refresh_token": []string{refreshToken},
		})
	case m.config.ClientID != "" && m.config.ClientSecret != "":
		return m.requestToken(ctx, url.Values{
			"grant_type": []string{"client_credentials"},
		})
	case m.config.Username != "" && m.config.Password != "":
		return m.requestToken(ctx, url.Values{
			"grant_type": []string{"password"},
			"username":   []string{m.config.Username},
			"password":   []string{m.config.Password},
		})
	default:
		return ErrNoValidCredentials
	}
}

// requestToken posts the grant form to the token endpoint and stores
// the resulting token.
func (m *OAuth2TokenManager) requestToken(ctx context.Context, form url.Values) error {
	if len(m.config.Scopes) > 0 {
		form.Set("scope", strings.Join(m.config.Scopes, " "))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.config.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("building token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	if m.config.ClientID != "" {
		req.SetBasicAuth(m.config.ClientID, m.config.ClientSecret)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending token request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading token response: %w", err)
	}

	if resp.StatusCode >= constants.HTTPStatusBadRequest {
		var oauthErr struct {
			Error       string `json:"error"`
			Description string `json:"error_description"`
		}

		if json.Unmarshal(body, &oauthErr) == nil && oauthErr.Error != "" {
			return fmt.Errorf("%w: %s: %s", ErrTokenRequestFailed, oauthErr.Error, oauthErr.Description)
		}

		return fmt.Errorf("%w: status %d", ErrTokenRequestFailed, resp.StatusCode)
	}

	var token Token

	err = json.Unmarshal(body, &token)
	if err != nil {
		return fmt.Errorf("parsing token response: %w", err)
	}

	if token.ExpiresIn > 0 {
		token.ExpiresAt = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	}

	m.store.Set(&token)

	return nil
}
