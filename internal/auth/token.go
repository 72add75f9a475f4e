// Package auth exchanges client credentials for short-lived bearer tokens.
//
// Tokens are plain [*oauth2.Token] values handed back to the caller; the manager keeps no token state, so
// the composing routine decides how long a token lives (acquire once, reuse for the run, drop at exit).
package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotfetch/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const DefaultTokenURL = "https://accounts.spotify.com/api/token"

// expiryDelta treats tokens about to expire as already expired.
const expiryDelta = 10 * time.Second

// Credentials is the client ID/secret pair issued by the provider's developer dashboard.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// TokenManager acquires bearer tokens with the OAuth2 client-credentials grant.
type TokenManager struct {
	config     *clientcredentials.Config
	httpClient *http.Client
	logger     *log.Logger
	now        func() time.Time
}

// Option configures a [TokenManager].
type Option func(*TokenManager)

// WithTokenURL overrides the token endpoint.
func WithTokenURL(u string) Option {
	return func(m *TokenManager) {
		if u != "" {
			m.config.TokenURL = u
		}
	}
}

// WithHTTPClient sets the client used for the token request.
func WithHTTPClient(c *http.Client) Option {
	return func(m *TokenManager) {
		if c != nil {
			m.httpClient = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(m *TokenManager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *TokenManager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewTokenManager validates the credentials and builds a manager. No network call is made.
func NewTokenManager(creds Credentials, opts ...Option) (*TokenManager, error) {
	if creds.ClientID == "" {
		return nil, fmt.Errorf("%w: client_id is empty", shared.ErrMissingCredentials)
	}
	if creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: client_secret is empty", shared.ErrMissingCredentials)
	}

	m := &TokenManager{
		config: &clientcredentials.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			TokenURL:     DefaultTokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		httpClient: http.DefaultClient,
		logger:     log.New(io.Discard),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Acquire performs one token request. Failures are returned as [*shared.AuthError] without retrying.
func (m *TokenManager) Acquire(ctx context.Context) (*oauth2.Token, error) {
	m.logger.Debug("requesting client credentials token", "url", m.config.TokenURL)

	ctx = context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)
	tok, err := m.config.Token(ctx)
	if err != nil {
		return nil, classifyTokenError(err)
	}

	if tok.AccessToken == "" {
		return nil, &shared.AuthError{Err: errors.New("token response has no access_token")}
	}

	m.logger.Debug("token acquired", "expires", tok.Expiry.Format(time.RFC3339))
	return tok, nil
}

// Ensure returns tok while it is valid and acquires a new token when it is absent or expired.
func (m *TokenManager) Ensure(ctx context.Context, tok *oauth2.Token) (*oauth2.Token, error) {
	if m.Valid(tok) {
		return tok, nil
	}
	if tok != nil {
		m.logger.Debug("token expired, acquiring a new one")
	}
	return m.Acquire(ctx)
}

// Valid reports whether tok is present and not within expiryDelta of its expiry.
func (m *TokenManager) Valid(tok *oauth2.Token) bool {
	if tok == nil || tok.AccessToken == "" {
		return false
	}
	if tok.Expiry.IsZero() {
		return true
	}
	return m.now().Add(expiryDelta).Before(tok.Expiry)
}

func classifyTokenError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		authErr := &shared.AuthError{
			Code:        retrieveErr.ErrorCode,
			Description: retrieveErr.ErrorDescription,
			Err:         err,
		}
		if retrieveErr.Response != nil {
			authErr.StatusCode = retrieveErr.Response.StatusCode
		}
		return authErr
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &shared.AuthError{Err: err}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &shared.AuthError{Err: &shared.NetworkError{Op: "POST token", Err: urlErr}}
	}

	return &shared.AuthError{Err: err}
}
