package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/spotfetch/internal/shared"
	"golang.org/x/oauth2"
)

const (
	testClientID     = "test_client_id"
	testClientSecret = "test_client_secret"
)

// tokenServer accepts testClientID/testClientSecret and rejects anything else with 400 invalid_client.
func tokenServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()

	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte(testClientID+":"+testClientSecret))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)

		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form: %v", err)
		}
		if gt := r.PostForm.Get("grant_type"); gt != "client_credentials" {
			t.Errorf("expected grant_type client_credentials, got %q", gt)
		}

		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != wantAuth {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_client","error_description":"Invalid client"}`))
			return
		}

		_, _ = w.Write([]byte(`{"access_token":"tok-123","token_type":"Bearer","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewTokenManager(t *testing.T) {
	t.Run("missing client id", func(t *testing.T) {
		if _, err := NewTokenManager(Credentials{ClientSecret: "s"}); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("missing client secret", func(t *testing.T) {
		if _, err := NewTokenManager(Credentials{ClientID: "id"}); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		m, err := NewTokenManager(Credentials{ClientID: "id", ClientSecret: "s"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if m.config.TokenURL != DefaultTokenURL {
			t.Errorf("expected default token URL, got %s", m.config.TokenURL)
		}
		if m.config.AuthStyle != oauth2.AuthStyleInHeader {
			t.Errorf("expected header auth style, got %v", m.config.AuthStyle)
		}
	})
}

func newManager(t *testing.T, creds Credentials, opts ...Option) *TokenManager {
	t.Helper()
	m, err := NewTokenManager(creds, opts...)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	return m
}

func TestAcquire(t *testing.T) {
	t.Run("valid credentials return bearer token", func(t *testing.T) {
		var hits int32
		srv := tokenServer(t, &hits)
		m := newManager(t, Credentials{ClientID: testClientID, ClientSecret: testClientSecret},
			WithTokenURL(srv.URL), WithHTTPClient(srv.Client()))

		tok, err := m.Acquire(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if tok.AccessToken != "tok-123" {
			t.Errorf("expected tok-123, got %q", tok.AccessToken)
		}
		if tok.Expiry.IsZero() {
			t.Error("expected expiry from expires_in")
		}
		if n := atomic.LoadInt32(&hits); n != 1 {
			t.Errorf("expected one request, got %d", n)
		}
	})

	t.Run("rejected credentials return AuthError", func(t *testing.T) {
		var hits int32
		srv := tokenServer(t, &hits)
		m := newManager(t, Credentials{ClientID: testClientID, ClientSecret: "wrong"},
			WithTokenURL(srv.URL), WithHTTPClient(srv.Client()))

		tok, err := m.Acquire(context.Background())
		if tok != nil {
			t.Errorf("expected no token, got %v", tok)
		}
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Fatalf("expected ErrAuthFailed, got %v", err)
		}

		var authErr *shared.AuthError
		if !errors.As(err, &authErr) {
			t.Fatalf("expected *shared.AuthError, got %T", err)
		}
		if authErr.StatusCode != http.StatusBadRequest || authErr.Code != "invalid_client" {
			t.Errorf("unexpected AuthError fields: %+v", authErr)
		}
		if n := atomic.LoadInt32(&hits); n != 1 {
			t.Errorf("expected no retry on rejection, got %d requests", n)
		}
	})

	t.Run("unreachable endpoint returns AuthError wrapping NetworkError", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		m := newManager(t, Credentials{ClientID: testClientID, ClientSecret: testClientSecret}, WithTokenURL(url))

		_, err := m.Acquire(context.Background())
		if !errors.Is(err, shared.ErrAuthFailed) || !errors.Is(err, shared.ErrNetwork) {
			t.Errorf("expected ErrAuthFailed and ErrNetwork, got %v", err)
		}
	})

	t.Run("response without access token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"token_type":"Bearer"}`))
		}))
		t.Cleanup(srv.Close)

		m := newManager(t, Credentials{ClientID: "id", ClientSecret: "s"},
			WithTokenURL(srv.URL), WithHTTPClient(srv.Client()))

		if _, err := m.Acquire(context.Background()); !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})
}

func TestEnsure(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	var hits int32
	srv := tokenServer(t, &hits)
	m := newManager(t, Credentials{ClientID: testClientID, ClientSecret: testClientSecret},
		WithTokenURL(srv.URL), WithHTTPClient(srv.Client()), WithClock(func() time.Time { return now }))

	t.Run("valid token is reused", func(t *testing.T) {
		atomic.StoreInt32(&hits, 0)
		current := &oauth2.Token{AccessToken: "still-good", Expiry: now.Add(time.Hour)}

		got, err := m.Ensure(context.Background(), current)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != current {
			t.Error("expected the same token back")
		}
		if n := atomic.LoadInt32(&hits); n != 0 {
			t.Errorf("expected no request, got %d", n)
		}
	})

	t.Run("expired token is replaced", func(t *testing.T) {
		atomic.StoreInt32(&hits, 0)
		current := &oauth2.Token{AccessToken: "stale", Expiry: now.Add(-time.Minute)}

		got, err := m.Ensure(context.Background(), current)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.AccessToken != "tok-123" {
			t.Errorf("expected new token, got %q", got.AccessToken)
		}
		if n := atomic.LoadInt32(&hits); n != 1 {
			t.Errorf("expected one request, got %d", n)
		}
	})

	t.Run("absent token is acquired", func(t *testing.T) {
		atomic.StoreInt32(&hits, 0)

		got, err := m.Ensure(context.Background(), nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.AccessToken == "" {
			t.Error("expected an access token")
		}
		if n := atomic.LoadInt32(&hits); n != 1 {
			t.Errorf("expected one request, got %d", n)
		}
	})
}

func TestValid(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := newManager(t, Credentials{ClientID: "id", ClientSecret: "s"}, WithClock(func() time.Time { return now }))

	tt := []struct {
		name string
		tok  *oauth2.Token
		want bool
	}{
		{name: "nil", tok: nil, want: false},
		{name: "empty access token", tok: &oauth2.Token{Expiry: now.Add(time.Hour)}, want: false},
		{name: "no expiry", tok: &oauth2.Token{AccessToken: "a"}, want: true},
		{name: "future expiry", tok: &oauth2.Token{AccessToken: "a", Expiry: now.Add(time.Hour)}, want: true},
		{name: "within delta", tok: &oauth2.Token{AccessToken: "a", Expiry: now.Add(5 * time.Second)}, want: false},
		{name: "past expiry", tok: &oauth2.Token{AccessToken: "a", Expiry: now.Add(-time.Second)}, want: false},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if got := m.Valid(tc.tok); got != tc.want {
				t.Errorf("Valid() = %v, want %v", got, tc.want)
			}
		})
	}
}
