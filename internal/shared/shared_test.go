package shared

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestFormatDuration(t *testing.T) {
	tc := []struct {
		name string
		ms   int
		want string
	}{
		{name: "zero", ms: 0, want: "0:00"},
		{name: "pads seconds", ms: 65_000, want: "1:05"},
		{name: "truncates millis", ms: 354_947, want: "5:54"},
		{name: "negative clamps", ms: -10, want: "0:00"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.ms); got != tt.want {
				t.Errorf("FormatDuration(%d) = %v, want %v", tt.ms, got, tt.want)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	t.Run("ParseLogLevel", func(t *testing.T) {
		if ParseLogLevel("DEBUG") != log.DebugLevel {
			t.Error("expected debug level")
		}
		if ParseLogLevel("bogus") != log.InfoLevel {
			t.Error("expected unknown level to fall back to info")
		}
		if ParseLogLevel("") != log.InfoLevel {
			t.Error("expected empty level to fall back to info")
		}
	})

	t.Run("WithLogger adds fields", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WithLogger(NewLogger(&buf), "run", "abc")
		logger.Info("hello")

		if !strings.Contains(buf.String(), "run=abc") {
			t.Errorf("expected run field in output, got %q", buf.String())
		}
	})

	t.Run("GenerateID is unique", func(t *testing.T) {
		if GenerateID() == GenerateID() {
			t.Error("expected distinct IDs")
		}
	})
}

func TestErrors(t *testing.T) {
	t.Run("typed errors match sentinels", func(t *testing.T) {
		tt := []struct {
			name     string
			err      error
			sentinel error
		}{
			{name: "auth", err: &AuthError{StatusCode: 401}, sentinel: ErrAuthFailed},
			{name: "parse", err: &ParseError{Input: "https://x"}, sentinel: ErrUnrecognizedLink},
			{name: "not found", err: &NotFoundError{Query: "q", Kind: "track"}, sentinel: ErrNotFound},
			{name: "api", err: &APIError{StatusCode: 404, Endpoint: "/tracks/x"}, sentinel: ErrAPIRequest},
			{name: "network", err: &NetworkError{Op: "GET", Err: errors.New("refused")}, sentinel: ErrNetwork},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				wrapped := fmt.Errorf("lookup: %w", tc.err)
				if !errors.Is(wrapped, tc.sentinel) {
					t.Errorf("expected %v to match %v", wrapped, tc.sentinel)
				}
			})
		}
	})

	t.Run("auth error wrapping network error matches both", func(t *testing.T) {
		err := &AuthError{Err: &NetworkError{Op: "POST", Err: errors.New("dial tcp: refused")}}

		if !errors.Is(err, ErrAuthFailed) {
			t.Error("expected ErrAuthFailed")
		}
		if !errors.Is(err, ErrNetwork) {
			t.Error("expected ErrNetwork")
		}
		if !strings.Contains(err.Error(), "refused") {
			t.Errorf("expected cause in message, got %q", err.Error())
		}
	})

	t.Run("StatusCode", func(t *testing.T) {
		if got := StatusCode(fmt.Errorf("x: %w", &APIError{StatusCode: 429})); got != 429 {
			t.Errorf("expected 429, got %d", got)
		}
		if got := StatusCode(&AuthError{StatusCode: 400}); got != 400 {
			t.Errorf("expected 400, got %d", got)
		}
		if got := StatusCode(errors.New("plain")); got != 0 {
			t.Errorf("expected 0, got %d", got)
		}
	})

	t.Run("APIError message", func(t *testing.T) {
		err := &APIError{StatusCode: 404, Message: "Resource not found", Endpoint: "/tracks/nope"}
		if !strings.Contains(err.Error(), "Resource not found") || !strings.Contains(err.Error(), "404") {
			t.Errorf("unexpected message %q", err.Error())
		}
	})
}

func TestOpenBrowser(t *testing.T) {
	var started []string
	origStart, origRuntime := startCommand, getRuntime
	t.Cleanup(func() { startCommand, getRuntime = origStart, origRuntime })

	startCommand = func(cmd *exec.Cmd) error {
		started = append(started, strings.Join(cmd.Args, " "))
		return nil
	}
	getRuntime = func() string { return "linux" }

	t.Run("opens https url", func(t *testing.T) {
		if err := OpenBrowser("https://open.spotify.com/track/abc"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(started) != 1 || started[0] != "xdg-open https://open.spotify.com/track/abc" {
			t.Errorf("unexpected command %v", started)
		}
	})

	t.Run("rejects non-http url", func(t *testing.T) {
		err := OpenBrowser("spotify:track:abc")
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("unsupported platform", func(t *testing.T) {
		getRuntime = func() string { return "plan9" }
		if err := OpenBrowser("https://example.com"); err == nil {
			t.Error("expected error for unsupported platform")
		}
	})
}
