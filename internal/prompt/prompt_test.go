package prompt

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/spotfetch/internal/shared"
)

func TestLineReader(t *testing.T) {
	t.Run("reads answers in order", func(t *testing.T) {
		var out bytes.Buffer
		p := NewLineReader(strings.NewReader("my-id\r\n  my-secret  \nhttps://open.spotify.com/track/abc\n"), &out)

		id, err := p.Input("Client ID:")
		if err != nil || id != "my-id" {
			t.Errorf("expected my-id, got %q (%v)", id, err)
		}

		secret, err := p.Password("Client secret:")
		if err != nil || secret != "my-secret" {
			t.Errorf("expected my-secret, got %q (%v)", secret, err)
		}

		link, err := p.Input("Link or search:")
		if err != nil || link != "https://open.spotify.com/track/abc" {
			t.Errorf("expected link, got %q (%v)", link, err)
		}

		for _, want := range []string{"Client ID: ", "Client secret: "} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("expected prompt %q in output %q", want, out.String())
			}
		}
	})

	t.Run("last line without newline", func(t *testing.T) {
		p := NewLineReader(strings.NewReader("Bohemian Rhapsody"), nil)

		got, err := p.Input("Query:")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != "Bohemian Rhapsody" {
			t.Errorf("expected 'Bohemian Rhapsody', got %q", got)
		}
	})

	t.Run("end of input cancels", func(t *testing.T) {
		p := NewLineReader(strings.NewReader(""), nil)

		if _, err := p.Input("Query:"); !errors.Is(err, shared.ErrCancelled) {
			t.Errorf("expected ErrCancelled, got %v", err)
		}
	})

	t.Run("confirm", func(t *testing.T) {
		tt := []struct {
			in   string
			want bool
		}{
			{in: "y\n", want: true},
			{in: "YES\n", want: true},
			{in: "n\n", want: false},
			{in: "\n", want: false},
			{in: "", want: false},
		}

		for _, tc := range tt {
			t.Run(strings.TrimSpace(tc.in), func(t *testing.T) {
				var out bytes.Buffer
				p := NewLineReader(strings.NewReader(tc.in), &out)

				got, err := p.Confirm("Save to file?")
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if got != tc.want {
					t.Errorf("Confirm on %q = %v, want %v", tc.in, got, tc.want)
				}
				if !strings.Contains(out.String(), "Save to file? (y/N)") {
					t.Errorf("expected (y/N) hint, got %q", out.String())
				}
			})
		}
	})
}

func TestNew(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "input.txt"))
	if err != nil {
		t.Fatalf("failed to create input file: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })

	if IsTerminal(f) {
		t.Error("expected a regular file not to be a terminal")
	}
	if IsTerminal(nil) {
		t.Error("expected nil not to be a terminal")
	}
	if _, ok := New(f, f).(*LineReader); !ok {
		t.Errorf("expected *LineReader for non-terminal input, got %T", New(f, f))
	}
}
