// Package resolver turns raw user input into a catalog [models.Reference].
//
// Input is classified by a fixed, ordered list of pattern rules:
//
//  1. uri:  spotify:<kind>:<id>
//  2. url:  https://<open host>/[intl-xx/][embed/]<kind>/<id>[/...][?query][#fragment]
//  3. link: anything else that looks like a link is rejected with [*shared.ParseError]
//
// Input matching no rule is a free-text query, answered by the first search hit.
package resolver

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotfetch/internal/models"
	"github.com/desertthunder/spotfetch/internal/shared"
	"golang.org/x/oauth2"
)

const DefaultOpenHost = "open.spotify.com"

// Searcher is the part of a catalog the resolver needs for free-text input.
type Searcher interface {
	Search(ctx context.Context, tok *oauth2.Token, query string, kind models.Kind, limit int) ([]models.SearchHit, error)
}

type rule struct {
	name    string
	pattern *regexp.Regexp
}

var (
	uriPattern = regexp.MustCompile(`^(?i:spotify:(track|album|playlist)):([A-Za-z0-9]+)$`)

	// linkPattern recognizes link-shaped input and captures its resource segment when there is one.
	linkPattern = regexp.MustCompile(`^(?i:spotify:([a-z]*)|https?://[^/?#]+/?(?:intl-[a-z]{2}(?:-[a-z]{2})?/)?(?:embed/)?([a-z-]*))`)
)

// urlPattern matches web links on host. Scheme, host and kind are case-insensitive; the ID is not.
// Path segments after the ID are ignored.
func urlPattern(host string) *regexp.Regexp {
	return regexp.MustCompile(`^(?i:https?://` + regexp.QuoteMeta(host) +
		`/(?:intl-[a-z]{2}(?:-[a-z]{2})?/)?(?:embed/)?(track|album|playlist))/([A-Za-z0-9]+)(?:/[^?#]*)?(?:[?#].*)?$`)
}

// Resolver classifies input and falls back to search for free text.
type Resolver struct {
	searcher Searcher
	host     string
	category models.Kind
	rules    []rule
	logger   *log.Logger
}

// Option configures a [Resolver].
type Option func(*Resolver)

// WithOpenHost sets the host of shareable web links (default [DefaultOpenHost]).
func WithOpenHost(host string) Option {
	return func(r *Resolver) {
		if host != "" {
			r.host = strings.ToLower(host)
		}
	}
}

// WithCategory restricts free-text searches to kind (default track).
func WithCategory(kind models.Kind) Option {
	return func(r *Resolver) {
		if kind != models.KindUnrecognized {
			r.category = kind
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// New builds a resolver. searcher may be nil when only [Resolver.Match] is used.
func New(searcher Searcher, opts ...Option) *Resolver {
	r := &Resolver{
		searcher: searcher,
		host:     DefaultOpenHost,
		category: models.KindTrack,
		logger:   log.New(io.Discard),
	}

	for _, opt := range opts {
		opt(r)
	}

	r.rules = []rule{
		{name: "uri", pattern: uriPattern},
		{name: "url", pattern: urlPattern(r.host)},
	}
	return r
}

// Host returns the configured open host.
func (r *Resolver) Host() string { return r.host }

// Category returns the kind free-text input is searched as.
func (r *Resolver) Category() models.Kind { return r.category }

// Match applies the pattern rules only.
//
// A link yields a reference of its kind; free text yields a reference of [models.KindUnrecognized] and no error.
// Link-shaped input that no rule accepts returns a [*shared.ParseError].
func (r *Resolver) Match(input string) (models.Reference, error) {
	input = strings.TrimSpace(input)

	for _, rl := range r.rules {
		m := rl.pattern.FindStringSubmatch(input)
		if m == nil {
			continue
		}

		kind, err := models.ParseKind(m[1])
		if err != nil {
			return models.Reference{}, &shared.ParseError{Input: input, Reason: err.Error()}
		}

		r.logger.Debug("input matched", "rule", rl.name, "kind", kind, "id", m[2])
		return models.Reference{Kind: kind, ID: m[2]}, nil
	}

	if m := linkPattern.FindStringSubmatch(input); m != nil {
		return models.Reference{}, &shared.ParseError{Input: input, Reason: r.linkReason(input, m)}
	}

	return models.Reference{Kind: models.KindUnrecognized}, nil
}

func (r *Resolver) linkReason(input string, m []string) string {
	segment := strings.ToLower(m[1] + m[2])

	if u, err := url.Parse(input); err == nil && u.Host != "" && !strings.EqualFold(u.Hostname(), r.host) {
		return fmt.Sprintf("host is not %s", r.host)
	}

	switch segment {
	case "track", "album", "playlist":
		return "missing or malformed identifier"
	case "":
		return "missing resource type"
	default:
		return fmt.Sprintf("unsupported resource type %q", segment)
	}
}

// Resolve returns the reference for input, searching the configured category when input is free text.
//
// The first search hit wins; zero hits return a [*shared.NotFoundError].
func (r *Resolver) Resolve(ctx context.Context, tok *oauth2.Token, input string) (models.Reference, error) {
	query := strings.TrimSpace(input)
	if query == "" {
		return models.Reference{}, fmt.Errorf("%w: enter a link or a search query", shared.ErrInvalidInput)
	}

	ref, err := r.Match(query)
	if err != nil {
		return models.Reference{}, err
	}
	if ref.Kind != models.KindUnrecognized {
		return ref, nil
	}

	if r.searcher == nil {
		return models.Reference{}, fmt.Errorf("%w: cannot search for %q", shared.ErrNotImplemented, query)
	}

	r.logger.Debug("searching", "query", query, "type", r.category)

	hits, err := r.searcher.Search(ctx, tok, query, r.category, 1)
	if err != nil {
		return models.Reference{}, err
	}
	if len(hits) == 0 {
		return models.Reference{}, &shared.NotFoundError{Query: query, Kind: r.category.String()}
	}

	return hits[0].Reference, nil
}

// Link builds the canonical web link for ref. Matching the result yields ref again.
func (r *Resolver) Link(ref models.Reference) string {
	return fmt.Sprintf("https://%s/%s/%s", r.host, ref.Kind, ref.ID)
}

// URI builds the spotify:<kind>:<id> form of ref.
func URI(ref models.Reference) string {
	return fmt.Sprintf("spotify:%s:%s", ref.Kind, ref.ID)
}
