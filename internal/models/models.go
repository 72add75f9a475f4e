// package models defines the catalog resources resolved and displayed by spotfetch
package models

import (
	"fmt"
	"strings"
)

// Kind tags a catalog resource. The zero value is [KindUnrecognized].
type Kind int

const (
	KindUnrecognized Kind = iota
	KindTrack
	KindAlbum
	KindPlaylist
)

func (k Kind) String() string {
	switch k {
	case KindTrack:
		return "track"
	case KindAlbum:
		return "album"
	case KindPlaylist:
		return "playlist"
	default:
		return "unrecognized"
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind maps a path segment or search type ("track", "album", "playlist") to a [Kind].
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "track", "tracks":
		return KindTrack, nil
	case "album", "albums":
		return KindAlbum, nil
	case "playlist", "playlists":
		return KindPlaylist, nil
	default:
		return KindUnrecognized, fmt.Errorf("unsupported resource type %q", s)
	}
}

// Kinds lists the concrete kinds in resolution order.
func Kinds() []Kind {
	return []Kind{KindTrack, KindAlbum, KindPlaylist}
}

// Reference identifies exactly one catalog resource.
type Reference struct {
	Kind Kind   `json:"type"`
	ID   string `json:"id"`
}

func (r Reference) String() string {
	return fmt.Sprintf("%s:%s", r.Kind, r.ID)
}

// Validate reports whether the reference can be looked up.
func (r Reference) Validate() error {
	if r.Kind == KindUnrecognized {
		return fmt.Errorf("reference has no resource type")
	}
	if r.ID == "" {
		return fmt.Errorf("%s reference has no identifier", r.Kind)
	}
	return nil
}

// SearchHit is one search result.
type SearchHit struct {
	Reference
	Name   string `json:"name"`
	Artist string `json:"artist"` // artists for tracks/albums, owner for playlists
	URL    string `json:"url,omitempty"`
}
