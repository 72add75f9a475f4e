// package services defines interface Catalog for looking up catalog resources over HTTP
//
// Spotify
package services

import (
	"context"

	"github.com/desertthunder/spotfetch/internal/models"
	"golang.org/x/oauth2"
)

// Catalog defines the lookups a music catalog provider serves with a bearer token.
type Catalog interface {
	// Search returns up to limit hits of one kind, in provider order.
	Search(ctx context.Context, tok *oauth2.Token, query string, kind models.Kind, limit int) ([]models.SearchHit, error)

	// Details fetches one resource and flattens it for display and export.
	Details(ctx context.Context, tok *oauth2.Token, ref models.Reference, opts DetailOptions) (*models.Details, error)

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

var _ Catalog = (*SpotifyService)(nil)
