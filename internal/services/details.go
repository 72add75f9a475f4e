package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/spotfetch/internal/models"
	"github.com/desertthunder/spotfetch/internal/shared"
	"github.com/samber/lo"
	"golang.org/x/oauth2"
)

// DetailOptions controls the secondary calls made by [SpotifyService.Details].
type DetailOptions struct {
	// Features requests audio features for tracks. A failed features call does not fail the lookup.
	Features bool
}

// Details looks up ref with the endpoint for its kind and flattens the response.
func (s *SpotifyService) Details(ctx context.Context, tok *oauth2.Token, ref models.Reference, opts DetailOptions) (*models.Details, error) {
	if err := ref.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	switch ref.Kind {
	case models.KindTrack:
		track, err := s.Track(ctx, tok, ref.ID)
		if err != nil {
			return nil, err
		}
		details := trackDetails(track)
		if opts.Features {
			if err := s.attachFeatures(ctx, tok, details); err != nil {
				return nil, err
			}
		}
		return details, nil
	case models.KindAlbum:
		album, err := s.Album(ctx, tok, ref.ID)
		if err != nil {
			return nil, err
		}
		return albumDetails(album), nil
	case models.KindPlaylist:
		playlist, err := s.Playlist(ctx, tok, ref.ID)
		if err != nil {
			return nil, err
		}
		return playlistDetails(playlist), nil
	default:
		return nil, fmt.Errorf("%w: unsupported kind %s", shared.ErrInvalidArgument, ref.Kind)
	}
}

// attachFeatures adds audio features to track details.
//
// API and transport failures are recorded on the details and logged; anything else aborts.
func (s *SpotifyService) attachFeatures(ctx context.Context, tok *oauth2.Token, details *models.Details) error {
	features, err := s.AudioFeatures(ctx, tok, details.Ref.ID)
	if err == nil {
		details.Features = features.model()
		return nil
	}

	if ctx.Err() != nil {
		return err
	}

	if errors.Is(err, shared.ErrAPIRequest) || errors.Is(err, shared.ErrNetwork) {
		s.logger.Warn("audio features not available", "track", details.Ref.ID, "error", err)
		details.FeaturesErr = err
		return nil
	}

	return err
}

func (f *SpotifyAudioFeatures) model() *models.AudioFeatures {
	return &models.AudioFeatures{
		Tempo:            f.Tempo,
		Energy:           f.Energy,
		Danceability:     f.Danceability,
		Valence:          f.Valence,
		Acousticness:     f.Acousticness,
		Instrumentalness: f.Instrumentalness,
		Loudness:         f.Loudness,
		Key:              f.Key,
		Mode:             f.Mode,
		TimeSignature:    f.TimeSignature,
	}
}

func artistNames(artists []SpotifyArtist) string {
	names := lo.FilterMap(artists, func(a SpotifyArtist, _ int) (string, bool) {
		return a.Name, a.Name != ""
	})
	return strings.Join(names, ", ")
}

func trackDetails(track *SpotifyTrack) *models.Details {
	d := &models.Details{Ref: models.Reference{Kind: models.KindTrack, ID: track.ID}}

	d.Add(models.FieldName, track.Name)
	d.Add(models.FieldArtist, artistNames(track.Artists))
	d.Add(models.FieldAlbum, track.Album.Name)
	d.Add(models.FieldDuration, shared.FormatDuration(track.DurationMS))
	d.Add(models.FieldPopularity, track.Popularity)
	d.Add(models.FieldExplicit, track.Explicit)
	if track.ExternalIDs.ISRC != "" {
		d.Add(models.FieldISRC, track.ExternalIDs.ISRC)
	}
	d.Add(models.FieldID, track.ID)
	d.Add(models.FieldURL, track.ExternalURLs.Spotify)

	return d
}

func trackSummary(t SpotifyTrack) models.TrackSummary {
	return models.TrackSummary{
		ID:         t.ID,
		Name:       t.Name,
		Artist:     artistNames(t.Artists),
		DurationMS: t.DurationMS,
	}
}

func albumDetails(album *SpotifyAlbum) *models.Details {
	d := &models.Details{Ref: models.Reference{Kind: models.KindAlbum, ID: album.ID}}

	d.Add(models.FieldName, album.Name)
	d.Add(models.FieldArtist, artistNames(album.Artists))
	d.Add(models.FieldReleaseDate, album.ReleaseDate)
	d.Add(models.FieldTotalTracks, album.TotalTracks)
	if album.Label != "" {
		d.Add(models.FieldLabel, album.Label)
	}
	d.Add(models.FieldPopularity, album.Popularity)
	d.Add(models.FieldID, album.ID)
	d.Add(models.FieldURL, album.ExternalURLs.Spotify)

	d.Tracks = lo.Map(album.Tracks.Items, func(t SpotifyTrack, _ int) models.TrackSummary {
		return trackSummary(t)
	})
	d.Total = album.Tracks.Total
	if d.Total == 0 {
		d.Total = album.TotalTracks
	}

	return d
}

func playlistDetails(playlist *SpotifyPlaylist) *models.Details {
	d := &models.Details{Ref: models.Reference{Kind: models.KindPlaylist, ID: playlist.ID}}

	owner := playlist.Owner.DisplayName
	if owner == "" {
		owner = playlist.Owner.ID
	}

	d.Add(models.FieldName, playlist.Name)
	d.Add(models.FieldOwner, owner)
	if playlist.Description != "" {
		d.Add(models.FieldDescription, playlist.Description)
	}
	d.Add(models.FieldFollowers, playlist.Followers.Total)
	if playlist.Public != nil {
		d.Add(models.FieldPublic, *playlist.Public)
	}
	d.Add(models.FieldID, playlist.ID)
	d.Add(models.FieldURL, playlist.ExternalURLs.Spotify)

	d.Tracks = lo.FilterMap(playlist.Tracks.Items, func(item SpotifyPlaylistItem, _ int) (models.TrackSummary, bool) {
		if item.Track == nil || item.Track.Name == "" {
			return models.TrackSummary{}, false
		}
		return trackSummary(*item.Track), true
	})
	d.Total = playlist.Tracks.Total

	return d
}

// searchHits flattens the section of a search response matching kind.
func searchHits(kind models.Kind, response *searchResponse) []models.SearchHit {
	switch kind {
	case models.KindTrack:
		if response.Tracks == nil {
			return nil
		}
		return lo.Map(response.Tracks.Items, func(t SpotifyTrack, _ int) models.SearchHit {
			return models.SearchHit{
				Reference: models.Reference{Kind: models.KindTrack, ID: t.ID},
				Name:      t.Name,
				Artist:    artistNames(t.Artists),
				URL:       t.ExternalURLs.Spotify,
			}
		})
	case models.KindAlbum:
		if response.Albums == nil {
			return nil
		}
		return lo.Map(response.Albums.Items, func(a SpotifyAlbum, _ int) models.SearchHit {
			return models.SearchHit{
				Reference: models.Reference{Kind: models.KindAlbum, ID: a.ID},
				Name:      a.Name,
				Artist:    artistNames(a.Artists),
				URL:       a.ExternalURLs.Spotify,
			}
		})
	case models.KindPlaylist:
		if response.Playlists == nil {
			return nil
		}
		// The provider returns null entries for playlists it cannot show.
		return lo.FilterMap(response.Playlists.Items, func(p *SpotifyPlaylist, _ int) (models.SearchHit, bool) {
			if p == nil || p.ID == "" {
				return models.SearchHit{}, false
			}
			owner := p.Owner.DisplayName
			if owner == "" {
				owner = p.Owner.ID
			}
			return models.SearchHit{
				Reference: models.Reference{Kind: models.KindPlaylist, ID: p.ID},
				Name:      p.Name,
				Artist:    owner,
				URL:       p.ExternalURLs.Spotify,
			}, true
		})
	default:
		return nil
	}
}
