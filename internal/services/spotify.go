// Spotify Web API implementation of [Catalog]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotfetch/internal/models"
	"github.com/desertthunder/spotfetch/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	DefaultSpotifyBaseURL = "https://api.spotify.com/v1"

	maxSearchLimit = 50
	maxErrorBody   = 64 << 10
)

type externalURLs struct {
	Spotify string `json:"spotify"`
}

type externalIDs struct {
	ISRC string `json:"isrc"`
}

type followers struct {
	Total int `json:"total"`
}

// SpotifyArtist represents a simplified Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Artists      []SpotifyArtist `json:"artists"`
	Album        SpotifyAlbum    `json:"album"`
	DurationMS   int             `json:"duration_ms"`
	Explicit     bool            `json:"explicit"`
	ExternalIDs  externalIDs     `json:"external_ids"`
	ExternalURLs externalURLs    `json:"external_urls"`
	Popularity   int             `json:"popularity"`
	URI          string          `json:"uri"`
}

type albumTracks struct {
	Items []SpotifyTrack `json:"items"`
	Total int            `json:"total"`
	Next  *string        `json:"next"`
}

// SpotifyAlbum represents a Spotify album. Tracks is only populated by the album endpoint.
type SpotifyAlbum struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Artists      []SpotifyArtist `json:"artists"`
	ReleaseDate  string          `json:"release_date"`
	TotalTracks  int             `json:"total_tracks"`
	Label        string          `json:"label"`
	Popularity   int             `json:"popularity"`
	ExternalURLs externalURLs    `json:"external_urls"`
	Tracks       albumTracks     `json:"tracks"`
	URI          string          `json:"uri"`
}

type Owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// SpotifyPlaylistItem represents a track within a playlist context. Track is nil for removed or local items.
type SpotifyPlaylistItem struct {
	AddedAt string        `json:"added_at"`
	Track   *SpotifyTrack `json:"track"`
}

type playlistTracks struct {
	Items []SpotifyPlaylistItem `json:"items"`
	Total int                   `json:"total"`
	Next  *string               `json:"next"`
}

// SpotifyPlaylist represents a Spotify playlist.
type SpotifyPlaylist struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Owner        Owner          `json:"owner"`
	Public       *bool          `json:"public"`
	Followers    followers      `json:"followers"`
	ExternalURLs externalURLs   `json:"external_urls"`
	Tracks       playlistTracks `json:"tracks"`
	URI          string         `json:"uri"`
}

// SpotifyAudioFeatures represents the audio-features object of a track. Fields the provider omits or
// sends as null stay nil.
type SpotifyAudioFeatures struct {
	ID               string   `json:"id"`
	Tempo            *float64 `json:"tempo"`
	Energy           *float64 `json:"energy"`
	Danceability     *float64 `json:"danceability"`
	Valence          *float64 `json:"valence"`
	Acousticness     *float64 `json:"acousticness"`
	Instrumentalness *float64 `json:"instrumentalness"`
	Loudness         *float64 `json:"loudness"`
	Key              *int     `json:"key"`
	Mode             *int     `json:"mode"`
	TimeSignature    *int     `json:"time_signature"`
}

type searchResponse struct {
	Tracks *struct {
		Items []SpotifyTrack `json:"items"`
	} `json:"tracks"`
	Albums *struct {
		Items []SpotifyAlbum `json:"items"`
	} `json:"albums"`
	Playlists *struct {
		Items []*SpotifyPlaylist `json:"items"`
	} `json:"playlists"`
}

type errorResponse struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// SpotifyOptions configures a [SpotifyService].
type SpotifyOptions struct {
	BaseURL           string       // Optional: defaults to [DefaultSpotifyBaseURL]
	HTTPClient        *http.Client // Optional: defaults to [http.DefaultClient]
	Market            string       // Optional: ISO 3166-1 alpha-2 country code
	RequestsPerSecond float64      // Optional: client-side pacing, 0 disables
	Logger            *log.Logger  // Optional
}

// SpotifyService implements [Catalog] for the Spotify Web API.
//
// It holds no credentials: every call takes the bearer token explicitly.
type SpotifyService struct {
	baseURL    string
	market     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewSpotifyService creates a new Spotify catalog client.
func NewSpotifyService(opts SpotifyOptions) *SpotifyService {
	baseURL := strings.TrimSuffix(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultSpotifyBaseURL
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &SpotifyService{
		baseURL:    baseURL,
		market:     opts.Market,
		httpClient: httpClient,
		limiter:    limiter,
		logger:     logger,
	}
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// doRequest performs an authenticated GET against the Spotify API and decodes the JSON body into result.
func (s *SpotifyService) doRequest(ctx context.Context, tok *oauth2.Token, endpoint string, params url.Values, result any) error {
	if tok == nil || tok.AccessToken == "" {
		return fmt.Errorf("%w: no bearer token", shared.ErrNotAuthenticated)
	}
	if !tok.Valid() {
		return fmt.Errorf("%w: acquire a new token before calling %s", shared.ErrTokenExpired, endpoint)
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("request cancelled: %w", err)
		}
	}

	apiURL := s.baseURL + endpoint
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	tok.SetAuthHeader(req)
	req.Header.Set("Accept", "application/json")

	s.logger.Debug("spotify request", "endpoint", endpoint)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("request cancelled: %w", ctxErr)
		}
		return &shared.NetworkError{Op: "GET " + endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp, endpoint)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", endpoint, err)
		}
	}

	return nil
}

// apiError builds an [*shared.APIError] from the provider's {"error": {"status", "message"}} body.
func apiError(resp *http.Response, endpoint string) error {
	apiErr := &shared.APIError{StatusCode: resp.StatusCode, Endpoint: endpoint}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(body) == 0 {
		apiErr.Message = http.StatusText(resp.StatusCode)
		return apiErr
	}

	var parsed errorResponse
	if json.Unmarshal(body, &parsed) == nil && parsed.Error.Message != "" {
		apiErr.Message = parsed.Error.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
	}

	return apiErr
}

func (s *SpotifyService) marketParams() url.Values {
	params := url.Values{}
	if s.market != "" {
		params.Set("market", s.market)
	}
	return params
}

// Track retrieves a single track by ID.
func (s *SpotifyService) Track(ctx context.Context, tok *oauth2.Token, trackID string) (*SpotifyTrack, error) {
	var track SpotifyTrack
	endpoint := "/tracks/" + url.PathEscape(trackID)
	if err := s.doRequest(ctx, tok, endpoint, s.marketParams(), &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// AudioFeatures retrieves the audio features of a track by ID.
func (s *SpotifyService) AudioFeatures(ctx context.Context, tok *oauth2.Token, trackID string) (*SpotifyAudioFeatures, error) {
	var features SpotifyAudioFeatures
	endpoint := "/audio-features/" + url.PathEscape(trackID)
	if err := s.doRequest(ctx, tok, endpoint, nil, &features); err != nil {
		return nil, err
	}
	return &features, nil
}

// Album retrieves an album by ID, including the first page of its tracks.
func (s *SpotifyService) Album(ctx context.Context, tok *oauth2.Token, albumID string) (*SpotifyAlbum, error) {
	var album SpotifyAlbum
	endpoint := "/albums/" + url.PathEscape(albumID)
	if err := s.doRequest(ctx, tok, endpoint, s.marketParams(), &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// Playlist retrieves a playlist by ID, including the first page of its items.
func (s *SpotifyService) Playlist(ctx context.Context, tok *oauth2.Token, playlistID string) (*SpotifyPlaylist, error) {
	var playlist SpotifyPlaylist
	endpoint := "/playlists/" + url.PathEscape(playlistID)
	if err := s.doRequest(ctx, tok, endpoint, s.marketParams(), &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// Search runs a catalog search restricted to one kind and returns hits in provider order.
func (s *SpotifyService) Search(ctx context.Context, tok *oauth2.Token, query string, kind models.Kind, limit int) ([]models.SearchHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty search query", shared.ErrInvalidInput)
	}
	if kind == models.KindUnrecognized {
		return nil, fmt.Errorf("%w: search type is required", shared.ErrInvalidArgument)
	}
	if limit <= 0 {
		limit = 1
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	params := s.marketParams()
	params.Set("q", query)
	params.Set("type", kind.String())
	params.Set("limit", strconv.Itoa(limit))

	var response searchResponse
	if err := s.doRequest(ctx, tok, "/search", params, &response); err != nil {
		return nil, err
	}

	hits := searchHits(kind, &response)
	s.logger.Debug("search complete", "query", query, "type", kind, "hits", len(hits))
	return hits, nil
}
