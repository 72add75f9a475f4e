// Package services defines the [Catalog] interface for music catalog providers and implements it for Spotify.
//
// # Catalog Interface
//
// A catalog answers two questions: which resources match a search, and what a given resource looks like.
// Both take the bearer token as an argument; the service never stores one.
//
// # Spotify Implementation
//
// [SpotifyService] calls the Web API with a client-credentials token from the auth package.
// Only the first page of album and playlist tracks is fetched. [models.Details.Total] carries the provider count.
//
// Requests can be paced client-side with [SpotifyOptions.RequestsPerSecond] using a token bucket.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNotAuthenticated] : no token passed
//   - [shared.ErrTokenExpired] : token past its expiry, acquire a new one
//   - [shared.APIError] : non-2xx response, message taken from the provider's error body
//   - [shared.NetworkError] : the request never produced a response
//
// # Audio Features
//
// Track details request audio features unless disabled. When that call fails with an API or network error
// the lookup still succeeds: [models.Details.Features] stays nil and [models.Details.FeaturesErr] holds the cause.
package services
