// Package models defines the value types that flow between the resolver, the catalog client and the formatter.
//
//   - [Kind] : tagged resource type ({Unrecognized, Track, Album, Playlist})
//   - [Reference] : a kind plus provider identifier, produced by link matching or by the first search hit
//   - [SearchHit] : a search result with enough metadata to list it
//   - [Details] : the flat, ordered field view of a looked-up resource, with optional [AudioFeatures]
//     and a first-page [TrackSummary] listing for albums and playlists
//
// Nothing in this package performs I/O.
package models
