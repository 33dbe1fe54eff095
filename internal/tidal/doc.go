// Package tidal is a client for the catalog service's legacy v1 API.
//
// The Client covers what the ripper needs:
//   - Username/password login and session handling
//   - Track search
//   - Track, album and playlist lookups, with paged track listings
//   - Media URL resolution at LOSSLESS quality
//   - Cover image download
//
// Responses are decoded into the types of the dto sub-package and
// converted to model descriptors. Non-2xx answers are mapped onto
// ErrUnauthorized and ErrNotFound so callers can classify them.
//
// # Links
//
// ParseLink and ResourceID accept share links or bare IDs:
//
//	kind, id := tidal.ParseLink("https://tidal.com/browse/album/79915001")
//	// kind == tidal.KindAlbum, id == "79915001"
package tidal
