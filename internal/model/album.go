package model

import (
	"strconv"
	"time"
)

// Album represents a catalog album.
//
// Album carries everything the tagger and the layout helpers need:
//   - Title, version and album artist for tags and folder names
//   - Release date for the DATE tag and the "(year) name" folder
//   - Track and volume totals
//   - UPC, copyright and cover identifier
//
// Albums embedded in track listings are partial; call IsPartial before
// relying on anything but ID, Title and CoverID.
type Album struct {
	// ID is the catalog identifier of the album.
	ID string

	// Title is the album name without its version label.
	Title string

	// Version is an optional label such as "Deluxe Edition".
	Version string

	// Artist is the album artist name.
	Artist string

	// ReleaseDate is when the album was released. Zero if unknown.
	ReleaseDate time.Time

	// NumberOfTracks is the total number of tracks across all volumes.
	NumberOfTracks int

	// NumberOfVolumes is the number of discs.
	NumberOfVolumes int

	// UPC is the Universal Product Code, if known.
	UPC string

	// Copyright is the album level copyright line, if any.
	Copyright string

	// CoverID identifies the cover image at the image service.
	// Empty string means no artwork is available.
	CoverID string
}

// HasArtwork returns true if the album has cover art available.
func (a *Album) HasArtwork() bool {
	return a.CoverID != ""
}

// IsPartial reports whether the album is a reference embedded in a track
// listing rather than a full album lookup.
func (a *Album) IsPartial() bool {
	return a.Artist == "" && a.NumberOfTracks == 0
}

// Year returns the release year, or 0 if the release date is unknown.
func (a *Album) Year() int {
	if a.ReleaseDate.IsZero() {
		return 0
	}
	return a.ReleaseDate.Year()
}

// FullTitle returns the title followed by the version label in
// parentheses, as written to the ALBUM tag.
func (a *Album) FullTitle() string {
	return withVersion(a.Title, a.Version)
}

// FolderName returns "(year) title", or just the title when the release
// year is unknown. The result is not sanitized.
func (a *Album) FolderName() string {
	year := a.Year()
	if year == 0 {
		return a.Title
	}
	return "(" + strconv.Itoa(year) + ") " + a.Title
}
