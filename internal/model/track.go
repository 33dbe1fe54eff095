package model

import (
	"strings"

	"github.com/samber/lo"
)

// Artist is a credited artist on a track or album.
type Artist struct {
	ID   string
	Name string
}

// Track represents a single track as described by the catalog service.
//
// Track contains metadata for one song including:
//   - Title and version label for tagging and file naming
//   - Credited artists, main artist first
//   - Track and volume (disc) numbers within its album
//   - A reference to its album
//
// Only ID and Title are guaranteed to be set; every other field may be
// empty and consumers must guard for that.
//
// Example:
//
//	track := &Track{
//	    Title:   "Song",
//	    Version: "Remix",
//	    Artists: []Artist{{Name: "A"}, {Name: "B"}},
//	}
//	track.FullTitle()    // "Song (Remix)"
//	track.DisplayTitle() // "Song (feat. B) [Remix]"
type Track struct {
	// ID is the catalog identifier of the track.
	ID string

	// Title is the track name without its version label.
	Title string

	// Version is an optional label such as "Remastered" or "Live".
	Version string

	// Artists lists the credited artists, main artist first.
	Artists []Artist

	// TrackNumber is the position of the track on its volume (1-indexed).
	TrackNumber int

	// VolumeNumber is the disc the track belongs to (1-indexed).
	VolumeNumber int

	// ISRC is the International Standard Recording Code, if known.
	ISRC string

	// Copyright is the track level copyright line, if any.
	Copyright string

	// Duration is the track length in seconds.
	Duration int

	// Album references the parent album. Track listings only carry a
	// partial album (ID, title, cover); see Album.IsPartial.
	Album *Album
}

// ArtistName returns the main artist name, or an empty string.
func (t *Track) ArtistName() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0].Name
}

// FullTitle returns the title followed by the version label in
// parentheses, as written to the TITLE tag.
func (t *Track) FullTitle() string {
	return withVersion(t.Title, t.Version)
}

// DisplayTitle returns the title used for file names.
//
// Featured artists are appended as "(feat. B & C)" unless the title already
// names them. The version label goes in square brackets when featured
// artists are present and in parentheses otherwise.
func (t *Track) DisplayTitle() string {
	title := strings.TrimSpace(t.Title)
	featured := len(t.Artists) > 1

	if featured && !strings.Contains(title, "(feat.") {
		names := lo.Map(t.Artists[1:], func(a Artist, _ int) string { return a.Name })
		title += " (feat. " + strings.Join(names, " & ") + ")"
	}

	if t.Version == "" {
		return title
	}
	if featured {
		return title + " [" + t.Version + "]"
	}
	return title + " (" + t.Version + ")"
}

// Disc returns the volume number, treating a missing one as disc 1.
func (t *Track) Disc() int {
	return max(t.VolumeNumber, 1)
}

func withVersion(name, version string) string {
	if version == "" {
		return name
	}
	return name + " (" + version + ")"
}
