package model

import (
	"fmt"
	"path/filepath"

	ioutils "github.com/handiism/tidal-ripper/internal/io"
)

// File extensions of the files the ripper writes.
const (
	TrackExt    = ".flac"
	PlaylistExt = ".m3u"
)

// UnknownArtist names folders for items without an artist.
const UnknownArtist = "Unknown Artist"

// DefaultSinglesFolder is the folder for tracks downloaded on their own.
const DefaultSinglesFolder = "1. No album"

// AlbumDir returns <root>/<artist>/<(year) title> with each segment sanitized.
func AlbumDir(root string, a *Album) string {
	artist := a.Artist
	if artist == "" {
		artist = UnknownArtist
	}
	return filepath.Join(root, ioutils.SanitizeFileName(artist), ioutils.SanitizeFileName(a.FolderName()))
}

// DiscFolder returns the sub-folder name of a volume: "Disc 2".
func DiscFolder(disc int) string {
	return fmt.Sprintf("Disc %d", disc)
}

// AlbumTrackFile returns "NN. <display title>.flac" for a track inside an
// album folder.
func AlbumTrackFile(t *Track) string {
	return fmt.Sprintf("%02d. %s%s", t.TrackNumber, ioutils.SanitizeFileName(t.DisplayTitle()), TrackExt)
}

// AlbumIndexFile returns "00. <title>.m3u", which sorts before the tracks.
func AlbumIndexFile(a *Album) string {
	return "00. " + ioutils.SanitizeFileName(a.Title) + PlaylistExt
}

// PlaylistDir returns <root>/<playlist name>.
func PlaylistDir(root string, p *Playlist) string {
	return filepath.Join(root, ioutils.SanitizeFileName(p.Name))
}

// PlaylistIndexFile returns "<playlist name>.m3u".
func PlaylistIndexFile(p *Playlist) string {
	return ioutils.SanitizeFileName(p.Name) + PlaylistExt
}

// ArtistTrackFile returns "<artist> - <display title>.flac", used where
// tracks from different albums share a folder.
func ArtistTrackFile(t *Track) string {
	artist := t.ArtistName()
	if artist == "" {
		artist = UnknownArtist
	}
	return ioutils.SanitizeFileName(artist+" - "+t.DisplayTitle()) + TrackExt
}

// SinglesLayout decides where tracks downloaded on their own are placed.
type SinglesLayout struct {
	// ByArtist puts singles under <root>/<artist> instead of a shared folder.
	ByArtist bool

	// Folder is the shared folder name. Defaults to DefaultSinglesFolder.
	Folder string
}

// Dir returns the folder a single track is written to.
func (l SinglesLayout) Dir(root string, t *Track) string {
	if l.ByArtist {
		artist := t.ArtistName()
		if artist == "" {
			artist = UnknownArtist
		}
		return filepath.Join(root, ioutils.SanitizeFileName(artist))
	}
	folder := l.Folder
	if folder == "" {
		folder = DefaultSinglesFolder
	}
	return filepath.Join(root, ioutils.SanitizeFileName(folder))
}
