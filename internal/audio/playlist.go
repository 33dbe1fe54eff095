package audio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/handiism/tidal-ripper/internal/model"
)

// PlaylistWriter writes an .m3u index next to the files it lists.
//
// Entries are appended as each track lands on disk, so the index always
// lists exactly the files that were written, in the order they were
// written. Paths are relative to the index and use forward slashes.
//
// Example:
//
//	pl, err := CreatePlaylist("/music/Artist/(2019) Album/00. Album.m3u", false)
//	if err != nil {
//	    return err
//	}
//	defer pl.Close()
//
//	pl.Append("01. Song.flac", track)
//	pl.Append("Disc 2/01. Other.flac", other)
//
//	// Result:
//	// 01. Song.flac
//	// Disc 2/01. Other.flac
type PlaylistWriter struct {
	file     *os.File
	extended bool // include #EXTM3U header and #EXTINF lines
	entries  int
}

// CreatePlaylist creates (or truncates) the index file at path.
func CreatePlaylist(path string, extended bool) (*PlaylistWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	p := &PlaylistWriter{file: file, extended: extended}
	if extended {
		if _, err := file.WriteString("#EXTM3U\n"); err != nil {
			file.Close()
			return nil, err
		}
	}
	return p, nil
}

// Append adds one entry. track is only used for the #EXTINF line of
// extended playlists and may be nil.
func (p *PlaylistWriter) Append(entry string, track *model.Track) error {
	if p.extended && track != nil {
		if _, err := fmt.Fprintf(p.file, "#EXTINF:%d,%s - %s\n",
			track.Duration, track.ArtistName(), track.FullTitle()); err != nil {
			return err
		}
	}
	if _, err := p.file.WriteString(filepath.ToSlash(entry) + "\n"); err != nil {
		return err
	}
	p.entries++
	return nil
}

// Len returns the number of entries written.
func (p *PlaylistWriter) Len() int {
	return p.entries
}

// Close flushes and closes the index file.
func (p *PlaylistWriter) Close() error {
	return p.file.Close()
}
