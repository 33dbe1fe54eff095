// Package downloadtest provides an in-memory catalog for tests.
package downloadtest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/handiism/tidal-ripper/internal/audio/audiotest"
	"github.com/handiism/tidal-ripper/internal/model"
	"github.com/handiism/tidal-ripper/internal/tidal"
)

const mediaScheme = "media://"

// Catalog is a fake catalog service and media fetcher. Unset payloads
// default to a minimal FLAC stream.
type Catalog struct {
	mu sync.Mutex

	Tracks         map[string]*model.Track
	Albums         map[string]*model.Album
	AlbumTracks    map[string][]*model.Track
	Playlists      map[string]*model.Playlist
	PlaylistTracks map[string][]*model.Track

	// Covers holds cover bytes by cover ID.
	Covers map[string][]byte

	// CoverErrors fails GetCover for the given cover IDs.
	CoverErrors map[string]error

	// Payloads holds media bytes by track ID.
	Payloads map[string][]byte

	// MediaErrors fails GetMediaURL for the given track IDs.
	MediaErrors map[string]error

	// Downloads lists the track IDs whose payload was fetched, in order.
	Downloads []string
}

// NewCatalog returns an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		Tracks:         map[string]*model.Track{},
		Albums:         map[string]*model.Album{},
		AlbumTracks:    map[string][]*model.Track{},
		Playlists:      map[string]*model.Playlist{},
		PlaylistTracks: map[string][]*model.Track{},
		Covers:         map[string][]byte{},
		CoverErrors:    map[string]error{},
		Payloads:       map[string][]byte{},
		MediaErrors:    map[string]error{},
	}
}

// AddAlbum registers album and its tracks. Each track gets a partial
// reference to the album, as catalog listings do.
func (c *Catalog) AddAlbum(album *model.Album, tracks ...*model.Track) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Albums[album.ID] = album
	for _, t := range tracks {
		t.Album = &model.Album{ID: album.ID, Title: album.Title, CoverID: album.CoverID}
		c.Tracks[t.ID] = t
	}
	c.AlbumTracks[album.ID] = tracks
}

func (c *Catalog) GetTrack(_ context.Context, id string) (*model.Track, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.Tracks[id]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("track %s: %w", id, tidal.ErrNotFound)
}

func (c *Catalog) GetAlbum(_ context.Context, id string) (*model.Album, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if a, ok := c.Albums[id]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("album %s: %w", id, tidal.ErrNotFound)
}

func (c *Catalog) GetAlbumTracks(_ context.Context, id string) ([]*model.Track, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ts, ok := c.AlbumTracks[id]; ok {
		return ts, nil
	}
	return nil, fmt.Errorf("album %s: %w", id, tidal.ErrNotFound)
}

func (c *Catalog) GetPlaylist(_ context.Context, id string) (*model.Playlist, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.Playlists[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("playlist %s: %w", id, tidal.ErrNotFound)
}

func (c *Catalog) GetPlaylistTracks(_ context.Context, id string) ([]*model.Track, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ts, ok := c.PlaylistTracks[id]; ok {
		return ts, nil
	}
	return nil, fmt.Errorf("playlist %s: %w", id, tidal.ErrNotFound)
}

func (c *Catalog) GetMediaURL(_ context.Context, trackID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.MediaErrors[trackID]; err != nil {
		return "", err
	}
	return mediaScheme + trackID, nil
}

func (c *Catalog) GetCover(_ context.Context, album *model.Album) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.CoverErrors[album.CoverID]; err != nil {
		return nil, err
	}
	return c.Covers[album.CoverID], nil
}

// Search matches titles containing query, case-insensitively.
func (c *Catalog) Search(_ context.Context, _, query string, _ int) ([]*model.Track, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*model.Track
	for _, t := range c.Tracks {
		if strings.Contains(strings.ToLower(t.Title), strings.ToLower(query)) {
			out = append(out, t)
		}
	}
	return out, nil
}

// DownloadBytes serves the payload of a media URL returned by GetMediaURL.
func (c *Catalog) DownloadBytes(_ context.Context, url string, _ func(written, total int64)) ([]byte, error) {
	id, ok := strings.CutPrefix(url, mediaScheme)
	if !ok {
		return nil, fmt.Errorf("unknown media url %q", url)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.Downloads = append(c.Downloads, id)
	if p, ok := c.Payloads[id]; ok {
		return p, nil
	}
	return audiotest.FLAC(), nil
}
