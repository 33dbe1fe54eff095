package download

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/handiism/tidal-ripper/internal/audio"
	"github.com/handiism/tidal-ripper/internal/audio/audiotest"
	"github.com/handiism/tidal-ripper/internal/download/downloadtest"
	"github.com/handiism/tidal-ripper/internal/model"
	"github.com/handiism/tidal-ripper/internal/tidal"
)

func newFixture() (*downloadtest.Catalog, *model.Album, *model.Track) {
	cat := downloadtest.NewCatalog()
	album := &model.Album{
		ID:              "100",
		Title:           "Album",
		Artist:          "X",
		ReleaseDate:     time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		NumberOfTracks:  1,
		NumberOfVolumes: 1,
		CoverID:         "cover-1",
	}
	track := &model.Track{ID: "1", Title: "Y", TrackNumber: 1, VolumeNumber: 1, Artists: []model.Artist{{Name: "X"}}}
	cat.AddAlbum(album, track)
	cat.Covers["cover-1"] = []byte("not-really-a-jpeg")
	return cat, album, track
}

func TestDownloader_FetchAndTag(t *testing.T) {
	cat, _, track := newFixture()
	d := NewDownloader(cat, cat, Options{})
	dest := filepath.Join(t.TempDir(), "X", "X - Y.flac")

	if err := d.FetchAndTag(context.Background(), track, dest, nil); err != nil {
		t.Fatalf("FetchAndTag() error = %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	info, err := audiotest.Inspect(data)
	if err != nil {
		t.Fatalf("written file is not FLAC: %v", err)
	}

	// The partial album reference on the track is looked up in full.
	checks := map[string]string{
		audio.FieldArtist:      "X",
		audio.FieldTitle:       "Y",
		audio.FieldAlbumArtist: "X",
		audio.FieldAlbum:       "Album",
		audio.FieldDate:        "2020",
		audio.FieldTrackTotal:  "1",
	}
	for k, v := range checks {
		if got := info.Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}

	// Undecodable covers are embedded as served.
	if len(info.Pictures) != 1 || string(info.Pictures[0].Data) != "not-really-a-jpeg" {
		t.Errorf("pictures = %+v", info.Pictures)
	}
}

func TestDownloader_AlbumOverride(t *testing.T) {
	cat, _, track := newFixture()
	d := NewDownloader(cat, cat, Options{})
	dest := filepath.Join(t.TempDir(), "t.flac")

	override := &model.Album{ID: "100", Title: "Override", Artist: "Z", NumberOfTracks: 9}
	if err := d.FetchAndTag(context.Background(), track, dest, override); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(dest)
	info, _ := audiotest.Inspect(data)
	if info.Get(audio.FieldAlbum) != "Override" || info.Get(audio.FieldTrackTotal) != "9" {
		t.Errorf("album tags = %v", info.Comments)
	}
	if len(info.Pictures) != 0 {
		t.Error("override without cover should embed nothing")
	}
}

func TestDownloader_Failures(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(*downloadtest.Catalog)
		want    Kind
	}{
		{
			name: "region",
			prepare: func(c *downloadtest.Catalog) {
				c.MediaErrors["1"] = tidal.ErrUnauthorized
			},
			want: KindRegionRestricted,
		},
		{
			name: "quality",
			prepare: func(c *downloadtest.Catalog) {
				c.Payloads["1"] = []byte("\x00\x00\x00\x20ftypM4A ")
			},
			want: KindUnavailableQuality,
		},
		{
			name: "generic",
			prepare: func(c *downloadtest.Catalog) {
				c.MediaErrors["1"] = errors.New("boom")
			},
			want: KindGeneric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, _, track := newFixture()
			tt.prepare(cat)
			dest := filepath.Join(t.TempDir(), "t.flac")

			err := NewDownloader(cat, cat, Options{}).FetchAndTag(context.Background(), track, dest, nil)
			if err == nil {
				t.Fatal("FetchAndTag() should fail")
			}
			if got := Classify(err); got != tt.want {
				t.Errorf("Classify() = %v, want %v (err: %v)", got, tt.want, err)
			}
			if _, err := os.Stat(dest); !os.IsNotExist(err) {
				t.Error("nothing should be written on failure")
			}
		})
	}
}

func TestDownloader_FileAccess(t *testing.T) {
	cat, _, track := newFixture()
	root := t.TempDir()

	// A regular file where a directory is needed.
	blocker := filepath.Join(root, "blocked")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	err := NewDownloader(cat, cat, Options{}).FetchAndTag(context.Background(), track, filepath.Join(blocker, "t.flac"), nil)
	if got := Classify(err); got != KindFileAccess {
		t.Errorf("Classify() = %v, want file_access (err: %v)", got, err)
	}
}

func TestDownloader_CoverErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantFail bool
	}{
		{"missing cover is skipped", fmt.Errorf("cover: %w", tidal.ErrNotFound), false},
		{"other cover error fails the track", errors.New("boom"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, _, track := newFixture()
			cat.CoverErrors["cover-1"] = tt.err
			dest := filepath.Join(t.TempDir(), "t.flac")

			err := NewDownloader(cat, cat, Options{}).FetchAndTag(context.Background(), track, dest, nil)
			if tt.wantFail {
				if err == nil {
					t.Fatal("FetchAndTag() should fail")
				}
				return
			}
			if err != nil {
				t.Fatalf("FetchAndTag() error = %v", err)
			}

			data, _ := os.ReadFile(dest)
			info, err := audiotest.Inspect(data)
			if err != nil {
				t.Fatal(err)
			}
			if len(info.Pictures) != 0 {
				t.Errorf("pictures = %d, want none", len(info.Pictures))
			}
			if info.Get(audio.FieldAlbum) != "Album" {
				t.Error("tags should still be written")
			}
		})
	}
}
