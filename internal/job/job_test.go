package job

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/handiism/tidal-ripper/internal/audio"
	"github.com/handiism/tidal-ripper/internal/audio/audiotest"
	"github.com/handiism/tidal-ripper/internal/download"
	"github.com/handiism/tidal-ripper/internal/download/downloadtest"
	"github.com/handiism/tidal-ripper/internal/model"
	"github.com/handiism/tidal-ripper/internal/tidal"
)

// recorder collects progress events.
type recorder struct {
	mu     sync.Mutex
	events []download.ProgressEvent
}

func (r *recorder) report(e download.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) count(level download.ProgressLevel) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Level == level {
			n++
		}
	}
	return n
}

func (r *recorder) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Message
	}
	return out
}

func newTestFactory(t *testing.T, cat *downloadtest.Catalog) (*Factory, *recorder, string) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	rec := &recorder{}
	root := t.TempDir()
	deps := Deps{
		Catalog:    cat,
		Downloader: download.NewDownloader(cat, cat, download.Options{Logger: logger}),
		Reporter:   rec.report,
		Logger:     logger,
	}
	return NewFactory(root, deps), rec, root
}

func albumFixture(cat *downloadtest.Catalog, tracksPerDisc, discs int) *model.Album {
	album := &model.Album{
		ID:              "500",
		Title:           "Album",
		Artist:          "Artist",
		ReleaseDate:     time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
		NumberOfTracks:  tracksPerDisc * discs,
		NumberOfVolumes: discs,
	}
	var tracks []*model.Track
	for d := 1; d <= discs; d++ {
		for n := 1; n <= tracksPerDisc; n++ {
			id := fmt.Sprintf("%d%02d", d, n)
			tracks = append(tracks, &model.Track{
				ID:           id,
				Title:        fmt.Sprintf("Song %s", id),
				TrackNumber:  n,
				VolumeNumber: d,
				Artists:      []model.Artist{{Name: "Artist"}},
			})
		}
	}
	cat.AddAlbum(album, tracks...)
	return album
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", path, err)
	}
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestAlbumJob_MultiDisc(t *testing.T) {
	cat := downloadtest.NewCatalog()
	album := albumFixture(cat, 6, 2)
	f, rec, root := newTestFactory(t, cat)

	j := f.Album(album)
	if err := j.Execute(context.Background()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	dir := filepath.Join(root, "Artist", "(2019) Album")
	for _, disc := range []string{"Disc 1", "Disc 2"} {
		if fi, err := os.Stat(filepath.Join(dir, disc)); err != nil || !fi.IsDir() {
			t.Errorf("%s folder missing: %v", disc, err)
		}
	}

	index := filepath.Join(dir, "00. Album.m3u")
	lines := readLines(t, index)
	if len(lines) != 12 {
		t.Fatalf("index has %d lines, want 12: %v", len(lines), lines)
	}
	if lines[0] != "Disc 1/01. Song 101.flac" || lines[11] != "Disc 2/06. Song 206.flac" {
		t.Errorf("index order = %v", lines)
	}
	for _, l := range lines {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(l))); err != nil {
			t.Errorf("listed file missing: %s", l)
		}
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "*.m3u"))
	if len(matches) != 1 {
		t.Errorf("found %d index files, want 1", len(matches))
	}

	// Album tags come from the album descriptor.
	data, _ := os.ReadFile(filepath.Join(dir, "Disc 2", "03. Song 203.flac"))
	info, err := audiotest.Inspect(data)
	if err != nil {
		t.Fatal(err)
	}
	if info.Get(audio.FieldDiscNumber) != "2" || info.Get(audio.FieldDiscTotal) != "2" || info.Get(audio.FieldTrackTotal) != "12" {
		t.Errorf("position tags = %v", info.Comments)
	}
	if rec.count(download.LevelSuccess) != 1 {
		t.Errorf("success lines = %d, want 1", rec.count(download.LevelSuccess))
	}
}

func TestAlbumJob_SingleDiscHasNoDiscFolders(t *testing.T) {
	cat := downloadtest.NewCatalog()
	album := albumFixture(cat, 12, 1)
	f, _, root := newTestFactory(t, cat)

	if err := f.Album(album).Execute(context.Background()); err != nil {
		t.Fatal(err)
	}

	dir := filepath.Join(root, "Artist", "(2019) Album")
	if _, err := os.Stat(filepath.Join(dir, "Disc 1")); !os.IsNotExist(err) {
		t.Error("single-disc album should not have a Disc 1 folder")
	}
	lines := readLines(t, filepath.Join(dir, "00. Album.m3u"))
	if lines[0] != "01. Song 101.flac" || lines[11] != "12. Song 112.flac" {
		t.Errorf("index = %v", lines)
	}
}

func TestAlbumJob_SkipsRegionRestrictedTrack(t *testing.T) {
	cat := downloadtest.NewCatalog()
	album := albumFixture(cat, 5, 1)
	cat.MediaErrors["103"] = fmt.Errorf("stream: %w", tidal.ErrUnauthorized)
	f, rec, root := newTestFactory(t, cat)

	if err := f.Album(album).Execute(context.Background()); err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}

	dir := filepath.Join(root, "Artist", "(2019) Album")
	want := []string{"01. Song 101.flac", "02. Song 102.flac", "04. Song 104.flac", "05. Song 105.flac"}
	lines := readLines(t, filepath.Join(dir, "00. Album.m3u"))
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Errorf("index = %v, want %v", lines, want)
	}
	if _, err := os.Stat(filepath.Join(dir, "03. Song 103.flac")); !os.IsNotExist(err) {
		t.Error("skipped track should not be on disk")
	}
	if rec.count(download.LevelWarning) < 1 {
		t.Error("skip should be reported as a warning")
	}
}

func TestAlbumJob_AbortsOnGenericError(t *testing.T) {
	cat := downloadtest.NewCatalog()
	album := albumFixture(cat, 4, 1)
	cat.MediaErrors["102"] = errors.New("unexpected")
	f, _, root := newTestFactory(t, cat)

	err := f.Album(album).Execute(context.Background())
	if err == nil {
		t.Fatal("Execute() should fail")
	}
	if download.Classify(err) != download.KindGeneric {
		t.Errorf("Classify() = %v", download.Classify(err))
	}

	lines := readLines(t, filepath.Join(root, "Artist", "(2019) Album", "00. Album.m3u"))
	if len(lines) != 1 || lines[0] != "01. Song 101.flac" {
		t.Errorf("index = %v, want only the first track", lines)
	}
	if got := cat.Downloads; len(got) != 1 {
		t.Errorf("downloads = %v, remaining tracks should not be fetched", got)
	}
}

func TestAlbumJob_TrackFailurePolicy(t *testing.T) {
	albumDir := func(root string) string { return filepath.Join(root, "Artist", "(2019) Album") }

	tests := []struct {
		name      string
		prepare   func(t *testing.T, cat *downloadtest.Catalog, root string)
		wantKind  download.Kind
		wantAbort bool
		wantIndex []string
	}{
		{
			name: "connectivity aborts",
			prepare: func(_ *testing.T, cat *downloadtest.Catalog, _ string) {
				cat.MediaErrors["102"] = &url.Error{Op: "Get", URL: "https://api.tidal.test", Err: errors.New("connection refused")}
			},
			wantKind:  download.KindConnectivity,
			wantAbort: true,
			wantIndex: []string{"01. Song 101.flac"},
		},
		{
			name: "file access aborts",
			prepare: func(t *testing.T, _ *downloadtest.Catalog, root string) {
				// A directory where the second track should be written.
				if err := os.MkdirAll(filepath.Join(albumDir(root), "02. Song 102.flac"), 0755); err != nil {
					t.Fatal(err)
				}
			},
			wantKind:  download.KindFileAccess,
			wantAbort: true,
			wantIndex: []string{"01. Song 101.flac"},
		},
		{
			name: "quality skips",
			prepare: func(_ *testing.T, cat *downloadtest.Catalog, _ string) {
				cat.Payloads["102"] = []byte("\x00\x00\x00\x20ftypM4A ")
			},
			wantIndex: []string{"01. Song 101.flac", "03. Song 103.flac"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := downloadtest.NewCatalog()
			album := albumFixture(cat, 3, 1)
			f, _, root := newTestFactory(t, cat)
			tt.prepare(t, cat, root)

			err := f.Album(album).Execute(context.Background())
			if tt.wantAbort {
				if err == nil {
					t.Fatal("Execute() should fail")
				}
				if got := download.Classify(err); got != tt.wantKind {
					t.Errorf("Classify() = %v, want %v (err: %v)", got, tt.wantKind, err)
				}
				if download.Skippable(err) {
					t.Error("an aborting error must not be skippable")
				}
			} else if err != nil {
				t.Fatalf("Execute() error = %v, want nil", err)
			}

			lines := readLines(t, filepath.Join(albumDir(root), "00. Album.m3u"))
			if strings.Join(lines, "|") != strings.Join(tt.wantIndex, "|") {
				t.Errorf("index = %v, want %v", lines, tt.wantIndex)
			}
			if tt.wantAbort {
				for _, id := range cat.Downloads {
					if id == "103" {
						t.Error("tracks after the failure should not be fetched")
					}
				}
			}
		})
	}
}

func TestPlaylistJob(t *testing.T) {
	cat := downloadtest.NewCatalog()
	a1 := &model.Album{ID: "1", Title: "First", Artist: "A", NumberOfTracks: 1}
	a2 := &model.Album{ID: "2", Title: "Second", Artist: "B", NumberOfTracks: 1}
	t1 := &model.Track{ID: "11", Title: "One", Artists: []model.Artist{{Name: "A"}}}
	t2 := &model.Track{ID: "22", Title: "Two?", Artists: []model.Artist{{Name: "B"}, {Name: "C"}}}
	t3 := &model.Track{ID: "33", Title: "Gone", Artists: []model.Artist{{Name: "B"}}}
	cat.AddAlbum(a1, t1)
	cat.AddAlbum(a2, t2, t3)
	cat.MediaErrors["33"] = tidal.ErrUnauthorized

	p := &model.Playlist{ID: "pl", Name: "Mix: 2020", NumberOfTracks: 3}
	cat.Playlists["pl"] = p
	cat.PlaylistTracks["pl"] = []*model.Track{t2, t1, t3}

	f, _, root := newTestFactory(t, cat)
	j := f.Playlist(p)
	if err := j.Execute(context.Background()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	dir := filepath.Join(root, "Mix_ 2020")
	lines := readLines(t, filepath.Join(dir, "Mix_ 2020.m3u"))
	want := []string{"B - Two_ (feat. C).flac", "A - One.flac"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Errorf("index = %v, want %v", lines, want)
	}

	// Album tags come from each track's own album.
	data, _ := os.ReadFile(filepath.Join(dir, "A - One.flac"))
	info, _ := audiotest.Inspect(data)
	if info.Get(audio.FieldAlbum) != "First" || info.Get(audio.FieldAlbumArtist) != "A" {
		t.Errorf("album tags = %v", info.Comments)
	}
}

func TestTrackJob_Describe(t *testing.T) {
	cat := downloadtest.NewCatalog()
	f, _, _ := newTestFactory(t, cat)

	j := f.Track(&model.Track{Title: "Y", Version: "Live", Artists: []model.Artist{{Name: "X"}}})
	if got := j.Describe(); got != "Track: X - Y (Live)" {
		t.Errorf("Describe() = %q", got)
	}
	if j.ID() == "" {
		t.Error("ID() should not be empty")
	}

	a := f.Album(&model.Album{Title: "Z", Artist: "X", NumberOfTracks: 3})
	if got := a.Describe(); got != "Album: X - Z (3 tracks)" {
		t.Errorf("Describe() = %q", got)
	}

	p := f.Playlist(&model.Playlist{Name: "Mix", Creator: "me"})
	if got := p.Describe(); got != "Playlist: Mix by me" {
		t.Errorf("Describe() = %q", got)
	}
}

func TestTrackJob_SinglesLayout(t *testing.T) {
	cat := downloadtest.NewCatalog()
	logger, _ := test.NewNullLogger()
	track := &model.Track{ID: "1", Title: "Y", Artists: []model.Artist{{Name: "X"}}}

	byArtist := NewFactory("/out", Deps{Logger: logger, Singles: model.SinglesLayout{ByArtist: true}})
	if got, want := byArtist.Track(track).Path(), filepath.Join("/out", "X", "X - Y.flac"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}

	bucket := NewFactory("/out", Deps{Catalog: cat, Logger: logrus.New()})
	if got, want := bucket.Track(track).Path(), filepath.Join("/out", "1. No album", "X - Y.flac"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}
