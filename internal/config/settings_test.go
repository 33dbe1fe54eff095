package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	d := DefaultSettings()
	if s.DownloadsPath != d.DownloadsPath || s.CoverSize != 640 || s.SinglesPlacement != SinglesBucket {
		t.Errorf("Load() = %+v, want defaults", s)
	}
	if !s.ModifyTags || !s.SaveCoverArtInTags {
		t.Error("tagging should be enabled by default")
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	content := `{"downloads_path": "/srv/music", "singles_placement": "artist", "search_limit": 10}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TIDAL_RIPPER_SEARCH_LIMIT", "50")
	t.Setenv("TIDAL_RIPPER_COUNTRY_CODE", "DE")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.DownloadsPath != "/srv/music" {
		t.Errorf("DownloadsPath = %q", s.DownloadsPath)
	}
	if s.SearchLimit != 50 {
		t.Errorf("SearchLimit = %d, env should win", s.SearchLimit)
	}
	if s.CountryCode != "DE" {
		t.Errorf("CountryCode = %q", s.CountryCode)
	}
	if s.CoverSize != 640 {
		t.Errorf("CoverSize = %d, unset keys keep defaults", s.CoverSize)
	}
	if l := s.ToSinglesLayout(); !l.ByArtist {
		t.Error("ToSinglesLayout() should place by artist")
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	os.WriteFile(path, []byte(`{"singles_placement": "elsewhere"}`), 0644)

	if _, err := Load(path); err == nil {
		t.Error("Load() should reject an unknown singles_placement")
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	s := DefaultSettings()
	s.DownloadsPath = "/tmp/music"
	s.M3UExtended = true
	s.RequestTimeoutSeconds = 30

	if err := s.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.DownloadsPath != "/tmp/music" || !loaded.M3UExtended {
		t.Errorf("Load() = %+v", loaded)
	}
	if loaded.RequestTimeout() != 30*time.Second {
		t.Errorf("RequestTimeout() = %v", loaded.RequestTimeout())
	}
}

func TestConversions(t *testing.T) {
	s := DefaultSettings()
	s.CoverSize = 320
	s.SaveCoverArtInTags = false

	tc := s.ToTagConfig()
	if tc.CoverSize != 320 || tc.EmbedCover {
		t.Errorf("ToTagConfig() = %+v", tc)
	}
	if c := s.ToTidalConfig(); c.CoverSize != 320 || c.Quality != "LOSSLESS" {
		t.Errorf("ToTidalConfig() = %+v", c)
	}
	if l := s.ToSinglesLayout(); l.ByArtist || l.Folder != "1. No album" {
		t.Errorf("ToSinglesLayout() = %+v", l)
	}
}
