package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/viper"

	"github.com/handiism/tidal-ripper/internal/audio"
	"github.com/handiism/tidal-ripper/internal/model"
	"github.com/handiism/tidal-ripper/internal/tidal"
)

// EnvPrefix prefixes environment overrides: TIDAL_RIPPER_DOWNLOADS_PATH etc.
const EnvPrefix = "TIDAL_RIPPER"

// Singles placements.
const (
	SinglesBucket = "bucket"
	SinglesArtist = "artist"
)

// Settings holds all configuration options.
type Settings struct {
	// Download settings
	DownloadsPath    string `json:"downloads_path" mapstructure:"downloads_path"`
	SinglesPlacement string `json:"singles_placement" mapstructure:"singles_placement"` // bucket, artist
	SinglesFolder    string `json:"singles_folder" mapstructure:"singles_folder"`

	// Catalog settings
	APIBaseURL            string `json:"api_base_url" mapstructure:"api_base_url"`
	APIToken              string `json:"api_token" mapstructure:"api_token"`
	AudioQuality          string `json:"audio_quality" mapstructure:"audio_quality"`
	CountryCode           string `json:"country_code" mapstructure:"country_code"`
	SearchLimit           int    `json:"search_limit" mapstructure:"search_limit"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds" mapstructure:"request_timeout_seconds"`

	// Cover art settings
	SaveCoverArtInTags bool `json:"save_cover_art_in_tags" mapstructure:"save_cover_art_in_tags"`
	CoverSize          int  `json:"cover_size" mapstructure:"cover_size"`

	// Playlist settings
	M3UExtended bool `json:"m3u_extended" mapstructure:"m3u_extended"`

	// Tag settings
	ModifyTags bool `json:"modify_tags" mapstructure:"modify_tags"`

	// Logging
	LogLevel string `json:"log_level" mapstructure:"log_level"`
	LogFile  string `json:"log_file" mapstructure:"log_file"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}

	return &Settings{
		DownloadsPath:      filepath.Join(homeDir, "Music", "Tidal"),
		SinglesPlacement:   SinglesBucket,
		SinglesFolder:      model.DefaultSinglesFolder,
		APIBaseURL:         tidal.DefaultBaseURL,
		APIToken:           tidal.DefaultToken,
		AudioQuality:       tidal.QualityLossless,
		SearchLimit:        25,
		SaveCoverArtInTags: true,
		CoverSize:          640,
		ModifyTags:         true,
		LogLevel:           "info",
		LogFile:            filepath.Join(cacheDir, "tidal-ripper", "tidal-ripper.log"),
	}
}

// DefaultPath returns the settings file location under the user config dir.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "tidal-ripper", "settings.json")
}

// Load reads settings from a JSON file, then applies TIDAL_RIPPER_*
// environment overrides. A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := setDefaults(v, DefaultSettings()); err != nil {
		return nil, err
	}

	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read settings %s: %w", path, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return nil, err
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// setDefaults registers every field of d so file keys and environment
// variables are both recognized.
func setDefaults(v *viper.Viper, d *Settings) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	for k, val := range values {
		v.SetDefault(k, val)
	}
	return nil
}

// Validate checks values that have a fixed set of choices or a range.
func (s *Settings) Validate() error {
	switch s.SinglesPlacement {
	case SinglesBucket, SinglesArtist:
	default:
		return fmt.Errorf("singles_placement must be %q or %q, got %q", SinglesBucket, SinglesArtist, s.SinglesPlacement)
	}
	if s.CoverSize <= 0 {
		return fmt.Errorf("cover_size must be positive, got %d", s.CoverSize)
	}
	if s.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("request_timeout_seconds must not be negative, got %d", s.RequestTimeoutSeconds)
	}
	if s.DownloadsPath == "" {
		return errors.New("downloads_path must not be empty")
	}
	return nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// RequestTimeout returns the HTTP client timeout; zero means none.
func (s *Settings) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSeconds) * time.Second
}

// ToTidalConfig converts settings to the catalog client config.
func (s *Settings) ToTidalConfig() tidal.Config {
	return tidal.Config{
		BaseURL:     s.APIBaseURL,
		Token:       s.APIToken,
		Quality:     s.AudioQuality,
		CountryCode: s.CountryCode,
		CoverSize:   s.CoverSize,
	}
}

// ToTagConfig converts settings to the tagger config.
func (s *Settings) ToTagConfig() *audio.TagConfig {
	cfg := audio.DefaultTagConfig()
	cfg.ModifyTags = s.ModifyTags
	cfg.EmbedCover = s.SaveCoverArtInTags
	cfg.CoverSize = s.CoverSize
	return cfg
}

// ToSinglesLayout converts settings to the singles placement rule.
func (s *Settings) ToSinglesLayout() model.SinglesLayout {
	return model.SinglesLayout{
		ByArtist: s.SinglesPlacement == SinglesArtist,
		Folder:   s.SinglesFolder,
	}
}
