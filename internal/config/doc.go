// Package config provides configuration management for the tidal-ripper.
//
// This package handles:
//   - Loading settings from a JSON file with environment overrides
//   - Default configuration values
//   - Conversion to the configs of the tidal, audio and model packages
//
// # Loading
//
//	settings, err := config.Load(config.DefaultPath())
//	// A missing file yields DefaultSettings()
//
// Every key can be overridden from the environment with the TIDAL_RIPPER_
// prefix, for example TIDAL_RIPPER_DOWNLOADS_PATH=/srv/music.
//
// # Saving Settings
//
//	settings.SinglesPlacement = config.SinglesArtist
//	err := settings.Save(config.DefaultPath())
package config
