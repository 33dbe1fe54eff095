package dto

import (
	"strconv"

	"github.com/handiism/tidal-ripper/internal/model"
)

// JSONAlbum is an album as returned by /albums/{id} and embedded in track
// listings. Embedded albums only carry id, title and cover.
type JSONAlbum struct {
	ID              int64        `json:"id"`
	Title           string       `json:"title"`
	Version         *string      `json:"version"`
	Cover           *string      `json:"cover"`
	ReleaseDate     *TidalDate   `json:"releaseDate"`
	NumberOfTracks  int          `json:"numberOfTracks"`
	NumberOfVolumes int          `json:"numberOfVolumes"`
	UPC             *string      `json:"upc"`
	Copyright       *string      `json:"copyright"`
	Artist          *JSONArtist  `json:"artist"`
	Artists         []JSONArtist `json:"artists"`
}

// ToAlbum converts JSONAlbum to a model.Album.
func (ja *JSONAlbum) ToAlbum() *model.Album {
	album := &model.Album{
		ID:              strconv.FormatInt(ja.ID, 10),
		Title:           ja.Title,
		Version:         deref(ja.Version),
		CoverID:         deref(ja.Cover),
		NumberOfTracks:  ja.NumberOfTracks,
		NumberOfVolumes: ja.NumberOfVolumes,
		UPC:             deref(ja.UPC),
		Copyright:       deref(ja.Copyright),
	}

	if ja.ReleaseDate != nil {
		album.ReleaseDate = ja.ReleaseDate.Time
	}

	if artists := credits(ja.Artist, ja.Artists); len(artists) > 0 {
		album.Artist = artists[0].Name
	}

	return album
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
