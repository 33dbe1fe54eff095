package dto

import (
	"strconv"

	"github.com/handiism/tidal-ripper/internal/model"
)

// JSONTrack is a track as returned by /tracks/{id}, search results and
// album or playlist listings.
type JSONTrack struct {
	ID           int64        `json:"id"`
	Title        string       `json:"title"`
	Version      *string      `json:"version"`
	Duration     int          `json:"duration"`
	TrackNumber  int          `json:"trackNumber"`
	VolumeNumber int          `json:"volumeNumber"`
	ISRC         *string      `json:"isrc"`
	Copyright    *string      `json:"copyright"`
	StreamReady  bool         `json:"streamReady"`
	Artist       *JSONArtist  `json:"artist"`
	Artists      []JSONArtist `json:"artists"`
	Album        *JSONAlbum   `json:"album"`
}

// ToTrack converts JSONTrack to a model.Track.
func (jt *JSONTrack) ToTrack() *model.Track {
	track := &model.Track{
		ID:           strconv.FormatInt(jt.ID, 10),
		Title:        jt.Title,
		Version:      deref(jt.Version),
		Artists:      credits(jt.Artist, jt.Artists),
		TrackNumber:  jt.TrackNumber,
		VolumeNumber: jt.VolumeNumber,
		ISRC:         deref(jt.ISRC),
		Copyright:    deref(jt.Copyright),
		Duration:     jt.Duration,
	}

	if jt.Album != nil {
		track.Album = jt.Album.ToAlbum()
	}

	return track
}
