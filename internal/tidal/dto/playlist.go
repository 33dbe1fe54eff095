package dto

import "github.com/handiism/tidal-ripper/internal/model"

// JSONPlaylist is a playlist as returned by /playlists/{uuid}.
type JSONPlaylist struct {
	UUID           string       `json:"uuid"`
	Title          string       `json:"title"`
	NumberOfTracks int          `json:"numberOfTracks"`
	Creator        *JSONCreator `json:"creator"`
}

// JSONCreator is the owner of a playlist. Editorial playlists have id 0
// and no name.
type JSONCreator struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ToPlaylist converts JSONPlaylist to a model.Playlist.
func (jp *JSONPlaylist) ToPlaylist() *model.Playlist {
	p := &model.Playlist{
		ID:             jp.UUID,
		Name:           jp.Title,
		NumberOfTracks: jp.NumberOfTracks,
	}
	if jp.Creator != nil {
		p.Creator = jp.Creator.Name
	}
	return p
}

// JSONPage is one page of a paged listing.
type JSONPage[T any] struct {
	Limit              int `json:"limit"`
	Offset             int `json:"offset"`
	TotalNumberOfItems int `json:"totalNumberOfItems"`
	Items              []T `json:"items"`
}
