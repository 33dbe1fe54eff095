package dto

import (
	"strconv"

	"github.com/samber/lo"

	"github.com/handiism/tidal-ripper/internal/model"
)

// JSONArtist is an artist credit.
type JSONArtist struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// ToArtist converts JSONArtist to a model.Artist.
func (ja JSONArtist) ToArtist() model.Artist {
	return model.Artist{ID: strconv.FormatInt(ja.ID, 10), Name: ja.Name}
}

// credits returns the artist list with the main artist first. Older
// responses only carry "artist"; newer ones also fill "artists".
func credits(main *JSONArtist, all []JSONArtist) []model.Artist {
	artists := lo.Map(all, func(a JSONArtist, _ int) model.Artist { return a.ToArtist() })
	if main == nil || main.Name == "" {
		return artists
	}
	if len(artists) == 0 {
		return []model.Artist{main.ToArtist()}
	}
	if artists[0].Name != main.Name {
		rest := lo.Reject(artists, func(a model.Artist, _ int) bool { return a.Name == main.Name })
		return append([]model.Artist{main.ToArtist()}, rest...)
	}
	return artists
}
