package model

// Playlist represents a user or editorial playlist.
//
// The ordered track list is not part of the descriptor; it is fetched
// page by page when the playlist is downloaded.
type Playlist struct {
	// ID is the playlist UUID.
	ID string

	// Name is the playlist title.
	Name string

	// Creator is the display name of the owner. Empty for editorial playlists.
	Creator string

	// NumberOfTracks is the track count reported by the catalog.
	NumberOfTracks int
}
