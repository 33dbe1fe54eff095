// Package model defines the catalog descriptors used throughout the
// tidal-ripper and the rules that turn them into names on disk.
//
// # Descriptors
//
// Track, Album, Artist and Playlist mirror what the catalog service returns.
// Only identifiers and titles are guaranteed; every other field is optional.
//
// # Titles
//
//	track.FullTitle()    // "Song (Remix)", written to tags
//	track.DisplayTitle() // "Song (feat. B) [Remix]", used for file names
//
// # Layout
//
// The layout helpers build sanitized paths:
//
//	model.AlbumDir("/music", album)    // /music/Artist/(2019) Album
//	model.AlbumTrackFile(track)        // 01. Song.flac
//	model.AlbumIndexFile(album)        // 00. Album.m3u
//	model.ArtistTrackFile(track)       // Artist - Song.flac
package model
