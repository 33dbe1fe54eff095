// Package audio provides FLAC tagging and .m3u index writing.
//
// # FLAC Tagging
//
// Use the Tagger to rewrite the metadata of a downloaded FLAC stream:
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	tagged, err := tagger.Tag(raw, track, album, coverBytes)
//
// The tagger writes these Vorbis comment fields:
//   - TITLE, ARTIST, ALBUMARTIST, ALBUM, DATE
//   - DISCNUMBER/DISCTOTAL, TRACKNUMBER/TRACKTOTAL
//   - COPYRIGHT, ISRC, UPC (only when known)
//
// and embeds the cover as a front-cover picture block declared as
// image/jpeg. Payloads that are not FLAC fail with ErrNotFLAC.
//
// # Playlist Index
//
// PlaylistWriter appends one relative path per line as tracks are written:
//
//	pl, err := audio.CreatePlaylist(indexPath, false)
//	defer pl.Close()
//	pl.Append("01. Song.flac", track)
package audio
