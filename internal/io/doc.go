// Package ioutils provides file system and image processing utilities.
//
// # File Operations
//
//	// Write data to a file, creating parent directories
//	err := ioutils.WriteFile(ctx, "/music/Artist/Album/01. Song.flac", data)
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/music/Artist/Album/Disc 2")
//
// # Filename Sanitization
//
// SanitizeFileName swaps each forbidden character for an underscore and
// leaves everything else alone:
//
//	safe := ioutils.SanitizeFileName("Song: Part 1/2") // Returns "Song_ Part 1_2"
//
// # Image Processing
//
// The ImageService prepares cover art before it is embedded:
//
//	svc := ioutils.NewImageService()
//	cover, _ := svc.FitCover(ctx, imageData, 640)
package ioutils
