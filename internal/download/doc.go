// Package download turns catalog tracks into tagged FLAC files on disk.
//
// # Downloader
//
// FetchAndTag runs the per-track pipeline:
//
//  1. Resolve the album used for album level tags
//  2. Ask the catalog for a time-limited media URL
//  3. Download the payload and the cover concurrently
//  4. Tag the payload (Vorbis comments and front cover)
//  5. Write the result, creating parent directories
//
// # Errors
//
// Failures are classified with Classify into the kinds UnavailableQuality,
// RegionRestricted, Connectivity, FileAccess and Generic. Skippable reports
// whether a track may be skipped inside an album or playlist, and
// Diagnostic renders the one-line message shown to the user.
//
// # Progress Tracking
//
// User-visible status lines are ProgressEvent values delivered through a
// Reporter:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	    Step    int           // position within a multi-track job
//	    Steps   int
//	}
package download
