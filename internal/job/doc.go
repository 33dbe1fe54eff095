// Package job defines the download jobs and the worker that runs them.
//
// # Jobs
//
// TrackJob, AlbumJob and PlaylistJob implement Job. They are built by a
// Factory bound to a destination root and the shared dependencies:
//
//	f := job.NewFactory("/music", job.Deps{
//	    Catalog:    client,
//	    Downloader: downloader,
//	    Reporter:   reporter,
//	})
//	j := f.Album(album)
//
// Album and playlist jobs skip tracks that fail with a region or quality
// error and stop on any other error. Every written track is listed in the
// job's .m3u index in write order.
//
// # Worker
//
// The Worker drains an unbounded FIFO on a single goroutine, so jobs never
// overlap. Failures and panics are reported through the Reporter and never
// stop the loop.
package job
