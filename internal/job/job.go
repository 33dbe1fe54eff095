package job

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/handiism/tidal-ripper/internal/audio"
	"github.com/handiism/tidal-ripper/internal/download"
	"github.com/handiism/tidal-ripper/internal/model"
)

// Job is a unit of download work executed by the Worker.
type Job interface {
	// ID identifies the job in logs.
	ID() string

	// Describe returns a short summary of the job. It has no side effects.
	Describe() string

	// Execute performs the download.
	Execute(ctx context.Context) error
}

// Deps are the collaborators shared by every job.
type Deps struct {
	Catalog    download.Catalog
	Downloader *download.Downloader
	Reporter   download.Reporter
	Logger     logrus.FieldLogger

	// Singles places tracks downloaded on their own.
	Singles model.SinglesLayout

	// ExtendedM3U writes #EXTM3U/#EXTINF lines in playlist indexes.
	ExtendedM3U bool
}

// Factory builds jobs that write below a destination root.
//
// Example:
//
//	f := job.NewFactory("/music", deps)
//	worker.Submit(f.Album(album))
type Factory struct {
	root string
	deps *Deps
}

// NewFactory creates a Factory. A nil Logger falls back to the logrus
// standard logger.
func NewFactory(root string, deps Deps) *Factory {
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	return &Factory{root: root, deps: &deps}
}

// Root returns the destination root.
func (f *Factory) Root() string {
	return f.root
}

// Track returns a job downloading a single track.
func (f *Factory) Track(t *model.Track) *TrackJob {
	return &TrackJob{base: f.base("track"), track: t}
}

// Album returns a job downloading every track of album.
func (f *Factory) Album(a *model.Album) *AlbumJob {
	return &AlbumJob{base: f.base("album"), album: a}
}

// Playlist returns a job downloading every track of p.
func (f *Factory) Playlist(p *model.Playlist) *PlaylistJob {
	return &PlaylistJob{base: f.base("playlist"), playlist: p}
}

func (f *Factory) base(kind string) base {
	id := uuid.NewString()
	return base{
		id:   id,
		root: f.root,
		deps: f.deps,
		log:  f.deps.Logger.WithFields(logrus.Fields{"job_id": id, "job": kind}),
	}
}

// base holds what the three job kinds share. Jobs are immutable once built.
type base struct {
	id   string
	root string
	deps *Deps
	log  logrus.FieldLogger
}

func (b *base) ID() string {
	return b.id
}

func (b *base) report(level download.ProgressLevel, format string, args ...any) {
	b.deps.Reporter.Report(level, fmt.Sprintf(format, args...))
}

// batch is the outcome of downloading a track list.
type batch struct {
	written int
	skipped int
}

// downloadAll downloads tracks into dir in order and lists each written
// file in the index. entry returns the path of a track relative to dir.
//
// Region and quality failures skip the track; any other failure stops the
// batch.
func (b *base) downloadAll(ctx context.Context, dir, index string, tracks []*model.Track,
	album *model.Album, entry func(*model.Track) string) (res batch, err error) {
	pl, err := audio.CreatePlaylist(filepath.Join(dir, index), b.deps.ExtendedM3U)
	if err != nil {
		return res, fmt.Errorf("%w: %w", download.ErrFileAccess, err)
	}
	defer func() {
		if cerr := pl.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", download.ErrFileAccess, cerr)
		}
	}()

	for i, t := range tracks {
		rel := entry(t)
		b.deps.Reporter.Step(i+1, len(tracks),
			fmt.Sprintf("Downloading (%d/%d): %s", i+1, len(tracks), t.DisplayTitle()))

		err := b.deps.Downloader.FetchAndTag(ctx, t, filepath.Join(dir, filepath.FromSlash(rel)), album)
		if err != nil {
			if download.Skippable(err) {
				res.skipped++
				b.report(download.LevelWarning, "Skipping %s: %s", t.DisplayTitle(), download.Diagnostic(err))
				b.log.WithField("track_id", t.ID).WithError(err).Warn("track skipped")
				continue
			}
			return res, fmt.Errorf("track %d/%d (%s): %w", i+1, len(tracks), t.ID, err)
		}

		if err := pl.Append(rel, t); err != nil {
			return res, fmt.Errorf("%w: %w", download.ErrFileAccess, err)
		}
		res.written++
		b.report(download.LevelVerbose, "Saved %s", rel)
	}
	return res, nil
}

// finish reports the end of a batch job.
func (b *base) finish(what string, res batch) {
	if res.skipped > 0 {
		b.report(download.LevelWarning, "%s downloaded with %d of %d tracks (%d skipped)",
			what, res.written, res.written+res.skipped, res.skipped)
		return
	}
	b.report(download.LevelSuccess, "%s downloaded! (%d tracks)", what, res.written)
}
