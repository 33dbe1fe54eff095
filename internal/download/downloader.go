package download

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/handiism/tidal-ripper/internal/audio"
	ioutils "github.com/handiism/tidal-ripper/internal/io"
	"github.com/handiism/tidal-ripper/internal/model"
	"github.com/handiism/tidal-ripper/internal/tidal"
)

// Catalog is the part of the catalog service the download subsystem uses.
// *tidal.Client implements it.
type Catalog interface {
	GetTrack(ctx context.Context, id string) (*model.Track, error)
	GetAlbum(ctx context.Context, id string) (*model.Album, error)
	GetAlbumTracks(ctx context.Context, id string) ([]*model.Track, error)
	GetPlaylist(ctx context.Context, id string) (*model.Playlist, error)
	GetPlaylistTracks(ctx context.Context, id string) ([]*model.Track, error)
	GetMediaURL(ctx context.Context, trackID string) (string, error)
	GetCover(ctx context.Context, album *model.Album) ([]byte, error)
}

// Fetcher downloads media payloads. *http.Client implements it.
type Fetcher interface {
	DownloadBytes(ctx context.Context, url string, onProgress func(written, total int64)) ([]byte, error)
}

// Options configures a Downloader.
type Options struct {
	// Tagger writes the metadata. Defaults to audio.NewTagger(nil).
	Tagger *audio.Tagger

	// CoverSize bounds embedded covers. Defaults to 640.
	CoverSize int

	// Logger receives diagnostic logs. Defaults to the logrus standard logger.
	Logger logrus.FieldLogger
}

// Downloader fetches one track, tags it and writes it to disk.
//
// Downloader holds no per-track state and may be shared by jobs.
//
// Example usage:
//
//	d := download.NewDownloader(catalog, httpClient, download.Options{})
//	err := d.FetchAndTag(ctx, track, "/music/Artist/(2019) Album/01. Song.flac", album)
type Downloader struct {
	catalog   Catalog
	fetcher   Fetcher
	tagger    *audio.Tagger
	images    *ioutils.ImageService
	coverSize int
	log       logrus.FieldLogger
}

// NewDownloader creates a Downloader.
func NewDownloader(catalog Catalog, fetcher Fetcher, opts Options) *Downloader {
	if opts.Tagger == nil {
		opts.Tagger = audio.NewTagger(nil)
	}
	if opts.CoverSize <= 0 {
		opts.CoverSize = 640
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &Downloader{
		catalog:   catalog,
		fetcher:   fetcher,
		tagger:    opts.Tagger,
		images:    ioutils.NewImageService(),
		coverSize: opts.CoverSize,
		log:       opts.Logger,
	}
}

// FetchAndTag downloads track, tags it and writes it to destPath.
//
// Album level tags come from albumOverride when given. Otherwise the
// track's own album reference is used, looked up in full when the track
// listing only carried a partial one. Parent directories of destPath are
// created as needed; nothing is written if any step fails.
func (d *Downloader) FetchAndTag(ctx context.Context, track *model.Track, destPath string, albumOverride *model.Album) error {
	log := d.log.WithFields(logrus.Fields{"track_id": track.ID, "path": destPath})

	album, err := d.resolveAlbum(ctx, track, albumOverride)
	if err != nil {
		return err
	}

	mediaURL, err := d.catalog.GetMediaURL(ctx, track.ID)
	if err != nil {
		return fmt.Errorf("media url for track %s: %w", track.ID, err)
	}

	var raw, cover []byte
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := d.fetcher.DownloadBytes(gctx, mediaURL, nil)
		if err != nil {
			return fmt.Errorf("download track %s: %w", track.ID, err)
		}
		raw = data
		return nil
	})
	g.Go(func() error {
		data, err := d.cover(gctx, album)
		if err != nil {
			return fmt.Errorf("cover for album %s: %w", album.ID, err)
		}
		cover = data
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	log.WithField("bytes", len(raw)).Debug("payload downloaded")

	tagged, err := d.tagger.Tag(raw, track, album, cover)
	if err != nil {
		return fmt.Errorf("tag track %s: %w", track.ID, err)
	}

	if err := ioutils.WriteFile(ctx, destPath, tagged); err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrFileAccess, err)
	}
	log.Debug("track written")
	return nil
}

func (d *Downloader) resolveAlbum(ctx context.Context, track *model.Track, override *model.Album) (*model.Album, error) {
	if override != nil {
		return override, nil
	}
	if track.Album == nil || track.Album.ID == "" {
		return &model.Album{}, nil
	}
	if !track.Album.IsPartial() {
		return track.Album, nil
	}

	album, err := d.catalog.GetAlbum(ctx, track.Album.ID)
	if err != nil {
		return nil, fmt.Errorf("album %s of track %s: %w", track.Album.ID, track.ID, err)
	}
	return album, nil
}

// cover fetches the album cover and fits it to the declared size. A cover
// that cannot be decoded is embedded as served; a missing one is skipped.
func (d *Downloader) cover(ctx context.Context, album *model.Album) ([]byte, error) {
	if !album.HasArtwork() {
		return nil, nil
	}

	raw, err := d.catalog.GetCover(ctx, album)
	if errors.Is(err, tidal.ErrNotFound) {
		d.log.WithField("album_id", album.ID).Warn("cover not found, embedding none")
		return nil, nil
	}
	if err != nil || len(raw) == 0 {
		return raw, err
	}

	fitted, err := d.images.FitCover(ctx, raw, d.coverSize)
	if err != nil {
		d.log.WithField("album_id", album.ID).WithError(err).Debug("cover kept as served")
		return raw, nil
	}
	return fitted, nil
}
