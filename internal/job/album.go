package job

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/samber/lo"

	"github.com/handiism/tidal-ripper/internal/download"
	ioutils "github.com/handiism/tidal-ripper/internal/io"
	"github.com/handiism/tidal-ripper/internal/model"
)

// AlbumJob downloads a full album into <root>/<artist>/<(year) title>,
// with one "Disc N" folder per volume when the album has several.
type AlbumJob struct {
	base
	album *model.Album
}

func (j *AlbumJob) Describe() string {
	desc := fmt.Sprintf("Album: %s - %s", j.album.Artist, j.album.FullTitle())
	if j.album.NumberOfTracks > 0 {
		desc += fmt.Sprintf(" (%d tracks)", j.album.NumberOfTracks)
	}
	return desc
}

// Dir returns the album folder.
func (j *AlbumJob) Dir() string {
	return model.AlbumDir(j.root, j.album)
}

func (j *AlbumJob) Execute(ctx context.Context) error {
	label := fmt.Sprintf("Album %s - %s", j.album.Artist, j.album.FullTitle())
	j.report(download.LevelInfo, "Downloading album: %s - %s", j.album.Artist, j.album.FullTitle())

	tracks, err := j.deps.Catalog.GetAlbumTracks(ctx, j.album.ID)
	if err != nil {
		return fmt.Errorf("album %s tracks: %w", j.album.ID, err)
	}
	if len(tracks) == 0 {
		return fmt.Errorf("album %s has no tracks", j.album.ID)
	}

	discs := lo.MaxBy(tracks, func(a, b *model.Track) bool { return a.Disc() > b.Disc() }).Disc()
	dir := j.Dir()
	j.log.WithField("path", dir).WithField("discs", discs).Info("album job started")

	if err := ioutils.EnsureDir(dir); err != nil {
		return fmt.Errorf("%w: %w", download.ErrFileAccess, err)
	}
	if discs > 1 {
		for d := 1; d <= discs; d++ {
			if err := ioutils.EnsureDir(filepath.Join(dir, model.DiscFolder(d))); err != nil {
				return fmt.Errorf("%w: %w", download.ErrFileAccess, err)
			}
		}
	}

	entry := func(t *model.Track) string {
		name := model.AlbumTrackFile(t)
		if discs > 1 {
			return model.DiscFolder(t.Disc()) + "/" + name
		}
		return name
	}

	res, err := j.downloadAll(ctx, dir, model.AlbumIndexFile(j.album), tracks, j.album, entry)
	if err != nil {
		return fmt.Errorf("album %s: %w", j.album.ID, err)
	}

	j.finish(label, res)
	return nil
}
