package job

import (
	"context"
	"fmt"

	"github.com/handiism/tidal-ripper/internal/download"
	ioutils "github.com/handiism/tidal-ripper/internal/io"
	"github.com/handiism/tidal-ripper/internal/model"
)

// PlaylistJob downloads a playlist into <root>/<name>. Album tags of each
// track come from the track's own album.
type PlaylistJob struct {
	base
	playlist *model.Playlist
}

func (j *PlaylistJob) Describe() string {
	desc := "Playlist: " + j.playlist.Name
	if j.playlist.Creator != "" {
		desc += " by " + j.playlist.Creator
	}
	if j.playlist.NumberOfTracks > 0 {
		desc += fmt.Sprintf(" (%d tracks)", j.playlist.NumberOfTracks)
	}
	return desc
}

// Dir returns the playlist folder.
func (j *PlaylistJob) Dir() string {
	return model.PlaylistDir(j.root, j.playlist)
}

func (j *PlaylistJob) Execute(ctx context.Context) error {
	j.report(download.LevelInfo, "Downloading playlist: %s", j.playlist.Name)

	tracks, err := j.deps.Catalog.GetPlaylistTracks(ctx, j.playlist.ID)
	if err != nil {
		return fmt.Errorf("playlist %s tracks: %w", j.playlist.ID, err)
	}

	dir := j.Dir()
	j.log.WithField("path", dir).WithField("tracks", len(tracks)).Info("playlist job started")
	if err := ioutils.EnsureDir(dir); err != nil {
		return fmt.Errorf("%w: %w", download.ErrFileAccess, err)
	}

	res, err := j.downloadAll(ctx, dir, model.PlaylistIndexFile(j.playlist), tracks, nil, model.ArtistTrackFile)
	if err != nil {
		return fmt.Errorf("playlist %s: %w", j.playlist.ID, err)
	}

	j.finish("Playlist "+j.playlist.Name, res)
	return nil
}
