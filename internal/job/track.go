package job

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/handiism/tidal-ripper/internal/download"
	"github.com/handiism/tidal-ripper/internal/model"
)

// TrackJob downloads one track into the singles folder. No index file is
// written.
type TrackJob struct {
	base
	track *model.Track
}

func (j *TrackJob) Describe() string {
	return "Track: " + trackLabel(j.track)
}

// Path returns where the track will be written.
func (j *TrackJob) Path() string {
	return filepath.Join(j.deps.Singles.Dir(j.root, j.track), model.ArtistTrackFile(j.track))
}

func (j *TrackJob) Execute(ctx context.Context) error {
	dest := j.Path()
	j.report(download.LevelInfo, "Downloading track: %s", trackLabel(j.track))
	j.log.WithField("path", dest).Info("track job started")

	if err := j.deps.Downloader.FetchAndTag(ctx, j.track, dest, nil); err != nil {
		return fmt.Errorf("track %s: %w", j.track.ID, err)
	}

	j.report(download.LevelSuccess, "Track %s downloaded!", trackLabel(j.track))
	return nil
}

func trackLabel(t *model.Track) string {
	if artist := t.ArtistName(); artist != "" {
		return artist + " - " + t.DisplayTitle()
	}
	return t.DisplayTitle()
}
