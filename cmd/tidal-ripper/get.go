package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/handiism/tidal-ripper/internal/download"
	"github.com/handiism/tidal-ripper/internal/job"
	"github.com/handiism/tidal-ripper/internal/tidal"
)

func newGetCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <login> <password> <output_dir> <link>...",
		Short: "Download the given track, album and playlist links, then exit",
		Example: "  tidal-ripper get me@example.com secret ~/Music " +
			"https://tidal.com/browse/album/79915001",
		Args:         cobra.MinimumNArgs(4),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd.Context(), flags, args[0], args[1], args[2], args[3:])
		},
	}
}

func runGet(ctx context.Context, flags *globalFlags, login, password, outputDir string, links []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			fmt.Println("\nInterrupted, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	var failed atomic.Int32
	reporter := func(event download.ProgressEvent) {
		if event.Level == download.LevelError {
			failed.Add(1)
		}
		if event.Level == download.LevelVerbose && !flags.verbose {
			return
		}
		fmt.Println(prefix(event.Level) + event.Message)
	}

	r, err := newRipper(ctx, flags, login, password, outputDir, reporter)
	if err != nil {
		return err
	}
	defer r.close()

	fmt.Println("Tidal FLAC ripper")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	for _, link := range links {
		j, err := lookup(ctx, r, link)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s%s: %s\n", prefix(download.LevelError), link, download.Diagnostic(err))
			failed.Add(1)
			continue
		}
		r.worker.Submit(j)
	}

	go r.worker.Run(ctx)
	if err := r.worker.Drain(ctx); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	// Download failures were already reported; they do not change the exit status.
	fmt.Println(summary(int(failed.Load()), len(links)))
	return nil
}

func summary(failed, links int) string {
	if failed > 0 {
		return fmt.Sprintf("! Finished with %d failure(s) across %d link(s)", failed, links)
	}
	return fmt.Sprintf("✨ Complete! %d link(s) downloaded", links)
}

// lookup fetches the item behind a share link and builds its job. Bare ids
// are rejected since their kind is unknown.
func lookup(ctx context.Context, r *ripper, link string) (job.Job, error) {
	kind, id := tidal.ParseLink(link)
	switch kind {
	case tidal.KindTrack:
		t, err := r.catalog.GetTrack(ctx, id)
		if err != nil {
			return nil, err
		}
		return r.factory.Track(t), nil
	case tidal.KindAlbum:
		a, err := r.catalog.GetAlbum(ctx, id)
		if err != nil {
			return nil, err
		}
		return r.factory.Album(a), nil
	case tidal.KindPlaylist:
		p, err := r.catalog.GetPlaylist(ctx, id)
		if err != nil {
			return nil, err
		}
		return r.factory.Playlist(p), nil
	}
	return nil, fmt.Errorf("cannot tell what %q links to, use a track, album or playlist link", link)
}

func prefix(level download.ProgressLevel) string {
	switch level {
	case download.LevelError:
		return "✗ "
	case download.LevelWarning:
		return "! "
	case download.LevelSuccess:
		return "✓ "
	case download.LevelInfo:
		return "› "
	default:
		return "  "
	}
}
