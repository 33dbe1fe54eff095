package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/handiism/tidal-ripper/internal/config"
	"github.com/handiism/tidal-ripper/internal/download"
	"github.com/handiism/tidal-ripper/internal/queue"
	"github.com/handiism/tidal-ripper/internal/tui"
)

// newRootCmd creates the root command, which runs the interactive menu.
func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:          "tidal-ripper <login> <password> [output_dir]",
		Short:        "Tidal FLAC ripper",
		Args:         cobra.RangeArgs(2, 3),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var outputDir string
			if len(args) == 3 {
				outputDir = args[2]
			}
			return runInteractive(cmd.Context(), flags, args[0], args[1], outputDir)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", config.DefaultPath(), "Path to config file")
	rootCmd.PersistentFlags().StringVar(&flags.apiToken, "api-token", "", "Tidal API token (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Show verbose output")

	rootCmd.AddCommand(newGetCmd(flags))

	return rootCmd
}

func runInteractive(ctx context.Context, flags *globalFlags, login, password, outputDir string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM)
	defer stop()

	// Unbounded so that reporting never waits on the UI loop.
	events := queue.New[download.ProgressEvent]()
	reporter := func(e download.ProgressEvent) {
		events.Enqueue(e)
	}

	r, err := newRipper(ctx, flags, login, password, outputDir, reporter)
	if err != nil {
		return err
	}
	defer r.close()

	go func() {
		if err := r.worker.Run(ctx); err != nil && ctx.Err() == nil {
			r.log.WithError(err).Error("worker stopped")
		}
	}()

	return tui.Run(ctx, tui.App{
		Catalog:     r.catalog,
		Factory:     r.factory,
		Worker:      r.worker,
		Events:      events,
		SearchLimit: r.settings.SearchLimit,
		Verbose:     flags.verbose,
	})
}
