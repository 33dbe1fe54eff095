package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/handiism/tidal-ripper/internal/audio"
	"github.com/handiism/tidal-ripper/internal/config"
	"github.com/handiism/tidal-ripper/internal/download"
	rhttp "github.com/handiism/tidal-ripper/internal/http"
	"github.com/handiism/tidal-ripper/internal/job"
	"github.com/handiism/tidal-ripper/internal/logging"
	"github.com/handiism/tidal-ripper/internal/tidal"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	apiToken   string
	verbose    bool
}

// ripper is a logged-in catalog session with a worker ready to run.
type ripper struct {
	settings *config.Settings
	log      *logrus.Logger
	catalog  *tidal.Client
	factory  *job.Factory
	worker   *job.Worker
	close    func()
}

// newRipper loads settings, logs in and wires the download pipeline.
// outputDir overrides downloads_path when not empty.
func newRipper(ctx context.Context, flags *globalFlags, login, password, outputDir string, reporter download.Reporter) (*ripper, error) {
	settings, err := config.Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flags.apiToken != "" {
		settings.APIToken = flags.apiToken
	}
	if outputDir != "" {
		settings.DownloadsPath = outputDir
	}
	if flags.verbose {
		settings.LogLevel = "debug"
	}

	log, closeLog, err := logging.New(settings.LogLevel, settings.LogFile)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	httpClient := rhttp.NewClient(settings.RequestTimeout())
	catalog := tidal.NewClient(httpClient, settings.ToTidalConfig())

	if err := catalog.Login(ctx, login, password); err != nil {
		closeLog()
		return nil, fmt.Errorf("login: %w", err)
	}
	session := catalog.Session()
	log.WithFields(logrus.Fields{
		"user_id":      session.UserID,
		"country_code": session.CountryCode,
	}).Info("logged in")

	downloader := download.NewDownloader(catalog, httpClient, download.Options{
		Tagger:    audio.NewTagger(settings.ToTagConfig()),
		CoverSize: settings.CoverSize,
		Logger:    log,
	})

	factory := job.NewFactory(settings.DownloadsPath, job.Deps{
		Catalog:     catalog,
		Downloader:  downloader,
		Reporter:    reporter,
		Logger:      log,
		Singles:     settings.ToSinglesLayout(),
		ExtendedM3U: settings.M3UExtended,
	})

	return &ripper{
		settings: settings,
		log:      log,
		catalog:  catalog,
		factory:  factory,
		worker:   job.NewWorker(reporter, log),
		close:    closeLog,
	}, nil
}
