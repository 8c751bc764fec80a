package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/crm-migrate/internal/config"
	"github.com/sells-group/crm-migrate/internal/dataset"
	"github.com/sells-group/crm-migrate/internal/fetcher"
	"github.com/sells-group/crm-migrate/internal/store"
)

// initStore opens the run store named by config.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.New(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "init store")
	}
	return st, nil
}

// loaderOptions builds extract-loading options from config.
func loaderOptions(c *config.Config) dataset.LoaderOptions {
	opts := dataset.LoaderOptions{
		Source: c.Input.Source,
		Files:  c.Input.Files,
		FTP: fetcher.FTPOptions{
			User:     c.Input.FTPUser,
			Password: c.Input.FTPPassword,
			Timeout:  time.Duration(c.Input.FTPTimeoutSecs) * time.Second,
		},
	}
	if c.Input.Delimiter != "" {
		opts.CSV.Delimiter = rune(c.Input.Delimiter[0])
	}
	return opts
}

// referenceTime resolves the run's reference time: the configured date when
// pinned, otherwise the wall clock.
func referenceTime(c *config.Config, fallback time.Time) (time.Time, error) {
	if c.Pipeline.ReferenceDate == "" {
		return fallback, nil
	}
	ref, err := time.Parse("2006-01-02", c.Pipeline.ReferenceDate)
	if err != nil {
		return time.Time{}, eris.Wrap(err, "parse reference date")
	}
	return ref, nil
}
