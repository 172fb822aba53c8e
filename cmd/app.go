package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"mapmarkers/api/jsonbin"
	"mapmarkers/api/markerapi"
	"mapmarkers/database"
	"mapmarkers/filter"
	"mapmarkers/markers"
	"mapmarkers/notify"
	"mapmarkers/reconciler"
	"mapmarkers/render"
	"mapmarkers/utils/config"

	log "github.com/sirupsen/logrus"
)

const DB_NAME = "markers"

// Everything a command needs, opened lazily on first use and closed after the command ran.
type app struct {
	configFile string
	dimension  markers.Dimension

	cfg        *config.Config
	categories markers.CategoryTable
	db         *database.Database
	api        *markerapi.MarkerAPI
	closers    []func() error
}

func (a *app) loadConfig() error {
	if a.cfg != nil {
		return nil
	}

	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	cfg.ApplyLogLevel()
	a.cfg = cfg

	a.categories = markers.DEFAULT_CATEGORIES
	if cfg.CategoriesFile != "" {
		if a.categories, err = markers.LoadCategories(cfg.CategoriesFile); err != nil {
			return fmt.Errorf("failed to load categories: %w", err)
		}
	}

	return nil
}

// Opens the local db and the marker store selected by the config.
func (a *app) open(notifier notify.Notifier) error {
	if a.api != nil {
		return nil
	}
	if err := a.loadConfig(); err != nil {
		return err
	}

	db, err := database.New(a.cfg.DataDir, DB_NAME)
	if err != nil {
		return fmt.Errorf("cannot initialize database: %w", err)
	}

	a.db = db
	a.closers = append(a.closers, db.Close)

	backend, err := a.backend()
	if err != nil {
		return err
	}

	a.api = markerapi.New(backend,
		markerapi.WithCacheTimeout(a.cfg.CacheTimeout),
		markerapi.WithNotifier(notifier),
	)

	return nil
}

func (a *app) backend() (markerapi.Backend, error) {
	switch a.cfg.MarkersBackend {
	case config.BACKEND_FILE:
		return database.NewFileBin(a.db)
	case config.BACKEND_JSONBIN:
		client := jsonbin.NewClient(
			a.cfg.JSONBinBaseURL, a.cfg.JSONBinBinID, a.cfg.JSONBinAPIKey,
			jsonbin.WithAccessKey(a.cfg.JSONBinAccessKey),
			jsonbin.WithRateLimit(a.cfg.JSONBinRateLimit),
		)

		a.closers = append(a.closers, func() error {
			client.Close()
			return nil
		})

		return client, nil
	}

	return nil, fmt.Errorf("unknown markers backend: %s", a.cfg.MarkersBackend)
}

// Builds and initializes the reconciler of the selected dimension, drawing onto a terminal panel.
func (a *app) reconciler(ctx context.Context, out io.Writer, onClick reconciler.ContextAction) (*reconciler.Reconciler, *render.Terminal, error) {
	if !markers.IsKnownDimension(a.dimension) {
		return nil, nil, fmt.Errorf("unknown dimension %q, expected one of %v", a.dimension, markers.DIMENSIONS)
	}

	notifier := terminalNotifier(out)
	if err := a.open(notifier); err != nil {
		return nil, nil, err
	}

	term := render.NewTerminal(out, a.dimension, a.categories)
	r, err := reconciler.New(reconciler.Config{
		Dimension:  a.dimension,
		Service:    a.api,
		Map:        term,
		Filter:     filter.New(a.dimension, a.categories, a.db.Filters()),
		Categories: a.categories,
		Notifier:   notifier,
		OnClick:    onClick,
	})
	if err != nil {
		return nil, nil, err
	}

	r.Init(ctx)
	a.closers = append(a.closers, func() error {
		r.Close()
		return nil
	})

	return r, term, nil
}

func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}

	a.closers = nil
	a.api = nil
	a.db = nil
	a.cfg = nil

	if err := errors.Join(errs...); err != nil {
		log.WithError(err).Error("error closing resources")
		return err
	}

	return nil
}

// Prints toasts inline with the command output.
func terminalNotifier(out io.Writer) notify.Notifier {
	return notify.Func(func(_ context.Context, msg string) {
		fmt.Fprintln(out, render.Toast(msg))
	})
}
