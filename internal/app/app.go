// Package app wires the dataset, selection and services into one process.
package app

import (
	"fmt"
	"os"
	"path/filepath"

	"Mansoor88-6/punch-tracker/internal/config"
	"Mansoor88-6/punch-tracker/internal/database"
	"Mansoor88-6/punch-tracker/internal/dataset"
	"Mansoor88-6/punch-tracker/internal/event"
	"Mansoor88-6/punch-tracker/internal/repository"
	"Mansoor88-6/punch-tracker/internal/selection"
	"Mansoor88-6/punch-tracker/internal/service"
	"Mansoor88-6/punch-tracker/internal/snapshot"
	"Mansoor88-6/punch-tracker/internal/tracker"

	"go.uber.org/zap"
)

// App owns the active dataset and everything that follows it. Methods must
// run on one goroutine; surfaces that run concurrently go through a loop.
type App struct {
	Instance  *tracker.Instance
	Selection *selection.Manager
	Projects  *service.ProjectService
	Punch     *service.PunchService
	Reports   *service.ReportService

	storage     config.StorageConfig
	datasetSubs event.Group
	ownSubs     event.Group
	logger      *zap.Logger
}

// OpenStore opens the dataset described by storage.
func OpenStore(storage config.StorageConfig, logger *zap.Logger) (*dataset.Store, error) {
	if err := os.MkdirAll(filepath.Dir(storage.Path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	var backend dataset.Backend
	switch storage.Driver {
	case config.DriverSQLite:
		db, err := database.New(storage.Path, logger)
		if err != nil {
			return nil, err
		}
		backend = repository.NewBackend(db, logger)
	case config.DriverYAML:
		backend = snapshot.NewFileBackend(storage.Path, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", storage.Driver)
	}

	store, err := dataset.Open(backend, logger)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return store, nil
}

// New opens storage and builds the services around it.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	store, err := OpenStore(cfg.Storage, logger)
	if err != nil {
		return nil, err
	}
	return NewWithStore(store, cfg, logger), nil
}

// NewWithStore builds the services around an already open dataset.
func NewWithStore(ds dataset.ProjectTimeStore, cfg *config.Config, logger *zap.Logger) *App {
	instance := tracker.NewInstance(ds, logger)

	policies := []selection.Policy{selection.InDataSet(instance.DataSet)}
	if !cfg.Selection.AllowClosed {
		policies = append(policies, selection.RejectClosed)
	}
	manager := selection.NewManager(selection.All(policies...), logger)

	a := &App{
		Instance:  instance,
		Selection: manager,
		Projects:  service.NewProjectService(instance, logger),
		Punch:     service.NewPunchService(instance, manager, logger),
		Reports:   service.NewReportService(),
		storage:   cfg.Storage,
		logger:    logger,
	}

	a.ownSubs.Add(
		instance.SubscribeDataSetChanged(a.onDataSetChanged),
		// the old selection belongs to the old dataset; revalidate once
		// every view has moved to the new one
		instance.SubscribeDataSetSettled(func(tracker.DataSetChange) { a.Selection.Revalidate() }),
	)
	a.follow(ds)
	return a
}

// DataSet returns the active dataset.
func (a *App) DataSet() dataset.ProjectTimeStore {
	return a.Instance.DataSet()
}

// Reload reopens storage and swaps it in. On failure the current dataset
// stays active.
func (a *App) Reload() error {
	next, err := OpenStore(a.storage, a.logger)
	if err != nil {
		return fmt.Errorf("failed to reopen storage: %w", err)
	}
	a.Swap(next)
	return nil
}

// Swap makes ds the active dataset and closes the previous one.
func (a *App) Swap(ds dataset.ProjectTimeStore) {
	old := a.Instance.DataSet()
	a.Instance.SetDataSet(ds)
	if old != nil && old != ds {
		if err := old.Close(); err != nil {
			a.logger.Warn("Failed to close previous dataset", zap.Error(err))
		}
	}
}

// Close detaches and closes the active dataset.
func (a *App) Close() error {
	a.datasetSubs.Unsubscribe()
	a.ownSubs.Unsubscribe()
	if ds := a.Instance.DataSet(); ds != nil {
		return ds.Close()
	}
	return nil
}

func (a *App) onDataSetChanged(change tracker.DataSetChange) {
	a.datasetSubs.Unsubscribe()
	a.follow(change.New)
}

func (a *App) follow(ds dataset.ProjectTimeStore) {
	if ds == nil {
		return
	}
	a.datasetSubs.Add(
		ds.SubscribeProjectsChanged(func() { a.Selection.Revalidate() }),
		ds.SubscribeFaults(func(err error) {
			a.logger.Warn("Dataset mutation rejected by storage", zap.Error(err))
		}),
	)
}
