package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"caravan/api"
	"caravan/config"
	"caravan/core"
	"caravan/metrics"
	"caravan/registry"
	"caravan/storage"

	"go.uber.org/zap"
)

// App represents the Caravan application with all its components.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	Sugar  *zap.SugaredLogger

	Loader    *storage.Loader
	Handle    *registry.Handle
	APIServer *api.API

	serviceWg  *sync.WaitGroup
	shutdownCh chan struct{}
}

// NewApp creates a new application instance: it loads the configuration,
// performs the initial dataset load and builds the first registry snapshot.
// A dataset the registry rejects (duplicate compound keys, or any invalid
// record in strict mode) fails startup.
func NewApp(ctx context.Context, configFile string) (*App, error) {
	app := &App{
		serviceWg:  &sync.WaitGroup{},
		shutdownCh: make(chan struct{}),
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	app.Config = cfg

	logger, sugar, err := InitLogger(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.Logger = logger
	app.Sugar = sugar

	sugar.Info("Caravan starting...")
	sugar.Infow("Dataset configuration",
		"dir", cfg.Dataset.Dir,
		"strict", cfg.Dataset.Strict)

	app.Loader = storage.NewLoader(cfg.Dataset.Dir, cfg.DatasetFiles(), sugar)

	reg, report, err := app.loadAndBuild()
	if err != nil {
		return nil, fmt.Errorf("initial dataset load failed: %w", err)
	}
	app.Handle = registry.NewHandle(reg)
	app.publishSnapshotMetrics(reg, report)

	sugar.Infow("Registry built",
		"organizations", reg.Count(core.FamilyOrganization),
		"vehicles", reg.Count(core.FamilyVehicle),
		"drivers", reg.Count(core.FamilyDriver),
		"transport_operations", reg.Count(core.FamilyTransportOperation),
		"folded_operations", reg.FoldedOperations(),
		"skipped_records", len(report.Skipped))

	app.APIServer = api.NewAPI(app.Handle, app, cfg, sugar)

	return app, nil
}

// Start starts the API server in a service goroutine.
func (a *App) Start(ctx context.Context) error {
	a.serviceWg.Add(1)
	go func() {
		defer a.serviceWg.Done()
		defer func() {
			if r := recover(); r != nil {
				a.Sugar.Errorw("API server panicked", "panic", r)
			}
		}()
		if err := a.APIServer.Start(); err != nil && err.Error() != "http: Server closed" {
			a.Sugar.Errorw("API server error", "error", err)
		}
	}()
	return nil
}

// WaitForShutdown blocks until a shutdown signal is received.
func (a *App) WaitForShutdown() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}

// Shutdown gracefully shuts down all components.
func (a *App) Shutdown() {
	a.Sugar.Info("Shutting down...")

	if a.APIServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.APIServer.Stop(ctx); err != nil {
			a.Sugar.Errorw("Failed to stop API server", "error", err)
		}
	}

	done := make(chan struct{})
	go func() {
		a.serviceWg.Wait()
		close(done)
	}()
	select {
	case <-done:
		a.Sugar.Info("All service goroutines stopped")
	case <-time.After(15 * time.Second):
		a.Sugar.Warn("Service goroutine shutdown timed out")
	}

	a.Sugar.Info("Shutdown complete")
	a.Logger.Sync()
}

// Reload rebuilds the registry from the data directory and swaps it into the
// handle. A rejected dataset leaves the current snapshot untouched.
func (a *App) Reload(ctx context.Context) (*storage.LoadReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reg, report, err := a.loadAndBuild()
	if err != nil {
		metrics.DatasetReloadFailures.Inc()
		a.Sugar.Errorw("Dataset reload rejected, keeping current snapshot", "error", err)
		return nil, err
	}

	a.Handle.Swap(reg)
	metrics.DatasetReloads.Inc()
	a.publishSnapshotMetrics(reg, report)

	a.Sugar.Infow("Dataset reloaded",
		"organizations", reg.Count(core.FamilyOrganization),
		"vehicles", reg.Count(core.FamilyVehicle),
		"drivers", reg.Count(core.FamilyDriver),
		"transport_operations", reg.Count(core.FamilyTransportOperation),
		"folded_operations", reg.FoldedOperations(),
		"skipped_records", len(report.Skipped))

	return report, nil
}

// loadAndBuild runs one load-validate-build pass over the data directory.
func (a *App) loadAndBuild() (*registry.Registry, *storage.LoadReport, error) {
	ds, report, err := a.Loader.LoadDataset(a.Config.Dataset.Strict)
	if err != nil {
		return nil, nil, err
	}
	reg, err := registry.Build(ds)
	if err != nil {
		return nil, nil, err
	}
	return reg, report, nil
}

// publishSnapshotMetrics reflects the freshly installed snapshot in the
// gauges and counts skipped records.
func (a *App) publishSnapshotMetrics(reg *registry.Registry, report *storage.LoadReport) {
	for _, family := range core.AllFamilies {
		metrics.EntitiesLoaded.WithLabelValues(string(family)).Set(float64(reg.Count(family)))
	}
	metrics.OperationsFolded.Set(float64(reg.FoldedOperations()))
	for _, rec := range report.Skipped {
		metrics.RecordsSkipped.WithLabelValues(string(rec.Family)).Inc()
	}
}
