package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"cloudriddle/internal/config"
	"cloudriddle/internal/logger"
	"cloudriddle/internal/repository"
	"cloudriddle/internal/repository/azure"
	"cloudriddle/internal/repository/filesystem"
	"cloudriddle/internal/repository/sqlite"
	"cloudriddle/internal/route"
	"cloudriddle/internal/service"
	"cloudriddle/internal/service/ai"
	"cloudriddle/internal/service/notify"
	"cloudriddle/internal/service/session"
	"cloudriddle/internal/service/websocket"
)

// watcher is implemented by stores that can report new objects as they land.
type watcher interface {
	Watch(ctx context.Context, onCreate func(name string)) error
}

type App struct {
	config   *config.Config
	logger   *logger.Logger
	store    repository.ObjectStore
	db       *sqlite.DB
	manager  *service.Manager
	hub      *websocket.HubService
	notifier *notify.Notifier
	sessions *session.Store
}

func NewApp() (*App, error) {
	cfg := config.Load()
	log := logger.NewLogger(cfg)

	store, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	analyzer, err := NewAnalyzer(cfg)
	if err != nil {
		log.Warning("Cloud analysis disabled: %v", err)
	}

	hub := websocket.NewHubService(log)
	mng := service.NewManager(store, analyzer, sqlite.NewRiddleRepository(db), sqlite.NewSimilarityRepository(db), cfg, log)

	return &App{
		config:   cfg,
		logger:   log,
		store:    store,
		db:       db,
		manager:  mng,
		hub:      hub,
		notifier: notify.NewNotifier(mng.GetSelector(), hub, cfg.NotifyInterval, log),
		sessions: session.NewStore(cfg.SessionTTL),
	}, nil
}

// OpenStore opens the object store selected by STORE_BACKEND.
func OpenStore(cfg *config.Config) (repository.ObjectStore, error) {
	switch cfg.StoreBackend {
	case config.BackendAzure:
		return azure.New(cfg.StorageAccountName, cfg.StorageAccountKey, cfg.ContainerName)
	case config.BackendFilesystem:
		return filesystem.New(cfg.StoreDirectory)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// NewAnalyzer builds the cloud analyzer on the Replicate client. Without a
// token the analyzer is still returned and fails every analysis.
func NewAnalyzer(cfg *config.Config) (*ai.Analyzer, error) {
	client, err := ai.NewReplicateClient(cfg.ReplicateURL, cfg.ReplicateToken, cfg.ReplicateModelVersion, cfg.InferenceTimeout)
	if err != nil {
		return ai.NewAnalyzer(nil, ""), err
	}
	return ai.NewAnalyzer(client, ""), nil
}

// Run serves HTTP and the background services until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	defer a.db.Close()

	go a.hub.Run(ctx)
	go a.notifier.Run(ctx)
	go a.sweepSessions(ctx)

	if w, ok := a.store.(watcher); ok {
		if err := w.Watch(ctx, func(name string) { a.notifier.Trigger() }); err != nil {
			a.logger.Warning("Store watch unavailable, polling only: %v", err)
		}
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.config.Port),
		Handler:           route.SetupRoutes(a.manager, a.hub, a.sessions, a.logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	a.logger.Info("☁️  Cloud Riddle server on http://localhost:%d", a.config.Port)
	a.logger.Info("📦 Store backend: %s", a.config.StoreBackend)
	a.logger.Info("🗄️  Database: %s", a.config.DatabasePath)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.logger.Info("Shutting down")
	return server.Shutdown(shutdownCtx)
}

// sweepSessions evicts idle sessions once per minute.
func (a *App) sweepSessions(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := a.sessions.Sweep(); removed > 0 {
				a.logger.Info("Evicted %d idle session(s)", removed)
			}
		}
	}
}
