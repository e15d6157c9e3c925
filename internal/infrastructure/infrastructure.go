// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, artifact storage) that domain systems require.
package infrastructure

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/JaimeStill/otreport/internal/config"
	"github.com/JaimeStill/otreport/pkg/lifecycle"
	"github.com/JaimeStill/otreport/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, and artifact storage.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Storage   storage.System
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := NewLogger(&cfg.Logging, os.Stderr)

	store, err := NewStorage(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Storage:   store,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}

// NewLogger builds the slog logger described by cfg, writing to w.
func NewLogger(cfg *config.LoggingConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// NewStorage returns Azure Blob Storage when a connection string is
// configured and a local directory store under the outputs directory
// otherwise.
func NewStorage(cfg *config.Config, logger *slog.Logger) (storage.System, error) {
	if !cfg.Storage.Configured() {
		logger.Info("blob storage not configured, using local directory", "dir", cfg.Outputs.Directory)
		return storage.NewLocal(cfg.Outputs.Directory, logger), nil
	}
	return storage.New(&cfg.Storage, logger)
}
