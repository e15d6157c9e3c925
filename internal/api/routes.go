package api

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/otreport/internal/config"
	"github.com/JaimeStill/otreport/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	logger *slog.Logger,
) {
	patterns := routes.Register(
		mux,
		domain.Prompts.Handler().Routes(),
		domain.Reports.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
	)
	logger.Debug("routes registered", "base", cfg.API.BasePath, "routes", patterns)
}
