package pipeline

import (
	"log/slog"
	"time"

	"github.com/JaimeStill/otreport/internal/config"
	"github.com/JaimeStill/otreport/internal/narrative"
	"github.com/JaimeStill/otreport/internal/parsers"
	"github.com/JaimeStill/otreport/internal/prompts"
)

// Runtime bundles the dependencies the pipeline nodes require.
// It is constructed by higher-level composition code from configuration.
type Runtime struct {
	Parsers  *parsers.Registry
	Strategy narrative.Strategy
	Logger   *slog.Logger
	// Now supplies the encounter date when the request leaves it empty.
	// Defaults to time.Now.
	Now func() time.Time
}

// NewRuntime builds a runtime with every instrument parser and the
// narrative strategy selected by cfg.
func NewRuntime(cfg *config.Config, ps prompts.System, logger *slog.Logger) *Runtime {
	return &Runtime{
		Parsers:  parsers.Default(),
		Strategy: NewStrategy(cfg, ps, logger),
		Logger:   logger.With("system", "pipeline"),
	}
}

// NewStrategy returns the AI strategy when configured, otherwise the
// template strategy.
func NewStrategy(cfg *config.Config, ps prompts.System, logger *slog.Logger) narrative.Strategy {
	if cfg.Narrative.Strategy != config.StrategyAI {
		return narrative.Template{}
	}
	return narrative.NewAI(
		narrative.NewAgentGenerator(cfg.Agent),
		ps,
		cfg.Narrative,
		logger,
	)
}

func (rt *Runtime) now() time.Time {
	if rt.Now != nil {
		return rt.Now()
	}
	return time.Now()
}
