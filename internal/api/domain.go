package api

import (
	"github.com/JaimeStill/otreport/internal/extract"
	"github.com/JaimeStill/otreport/internal/pipeline"
	"github.com/JaimeStill/otreport/internal/prompts"
	"github.com/JaimeStill/otreport/internal/render"
	"github.com/JaimeStill/otreport/internal/reports"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Prompts prompts.System
	Reports reports.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	cfg := runtime.Config

	promptsSystem := prompts.New(cfg.Prompts, runtime.Logger)

	reportsSystem := reports.New(
		pipeline.NewRuntime(cfg, promptsSystem, runtime.Logger),
		extract.New(runtime.Logger),
		render.Default(),
		runtime.Storage,
		cfg.Outputs,
		runtime.Logger,
	)

	return &Domain{
		Prompts: promptsSystem,
		Reports: reportsSystem,
	}
}
