package prompts

import (
	"log/slog"

	"github.com/JaimeStill/otreport/internal/config"
)

// System defines the public contract for prompt lookups.
type System interface {
	Handler() *Handler

	// Instructions returns the configured override for stage, or the
	// built-in default when none is set.
	Instructions(stage Stage) (string, error)
	Spec(stage Stage) (string, error)
	Prompt(stage Stage) (Prompt, error)
	List() []Prompt
}

type system struct {
	overrides map[Stage]string
	logger    *slog.Logger
}

// New creates a prompt system backed by the instruction overrides in cfg.
// cfg is expected to be finalized; keys are validated stage names.
func New(cfg config.PromptsConfig, logger *slog.Logger) System {
	overrides := make(map[Stage]string, len(cfg.Instructions))
	for k, v := range cfg.Instructions {
		if stage, err := ParseStage(k); err == nil {
			overrides[stage] = v
		}
	}
	s := &system{
		overrides: overrides,
		logger:    logger.With("system", "prompts"),
	}
	if len(overrides) > 0 {
		s.logger.Info("instruction overrides loaded", "count", len(overrides))
	}
	return s
}

func (s *system) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *system) Instructions(stage Stage) (string, error) {
	if text, ok := s.overrides[stage]; ok {
		return text, nil
	}
	return Instructions(stage)
}

func (s *system) Spec(stage Stage) (string, error) {
	return Spec(stage)
}

func (s *system) Prompt(stage Stage) (Prompt, error) {
	text, err := s.Instructions(stage)
	if err != nil {
		return Prompt{}, err
	}
	spec, err := s.Spec(stage)
	if err != nil {
		return Prompt{}, err
	}
	_, overridden := s.overrides[stage]
	return Prompt{
		Stage:        stage,
		Instructions: text,
		Spec:         spec,
		Overridden:   overridden,
	}, nil
}

func (s *system) List() []Prompt {
	out := make([]Prompt, 0, len(stages))
	for _, stage := range stages {
		p, err := s.Prompt(stage)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}
