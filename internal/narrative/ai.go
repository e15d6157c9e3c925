package narrative

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/JaimeStill/otreport/internal/config"
	"github.com/JaimeStill/otreport/internal/prompts"
	"github.com/JaimeStill/otreport/pkg/formatting"
)

// AIName identifies sections written by the AI strategy.
const AIName = "ai"

type sectionResponse struct {
	Paragraphs []string `json:"paragraphs"`
	Items      []string `json:"items"`
	Goals      []Goal   `json:"goals"`
}

// AI asks a Generator for each section. A section the service cannot
// produce within the configured timeout and retries is written by the
// Template strategy instead; other sections are unaffected.
type AI struct {
	gen      Generator
	prompts  prompts.System
	fallback Template
	cfg      config.NarrativeConfig
	logger   *slog.Logger
}

// NewAI creates the AI strategy. cfg is expected to be finalized.
func NewAI(gen Generator, ps prompts.System, cfg config.NarrativeConfig, logger *slog.Logger) *AI {
	return &AI{
		gen:     gen,
		prompts: ps,
		cfg:     cfg,
		logger:  logger.With("system", "narrative", "strategy", AIName),
	}
}

func (a *AI) Name() string { return AIName }

// Synthesize requests every section, bounded by the configured concurrency
// and a rate limiter shared by the whole run. Cancelling ctx stops further
// requests and returns ctx's error with no sections.
func (a *AI) Synthesize(ctx context.Context, in Input) ([]Section, error) {
	profile := BuildProfile(in.Records)
	limiter := rate.NewLimiter(
		rate.Every(time.Minute/time.Duration(a.cfg.RequestsPerMinute)),
		a.cfg.Burst,
	)

	sections := make([]Section, len(kinds))

	var g errgroup.Group
	g.SetLimit(a.cfg.Concurrency)

	for i, kind := range kinds {
		g.Go(func() error {
			sections[i] = a.section(ctx, kind, in, profile, limiter)
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return sections, nil
}

func (a *AI) section(ctx context.Context, kind Kind, in Input, profile Profile, limiter *rate.Limiter) Section {
	if ctx.Err() == nil {
		s, err := a.generate(ctx, kind, in, profile, limiter)
		if err == nil {
			a.logger.InfoContext(ctx, "section generated", "section", kind)
			return s
		}
		if ctx.Err() == nil {
			a.logger.WarnContext(ctx, "section fell back to template",
				"section", kind,
				"error_kind", ErrorKind(err),
				"error", err,
			)
		}
	}
	return a.fallback.Section(kind, in, profile)
}

func (a *AI) generate(ctx context.Context, kind Kind, in Input, profile Profile, limiter *rate.Limiter) (Section, error) {
	prompt, err := ComposePrompt(a.prompts, kind.Stage(), in, profile)
	if err != nil {
		return Section{}, err
	}

	var resp sectionResponse
	op := func() error {
		if err := limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		callCtx, cancel := context.WithTimeout(ctx, a.cfg.TimeoutDuration())
		defer cancel()

		content, err := a.gen.Generate(callCtx, prompt)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return serviceError(kind, callCtx, err)
		}

		parsed, err := formatting.Parse[sectionResponse](content)
		if err != nil {
			return backoff.Permanent(&ServiceError{Section: kind, Kind: ErrInvalidResponse, Err: err})
		}
		resp = parsed
		return nil
	}

	if err := backoff.Retry(op, a.policy(ctx)); err != nil {
		return Section{}, err
	}

	return a.build(kind, in, profile, resp)
}

func (a *AI) policy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = a.cfg.InitialBackoffDuration()
	b.MaxInterval = a.cfg.MaxBackoffDuration()
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(a.cfg.Retries())), ctx)
}

// build turns a parsed response into a section. Deterministic parts of the
// section (score tables, strength and need lists, the goal set) always come
// from the template so both strategies agree on them.
func (a *AI) build(kind Kind, in Input, profile Profile, resp sectionResponse) (Section, error) {
	base := a.fallback.Section(kind, in, profile)
	paragraphs := clean(resp.Paragraphs)
	items := clean(resp.Items)

	invalid := func(reason string) (Section, error) {
		return Section{}, &ServiceError{Section: kind, Kind: ErrInvalidResponse, Err: errors.New(reason)}
	}

	var blocks []Block
	switch kind {
	case KindBackground, KindObservations:
		if len(paragraphs) == 0 {
			return invalid("no paragraphs")
		}
		blocks = paragraphBlocks(paragraphs)
	case KindResults:
		if len(paragraphs) == 0 {
			return invalid("no paragraphs")
		}
		blocks = paragraphBlocks(paragraphs)
		for _, b := range base.Blocks {
			if b.Kind == BlockTable {
				blocks = append(blocks, b)
			}
		}
	case KindStrengthsAndNeeds:
		prose := append(paragraphs, items...)
		if len(prose) == 0 {
			return invalid("no content")
		}
		blocks = append(paragraphBlocks(prose), base.Blocks...)
	case KindRecommendations:
		if len(items) == 0 {
			return invalid("no items")
		}
		blocks = append(paragraphBlocks(paragraphs), Bullets(items...))
	case KindGoals:
		goals := ReconcileGoals(resp.Goals, profile)
		s := goalsSection(in.Child(), goals)
		blocks = s.Blocks
		base.Goals = s.Goals
	}

	base.Blocks = blocks
	base.Strategy = AIName
	return base, nil
}

// ReconcileGoals returns exactly one goal per need domain, in profile order.
// A generated goal is matched to a need by domain name; needs without a
// usable generated goal get the template goal, and goals for domains that
// are not needs are dropped.
func ReconcileGoals(generated []Goal, profile Profile) []Goal {
	fallback := TemplateGoals(profile)
	out := make([]Goal, 0, len(profile.Needs))

	for i, need := range profile.Needs {
		goal := fallback[i]
		for _, g := range generated {
			if !matchesDomain(g.Domain, need) || strings.TrimSpace(g.Target) == "" {
				continue
			}
			goal = Goal{
				Domain:    need.Domain,
				Target:    strings.TrimSuffix(strings.TrimSpace(g.Target), "."),
				Timeframe: strings.TrimSpace(g.Timeframe),
			}
			if goal.Timeframe == "" {
				goal.Timeframe = GoalTimeframe
			}
			break
		}
		out = append(out, goal)
	}
	return out
}

func matchesDomain(domain string, f Finding) bool {
	domain = strings.TrimSpace(domain)
	return strings.EqualFold(domain, f.Domain) || strings.EqualFold(domain, f.Label())
}

func serviceError(kind Kind, callCtx context.Context, err error) error {
	se := &ServiceError{Section: kind, Kind: ErrUnavailable, Err: err}
	msg := strings.ToLower(err.Error())
	switch {
	case errors.Is(callCtx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		se.Kind = ErrTimeout
	case strings.Contains(msg, "429"), strings.Contains(msg, "rate limit"):
		se.Kind = ErrRateLimited
	}
	return se
}

func clean(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func paragraphBlocks(paragraphs []string) []Block {
	out := make([]Block, 0, len(paragraphs))
	for _, p := range paragraphs {
		out = append(out, Paragraph(p))
	}
	return out
}
