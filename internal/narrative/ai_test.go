package narrative_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/otreport/internal/config"
	"github.com/JaimeStill/otreport/internal/narrative"
	"github.com/JaimeStill/otreport/internal/prompts"
)

const generated = `{
  "paragraphs": ["Generated prose."],
  "items": ["Generated item."],
  "goals": [
    {"domain": "Language", "target": "name five familiar pictures in 4 out of 5 opportunities", "timeframe": "Within three months"},
    {"domain": "Fine Motor", "target": "string beads", "timeframe": "Within six months"}
  ]
}`

type fakeGenerator struct {
	mu      sync.Mutex
	calls   map[string]int
	respond func(ctx context.Context, prompt string, call int) (string, error)
}

func newFake(respond func(ctx context.Context, prompt string, call int) (string, error)) *fakeGenerator {
	return &fakeGenerator{calls: make(map[string]int), respond: respond}
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.calls[prompt]++
	call := f.calls[prompt]
	f.mu.Unlock()
	return f.respond(ctx, prompt, call)
}

func (f *fakeGenerator) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func narrativeConfig() config.NarrativeConfig {
	return config.NarrativeConfig{
		Strategy:          config.StrategyAI,
		Timeout:           "200ms",
		MaxRetries:        new(2),
		InitialBackoff:    "1ms",
		MaxBackoff:        "2ms",
		RequestsPerMinute: 60000,
		Burst:             10,
		Concurrency:       3,
	}
}

func newAI(gen narrative.Generator, cfg config.NarrativeConfig) *narrative.AI {
	return narrative.NewAI(gen, prompts.New(config.PromptsConfig{}, discard()), cfg, discard())
}

func isGoalsPrompt(prompt string) bool {
	return strings.Contains(prompt, `"goals": [`)
}

func TestAISynthesize(t *testing.T) {
	gen := newFake(func(context.Context, string, int) (string, error) {
		return "```json\n" + generated + "\n```", nil
	})
	sections, err := newAI(gen, narrativeConfig()).Synthesize(context.Background(), sampleInput())
	require.NoError(t, err)
	require.Len(t, sections, len(narrative.Kinds()))
	assert.Equal(t, len(narrative.Kinds()), gen.total())

	for i, s := range sections {
		assert.Equal(t, narrative.Kinds()[i], s.Kind)
		assert.Equal(t, narrative.AIName, s.Strategy, s.Kind)
		assert.False(t, s.Empty(), s.Kind)
	}

	assert.Equal(t, "Generated prose.", sections[0].Blocks[0].Text)

	t.Run("results keep score tables", func(t *testing.T) {
		var tables int
		for _, b := range sections[1].Blocks {
			if b.Kind == narrative.BlockTable {
				tables++
			}
		}
		assert.Equal(t, 4, tables)
	})

	t.Run("strengths and needs keep the profile lists", func(t *testing.T) {
		assert.Contains(t, text(sections[3]), "Motor (Bayley-4 Cognitive, Language, and Motor): Extremely Low")
	})

	t.Run("goals reconciled to needs", func(t *testing.T) {
		goals := sections[5].Goals
		require.Len(t, goals, len(sampleNeeds))
		for i, g := range goals {
			assert.Equal(t, sampleNeeds[i], g.Domain)
		}
		assert.Equal(t, "name five familiar pictures in 4 out of 5 opportunities", goals[0].Target)
		assert.Equal(t, "Within three months", goals[0].Timeframe)
		assert.Equal(t, narrative.GoalTimeframe, goals[1].Timeframe)
	})
}

func TestAIPromptCarriesClinicalData(t *testing.T) {
	var seen []string
	var mu sync.Mutex
	gen := newFake(func(_ context.Context, prompt string, _ int) (string, error) {
		mu.Lock()
		seen = append(seen, prompt)
		mu.Unlock()
		return generated, nil
	})
	_, err := newAI(gen, narrativeConfig()).Synthesize(context.Background(), sampleInput())
	require.NoError(t, err)

	require.NotEmpty(t, seen)
	for _, p := range seen {
		assert.Contains(t, p, "Clinical data:")
		assert.Contains(t, p, `"child": "Ana"`)
		assert.Contains(t, p, `"Oral Motor Skills"`)
	}
}

func TestAIFallback(t *testing.T) {
	t.Run("invalid response is not retried", func(t *testing.T) {
		gen := newFake(func(context.Context, string, int) (string, error) {
			return "I cannot help with that.", nil
		})
		sections, err := newAI(gen, narrativeConfig()).Synthesize(context.Background(), sampleInput())
		require.NoError(t, err)
		assert.Equal(t, len(narrative.Kinds()), gen.total())
		for _, s := range sections {
			assert.Equal(t, narrative.TemplateName, s.Strategy)
		}
	})

	t.Run("transient errors exhaust retries", func(t *testing.T) {
		gen := newFake(func(context.Context, string, int) (string, error) {
			return "", errors.New("503 service unavailable")
		})
		cfg := narrativeConfig()
		sections, err := newAI(gen, cfg).Synthesize(context.Background(), sampleInput())
		require.NoError(t, err)
		assert.Equal(t, len(narrative.Kinds())*(cfg.Retries()+1), gen.total())
		assert.Len(t, sections[5].Goals, len(sampleNeeds))
	})

	t.Run("rate limit then success", func(t *testing.T) {
		gen := newFake(func(_ context.Context, _ string, call int) (string, error) {
			if call == 1 {
				return "", errors.New("429 rate limit exceeded")
			}
			return generated, nil
		})
		sections, err := newAI(gen, narrativeConfig()).Synthesize(context.Background(), sampleInput())
		require.NoError(t, err)
		for _, s := range sections {
			assert.Equal(t, narrative.AIName, s.Strategy)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		gen := newFake(func(ctx context.Context, _ string, _ int) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		})
		cfg := narrativeConfig()
		cfg.Timeout = "10ms"
		cfg.MaxRetries = new(0)
		cfg.Concurrency = 6
		sections, err := newAI(gen, cfg).Synthesize(context.Background(), sampleInput())
		require.NoError(t, err)
		for _, s := range sections {
			assert.Equal(t, narrative.TemplateName, s.Strategy)
		}
	})

	t.Run("one section only", func(t *testing.T) {
		gen := newFake(func(_ context.Context, prompt string, _ int) (string, error) {
			if isGoalsPrompt(prompt) {
				return `{"goals": []}`, errors.New("upstream closed connection")
			}
			return generated, nil
		})
		sections, err := newAI(gen, narrativeConfig()).Synthesize(context.Background(), sampleInput())
		require.NoError(t, err)
		for _, s := range sections {
			want := narrative.AIName
			if s.Kind == narrative.KindGoals {
				want = narrative.TemplateName
			}
			assert.Equal(t, want, s.Strategy, s.Kind)
		}
		assert.Len(t, sections[5].Goals, len(sampleNeeds))
	})
}

func TestAICancelled(t *testing.T) {
	gen := newFake(func(context.Context, string, int) (string, error) {
		return generated, nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sections, err := newAI(gen, narrativeConfig()).Synthesize(ctx, sampleInput())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, sections)
	assert.Zero(t, gen.total())
}

func TestReconcileGoals(t *testing.T) {
	profile := narrative.BuildProfile(sampleInput().Records)
	goals := narrative.ReconcileGoals([]narrative.Goal{
		{Domain: "seeking", Target: "use a fidget during circle time.", Timeframe: ""},
		{Domain: "Seeking", Target: "duplicate goal"},
		{Domain: "Cognitive Composite", Target: "not a need"},
	}, profile)

	require.Len(t, goals, len(sampleNeeds))
	assert.Equal(t, "Seeking", goals[2].Domain)
	assert.Equal(t, "use a fidget during circle time", goals[2].Target)
	assert.Equal(t, narrative.GoalTimeframe, goals[2].Timeframe)
	for _, g := range goals {
		assert.NotEqual(t, "Cognitive Composite", g.Domain)
	}
}

func TestServiceError(t *testing.T) {
	err := &narrative.ServiceError{Section: narrative.KindGoals, Kind: narrative.ErrTimeout, Err: context.DeadlineExceeded}
	assert.ErrorIs(t, err, narrative.ErrTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "timeout", narrative.ErrorKind(err))
	assert.Equal(t, "other", narrative.ErrorKind(errors.New("x")))
}
