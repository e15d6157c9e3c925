package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Narrative strategies.
const (
	StrategyAI       = "ai"
	StrategyTemplate = "template"
)

const (
	EnvNarrativeStrategy          = "OTREPORT_NARRATIVE_STRATEGY"
	EnvNarrativeTimeout           = "OTREPORT_NARRATIVE_TIMEOUT"
	EnvNarrativeMaxRetries        = "OTREPORT_NARRATIVE_MAX_RETRIES"
	EnvNarrativeInitialBackoff    = "OTREPORT_NARRATIVE_INITIAL_BACKOFF"
	EnvNarrativeMaxBackoff        = "OTREPORT_NARRATIVE_MAX_BACKOFF"
	EnvNarrativeRequestsPerMinute = "OTREPORT_NARRATIVE_REQUESTS_PER_MINUTE"
	EnvNarrativeBurst             = "OTREPORT_NARRATIVE_BURST"
	EnvNarrativeConcurrency       = "OTREPORT_NARRATIVE_CONCURRENCY"
)

// NarrativeConfig selects the narrative strategy and bounds the calls the
// AI strategy makes to the language model.
type NarrativeConfig struct {
	Strategy string `toml:"strategy"`
	Timeout  string `toml:"timeout"`
	// MaxRetries is a pointer so an explicit 0 disables retries instead of
	// falling back to the default.
	MaxRetries     *int   `toml:"max_retries"`
	InitialBackoff string `toml:"initial_backoff"`
	MaxBackoff     string `toml:"max_backoff"`
	// RequestsPerMinute and Burst throttle section requests within one run.
	RequestsPerMinute int `toml:"requests_per_minute"`
	Burst             int `toml:"burst"`
	// Concurrency is how many sections may be in flight at once.
	Concurrency int `toml:"concurrency"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *NarrativeConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Retries returns the retry budget for one section request.
func (c *NarrativeConfig) Retries() int {
	if c.MaxRetries == nil {
		return 0
	}
	return *c.MaxRetries
}

// InitialBackoffDuration returns InitialBackoff as a time.Duration.
func (c *NarrativeConfig) InitialBackoffDuration() time.Duration {
	d, _ := time.ParseDuration(c.InitialBackoff)
	return d
}

// MaxBackoffDuration returns MaxBackoff as a time.Duration.
func (c *NarrativeConfig) MaxBackoffDuration() time.Duration {
	d, _ := time.ParseDuration(c.MaxBackoff)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *NarrativeConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay. MaxRetries is taken
// whenever the overlay sets it, including to 0.
func (c *NarrativeConfig) Merge(overlay *NarrativeConfig) {
	if overlay.Strategy != "" {
		c.Strategy = overlay.Strategy
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.MaxRetries != nil {
		c.MaxRetries = new(*overlay.MaxRetries)
	}
	if overlay.InitialBackoff != "" {
		c.InitialBackoff = overlay.InitialBackoff
	}
	if overlay.MaxBackoff != "" {
		c.MaxBackoff = overlay.MaxBackoff
	}
	if overlay.RequestsPerMinute != 0 {
		c.RequestsPerMinute = overlay.RequestsPerMinute
	}
	if overlay.Burst != 0 {
		c.Burst = overlay.Burst
	}
	if overlay.Concurrency != 0 {
		c.Concurrency = overlay.Concurrency
	}
}

func (c *NarrativeConfig) loadDefaults() {
	if c.Strategy == "" {
		c.Strategy = StrategyTemplate
	}
	if c.Timeout == "" {
		c.Timeout = "45s"
	}
	if c.MaxRetries == nil {
		c.MaxRetries = new(3)
	}
	if c.InitialBackoff == "" {
		c.InitialBackoff = "1s"
	}
	if c.MaxBackoff == "" {
		c.MaxBackoff = "10s"
	}
	if c.RequestsPerMinute == 0 {
		c.RequestsPerMinute = 30
	}
	if c.Burst == 0 {
		c.Burst = 1
	}
	if c.Concurrency == 0 {
		c.Concurrency = 1
	}
}

func (c *NarrativeConfig) loadEnv() {
	if v := os.Getenv(EnvNarrativeStrategy); v != "" {
		c.Strategy = v
	}
	if v := os.Getenv(EnvNarrativeTimeout); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(EnvNarrativeInitialBackoff); v != "" {
		c.InitialBackoff = v
	}
	if v := os.Getenv(EnvNarrativeMaxBackoff); v != "" {
		c.MaxBackoff = v
	}

	setInt := func(envVar string, dst *int) {
		if v := os.Getenv(envVar); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	if v := os.Getenv(EnvNarrativeMaxRetries); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = &n
		}
	}
	setInt(EnvNarrativeRequestsPerMinute, &c.RequestsPerMinute)
	setInt(EnvNarrativeBurst, &c.Burst)
	setInt(EnvNarrativeConcurrency, &c.Concurrency)
}

func (c *NarrativeConfig) validate() error {
	switch c.Strategy {
	case StrategyAI, StrategyTemplate:
	default:
		return fmt.Errorf("invalid strategy %q: must be %s or %s", c.Strategy, StrategyAI, StrategyTemplate)
	}
	durations := []struct{ name, value string }{
		{"timeout", c.Timeout},
		{"initial_backoff", c.InitialBackoff},
		{"max_backoff", c.MaxBackoff},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.name, err)
		}
		if v <= 0 {
			return fmt.Errorf("invalid %s: must be positive", d.name)
		}
	}
	if c.Retries() < 0 {
		return fmt.Errorf("invalid max_retries: %d", c.Retries())
	}
	if c.RequestsPerMinute < 1 {
		return fmt.Errorf("invalid requests_per_minute: %d", c.RequestsPerMinute)
	}
	if c.Burst < 1 {
		return fmt.Errorf("invalid burst: %d", c.Burst)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("invalid concurrency: %d", c.Concurrency)
	}
	return nil
}
