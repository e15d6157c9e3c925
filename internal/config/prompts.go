package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

// EnvPromptsPrefix prefixes per-section instruction overrides, for example
// OTREPORT_PROMPTS_GOALS.
const EnvPromptsPrefix = "OTREPORT_PROMPTS_"

// PromptSections names the narrative sections whose instructions can be
// overridden.
var PromptSections = []string{
	"background",
	"results",
	"observations",
	"strengths_and_needs",
	"recommendations",
	"goals",
}

// PromptsConfig holds instruction overrides keyed by section kind. Output
// specifications are fixed and cannot be overridden.
type PromptsConfig struct {
	Instructions map[string]string `toml:"instructions"`
}

// Finalize applies environment variable overrides and validation.
func (c *PromptsConfig) Finalize() error {
	c.loadEnv()
	return c.validate()
}

// Merge overwrites overrides present in overlay, section by section.
func (c *PromptsConfig) Merge(overlay *PromptsConfig) {
	if len(overlay.Instructions) == 0 {
		return
	}
	if c.Instructions == nil {
		c.Instructions = make(map[string]string, len(overlay.Instructions))
	}
	for k, v := range overlay.Instructions {
		c.Instructions[k] = v
	}
}

func (c *PromptsConfig) loadEnv() {
	for _, section := range PromptSections {
		if v := os.Getenv(EnvPromptsPrefix + strings.ToUpper(section)); v != "" {
			if c.Instructions == nil {
				c.Instructions = make(map[string]string)
			}
			c.Instructions[section] = v
		}
	}
}

func (c *PromptsConfig) validate() error {
	for k, v := range c.Instructions {
		if !slices.Contains(PromptSections, k) {
			return fmt.Errorf("unknown section %q", k)
		}
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("empty instructions for %s", k)
		}
	}
	return nil
}
