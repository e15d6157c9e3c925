package config

import (
	"errors"
	"fmt"
	"os"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// Agent environment variables. They are read only when the narrative
// strategy is ai, since the template strategy never contacts a model.
const (
	// EnvAgentProviderName selects the go-agents provider (ollama, azure, ...).
	EnvAgentProviderName = "OTREPORT_AGENT_PROVIDER_NAME"
	// EnvAgentBaseURL is the provider endpoint the narrative requests go to.
	EnvAgentBaseURL = "OTREPORT_AGENT_BASE_URL"
	// EnvAgentModelName names the model that writes report sections.
	EnvAgentModelName = "OTREPORT_AGENT_MODEL_NAME"

	EnvAgentToken      = "OTREPORT_AGENT_TOKEN"
	EnvAgentDeployment = "OTREPORT_AGENT_DEPLOYMENT"
	EnvAgentAPIVersion = "OTREPORT_AGENT_API_VERSION"
	EnvAgentAuthType   = "OTREPORT_AGENT_AUTH_TYPE"
)

// providerOptions maps provider option keys to the variables that set them.
var providerOptions = []struct{ key, env string }{
	{"token", EnvAgentToken},
	{"deployment", EnvAgentDeployment},
	{"api_version", EnvAgentAPIVersion},
	{"auth_type", EnvAgentAuthType},
}

// ErrAgentIncomplete reports an agent that cannot serve the ai strategy.
var ErrAgentIncomplete = errors.New("required when narrative strategy is " + StrategyAI)

// FinalizeAgent prepares the model agent used by the ai narrative strategy.
// The [agent] table is layered over go-agents' defaults, then OTREPORT_AGENT_
// variables apply, and the result must name an agent, provider and model.
func FinalizeAgent(c *gaconfig.AgentConfig) error {
	merged := gaconfig.DefaultAgentConfig()
	merged.Merge(c)
	*c = merged

	applyAgentEnv(c)
	return checkAgent(c)
}

func applyAgentEnv(c *gaconfig.AgentConfig) {
	if c.Provider == nil {
		c.Provider = &gaconfig.ProviderConfig{}
	}
	if c.Model == nil {
		c.Model = &gaconfig.ModelConfig{}
	}

	if v := os.Getenv(EnvAgentProviderName); v != "" {
		c.Provider.Name = v
	}
	if v := os.Getenv(EnvAgentBaseURL); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv(EnvAgentModelName); v != "" {
		c.Model.Name = v
	}

	for _, o := range providerOptions {
		v := os.Getenv(o.env)
		if v == "" {
			continue
		}
		if c.Provider.Options == nil {
			c.Provider.Options = make(map[string]any)
		}
		c.Provider.Options[o.key] = v
	}
}

func checkAgent(c *gaconfig.AgentConfig) error {
	switch {
	case c.Name == "":
		return fmt.Errorf("agent name %w", ErrAgentIncomplete)
	case c.Provider == nil || c.Provider.Name == "":
		return fmt.Errorf("provider name %w", ErrAgentIncomplete)
	case c.Model == nil || c.Model.Name == "":
		return fmt.Errorf("model name %w", ErrAgentIncomplete)
	}
	return nil
}
