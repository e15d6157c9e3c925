package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/otreport/internal/config"
)

func missingFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.toml")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadFile(missingFile(t))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "/api", cfg.API.BasePath)
	assert.Equal(t, int64(50*1024*1024), cfg.API.MaxUploadSizeBytes())
	assert.Equal(t, config.StrategyTemplate, cfg.Narrative.Strategy)
	assert.Equal(t, 45*time.Second, cfg.Narrative.TimeoutDuration())
	assert.Equal(t, 3, cfg.Narrative.Retries())
	assert.Equal(t, 1, cfg.Narrative.Concurrency)
	assert.Equal(t, []string{config.FormatPDF, config.FormatJSON}, cfg.Outputs.Formats)
	assert.Equal(t, config.ReportProfessional, cfg.Outputs.ReportType)
	assert.Equal(t, "reports", cfg.Storage.ContainerName)
	assert.False(t, cfg.Storage.Configured())
	assert.Equal(t, slog.LevelInfo, cfg.Logging.SlogLevel())
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeoutDuration())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
shutdown_timeout = "10s"

[server]
port = 9090

[narrative]
timeout = "20s"
max_retries = 5

[outputs]
formats = ["workbook", "json"]
report_type = "basic"

[prompts.instructions]
goals = "Write two goals per need."

[logging]
level = "debug"
format = "json"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeoutDuration())
	assert.Equal(t, 20*time.Second, cfg.Narrative.TimeoutDuration())
	assert.Equal(t, 5, cfg.Narrative.Retries())
	assert.True(t, cfg.Outputs.Enabled(config.FormatWorkbook))
	assert.False(t, cfg.Outputs.Enabled(config.FormatPDF))
	assert.Equal(t, config.ReportBasic, cfg.Outputs.ReportType)
	assert.Equal(t, "Write two goals per need.", cfg.Prompts.Instructions["goals"])
	assert.Equal(t, slog.LevelDebug, cfg.Logging.SlogLevel())
}

func TestRetriesDisabled(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("[narrative]\nmax_retries = 0\n"), 0o600))

		cfg, err := config.LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 0, cfg.Narrative.Retries())
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv(config.EnvNarrativeMaxRetries, "0")

		cfg, err := config.LoadFile(missingFile(t))
		require.NoError(t, err)
		assert.Equal(t, 0, cfg.Narrative.Retries())
	})
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(config.EnvServerPort, "7070")
	t.Setenv(config.EnvNarrativeConcurrency, "2")
	t.Setenv(config.EnvOutputsFormats, "PDF, docs")
	t.Setenv(config.EnvPromptsPrefix+"RESULTS", "Summarize each composite.")

	cfg, err := config.LoadFile(missingFile(t))
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 2, cfg.Narrative.Concurrency)
	assert.Equal(t, []string{"pdf", "docs"}, cfg.Outputs.Formats)
	assert.Equal(t, "Summarize each composite.", cfg.Prompts.Instructions["results"])
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  string
		val  string
	}{
		{"strategy", config.EnvNarrativeStrategy, "oracle"},
		{"timeout", config.EnvNarrativeTimeout, "soon"},
		{"concurrency", config.EnvNarrativeConcurrency, "0"},
		{"max retries", config.EnvNarrativeMaxRetries, "-1"},
		{"format", config.EnvOutputsFormats, "pdf,fax"},
		{"report type", config.EnvOutputsReportType, "brief"},
		{"logging format", config.EnvLoggingFormat, "xml"},
		{"port", config.EnvServerPort, "70000"},
		{"base path", "OTREPORT_API_BASE_PATH", "/api/"},
		{"cors max age", "OTREPORT_CORS_MAX_AGE", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, tt.val)
			_, err := config.LoadFile(missingFile(t))
			assert.Error(t, err)
		})
	}
}

func TestMerge(t *testing.T) {
	base := &config.Config{
		Narrative: config.NarrativeConfig{Strategy: config.StrategyTemplate, MaxRetries: new(2)},
		Prompts:   config.PromptsConfig{Instructions: map[string]string{"goals": "base"}},
	}
	overlay := &config.Config{
		Narrative: config.NarrativeConfig{MaxRetries: new(0)},
		Prompts:   config.PromptsConfig{Instructions: map[string]string{"results": "overlay"}},
	}

	base.Merge(overlay)

	assert.Equal(t, config.StrategyTemplate, base.Narrative.Strategy)
	assert.Equal(t, 0, base.Narrative.Retries())
	assert.Equal(t, map[string]string{"goals": "base", "results": "overlay"}, base.Prompts.Instructions)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"pdf", "json"}, config.SplitList(" PDF ,, json "))
	assert.Empty(t, config.SplitList(" , "))
}

func TestFinalizeAgent(t *testing.T) {
	t.Run("defaults and env", func(t *testing.T) {
		t.Setenv(config.EnvAgentModelName, "llama3.2:3b")
		t.Setenv(config.EnvAgentToken, "secret")

		var agent gaconfig.AgentConfig
		require.NoError(t, config.FinalizeAgent(&agent))

		assert.Equal(t, "ollama", agent.Provider.Name)
		assert.Equal(t, "llama3.2:3b", agent.Model.Name)
		assert.Equal(t, "secret", agent.Provider.Options["token"])
	})

	t.Run("model required", func(t *testing.T) {
		var agent gaconfig.AgentConfig
		err := config.FinalizeAgent(&agent)
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrAgentIncomplete)
		assert.Contains(t, err.Error(), "model name required when narrative strategy is ai")
	})

	t.Run("only checked for the ai strategy", func(t *testing.T) {
		_, err := config.LoadFile(missingFile(t))
		require.NoError(t, err)

		t.Setenv(config.EnvNarrativeStrategy, config.StrategyAI)
		_, err = config.LoadFile(missingFile(t))
		assert.ErrorIs(t, err, config.ErrAgentIncomplete)
	})
}

func TestServerConfig(t *testing.T) {
	t.Run("ipv6 address", func(t *testing.T) {
		t.Setenv(config.EnvServerHost, "::1")

		cfg, err := config.LoadFile(missingFile(t))
		require.NoError(t, err)
		assert.Equal(t, "[::1]:8080", cfg.Server.Addr())
		assert.Equal(t, 15*time.Minute, cfg.Server.WriteTimeoutDuration())
	})

	t.Run("non-positive write timeout", func(t *testing.T) {
		t.Setenv(config.EnvServerWriteTimeout, "0s")

		_, err := config.LoadFile(missingFile(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "write_timeout")
	})
}
