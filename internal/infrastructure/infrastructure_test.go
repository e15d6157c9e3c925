package infrastructure_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/otreport/internal/config"
	"github.com/JaimeStill/otreport/internal/infrastructure"
	"github.com/JaimeStill/otreport/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=otreportstore;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/otreportstore;"

func TestNew(t *testing.T) {
	t.Run("local storage", func(t *testing.T) {
		cfg := &config.Config{
			Outputs: config.OutputsConfig{Directory: t.TempDir()},
			Logging: config.LoggingConfig{Level: "info", Format: "text"},
		}

		infra, err := infrastructure.New(cfg)
		require.NoError(t, err)
		assert.NotNil(t, infra.Lifecycle)
		assert.NotNil(t, infra.Logger)
		assert.NotNil(t, infra.Storage)
		assert.NoError(t, infra.Start())
	})

	t.Run("blob storage", func(t *testing.T) {
		cfg := &config.Config{
			Storage: storage.Config{ContainerName: "reports", ConnectionString: azuriteConnString},
		}

		infra, err := infrastructure.New(cfg)
		require.NoError(t, err)
		assert.NotNil(t, infra.Storage)
	})

	t.Run("invalid connection string", func(t *testing.T) {
		cfg := &config.Config{
			Storage: storage.Config{ContainerName: "reports", ConnectionString: "not-a-connection-string"},
		}

		_, err := infrastructure.New(cfg)
		assert.Error(t, err)
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := infrastructure.NewLogger(&config.LoggingConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "section", "goals")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "goals", entry["section"])
}
