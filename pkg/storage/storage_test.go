package storage_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/otreport/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=otreportstore;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/otreportstore;"

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew(t *testing.T) {
	t.Run("configured", func(t *testing.T) {
		sys, err := storage.New(&storage.Config{
			ContainerName:    "reports",
			ConnectionString: azuriteConnString,
		}, discard())
		require.NoError(t, err)
		assert.NotNil(t, sys)
	})

	t.Run("not configured", func(t *testing.T) {
		_, err := storage.New(&storage.Config{ContainerName: "reports"}, discard())
		assert.ErrorIs(t, err, storage.ErrNotConfigured)
	})

	t.Run("invalid connection string", func(t *testing.T) {
		_, err := storage.New(&storage.Config{
			ContainerName:    "reports",
			ConnectionString: "not-a-connection-string",
		}, discard())
		assert.Error(t, err)
	})
}

func TestLocal(t *testing.T) {
	ctx := context.Background()
	store := storage.NewLocal(t.TempDir(), discard())
	key := "session/ana-lopez-2023-06-01.json"

	exists, err := store.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Upload(ctx, key, strings.NewReader(`{"ok":true}`), "application/json"))

	exists, err = store.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := store.Download(ctx, key)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(body))

	require.NoError(t, store.Delete(ctx, key))
	assert.ErrorIs(t, store.Delete(ctx, key), storage.ErrNotFound)

	_, err = store.Download(ctx, key)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLocalKeys(t *testing.T) {
	store := storage.NewLocal(t.TempDir(), discard())
	ctx := context.Background()

	assert.ErrorIs(t, store.Upload(ctx, "", strings.NewReader("x"), "text/plain"), storage.ErrEmptyKey)
	assert.ErrorIs(t, store.Upload(ctx, "../escape", strings.NewReader("x"), "text/plain"), storage.ErrInvalidKey)
	for _, key := range []string{"a/../../b", "/abs", "a//b", "a\\b", "a/./b", "trailing/"} {
		_, err := store.Exists(ctx, key)
		assert.ErrorIs(t, err, storage.ErrInvalidKey, key)
	}
}

func TestLocalList(t *testing.T) {
	ctx := context.Background()

	t.Run("missing root", func(t *testing.T) {
		store := storage.NewLocal(t.TempDir()+"/absent", discard())
		objects, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, objects)
	})

	store := storage.NewLocal(t.TempDir(), discard())
	for key, body := range map[string]string{
		"s1/report.pdf":  "pdf-bytes",
		"s1/report.json": "{}",
		"s2/report.md":   "# Report",
	} {
		require.NoError(t, store.Upload(ctx, key, strings.NewReader(body), "application/octet-stream"))
	}

	objects, err := store.List(ctx, "s1/")
	require.NoError(t, err)
	assert.Equal(t, []storage.Object{
		{Key: "s1/report.json", Size: 2},
		{Key: "s1/report.pdf", Size: 9},
	}, objects)

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestConfig(t *testing.T) {
	env := &storage.Env{
		ContainerName:    "TEST_STORAGE_CONTAINER_NAME",
		ConnectionString: "TEST_STORAGE_CONNECTION_STRING",
		KeyPrefix:        "TEST_STORAGE_KEY_PREFIX",
	}

	t.Run("defaults", func(t *testing.T) {
		cfg := &storage.Config{}
		require.NoError(t, cfg.Finalize(env))
		assert.Equal(t, "reports", cfg.ContainerName)
		assert.False(t, cfg.Configured())
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv(env.ConnectionString, azuriteConnString)
		t.Setenv(env.KeyPrefix, "clinic-a")

		cfg := &storage.Config{}
		require.NoError(t, cfg.Finalize(env))
		assert.True(t, cfg.Configured())
		assert.Equal(t, "clinic-a", cfg.KeyPrefix)
	})

	t.Run("traversal prefix", func(t *testing.T) {
		cfg := &storage.Config{KeyPrefix: "../other"}
		assert.ErrorIs(t, cfg.Finalize(env), storage.ErrInvalidKey)
	})

	t.Run("merge", func(t *testing.T) {
		cfg := &storage.Config{ContainerName: "reports"}
		cfg.Merge(&storage.Config{KeyPrefix: "clinic-b"})
		assert.Equal(t, "reports", cfg.ContainerName)
		assert.Equal(t, "clinic-b", cfg.KeyPrefix)
	})
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{storage.ErrNotFound, http.StatusNotFound},
		{storage.ErrEmptyKey, http.StatusBadRequest},
		{storage.ErrInvalidKey, http.StatusBadRequest},
		{storage.ErrNotConfigured, http.StatusServiceUnavailable},
		{io.EOF, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, storage.MapHTTPStatus(tt.err))
		})
	}
}
