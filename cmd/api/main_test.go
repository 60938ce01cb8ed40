package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	if old, ok := os.LookupEnv(key); ok {
		require.NoError(t, os.Unsetenv(key))
		t.Cleanup(func() { _ = os.Setenv(key, old) })
	}
}

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"4000\"\n"), 0o600))
	return path
}

func TestLoadConfigPortPrecedence(t *testing.T) {
	unsetEnv(t, "PORT")
	path := writeConfig(t)

	t.Run("file beats default", func(t *testing.T) {
		cmd := newRootCommand()
		require.NoError(t, cmd.ParseFlags([]string{"--config", path}))

		cfg, err := loadConfig(cmd)
		require.NoError(t, err)
		assert.Equal(t, "4000", cfg.Server.Port)
	})

	t.Run("env beats file", func(t *testing.T) {
		t.Setenv("PORT", "5000")
		cmd := newRootCommand()
		require.NoError(t, cmd.ParseFlags([]string{"--config", path}))

		cfg, err := loadConfig(cmd)
		require.NoError(t, err)
		assert.Equal(t, "5000", cfg.Server.Port)
	})

	t.Run("flag beats env", func(t *testing.T) {
		t.Setenv("PORT", "5000")
		cmd := newRootCommand()
		require.NoError(t, cmd.ParseFlags([]string{"--config", path, "-p", "6000"}))

		cfg, err := loadConfig(cmd)
		require.NoError(t, err)
		assert.Equal(t, "6000", cfg.Server.Port)
	})

	t.Run("invalid flag port is rejected", func(t *testing.T) {
		cmd := newRootCommand()
		require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--port", "http"}))

		_, err := loadConfig(cmd)
		assert.Error(t, err)
	})
}

func TestRootCommandRejectsArguments(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"serve"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	assert.Error(t, cmd.Execute())
}
