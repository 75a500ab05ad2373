package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestParseArgs_Defaults(t *testing.T) {
	opts, err := ParseArgs([]string{"-s", "k", "-c", ""}, env(nil))
	require.NoError(t, err)

	assert.Equal(t, "localhost:8000", opts.Port)
	assert.Equal(t, "", opts.DatabaseDSN)
	assert.Equal(t, "media", opts.MediaRoot)
	assert.Equal(t, "/media/", opts.MediaURL)
	assert.Equal(t, "info", opts.LogLevel)
}

func TestParseArgs_Precedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{
		"address": "0.0.0.0:9000",
		"database_dsn": "postgres://file",
		"jwt_secret": "from-file",
		"log_level": "debug"
	}`), 0o600))

	opts, err := ParseArgs(
		[]string{"-a", ":1234", "-d", "postgres://flag", "-c", cfgPath},
		env(map[string]string{"DATABASE_DSN": "postgres://env"}),
	)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", opts.Port, "file overrides flag")
	assert.Equal(t, "postgres://env", opts.DatabaseDSN, "env overrides file")
	assert.Equal(t, "from-file", opts.JWTSecret)
	assert.Equal(t, "debug", opts.LogLevel)
}

func TestParseArgs_ConfigFromEnv(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "other.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"jwt_secret": "x", "media_root": "/srv/media"}`), 0o600))

	opts, err := ParseArgs(nil, env(map[string]string{"CONFIG": cfgPath}))
	require.NoError(t, err)
	assert.Equal(t, "/srv/media", opts.MediaRoot)
}

func TestParseArgs_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{`), 0o600))

	_, err := ParseArgs([]string{"-c", bad, "-s", "k"}, env(nil))
	assert.ErrorContains(t, err, "parsing config file")

	_, err = ParseArgs([]string{"-c", ""}, env(nil))
	assert.ErrorContains(t, err, "jwt secret is required")

	_, err = ParseArgs([]string{"-unknown"}, env(nil))
	assert.Error(t, err)
}
