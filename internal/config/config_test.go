package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(New())
	require.NoError(t, err)

	assert.False(t, cfg.Verbose)
	assert.Zero(t, cfg.MaxActions)
	assert.Equal(t, DefaultMaxSteps, cfg.MaxSteps)
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, DefaultUserDataDir, cfg.UserDataDir)
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.True(t, cfg.Vision)
	assert.Empty(t, cfg.CDPURL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("BROWSE_MAX_ACTIONS", "4")
	t.Setenv("BROWSE_MODEL", "gpt-4o-mini")
	t.Setenv("BROWSE_HEADLESS", "true")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:8080/v1")

	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.MaxActions)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.True(t, cfg.Headless)
	assert.Equal(t, "http://localhost:8080/v1", cfg.BaseURL)
}

func TestLoadRejectsNonPositiveMaxActions(t *testing.T) {
	v := New()
	v.Set(KeyMaxActions, 0)

	_, err := Load(v)
	assert.ErrorIs(t, err, ErrInvalidMaxActions)
}

func TestLoadRejectsNonPositiveMaxSteps(t *testing.T) {
	v := New()
	v.Set(KeyMaxSteps, -1)

	_, err := Load(v)
	assert.ErrorIs(t, err, ErrInvalidMaxSteps)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "browse.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: gpt-4.1\nmax_steps: 12\nplan: true\n"), 0o600))

	v := New()
	require.NoError(t, ReadFile(v, path))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4.1", cfg.Model)
	assert.Equal(t, 12, cfg.MaxSteps)
	assert.True(t, cfg.Plan)
}

func TestLoadEnvFileDoesNotOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BROWSE_TEST_ONE=fromfile\nBROWSE_TEST_TWO=fromfile\n"), 0o600))

	t.Setenv("BROWSE_TEST_ONE", "fromenv")
	t.Cleanup(func() { _ = os.Unsetenv("BROWSE_TEST_TWO") })

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "fromenv", os.Getenv("BROWSE_TEST_ONE"))
	assert.Equal(t, "fromfile", os.Getenv("BROWSE_TEST_TWO"))
}

func TestLoadEnvFileMissingIsIgnored(t *testing.T) {
	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
}
