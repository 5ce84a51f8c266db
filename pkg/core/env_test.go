package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DEPLOYCFG_TEST_SECRET=\"alpha beta\"\n# comment\nDEPLOYCFG_TEST_BLANK=\n"), 0600))

	env, err := LoadEnv(path)
	require.NoError(t, err)

	secret, err := env.Secret("DEPLOYCFG_TEST_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "alpha beta", secret)

	_, err = env.Secret("DEPLOYCFG_TEST_BLANK")
	assert.ErrorIs(t, err, ErrMissingSecret)

	// Reading the file must not leak into the process environment
	_, set := os.LookupEnv("DEPLOYCFG_TEST_SECRET")
	assert.False(t, set)
}

func TestLoadEnvProcessOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DEPLOYCFG_TEST_OVERRIDE=file\n"), 0600))
	t.Setenv("DEPLOYCFG_TEST_OVERRIDE", "process")

	env, err := LoadEnv(path)
	require.NoError(t, err)

	v, err := env.Secret("DEPLOYCFG_TEST_OVERRIDE")
	require.NoError(t, err)
	assert.Equal(t, "process", v)
}

func TestLoadEnvMissingFile(t *testing.T) {
	env, err := LoadEnv(filepath.Join(t.TempDir(), "nope.env"))
	require.NoError(t, err)
	_, err = env.Secret("DEPLOYCFG_TEST_UNSET")
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestSecretMissing(t *testing.T) {
	env := NewEnv(map[string]string{MnemonicEnv: "  "})

	_, err := env.Secret(MnemonicEnv)
	require.ErrorIs(t, err, ErrMissingSecret)
	assert.Contains(t, err.Error(), MnemonicEnv)

	_, err = env.Secret(MnemonicTestEnv)
	require.ErrorIs(t, err, ErrMissingSecret)
}

func TestNewEnvCopies(t *testing.T) {
	vars := map[string]string{"A": "1"}
	env := NewEnv(vars)
	vars["A"] = "2"

	v, err := env.Secret("A")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}
