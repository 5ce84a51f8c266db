package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deploycfg/pkg/core"
)

func runArgs(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	env := filepath.Join(t.TempDir(), ".env")
	err := run(append([]string{"-env", env}, args...), &out)
	return out.String(), err
}

func TestRunNetworks(t *testing.T) {
	out, err := runArgs(t, "-action", "networks", "-root", "/project")
	require.NoError(t, err)
	assert.Contains(t, out, "ftm_testnet")
	assert.Contains(t, out, "127.0.0.1:7545")
	assert.Contains(t, out, "Artifacts: /project/build")
}

func TestRunShow(t *testing.T) {
	out, err := runArgs(t, "-action", "show", "-network", "ftm")
	require.NoError(t, err)
	assert.Contains(t, out, "network_id: 250")
}

func TestRunErrorsReturnInsteadOfExiting(t *testing.T) {
	_, err := runArgs(t, "-action", "show", "-network", "mainnet")
	assert.ErrorIs(t, err, core.ErrUnknownNetwork)

	_, err = runArgs(t, "-action", "deploy")
	assert.ErrorIs(t, err, errUnknownAction)
}

func TestRunAccountsWithoutSecret(t *testing.T) {
	t.Setenv(core.MnemonicEnv, "")

	_, err := runArgs(t, "-action", "accounts", "-network", "ftm")
	assert.ErrorIs(t, err, core.ErrMissingSecret)
}
