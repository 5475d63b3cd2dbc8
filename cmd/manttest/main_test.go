package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/manttest/internal/config"
	"github.com/jask/manttest/internal/prefs"
	"github.com/jask/manttest/internal/secrets"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		userPassword = ""
		configForce = false
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("MANTTEST_CONFIG", "")
	t.Setenv("MANTTEST_AUTH_SEED_PASSWORD", "")
	t.Setenv("MANTTEST_AUTH_JWT_SECRET", "")
	t.Setenv("MANTTEST_DATABASE_PATH", filepath.Join(home, "data", "test.db"))
	return home
}

func TestUserAddAndList(t *testing.T) {
	isolate(t)

	out, err := run(t, "user", "add", "ada", "--password", "lovelace")
	require.NoError(t, err)
	require.Contains(t, out, "added ada")

	_, err = run(t, "user", "add", "ada", "--password", "again")
	require.Error(t, err)

	out, err = run(t, "user", "list")
	require.NoError(t, err)
	require.Contains(t, out, "USERNAME")
	require.Contains(t, out, "ada")
	require.NotContains(t, out, "admin", "no seed user without a seed password")
	require.Contains(t, out, "never")
}

func TestSeedUserNeedsPassword(t *testing.T) {
	isolate(t)
	t.Setenv("MANTTEST_AUTH_SEED_PASSWORD", "first-run")

	out, err := run(t, "user", "list")
	require.NoError(t, err)
	require.Contains(t, out, "admin", "seed user is created on first open")

	_, err = run(t, "user", "add", "ada", "--password", "lovelace")
	require.NoError(t, err)
	out, err = run(t, "user", "list")
	require.NoError(t, err)
	require.Contains(t, out, "ada")
}

func TestConfigInit(t *testing.T) {
	home := isolate(t)
	t.Setenv("MANTTEST_UI_HEADING", "Ops")
	path := filepath.Join(home, ".config", "manttest", "config.toml")

	out, err := run(t, "config", "init")
	require.NoError(t, err)
	require.Contains(t, out, path)

	_, err = run(t, "config", "init")
	require.Error(t, err, "an existing file is kept")

	_, err = run(t, "config", "init", "--force")
	require.NoError(t, err)

	t.Setenv("MANTTEST_UI_HEADING", "")
	got, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, "Ops", got.UI.Heading)
}

func TestKeyRotate(t *testing.T) {
	isolate(t)
	before, err := secrets.SigningKey(signingKeyName)
	require.NoError(t, err)
	require.NoError(t, prefs.RememberLogin("ada", "old-token"))

	out, err := run(t, "key", "rotate")
	require.NoError(t, err)
	require.Contains(t, out, "signing key rotated")

	after, err := secrets.SigningKey(signingKeyName)
	require.NoError(t, err)
	require.NotEqual(t, before, after)

	s, err := prefs.LoadSession()
	require.NoError(t, err)
	require.Equal(t, prefs.Session{LastUsername: "ada"}, s)
}

func TestKeyRotateRefusesConfiguredSecret(t *testing.T) {
	isolate(t)
	t.Setenv("MANTTEST_AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")

	_, err := run(t, "key", "rotate")
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "manttest", "keys.json"))
	require.True(t, os.IsNotExist(statErr))
}
