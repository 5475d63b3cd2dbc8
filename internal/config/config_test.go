package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("MANTTEST_CONFIG", "")
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".local", "share", "manttest", "manttest.db"), cfg.Database.Path)
	require.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
	require.Equal(t, 5*time.Second, cfg.Auth.Timeout)
	require.Equal(t, "admin", cfg.Auth.SeedUser)
	require.Empty(t, cfg.Auth.SeedPassword, "no default credential is shipped")
	require.Empty(t, cfg.Auth.JWTSecret)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "MantTest", cfg.UI.Heading)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	home := isolate(t)

	cfg, err := Load(filepath.Join(home, "nope.toml"))
	require.NoError(t, err)
	require.Equal(t, "MantTest", cfg.UI.Heading)
}

func TestLoadEnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("MANTTEST_UI_HEADING", "Staging")
	t.Setenv("MANTTEST_AUTH_TIMEOUT", "250ms")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "Staging", cfg.UI.Heading)
	require.Equal(t, 250*time.Millisecond, cfg.Auth.Timeout)
}

func TestLoadBrokenFile(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui\nheading = "), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "conf", "config.toml")

	want := Config{
		Database: DatabaseConfig{Path: filepath.Join(home, "x.db")},
		Auth: AuthConfig{
			JWTSecret:    "s3cret",
			TokenTTL:     time.Hour,
			Timeout:      2 * time.Second,
			SeedUser:     "root",
			SeedPassword: "pw",
		},
		Log: LogConfig{Level: "debug", File: filepath.Join(home, "x.log"), Development: true},
		UI:  UIConfig{Heading: "Ops"},
	}
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestPathFollowsLoad(t *testing.T) {
	home := isolate(t)
	require.Equal(t, filepath.Join(home, ".config", "manttest", "config.toml"), Path(""))

	t.Setenv("MANTTEST_CONFIG", filepath.Join(home, "env.toml"))
	require.Equal(t, filepath.Join(home, "env.toml"), Path(""))
	require.Equal(t, "explicit.toml", Path("explicit.toml"))
}

func TestSaveDefaultPathIsLoaded(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.UI.Heading = "Saved"
	require.NoError(t, Save("", cfg))

	got, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "Saved", got.UI.Heading)
}
