package secrets

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSigningKeyIsGeneratedOnceAndPersisted(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	first, err := SigningKey("Session")
	require.NoError(t, err)
	require.Len(t, first, keySize)

	again, err := SigningKey(" session ")
	require.NoError(t, err)
	require.Equal(t, first, again)

	path, err := filePath()
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), string(first))
}

func TestRotateReplacesKey(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	first, err := SigningKey("session")
	require.NoError(t, err)
	rotated, err := RotateSigningKey("session")
	require.NoError(t, err)
	require.NotEqual(t, first, rotated)

	got, err := SigningKey("session")
	require.NoError(t, err)
	require.Equal(t, rotated, got)

	other, err := SigningKey("other")
	require.NoError(t, err)
	require.NotEqual(t, rotated, other, "keys are stored per name")

	_, err = SigningKey("  ")
	require.Error(t, err)
	_, err = RotateSigningKey("")
	require.Error(t, err)
}
