package cmd

import (
	"bytes"
	"context"
	"testing"

	"propstore/core/config"
	"propstore/core/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(args)
	defer RootCmd.SetArgs(nil)
	err := RootCmd.Execute()
	return out.String(), err
}

func TestPropertyCommands(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STORAGE_PATH", dir)
	t.Setenv("STORAGE_DRIVER", "file")

	out, err := runRoot(t, "property", "get", "lamp")
	require.NoError(t, err)
	assert.Equal(t, "null\n", out)

	out, err = runRoot(t, "property", "set", "lamp", `{ "on": true }`)
	require.NoError(t, err)
	assert.Equal(t, "lamp stored as json\n", out)

	out, err = runRoot(t, "property", "get", "lamp")
	require.NoError(t, err)
	assert.Equal(t, "{\"on\":true}\n", out)

	_, err = runRoot(t, "property", "set", "greeting", "hello")
	require.NoError(t, err)

	store, err := storage.OpenFile(dir)
	require.NoError(t, err)
	defer store.Close()
	v, found, err := store.Get(context.Background(), "greeting")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, storage.KindText, v.Kind())
	assert.Equal(t, "hello", v.String())
}

func TestPropertyCommands_Errors(t *testing.T) {
	t.Run("MissingPath", func(t *testing.T) {
		t.Setenv("STORAGE_PATH", "")
		_, err := runRoot(t, "property", "get", "lamp")
		assert.ErrorIs(t, err, config.ErrMissingStoragePath)
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		t.Setenv("STORAGE_PATH", t.TempDir())
		_, err := runRoot(t, "property", "set", "lamp", "{broken")
		assert.ErrorIs(t, err, storage.ErrInvalidJSON)
	})

	t.Run("WrongArgs", func(t *testing.T) {
		_, err := runRoot(t, "property", "set", "lamp")
		assert.Error(t, err)
	})
}
