package config

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotatingFile(t *testing.T) {
	t.Run("RotatesAtLimit", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "x.log")
		r, err := OpenRotatingFile(path, 10, 2)
		require.NoError(t, err)
		defer r.Close()

		_, err = r.Write([]byte("0123456789"))
		require.NoError(t, err)
		_, err = r.Write([]byte("abc"))
		require.NoError(t, err)

		old, err := os.ReadFile(path + ".1")
		require.NoError(t, err)
		assert.Equal(t, "0123456789", string(old))

		current, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "abc", string(current))
	})

	t.Run("KeepsAtMostBackups", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "x.log")
		r, err := OpenRotatingFile(path, 4, 2)
		require.NoError(t, err)
		defer r.Close()

		for _, chunk := range []string{"aaaa", "bbbb", "cccc", "dddd"} {
			_, err := r.Write([]byte(chunk))
			require.NoError(t, err)
		}

		b1, _ := os.ReadFile(path + ".1")
		b2, _ := os.ReadFile(path + ".2")
		assert.Equal(t, "dddd", string(b1))
		assert.Equal(t, "cccc", string(b2))
		assert.NoFileExists(t, path+".3")
	})

	t.Run("RotatesOversizedFileOnOpen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "x.log")
		require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0644))

		r, err := OpenRotatingFile(path, 5, 3)
		require.NoError(t, err)
		defer r.Close()

		assert.FileExists(t, path+".1")
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Zero(t, info.Size())
	})

	t.Run("WriteAfterClose", func(t *testing.T) {
		r, err := OpenRotatingFile(filepath.Join(t.TempDir(), "x.log"), 100, 1)
		require.NoError(t, err)
		require.NoError(t, r.Close())
		_, err = r.Write([]byte("x"))
		assert.ErrorIs(t, err, os.ErrClosed)
	})
}

func TestInitLogger(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, InitLogger(dir, false))
	log.Printf("[Test] hello from the logger")
	CloseLogger()

	data, err := os.ReadFile(LogPath(dir))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "[Test] hello from the logger"))
	assert.Contains(t, string(data), "logger initialized")
}
