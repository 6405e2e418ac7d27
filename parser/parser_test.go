package parser

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNaturalSort(t *testing.T) {
	names := []string{"page_10.jpg", "page_2.jpg", "Page_1.png", "page_0100.webp", "page_9.jpg"}
	SortNatural(names)
	assert.Equal(t, []string{"Page_1.png", "page_2.jpg", "page_9.jpg", "page_10.jpg", "page_0100.webp"}, names)
}

func TestNaturalLess(t *testing.T) {
	assert.True(t, NaturalLess("a2", "a10"))
	assert.False(t, NaturalLess("a10", "a2"))
	assert.True(t, NaturalLess("a", "a1"))
	assert.True(t, NaturalLess("01", "1"))
	assert.False(t, NaturalLess("x", "x"))
	assert.True(t, NaturalLess("n99999999999999999999998", "n99999999999999999999999"))
}

func TestLocalImageList(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"page_0010.jpg", "page_0002.png", "notes.txt", "page_0001.webp"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "page_0003.jpg"), 0755))

	files, err := LocalImageList(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "page_0001.webp"),
		filepath.Join(dir, "page_0002.png"),
		filepath.Join(dir, "page_0010.jpg"),
	}, files)

	_, err = LocalImageList(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandPath("~/Downloads/batodl")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Downloads", "batodl"), got)

	got, err = ExpandPath("/tmp/x")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x", got)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Reserved", `Vol.1 Ch.3: "The" <End>?`, "Vol.1_Ch.3___The___End__"},
		{"Slashes", `a/b\c|d*e`, "a_b_c_d_e"},
		{"WhitespaceRuns", "Chapter   12\t\nPart", "Chapter_12_Part"},
		{"MixedTabRun", "Ch 1 \t Part", "Ch_1_Part"},
		{"CRLF", "Title\r\nCh.5", "Title_Ch.5"},
		{"NonWhitespaceControl", "A\x01B\x1fC", "A_B_C"},
		{"Empty", "   ", DefaultTitle},
		{"Dots", "..", DefaultTitle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}

	t.Run("Truncated", func(t *testing.T) {
		got := SanitizeFilename(strings.Repeat("字", 250))
		assert.Equal(t, 200, len([]rune(got)))
	})
}

func TestRateLimiter(t *testing.T) {
	t.Run("ZeroIntervalNeverBlocks", func(t *testing.T) {
		rl := NewRateLimiter(0)
		defer rl.Stop()
		for i := 0; i < 3; i++ {
			require.NoError(t, rl.Wait(context.Background()))
		}
	})

	t.Run("FirstWaitImmediate", func(t *testing.T) {
		rl := NewRateLimiter(time.Hour)
		defer rl.Stop()
		start := time.Now()
		require.NoError(t, rl.Wait(context.Background()))
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("CancelledContext", func(t *testing.T) {
		rl := NewRateLimiter(time.Hour)
		defer rl.Stop()
		require.NoError(t, rl.Wait(context.Background()))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, rl.Wait(ctx), context.Canceled)
	})
}
