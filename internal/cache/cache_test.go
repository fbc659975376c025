package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpToDateTracksContent(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "main.ruchy")
	out := filepath.Join(dir, "main.rs")
	require.NoError(t, os.WriteFile(src, []byte("let x = 1"), 0644))
	require.NoError(t, os.WriteFile(out, []byte("fn main() {}"), 0644))

	c := Open(filepath.Join(dir, "cache.json"))
	assert.False(t, c.UpToDate(src, out), "first sight of a file always regenerates")

	require.NoError(t, c.Record(src, out))
	assert.True(t, c.UpToDate(src, out), "unchanged file must be cached")

	require.NoError(t, os.WriteFile(src, []byte("let x = 2"), 0644))
	assert.False(t, c.UpToDate(src, out), "edited file must regenerate")
}

func TestFlushAndOpenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "main.ruchy")
	out := filepath.Join(dir, "main.rs")
	require.NoError(t, os.WriteFile(src, []byte("1"), 0644))
	require.NoError(t, os.WriteFile(out, []byte("fn main() {}"), 0644))
	cachePath := filepath.Join(dir, "nested", "cache.json")

	c := Open(cachePath)
	require.NoError(t, c.Record(src, out))
	require.NoError(t, c.Flush())

	loaded := Open(cachePath)
	assert.Equal(t, c.Entries, loaded.Entries)
	assert.True(t, loaded.UpToDate(src, out))
}

func TestOpenMissingFileYieldsEmptyCache(t *testing.T) {
	c := Open(filepath.Join(t.TempDir(), "absent.json"))
	require.NotNil(t, c)
	assert.Empty(t, c.Entries)
}

func TestMissingSourceIsNeverUpToDate(t *testing.T) {
	c := Open(filepath.Join(t.TempDir(), "cache.json"))
	src := filepath.Join(t.TempDir(), "nope.ruchy")
	assert.Error(t, c.Record(src, "nope.rs"))
	assert.False(t, c.UpToDate(src, "nope.rs"))
}
