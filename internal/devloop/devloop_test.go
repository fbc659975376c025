package devloop

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcherFiresOnRelevantWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.ruchy")
	require.NoError(t, os.WriteFile(path, []byte("1"), 0644))

	w, err := New([]string{dir}, []string{".ruchy"}, 20*time.Millisecond)
	require.NoError(t, err)

	fired := make(chan string, 4)
	w.OnChange = func(p string) { fired <- p }

	stop := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- w.Run(stop) }()
	defer func() {
		close(stop)
		<-done
	}()

	// An irrelevant extension must not fire.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	// A relevant write must.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("2"), 0644))

	select {
	case p := <-fired:
		require.Equal(t, path, p)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not fire for a .ruchy write")
	}
}
