package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatch_FiresOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "surveys.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	ch, stop, err := Watch(path, 20*time.Millisecond)
	require.NoError(t, err)
	defer stop()

	require.NoError(t, os.WriteFile(path, []byte(`{"surveys":[]}`), 0o644))

	select {
	case _, ok := <-ch:
		assert.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("no event after writing the watched file")
	}
}

func TestWatch_StopClosesChannel(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "surveys.json")
	ch, stop, err := Watch(path, 10*time.Millisecond)
	require.NoError(t, err)
	stop()

	_, ok := <-ch
	assert.False(t, ok)
}

func TestRelevant(t *testing.T) {
	assert.True(t, relevant(fsnotify.Event{Name: "/d/surveys.json", Op: fsnotify.Write}, "surveys.json"))
	assert.True(t, relevant(fsnotify.Event{Name: "/d/surveys.json", Op: fsnotify.Create}, "surveys.json"))
	assert.False(t, relevant(fsnotify.Event{Name: "/d/surveys.json.tmp", Op: fsnotify.Write}, "surveys.json"))
	assert.False(t, relevant(fsnotify.Event{Name: "/d/other.json", Op: fsnotify.Write}, "surveys.json"))
	assert.False(t, relevant(fsnotify.Event{Name: "/d/surveys.json", Op: fsnotify.Chmod}, "surveys.json"))
}
