// Package watcher monitors the offline survey data file and notifies the TUI
// to refresh when it changes on disk.
//
// The parent directory is watched rather than the file itself: editors and
// our own writer replace the file via rename, which drops a watch placed on
// the old inode.
package watcher

import (
	"math/rand/v2"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event is sent when the watched file changed.
type Event struct{}

// Watch monitors path and sends Event values on the returned channel. Rapid
// bursts are coalesced via the debounce window.
//
// Call the returned stop function to tear down the watcher; the channel is
// closed once the watch goroutine exits.
func Watch(path string, debounce time.Duration) (<-chan Event, func(), error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, nil, err
	}

	target := filepath.Base(abs)
	ch := make(chan Event, 1)
	done := make(chan struct{})
	exited := make(chan struct{})

	// Jitter spreads reloads when several instances share one data file.
	jitterRange := debounce / 2

	go func() {
		defer close(exited)
		defer close(ch)
		var timer *time.Timer

		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !relevant(ev, target) {
					continue
				}
				d := debounce
				if jitterRange > 0 {
					d += time.Duration(rand.Int64N(int64(jitterRange)))
				}
				if timer == nil {
					timer = time.NewTimer(d)
				} else {
					timer.Reset(d)
				}
			case <-timerChan(timer):
				timer = nil
				select {
				case ch <- Event{}:
				default:
				}
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			case <-done:
				if timer != nil {
					timer.Stop()
				}
				return
			}
		}
	}()

	stop := func() {
		close(done)
		_ = w.Close()
		<-exited
	}

	return ch, stop, nil
}

// timerChan returns the timer's channel, or a nil channel if timer is nil.
func timerChan(t *time.Timer) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}

// relevant reports whether ev touches the target file. Temp files written
// next to it are ignored; the rename onto target reports the target name.
func relevant(ev fsnotify.Event, target string) bool {
	base := filepath.Base(ev.Name)
	if base != target {
		return false
	}
	if strings.HasSuffix(base, ".tmp") || strings.HasSuffix(base, "~") {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove)
}
