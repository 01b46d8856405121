package filesource

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch watches the file and signals on the returned channel when it has
// changed and gone quiet for the debounce period. Signals coalesce: at most
// one is pending at a time. The channel is closed when ctx is done.
//
// The directory is watched rather than the file so that editors which
// replace the file by renaming keep being followed.
func (s *Source) Watch(ctx context.Context) (<-chan struct{}, error) {
	if !s.watching.CompareAndSwap(false, true) {
		return nil, ErrWatching
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		s.watching.Store(false)
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(s.path)); err != nil {
		fsw.Close()
		s.watching.Store(false)
		return nil, err
	}

	d := &debouncer{delay: s.debounce, out: make(chan struct{}, 1)}
	go s.watchLoop(ctx, fsw, d)
	return d.out, nil
}

func (s *Source) watchLoop(ctx context.Context, fsw *fsnotify.Watcher, d *debouncer) {
	defer func() {
		d.stop()
		fsw.Close()
		close(d.out)
		s.watching.Store(false)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !s.relevant(ev) {
				continue
			}
			s.logger.Debug("file event %s", ev.Op)
			d.touch()

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			s.logger.Warn("watch error: %v", err)
		}
	}
}

// relevant reports whether ev may have changed the file's contents.
func (s *Source) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != s.path {
		return false
	}
	return ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write) ||
		ev.Op.Has(fsnotify.Rename) || ev.Op.Has(fsnotify.Remove)
}

// debouncer fires once after touches stop arriving for delay.
type debouncer struct {
	delay time.Duration
	out   chan struct{}

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

func (d *debouncer) touch() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Reset(d.delay)
		return
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *debouncer) fire() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	select {
	case d.out <- struct{}{}:
	default:
		// A signal is already pending.
	}
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
