package assets

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/folio/engine/core"
)

// EVENT_CODE_ASSET_CHANGED is posted when a watched file is created or written.
/* Context usage:
 * path := context.Data.(*AssetEvent).Path
 */
const EVENT_CODE_ASSET_CHANGED core.SystemEventCode = core.MAX_EVENT_CODE + 1

var ErrWatcherClosed = errors.New("asset watcher already closed")

type AssetEvent struct {
	Path    string
	Changed time.Time
}

// Watcher turns file changes into events on the bus. It only posts; the
// owner of the bus applies the change when it next dispatches.
type Watcher struct {
	bus   *core.EventBus
	files map[string]struct{}

	mutex    sync.Mutex
	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
	once     sync.Once
}

func NewWatcher(bus *core.EventBus) (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		bus:      bus,
		files:    make(map[string]struct{}),
		fsnotify: fsWatch,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go w.start()
	return w, nil
}

// Watch starts watching a single file. The parent directory is watched so
// that editors replacing the file through a rename are still seen.
func (w *Watcher) Watch(path string) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.isClosed {
		return ErrWatcherClosed
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.fsnotify.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	w.files[abs] = struct{}{}
	return nil
}

// Unwatch stops reporting changes to path.
func (w *Watcher) Unwatch(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	w.mutex.Lock()
	delete(w.files, abs)
	w.mutex.Unlock()
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		w.mutex.Lock()
		w.isClosed = true
		w.mutex.Unlock()
		close(w.done)
		<-w.stopped
		err = w.fsnotify.Close()
	})
	return err
}

func (w *Watcher) start() {
	defer close(w.stopped)
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.handleFileEvent(e.Name)
			}

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", err)

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handleFileEvent(name string) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return
	}
	w.mutex.Lock()
	_, watched := w.files[abs]
	w.mutex.Unlock()
	if !watched {
		return
	}
	core.LogDebug("asset changed: %s", abs)
	if err := w.bus.Post(core.EventContext{
		Type:   EVENT_CODE_ASSET_CHANGED,
		Sender: w,
		Data:   &AssetEvent{Path: abs, Changed: time.Now()},
	}); err != nil {
		core.LogWarn("dropped asset event for %s: %s", abs, err)
	}
}
