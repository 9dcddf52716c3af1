package world

import (
	"github.com/fsnotify/fsnotify"
)

// SeedEvent is one filesystem change observed in a watched corpus-in
// directory.
type SeedEvent struct {
	Path    string
	Removed bool
}

// Watcher delivers SeedEvents for files created in, written to, or removed
// from a corpus-in directory while the driver is running, letting an
// operator drop new seeds into a live fuzzing session. Modeled on
// internal/runtime/vfs's FSNotifyWatcher, narrowed to the two operations
// the driver's corpus-in loop needs (add, remove) instead of that type's
// full create/write/remove/rename/chmod bitmask.
type Watcher struct {
	w    *fsnotify.Watcher
	evC  chan SeedEvent
	errC chan error
}

// NewWatcher starts watching dir for new or removed corpus-in files.
func NewWatcher(dir string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := w.Add(dir); err != nil {
		_ = w.Close()

		return nil, err
	}

	watcher := &Watcher{w: w, evC: make(chan SeedEvent, 128), errC: make(chan error, 1)}
	go watcher.loop()

	return watcher, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				w.evC <- SeedEvent{Path: ev.Name}
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				w.evC <- SeedEvent{Path: ev.Name, Removed: true}
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}

			w.errC <- err
		}
	}
}

// Events returns the channel new/removed seed files are reported on.
func (w *Watcher) Events() <-chan SeedEvent { return w.evC }

// Errors returns the channel underlying watch errors are reported on.
func (w *Watcher) Errors() <-chan error { return w.errC }

// Close stops the watcher, releasing its OS-level watch descriptor.
func (w *Watcher) Close() error { return w.w.Close() }
