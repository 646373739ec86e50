package library

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/audiohaus/melody/pkg/observability"
)

// Watcher watches the music directory tree and triggers a rescan after file
// changes settle. Events are debounced so a bulk copy of an album results in
// a single rescan.
type Watcher struct {
	watcher  *fsnotify.Watcher
	root     string
	debounce time.Duration
	onChange func()
	logger   *observability.Logger
	done     chan struct{}
}

// NewWatcher creates a watcher over the music directory. onChange is invoked
// from the watcher goroutine after the debounce interval elapses without
// further events.
func NewWatcher(root string, debounce time.Duration, logger *observability.Logger, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	return &Watcher{
		watcher:  fsw,
		root:     root,
		debounce: debounce,
		onChange: onChange,
		logger:   logger,
		done:     make(chan struct{}),
	}, nil
}

// Start adds the directory tree to the watch set and begins processing
// events. A missing music directory is not an error; the watcher idles until
// the next Start.
func (w *Watcher) Start() error {
	if _, err := os.Stat(w.root); err != nil {
		w.logger.WithField("directory", w.root).Warn("Music directory does not exist, watcher idle")
		go w.run()
		return nil
	}

	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if addErr := w.watcher.Add(path); addErr != nil {
				w.logger.WithError(addErr).WithField("path", path).Warn("Failed to watch directory")
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	w.logger.WithField("directory", w.root).Info("Watching music directory for changes")
	go w.run()
	return nil
}

// run keeps a panicking onChange callback from taking the process down. The
// callback releases the underlying watcher; closing it twice is a no-op.
func (w *Watcher) run() {
	defer observability.RecoverPanicWithCallback(w.logger, "filesystem watcher", func() {
		w.watcher.Close()
	})
	w.loop()
}

// loop processes filesystem events until Close
func (w *Watcher) loop() {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event, timer)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Warn("Watcher error")
		case <-timer.C:
			w.logger.Debug("Change debounce elapsed, triggering rescan")
			w.onChange()
		case <-w.done:
			timer.Stop()
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event, timer *time.Timer) {
	// New directories join the watch set so nested album folders are covered
	if event.Op&fsnotify.Create != 0 {
		if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
			if err := w.watcher.Add(event.Name); err != nil {
				w.logger.WithError(err).WithField("path", event.Name).Warn("Failed to watch new directory")
			}
			w.resetTimer(timer)
			return
		}
	}

	if !IsSupportedFile(event.Name) {
		return
	}

	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
		w.logger.WithField("path", event.Name).Debug("Audio file changed")
		w.resetTimer(timer)
	}
}

func (w *Watcher) resetTimer(timer *time.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	timer.Reset(w.debounce)
}

// Close stops event processing and releases the underlying watcher
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
