package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/example/chatshot/internal/logger"
	"github.com/example/chatshot/internal/render"
)

// watchedFiles returns the input files whose changes trigger a re-render.
// The value reports whether the file feeds the chat text.
func (c *renderCmd) watchedFiles() map[string]bool {
	files := map[string]bool{}
	add := func(path string, text bool) {
		if path == "" {
			return
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		files[path] = files[path] || text
	}
	add(c.image, false)
	add(c.topFile, true)
	add(c.bottomFile, true)
	add(c.chatlog, true)
	return files
}

// textChanges tracks chat text edits that no finished render has fetched
// overlays for yet. A forced render that gets superseded leaves them pending,
// so the render that replaced it still refetches.
type textChanges struct {
	mu      sync.Mutex
	changed uint64
	fetched uint64
}

func (t *textChanges) touch() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.changed++
}

// pending returns the current change count and whether it still needs a fetch.
func (t *textChanges) pending() (uint64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.changed, t.changed != t.fetched
}

func (t *textChanges) done(seen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if seen > t.fetched {
		t.fetched = seen
	}
}

// watchInputs re-renders after input files settle until ctx is done. A
// render that is still waiting on the rasterizer when the next one starts
// is abandoned.
func (c *renderCmd) watchInputs(ctx context.Context, session *render.Session, output string) error {
	files := c.watchedFiles()
	if len(files) == 0 {
		return errors.New("-watch needs at least one input file")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	// Editors replace files on save, so watch the directories.
	dirs := map[string]struct{}{}
	for path := range files {
		dirs[filepath.Dir(path)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	logger.Infof("watching %d input files, press Ctrl+C to stop", len(files))

	debounce := render.NewDebouncer(c.debounce)
	defer debounce.Stop()
	text := &textChanges{}
	changed := make(chan bool, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			isText, watched := files[filepath.Clean(ev.Name)]
			if !watched {
				continue
			}
			logger.WithField("file", ev.Name).Debugf("input changed: %s", ev.Op)
			if isText {
				text.touch()
			}
			debounce.Trigger(func() {
				select {
				case changed <- true:
				default:
				}
			})
		case <-changed:
			go c.rerender(ctx, session, output, text)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("watch: %v", err)
		}
	}
}

func (c *renderCmd) rerender(ctx context.Context, session *render.Session, output string, text *textChanges) {
	seen, force := text.pending()
	err := c.renderOnce(ctx, session, output, force)
	switch {
	case err == nil:
		if force {
			text.done(seen)
		}
	case errors.Is(err, render.ErrSuperseded):
		logger.Debugf("render superseded")
	default:
		logger.Errorf("render: %v", err)
	}
}
