package bundler

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ksyq12/spabuild/internal/errors"
)

// DefaultDebounce is how long Watch waits for changes to settle.
const DefaultDebounce = 100 * time.Millisecond

// RebuildFunc receives the outcome of each rebuild.
type RebuildFunc func(res *Result, err error)

// Watch rebuilds whenever a file under the project root changes, until
// ctx is cancelled. Rebuild errors go to onRebuild and do not stop
// watching. The output and cache directories, node_modules and dot
// directories are not watched.
func (b *Bundler) Watch(ctx context.Context, debounce time.Duration, onRebuild RebuildFunc) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to create watcher", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	if err := b.watchTree(watcher, b.cfg.Root); err != nil {
		return err
	}
	b.log.Debug("watching %s", b.cfg.Root)

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if b.ignored(event.Name) {
				continue
			}
			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := b.watchTree(watcher, event.Name); err != nil {
						b.log.Warn("failed to watch %s: %v", event.Name, err)
					}
				}
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			b.log.Debug("change: %s %s", event.Op, event.Name)
			timer.Reset(debounce)
		case <-timer.C:
			res, err := b.Build(ctx)
			if ctx.Err() != nil {
				return nil
			}
			if onRebuild != nil {
				onRebuild(res, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			b.log.Warn("watcher error: %v", err)
		}
	}
}

func (b *Bundler) watchTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// vanished between the event and the walk
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != b.cfg.Root && b.ignored(p) {
			return filepath.SkipDir
		}
		if err := w.Add(p); err != nil {
			return errors.WrapSubject(errors.ErrCodeInternal, p, err)
		}
		return nil
	})
}

// ignored reports whether a path is excluded from watching.
func (b *Bundler) ignored(p string) bool {
	for _, dir := range []string{b.cfg.OutDirPath(), b.cfg.CacheDirPath()} {
		if p == dir || within(dir, p) {
			return true
		}
	}
	rel, err := filepath.Rel(b.cfg.Root, p)
	if err != nil || rel == "." {
		return false
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if part == "node_modules" || (strings.HasPrefix(part, ".") && part != "." && part != "..") {
			return true
		}
	}
	return false
}
