package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/dmitrymomot/dataschema/pkg/logger"
)

// watchTarget is a watched path. Directories match every file inside them.
type watchTarget struct {
	path string
	dir  bool
}

func (t watchTarget) matches(name string) bool {
	if t.dir {
		return filepath.Dir(name) == t.path
	}
	return name == t.path
}

// watch validates once, then again on every write to the definitions or
// the input, until ctx is cancelled. Failures are reported and watching
// continues.
func (a *app) watch(ctx context.Context, opts validateOptions) error {
	targets, err := watchTargets(opts.schemas, opts.input)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Join(ErrWatchingFiles, err)
	}
	defer watcher.Close()

	// Watch directories rather than files: editors saving atomically
	// replace the file and drop the watch.
	added := make(map[string]bool)
	for _, t := range targets {
		dir := t.path
		if !t.dir {
			dir = filepath.Dir(t.path)
		}
		if added[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return errors.Join(ErrWatchingFiles, fmt.Errorf("watch %s: %w", dir, err))
		}
		added[dir] = true
	}

	a.runOnce(ctx, opts)
	a.log.InfoContext(ctx, "watching for changes", slog.Int("paths", len(added)))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !relevant(targets, event.Name) {
				continue
			}
			a.log.DebugContext(ctx, "file changed", logger.Document(event.Name), slog.String("event", event.Op.String()))
			a.runOnce(ctx, opts)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.log.ErrorContext(ctx, "file watcher error", logger.Error(err))
		}
	}
}

// runOnce reports errors other than validation failures, which check has
// already printed.
func (a *app) runOnce(ctx context.Context, opts validateOptions) {
	if err := a.check(ctx, opts); err != nil && !errors.Is(err, ErrValidationFailed) {
		fmt.Fprintln(a.streams.Err, err)
	}
}

func watchTargets(paths ...string) ([]watchTarget, error) {
	targets := make([]watchTarget, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, errors.Join(ErrWatchingFiles, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, errors.Join(ErrWatchingFiles, err)
		}
		targets = append(targets, watchTarget{path: abs, dir: info.IsDir()})
	}
	return targets, nil
}

func relevant(targets []watchTarget, name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	for _, t := range targets {
		if t.matches(abs) {
			return true
		}
	}
	return false
}
