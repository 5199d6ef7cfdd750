package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"crane/internal/trace"
)

// WatchEvent reports one (re)parse done by Watch.
type WatchEvent struct {
	Path    string
	Removed bool
	Result  *ParseResult // nil, если файл удалён или не загрузился
	Err     error        // ошибка загрузки или наблюдателя
}

// Watch parses every source under root (a directory or a single file), then
// re-parses files as they change until ctx is cancelled. onEvent is called
// from the Watch goroutine only.
func Watch(ctx context.Context, root string, opts Options, onEvent func(WatchEvent)) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	dir, only := root, ""
	if !info.IsDir() {
		dir, only = filepath.Dir(root), filepath.Clean(root)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if only != "" {
		err = watcher.Add(dir)
	} else {
		err = addWatchTree(watcher, dir)
	}
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	tracer := opts.tracer(ctx)
	files, err := ListSourceFiles(root)
	if err != nil {
		return err
	}
	for _, path := range files {
		onEvent(watchParse(ctx, path, opts))
	}
	trace.Point(tracer, trace.ScopeDriver, "watch ready", dir, parentSpan(ctx))

	delay := opts.Debounce
	if delay <= 0 {
		delay = DefaultDebounce
	}
	debounce := time.NewTimer(delay)
	debounce.Stop()
	pending := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			path := filepath.Clean(ev.Name)
			if only == "" && ev.Op&fsnotify.Create != 0 {
				if st, err := os.Stat(path); err == nil && st.IsDir() {
					// новые каталоги тоже наблюдаем; файлы в них придут отдельными событиями
					if err := addWatchTree(watcher, path); err != nil {
						onEvent(WatchEvent{Path: path, Err: err})
					}
					continue
				}
			}
			if !strings.HasSuffix(path, SourceExt) || (only != "" && path != only) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			pending[path] = struct{}{}
			debounce.Reset(delay)

		case <-debounce.C:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			clear(pending)
			sort.Strings(paths)
			trace.Point(tracer, trace.ScopeDriver, "watch flush", fmt.Sprintf("%d files", len(paths)), parentSpan(ctx))
			for _, p := range paths {
				onEvent(watchParse(ctx, p, opts))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onEvent(WatchEvent{Err: err})
		}
	}
}

func watchParse(ctx context.Context, path string, opts Options) WatchEvent {
	res, err := Parse(ctx, path, opts)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return WatchEvent{Path: path, Removed: true}
		}
		return WatchEvent{Path: path, Err: err}
	}
	return WatchEvent{Path: path, Result: res}
}

// addWatchTree подписывает наблюдателя на dir и все вложенные каталоги:
// fsnotify не рекурсивен.
func addWatchTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
