package config

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zohnannor/girl/pkg"
)

// watchDebounce batches the burst of filesystem events an editor save
// produces into a single reload.
const watchDebounce = 100 * time.Millisecond

// Watch reloads the configuration whenever the file at path changes and
// hands each valid result to onChange. Contents that fail to load or
// validate are logged and skipped; the previous configuration stays in
// effect.
//
// The watch covers the file's directory, so editors that replace the
// file on save are still seen. onChange runs on the watch goroutine;
// a host driving a registry must hand the result over to its update
// loop rather than calling [girl.Girl.Apply] directly from it. The
// returned stop function releases the watcher.
func Watch(path string, onChange func(*Config)) (stop func() error, err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	go watchLoop(watcher, path, onChange)
	pkg.LogDebug(pkg.ComponentConfig, "watching", "path", path)
	return watcher.Close, nil
}

// watchLoop debounces filesystem events for the config file and reloads
// it once they settle. It exits when the watcher closes.
func watchLoop(watcher *fsnotify.Watcher, path string, onChange func(*Config)) {
	base := filepath.Base(path)
	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			pkg.LogWarn(pkg.ComponentConfig, "watch error", "error", err)

		case <-timer.C:
			cfg, err := Load(path)
			if err != nil {
				pkg.LogWarn(pkg.ComponentConfig, "reload rejected",
					"path", path, "error", err)
				continue
			}
			pkg.LogInfo(pkg.ComponentConfig, "configuration reloaded", "path", path)
			onChange(cfg)
		}
	}
}
