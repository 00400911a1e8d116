package main

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// watch rebuilds whenever file changes until ctx is cancelled. Failed builds
// are logged and do not stop the loop.
func watch(ctx context.Context, file string, log zerolog.Logger, rebuild func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// editors often replace the file, so watch the directory
	if err := w.Add(filepath.Dir(file)); err != nil {
		return err
	}

	target := filepath.Clean(file)
	run := func() {
		if err := rebuild(); err != nil {
			log.Error().Err(err).Str("file", file).Msg("build failed")
		}
	}

	run()
	log.Info().Str("file", file).Msg("watching for changes")

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			log.Debug().Str("op", ev.Op.String()).Msg("change detected")
			run()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watcher error")
		}
	}
}
