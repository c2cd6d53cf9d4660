package watcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jvdwaal/radioscribe/internal/logger"
	"github.com/jvdwaal/radioscribe/internal/runner"
)

type implWatcher struct {
	inputDir string
	handler  EventHandler
	logger   logger.Logger
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	wg       sync.WaitGroup
}

// Start monitors the recordings directory for newly ripped audio files and
// hands each to the handler. Files are processed one at a time.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "File watcher started. Monitoring: %s", w.inputDir)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for ongoing processing to complete...")
			w.wg.Wait()
			w.logger.Info(ctx, "File watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !runner.IsAudioFile(event.Name) {
				w.logger.Debug(ctx, "Ignoring non-audio file: %s", event.Name)
				continue
			}

			w.logger.Info(ctx, "New recording detected: %s", event.Name)

			// Small delay so the recorder finishes writing the file.
			time.Sleep(500 * time.Millisecond)

			w.wg.Add(1)
			go func(filePath string) {
				defer w.wg.Done()
				w.mu.Lock()
				defer w.mu.Unlock()

				if err := w.handler(ctx, filePath); err != nil {
					w.logger.Error(ctx, "Failed to process %s: %v", filePath, err)
				}
			}(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}
