package watcher

import (
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/jvdwaal/radioscribe/internal/logger"
)

// New creates a Watcher on the recordings directory. Handling is strictly
// serialized: the transcription service is reused across files and is not
// safe for concurrent callers.
func New(inputDir string, handler EventHandler, log logger.Logger) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	return &implWatcher{
		inputDir: inputDir,
		handler:  handler,
		logger:   log,
		watcher:  watcher,
	}, nil
}
