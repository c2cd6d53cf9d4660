package watcher

import "context"

// Watcher monitors the recordings directory for new audio files.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler processes one newly detected recording.
type EventHandler func(ctx context.Context, filePath string) error
