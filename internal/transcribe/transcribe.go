// Package transcribe provides speech-to-text backends.
//
// Supported backends:
//   - fasterwhisper: faster-whisper via a long-lived Python worker (default)
//   - whisper: whisper.cpp via Go bindings (requires the whisper build tag)
package transcribe

import (
	"context"
	"fmt"
	"time"

	"github.com/jvdwaal/radioscribe/internal/config"
	"github.com/jvdwaal/radioscribe/internal/logger"
)

// Options configures one decode pass.
type Options struct {
	// Language is an ISO-639-1 hint, empty for auto-detection.
	Language string
	// BeamSize is the decoding search width; 1 is greedy.
	BeamSize int
	// VAD enables voice-activity filtering of non-speech regions.
	VAD bool
	// Threads is a CPU thread hint passed through to the backend.
	Threads int
	// MaxDuration limits decoding to the leading window of the file.
	// Zero decodes the whole file.
	MaxDuration time.Duration
}

// Segment is one timed piece of transcribed speech.
type Segment struct {
	Start      time.Duration
	End        time.Duration
	Text       string
	AvgLogProb float64 // mean log-probability, higher is better
}

// Stream yields segments lazily in chronological order. Next returns io.EOF
// after the last segment. Close aborts the decode; a caller that stops
// consuming early must call it so the backend does not decode the rest of
// the file.
type Stream interface {
	Next() (Segment, error)
	Close() error
}

// Service converts audio files to segment streams. A Service is loaded once
// and reused for a whole batch; it is not safe for concurrent Transcribe
// calls from the runner side, which processes files sequentially.
type Service interface {
	Transcribe(ctx context.Context, audioPath string, opts Options) (Stream, error)
	Close() error
}

// New creates a Service based on the config backend setting.
func New(cfg *config.TranscribeConfig, log logger.Logger) (Service, error) {
	switch cfg.Backend {
	case "whisper":
		return newWhisperService(cfg, log)
	case "fasterwhisper", "":
		return newFasterWhisperService(cfg, log)
	default:
		return nil, fmt.Errorf("transcribe: unknown backend %q (supported: fasterwhisper, whisper)", cfg.Backend)
	}
}
