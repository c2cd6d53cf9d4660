//go:build !whisper

package transcribe

import (
	"fmt"

	"github.com/jvdwaal/radioscribe/internal/config"
	"github.com/jvdwaal/radioscribe/internal/logger"
)

func newWhisperService(cfg *config.TranscribeConfig, log logger.Logger) (Service, error) {
	return nil, fmt.Errorf("transcribe: whisper backend disabled (build with -tags whisper to enable)")
}
