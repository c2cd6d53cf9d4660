package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// convertToWAV resamples a compressed stream rip (MP3/OGG/...) to 16 kHz
// mono WAV, the layout the transcription backends expect. The temp file
// lives outside the input directory so watch mode never sees it.
func (r *implRunner) convertToWAV(ctx context.Context, audioPath string) (string, error) {
	stem := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	wavPath := filepath.Join(os.TempDir(), stem+"_16k.wav")

	r.logger.Debug(ctx, "Converting to 16kHz mono WAV: %s", audioPath)

	// -ar 16000: sample rate whisper models are trained on
	// -ac 1: mono
	// -c:a pcm_s16le: uncompressed 16-bit PCM
	args := []string{
		"-i", audioPath,
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y",
		wavPath,
	}

	if _, err := r.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return "", fmt.Errorf("ffmpeg convert: %w", err)
	}

	return wavPath, nil
}

// cleanupTempFile removes a temporary file, logs warning if fails
func (r *implRunner) cleanupTempFile(ctx context.Context, filePath string) {
	if err := os.Remove(filePath); err != nil {
		r.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", filePath, err)
	}
}
