package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IsAudioFile reports whether the path looks like a radio recording the
// pipeline should pick up.
func IsAudioFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".mp3", ".ogg", ".m4a", ".flac", ".aac":
		return true
	}
	return false
}

// Run takes the directory listing once at startup; recordings that appear
// mid-run are left for the next batch (or for watch mode).
func (r *implRunner) Run(ctx context.Context) error {
	files, err := r.discoverAudioFiles(r.cfg.Paths.Input)
	if err != nil {
		return fmt.Errorf("discover audio files: %w", err)
	}

	if len(files) == 0 {
		r.logger.Info(ctx, "No audio files found to transcribe.")
		return nil
	}

	r.logger.Info(ctx, "Found %d audio file(s) to process.", len(files))

	failed := 0
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		r.logger.Info(ctx, "(%d/%d) Processing %q...", i+1, len(files), filepath.Base(path))
		if err := r.ProcessFile(ctx, path); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			// One corrupt recording should not abort the batch.
			r.logger.Error(ctx, "Failed to process %q: %v", filepath.Base(path), err)
			failed++
		}
	}

	if failed > 0 {
		r.logger.Warn(ctx, "Batch finished with %d failed file(s).", failed)
	}
	return nil
}

func (r *implRunner) discoverAudioFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if IsAudioFile(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}

	// ReadDir returns entries sorted by name, so processing order is
	// already deterministic.
	return files, nil
}
