package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jvdwaal/radioscribe/internal/probe"
	"github.com/jvdwaal/radioscribe/internal/stations"
	"github.com/jvdwaal/radioscribe/internal/transcribe"
)

// ProcessFile runs the full pipeline for one recording: station lookup,
// confidence probe, beam-width decision, full decode, transcript write and
// source deletion, strictly in that order.
func (r *implRunner) ProcessFile(ctx context.Context, audioPath string) error {
	fileName := filepath.Base(audioPath)
	stationName := strings.TrimSuffix(fileName, filepath.Ext(fileName))

	station, ok := r.stations[stationName]
	if !ok {
		r.logger.Info(ctx, "-> Skipping %q: station %q not in %s.", fileName, stationName, r.cfg.Paths.Stations)
		return nil
	}

	decodePath := audioPath
	if !strings.EqualFold(filepath.Ext(audioPath), ".wav") {
		wavPath, err := r.convertToWAV(ctx, audioPath)
		if err != nil {
			return fmt.Errorf("convert audio: %w", err)
		}
		defer r.cleanupTempFile(ctx, wavPath)
		decodePath = wavPath
	}

	opts := transcribe.Options{
		Language: station.Language,
		VAD:      r.cfg.Transcribe.VAD,
		Threads:  r.cfg.Transcribe.Threads,
	}

	window := time.Duration(r.cfg.Probe.WindowSeconds) * time.Second
	confidence, err := probe.Probe(ctx, r.svc, decodePath, opts, window)
	if err != nil {
		return fmt.Errorf("probe: %w", err)
	}

	width := r.policy.Decide(confidence)
	r.logger.Info(ctx, "-> Probe confidence %.3f, transcribing %q with beam width %d (lang=%q)...",
		confidence, fileName, width, station.Language)

	text, err := r.decode(ctx, decodePath, opts, width)
	if err != nil {
		return fmt.Errorf("transcribe: %w", err)
	}

	outPath := filepath.Join(filepath.Dir(audioPath), r.transcriptName(station))
	if err := os.WriteFile(outPath, []byte(text), 0644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	r.logger.Info(ctx, "-> Transcript saved to %q.", filepath.Base(outPath))

	// Write-before-delete: the source goes away only once the transcript
	// is on disk. A file that is already gone counts as deleted.
	if err := os.Remove(audioPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete audio: %w", err)
	}
	r.logger.Info(ctx, "-> Deleted %q.", fileName)

	return nil
}

// decode runs the full pass at the chosen beam width and joins trimmed
// segment texts with single spaces in chronological order.
func (r *implRunner) decode(ctx context.Context, path string, opts transcribe.Options, width int) (string, error) {
	opts.BeamSize = width
	opts.MaxDuration = 0

	stream, err := r.svc.Transcribe(ctx, path, opts)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	var parts []string
	for {
		seg, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		parts = append(parts, strings.TrimSpace(seg.Text))
	}

	return strings.Join(parts, " "), nil
}

// transcriptName builds "YYMMDD - CC - <station> - Radio.txt". The date is
// taken in the configured reference timezone so names are stable across
// deployment hosts; stations without a country code get the XX placeholder.
func (r *implRunner) transcriptName(station stations.Station) string {
	date := r.now().In(r.loc).Format("060102")
	cc := station.Country
	if cc == "" {
		cc = "XX"
	}
	return fmt.Sprintf("%s - %s - %s - Radio.txt", date, cc, station.Name)
}
