//go:build whisper

package transcribe

import (
	"context"
	"fmt"
	"io"
	"math"

	whisper "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"github.com/jvdwaal/radioscribe/internal/config"
	"github.com/jvdwaal/radioscribe/internal/logger"
)

// whisperService runs whisper.cpp in-process via the Go bindings. The model
// is loaded once and shared by all decodes of a batch.
type whisperService struct {
	model whisper.Model
	log   logger.Logger
}

func newWhisperService(cfg *config.TranscribeConfig, log logger.Logger) (Service, error) {
	model, err := whisper.New(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("transcribe: load whisper model %q: %w", cfg.ModelPath, err)
	}
	log.Info(context.Background(), "Whisper model loaded: %s", cfg.ModelPath)
	return &whisperService{model: model, log: log}, nil
}

func (s *whisperService) Transcribe(ctx context.Context, audioPath string, opts Options) (Stream, error) {
	samples, err := loadWAV(audioPath)
	if err != nil {
		return nil, err
	}

	// The bindings decode synchronously, so the probe window is enforced by
	// slicing the sample buffer instead of stopping a lazy decode.
	if opts.MaxDuration > 0 {
		limit := int(opts.MaxDuration.Seconds() * whisperSampleRate)
		if limit < len(samples) {
			samples = samples[:limit]
		}
	}

	wctx, err := s.model.NewContext()
	if err != nil {
		return nil, fmt.Errorf("transcribe: create whisper context: %w", err)
	}
	if opts.Language != "" {
		if err := wctx.SetLanguage(opts.Language); err != nil {
			return nil, fmt.Errorf("transcribe: set language %q: %w", opts.Language, err)
		}
	}
	if opts.Threads > 0 {
		wctx.SetThreads(uint(opts.Threads))
	}
	if opts.BeamSize > 1 {
		wctx.SetBeamSize(opts.BeamSize)
	}
	if opts.VAD {
		s.log.Debug(ctx, "whisper backend has no VAD filter, flag ignored")
	}

	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return nil, fmt.Errorf("transcribe: process %s: %w", audioPath, err)
	}

	return &whisperStream{wctx: wctx}, nil
}

func (s *whisperService) Close() error {
	if s.model != nil {
		return s.model.Close()
	}
	return nil
}

type whisperStream struct {
	wctx whisper.Context
}

func (st *whisperStream) Next() (Segment, error) {
	seg, err := st.wctx.NextSegment()
	if err == io.EOF {
		return Segment{}, io.EOF
	}
	if err != nil {
		return Segment{}, fmt.Errorf("transcribe: next segment: %w", err)
	}
	return Segment{
		Start:      seg.Start,
		End:        seg.End,
		Text:       seg.Text,
		AvgLogProb: segmentLogProb(seg),
	}, nil
}

func (st *whisperStream) Close() error { return nil }

// segmentLogProb averages the log of token probabilities, matching the
// avg_logprob the faster-whisper backend reports per segment.
func segmentLogProb(seg whisper.Segment) float64 {
	if len(seg.Tokens) == 0 {
		return 0
	}
	var sum float64
	for _, tok := range seg.Tokens {
		p := float64(tok.P)
		if p < 1e-10 {
			p = 1e-10
		}
		sum += math.Log(p)
	}
	return sum / float64(len(seg.Tokens))
}
