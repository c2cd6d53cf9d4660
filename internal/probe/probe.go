// Package probe implements the confidence-guided two-pass decode strategy:
// a cheap greedy decode of the leading seconds of a file estimates how hard
// the audio is, and a policy picks the beam width for the full pass.
package probe

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/jvdwaal/radioscribe/internal/transcribe"
)

// SentinelConfidence is returned when the probe window produces no segments
// (silence, dead air, or a file shorter than the window). It sits far below
// any realistic mean log-probability so the default policy always routes it
// to the safer wide-beam pass.
const SentinelConfidence = -10.0

// Probe decodes only the leading window of audioPath at greedy width and
// returns the mean segment confidence. Consumption stops at the first
// segment whose end reaches the window; the stream is closed so the backend
// never decodes the remainder of the file.
func Probe(ctx context.Context, svc transcribe.Service, audioPath string, opts transcribe.Options, window time.Duration) (float64, error) {
	opts.BeamSize = 1
	opts.MaxDuration = window

	stream, err := svc.Transcribe(ctx, audioPath, opts)
	if err != nil {
		return 0, err
	}
	defer stream.Close()

	var sum float64
	var count int
	for {
		seg, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, err
		}
		sum += seg.AvgLogProb
		count++
		if seg.End >= window {
			break
		}
	}

	if count == 0 {
		return SentinelConfidence, nil
	}
	return sum / float64(count), nil
}

// Policy maps a probe confidence to the beam width for the full pass.
type Policy struct {
	BadThreshold float64
	// GoodThreshold is accepted as configuration but drives no branch of
	// its own: confidences between the two thresholds resolve to the fast
	// path. Kept as a tunable for a future three-way policy.
	GoodThreshold    float64
	GoodBeamSize     int
	FallbackBeamSize int
}

// Decide returns the search width for the full decode. Confidences below
// BadThreshold get the wide fallback beam, floored at 2 so it is always
// wider than greedy; everything else gets the fast beam, floored at 1.
func (p Policy) Decide(confidence float64) int {
	if confidence < p.BadThreshold {
		return max(2, p.FallbackBeamSize)
	}
	return max(1, p.GoodBeamSize)
}
