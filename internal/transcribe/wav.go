//go:build whisper

package transcribe

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

const whisperSampleRate = 16000

// loadWAV decodes a 16 kHz mono WAV file into float32 samples normalized
// to [-1.0, 1.0], the format whisper.cpp expects.
func loadWAV(path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("transcribe: open %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("transcribe: decode WAV %s: %w", path, err)
	}

	samples := make([]float32, len(buf.Data))
	for i, s := range buf.Data {
		samples[i] = float32(s) / 32768.0
	}
	return samples, nil
}
