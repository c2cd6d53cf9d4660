package transcribe

import (
	"bufio"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/jvdwaal/radioscribe/internal/config"
	"github.com/jvdwaal/radioscribe/internal/logger"
)

//go:embed assets/worker.py
var workerScript []byte

// workerLine is one JSON line from the worker: ready, segment, done or error.
type workerLine struct {
	Type       string  `json:"type"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
	AvgLogProb float64 `json:"avg_logprob"`
	Message    string  `json:"message"`
}

type workerRequest struct {
	Type     string  `json:"type"`
	Audio    string  `json:"audio,omitempty"`
	Language string  `json:"language,omitempty"`
	BeamSize int     `json:"beam_size,omitempty"`
	VAD      bool    `json:"vad,omitempty"`
	ClipEnd  float64 `json:"clip_end,omitempty"`
}

// fasterWhisperService drives faster-whisper through a resident Python
// worker so the model is loaded once and reused across the whole batch.
// Decodes are serialized: a stream must be exhausted or closed before the
// next Transcribe call.
type fasterWhisperService struct {
	cfg *config.TranscribeConfig
	log logger.Logger

	mu         sync.Mutex
	cmd        *exec.Cmd
	stdin      io.WriteCloser
	out        *bufio.Scanner
	dead       bool
	busy       bool
	scriptPath string
}

func newFasterWhisperService(cfg *config.TranscribeConfig, log logger.Logger) (Service, error) {
	scriptPath := filepath.Join(os.TempDir(), "radioscribe_worker.py")
	if err := os.WriteFile(scriptPath, workerScript, 0755); err != nil {
		return nil, fmt.Errorf("transcribe: write worker script: %w", err)
	}

	s := &fasterWhisperService{
		cfg:        cfg,
		log:        log,
		scriptPath: scriptPath,
	}
	if err := s.startWorker(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *fasterWhisperService) startWorker() error {
	args := []string{
		s.scriptPath,
		"--model", s.cfg.Model,
		"--device", s.cfg.Device,
		"--compute-type", s.cfg.ComputeType,
	}
	if s.cfg.Threads > 0 {
		args = append(args, "--threads", strconv.Itoa(s.cfg.Threads))
	}

	cmd := exec.Command(s.cfg.Python, args...)
	cmd.Stderr = os.Stderr // model load and download progress

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("transcribe: worker stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("transcribe: worker stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("transcribe: start worker (%s): %w", s.cfg.Python, err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	s.log.Info(context.Background(), "Loading %q model (this may take a moment)...", s.cfg.Model)
	for {
		if !scanner.Scan() {
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
			return fmt.Errorf("transcribe: worker exited before ready")
		}
		var line workerLine
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			continue
		}
		if line.Type == "ready" {
			break
		}
		if line.Type == "error" {
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
			return fmt.Errorf("transcribe: worker: %s", line.Message)
		}
	}
	s.log.Info(context.Background(), "Model loaded. Starting transcription.")

	s.cmd = cmd
	s.stdin = stdin
	s.out = scanner
	s.dead = false
	return nil
}

// ensureWorker restarts the worker after a crash so one bad file does not
// take down the rest of the batch.
func (s *fasterWhisperService) ensureWorker() error {
	if s.cmd != nil && !s.dead {
		return nil
	}
	if s.cmd != nil {
		_ = s.cmd.Process.Kill()
		_ = s.cmd.Wait()
		s.cmd = nil
	}
	return s.startWorker()
}

func (s *fasterWhisperService) Transcribe(ctx context.Context, audioPath string, opts Options) (Stream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return nil, fmt.Errorf("transcribe: previous stream not closed")
	}
	if err := s.ensureWorker(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(audioPath)
	if err != nil {
		return nil, fmt.Errorf("transcribe: resolve %s: %w", audioPath, err)
	}

	req := workerRequest{
		Type:     "transcribe",
		Audio:    abs,
		Language: opts.Language,
		BeamSize: opts.BeamSize,
		VAD:      opts.VAD,
		ClipEnd:  opts.MaxDuration.Seconds(),
	}
	if err := s.send(req); err != nil {
		s.dead = true
		return nil, err
	}

	s.busy = true
	return &fwStream{svc: s, ctx: ctx}, nil
}

func (s *fasterWhisperService) send(req workerRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("transcribe: encode request: %w", err)
	}
	if _, err := s.stdin.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("transcribe: write to worker: %w", err)
	}
	return nil
}

func (s *fasterWhisperService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd != nil {
		_ = s.stdin.Close()
		_ = s.cmd.Process.Kill()
		_ = s.cmd.Wait()
		s.cmd = nil
	}
	_ = os.Remove(s.scriptPath)
	return nil
}

// fwStream reads segment lines for one decode. It must be closed (or read
// to io.EOF) before the service accepts the next file.
type fwStream struct {
	svc  *fasterWhisperService
	ctx  context.Context
	done bool
}

func (st *fwStream) Next() (Segment, error) {
	if st.done {
		return Segment{}, io.EOF
	}
	if err := st.ctx.Err(); err != nil {
		return Segment{}, err
	}

	for st.svc.out.Scan() {
		var line workerLine
		if err := json.Unmarshal(st.svc.out.Bytes(), &line); err != nil {
			continue
		}
		switch line.Type {
		case "segment":
			return Segment{
				Start:      time.Duration(line.Start * float64(time.Second)),
				End:        time.Duration(line.End * float64(time.Second)),
				Text:       line.Text,
				AvgLogProb: line.AvgLogProb,
			}, nil
		case "done":
			st.finish()
			return Segment{}, io.EOF
		case "error":
			st.finish()
			return Segment{}, fmt.Errorf("transcribe: worker: %s", line.Message)
		}
	}

	// Worker died mid-decode.
	st.finish()
	st.svc.dead = true
	if err := st.svc.out.Err(); err != nil {
		return Segment{}, fmt.Errorf("transcribe: read worker output: %w", err)
	}
	return Segment{}, fmt.Errorf("transcribe: worker exited unexpectedly")
}

// Close cancels a partially consumed decode and resynchronizes the worker
// pipe by draining up to the done marker.
func (st *fwStream) Close() error {
	if st.done {
		return nil
	}
	if err := st.svc.send(workerRequest{Type: "cancel"}); err != nil {
		st.svc.dead = true
		st.finish()
		return err
	}
	for st.svc.out.Scan() {
		var line workerLine
		if err := json.Unmarshal(st.svc.out.Bytes(), &line); err != nil {
			continue
		}
		if line.Type == "done" || line.Type == "error" {
			st.finish()
			return nil
		}
	}
	st.svc.dead = true
	st.finish()
	return st.svc.out.Err()
}

func (st *fwStream) finish() {
	st.done = true
	st.svc.busy = false
}
