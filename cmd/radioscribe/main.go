package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jvdwaal/radioscribe/internal/config"
	"github.com/jvdwaal/radioscribe/internal/logger"
	"github.com/jvdwaal/radioscribe/internal/runner"
	"github.com/jvdwaal/radioscribe/internal/stations"
	"github.com/jvdwaal/radioscribe/internal/summarizer"
	"github.com/jvdwaal/radioscribe/internal/transcribe"
	"github.com/jvdwaal/radioscribe/internal/watcher"
	"github.com/jvdwaal/radioscribe/pkg/executor"
)

// exitInterrupted distinguishes an aborted run from other failures.
const exitInterrupted = 130

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath    = flag.String("config", "config.yaml", "Path to the YAML configuration file")
		dirFlag       = flag.String("dir", "", "Directory containing the audio files to process (overrides paths.input)")
		stationsFlag  = flag.String("stations", "", "Stations CSV: name,url,lang[,cc] (overrides paths.stations)")
		watchFlag     = flag.Bool("watch", false, "Keep running and transcribe recordings as they appear")
		summarizeFlag = flag.Bool("summarize", false, "Generate digests for transcripts after the batch")
	)
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	if *dirFlag != "" {
		cfg.Paths.Input = *dirFlag
	}
	if *stationsFlag != "" {
		cfg.Paths.Stations = *stationsFlag
	}
	if *watchFlag {
		cfg.Watch.Enabled = true
	}
	if *summarizeFlag {
		cfg.Summary.Enabled = true
	}

	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Radioscribe - radio transcription pipeline")
	log.Info(ctx, "========================================")
	log.Info(ctx, "Recordings: %s", cfg.Paths.Input)
	log.Info(ctx, "Stations:   %s", cfg.Paths.Stations)

	meta, err := stations.Load(cfg.Paths.Stations)
	if err != nil {
		log.Error(ctx, "Failed to load stations: %v", err)
		return 1
	}
	log.Info(ctx, "Loaded %d station(s)", len(meta))

	svc, err := transcribe.New(&cfg.Transcribe, log)
	if err != nil {
		log.Error(ctx, "Failed to start transcription service: %v", err)
		return 1
	}
	defer svc.Close()

	r, err := runner.New(cfg, meta, svc, executor.New(), log)
	if err != nil {
		log.Error(ctx, "Failed to create runner: %v", err)
		return 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Warn(ctx, "Interrupt received, aborting remaining queue...")
		cancel()
	}()

	if err := r.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return exitInterrupted
		}
		log.Error(ctx, "Batch failed: %v", err)
		return 1
	}

	if cfg.Summary.Enabled && len(cfg.Summary.APIKeys) > 0 {
		sum := summarizer.New(cfg.Summary.APIKeys, cfg.Summary.Model, cfg.Summary.Docx, log)
		if err := sum.SummarizeAll(ctx, cfg.Paths.Input, cfg.Paths.Summaries); err != nil {
			log.Error(ctx, "Summary pass failed: %v", err)
		}
	}

	if cfg.Watch.Enabled {
		w, err := watcher.New(cfg.Paths.Input, r.ProcessFile, log)
		if err != nil {
			log.Error(ctx, "Failed to create watcher: %v", err)
			return 1
		}
		defer w.Stop()

		log.Info(ctx, "Watching %s for new recordings. Press Ctrl+C to stop.", cfg.Paths.Input)
		if err := w.Start(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return exitInterrupted
			}
			log.Error(ctx, "Watcher error: %v", err)
			return 1
		}
	}

	return 0
}
