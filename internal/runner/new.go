package runner

import (
	"fmt"
	"time"

	"github.com/jvdwaal/radioscribe/internal/config"
	"github.com/jvdwaal/radioscribe/internal/logger"
	"github.com/jvdwaal/radioscribe/internal/probe"
	"github.com/jvdwaal/radioscribe/internal/stations"
	"github.com/jvdwaal/radioscribe/internal/transcribe"
	"github.com/jvdwaal/radioscribe/pkg/executor"
)

type implRunner struct {
	cfg      *config.Config
	stations map[string]stations.Station
	svc      transcribe.Service
	executor executor.Executor
	logger   logger.Logger
	policy   probe.Policy
	loc      *time.Location
	now      func() time.Time
}

// New creates a Runner instance. The timezone from the config names the
// reference location for transcript dates.
func New(cfg *config.Config, meta map[string]stations.Station, svc transcribe.Service, exec executor.Executor, log logger.Logger) (Runner, error) {
	loc, err := time.LoadLocation(cfg.Output.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Output.Timezone, err)
	}

	return &implRunner{
		cfg:      cfg,
		stations: meta,
		svc:      svc,
		executor: exec,
		logger:   log,
		policy: probe.Policy{
			BadThreshold:     cfg.Probe.BadThreshold,
			GoodThreshold:    cfg.Probe.GoodThreshold,
			GoodBeamSize:     cfg.Probe.GoodBeamSize,
			FallbackBeamSize: cfg.Probe.FallbackBeamSize,
		},
		loc: loc,
		now: time.Now,
	}, nil
}
