package routeperf

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/m-lab/go/prometheusx"

	"github.com/freshie/bedrock-cross-partition-inferencing-sub000/internal/aggregator"
	"github.com/freshie/bedrock-cross-partition-inferencing-sub000/internal/executor"
	"github.com/freshie/bedrock-cross-partition-inferencing-sub000/internal/gate"
	"github.com/freshie/bedrock-cross-partition-inferencing-sub000/internal/report"
	"github.com/freshie/bedrock-cross-partition-inferencing-sub000/internal/shaper"
	"github.com/freshie/bedrock-cross-partition-inferencing-sub000/internal/stats"
	"github.com/freshie/bedrock-cross-partition-inferencing-sub000/pkg/routeperf/model"
	"github.com/freshie/bedrock-cross-partition-inferencing-sub000/pkg/version"
)

// Runner executes one load-test run: shaped traffic through the gate,
// aggregation, optional statistical comparison, report assembly.
type Runner struct {
	cfg Config
}

// NewRunner validates cfg and returns a Runner.
func NewRunner(cfg Config) (*Runner, error) {
	if cfg.Emitter == nil {
		cfg.Emitter = HumanReadable{}
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = executor.DefaultTimeout
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Runner{cfg: cfg}, nil
}

// Run drives the configured profile to completion and returns the report.
// A report is returned even when err is non-nil: whatever records were
// collected before the failure are summarized so partial data is never
// silently lost.
func (r *Runner) Run(ctx context.Context) (model.Report, error) {
	cfg := r.cfg
	runID := uuid.NewString()
	started := time.Now().UTC()

	exec := executor.New(cfg.Client, executor.Config{
		URL:     cfg.APIURL,
		APIKey:  cfg.APIKey,
		Verb:    cfg.Verb,
		Timeout: cfg.RequestTimeout,
		BodyFor: cfg.BodyFor,
	})
	g := gate.New(int64(cfg.ConcurrentRequests))
	agg := aggregator.New()

	var phases []shaper.Phase
	switch cfg.Profile {
	case ProfileStress:
		phases = shaper.Stress(cfg.RPS, cfg.MaxRPS, cfg.Duration)
	case ProfileSpike:
		phases = shaper.Spike(cfg.RPS, cfg.MaxRPS, cfg.Duration)
	default:
		phases = shaper.Sustained(cfg.RPS, cfg.Duration)
	}

	sh := shaper.New(exec, g, cfg.RoutingMethods, phases,
		cfg.Profile == ProfileStress, agg.Record)
	sh.OnPhaseStart = cfg.Emitter.OnPhaseStart
	sh.OnPhaseComplete = cfg.Emitter.OnPhaseComplete

	cfg.Emitter.OnRunStart(runID, cfg.Profile, cfg.RoutingMethods)
	log.Info("run start", "id", runID, "profile", cfg.Profile,
		"methods", cfg.RoutingMethods, "duration", cfg.Duration,
		"rps", cfg.RPS, "concurrency", cfg.ConcurrentRequests)

	phaseResults, runErr := sh.Run(ctx)
	log.Info("run finished", "id", runID, "records", agg.Len(), "err", runErr)

	sum := agg.Summarize()
	cmp := r.compare(sum)

	rep := report.Build(r.testConfig(runID, started, phaseResults), sum, cmp)
	cfg.Emitter.OnRunComplete(rep)
	if runErr != nil {
		return rep, fmt.Errorf("run interrupted: %w", runErr)
	}
	return rep, nil
}

// compare runs the comparative analyzer when both routing methods were
// exercised. With a single method there is nothing to compare and the
// section is omitted from the report; with two methods but thin samples
// the section is present and marked unavailable.
func (r *Runner) compare(sum aggregator.Summary) *model.Comparison {
	if len(r.cfg.RoutingMethods) != 2 {
		return nil
	}
	a, b := r.cfg.RoutingMethods[0], r.cfg.RoutingMethods[1]
	c := stats.Compare(a, sum.Latencies[a], b, sum.Latencies[b],
		sum.PerMethod[a], sum.PerMethod[b])
	return &c
}

func (r *Runner) testConfig(runID string, started time.Time, phaseResults []shaper.PhaseResult) model.TestConfig {
	cfg := r.cfg
	tc := model.TestConfig{
		TestID:             runID,
		APIURL:             cfg.APIURL,
		RoutingMethods:     cfg.RoutingMethods,
		Profile:            cfg.Profile,
		DurationSec:        int(cfg.Duration / time.Second),
		RPS:                cfg.RPS,
		MaxRPS:             cfg.MaxRPS,
		ConcurrentRequests: cfg.ConcurrentRequests,
		RequestTimeoutSec:  cfg.RequestTimeout.Seconds(),
		StartTime:          started,
		Version:            version.Version,
		GitShortCommit:     prometheusx.GitShortCommit,
	}
	for _, pr := range phaseResults {
		tc.Phases = append(tc.Phases, model.PhaseConfig{
			Label:       pr.Label,
			TargetRPS:   pr.TargetRate,
			DurationSec: pr.Duration.Seconds(),
			Dispatched:  pr.Dispatched,
		})
	}
	return tc
}
