// Package shaper produces timed sequences of request dispatches according
// to a load profile, bounded by the concurrency gate.
package shaper

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"github.com/freshie/bedrock-cross-partition-inferencing-sub000/internal/gate"
	"github.com/freshie/bedrock-cross-partition-inferencing-sub000/pkg/routeperf/model"
)

var dispatchTotalMetric = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "routeperf_dispatch_total",
	Help: "Requests dispatched, by phase label.",
}, []string{"phase"})

// State of a Shaper. Transitions are Idle -> Running -> Draining -> Done.
type State int32

const (
	Idle State = iota
	Running
	Draining
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Draining:
		return "draining"
	case Done:
		return "done"
	}
	return "unknown"
}

// Requester issues one request for one routing method. Satisfied by
// *executor.Executor.
type Requester interface {
	Do(ctx context.Context, routingMethod string) model.ResultRecord
}

// Sink receives one ResultRecord per completed request. It must be safe
// for concurrent use.
type Sink func(model.ResultRecord)

// PhaseResult describes one executed phase.
type PhaseResult struct {
	Label      string
	TargetRate float64
	Duration   time.Duration
	Elapsed    time.Duration
	Dispatched int
}

// Shaper drives a Requester through the gate for a sequence of phases.
type Shaper struct {
	exec    Requester
	gate    *gate.Gate
	methods []string
	phases  []Phase
	sink    Sink

	// stepwise makes the shaper await each phase's requests before
	// advancing to the next phase, so per-step statistics are not
	// polluted by admissions from the previous step. Used by the
	// stress profile.
	stepwise bool

	// OnPhaseStart and OnPhaseComplete, when set, are called from the
	// dispatch goroutine around each phase.
	OnPhaseStart    func(Phase)
	OnPhaseComplete func(PhaseResult)

	state atomic.Int32
}

// New returns a Shaper. methods must be non-empty; every dispatched
// request alternates across them round-robin.
func New(exec Requester, g *gate.Gate, methods []string, phases []Phase, stepwise bool, sink Sink) *Shaper {
	if len(methods) == 0 {
		panic("shaper: at least one routing method required")
	}
	return &Shaper{
		exec:     exec,
		gate:     g,
		methods:  methods,
		phases:   phases,
		sink:     sink,
		stepwise: stepwise,
	}
}

// State returns the shaper's current state.
func (s *Shaper) State() State {
	return State(s.state.Load())
}

// Run executes all phases and drains. Dispatch pacing uses a rate.Limiter
// at the aggregate phase rate; per-method rate is the aggregate divided by
// the number of methods. After the last phase boundary no new requests are
// issued, but every admitted request is awaited: no request started before
// the boundary is ever discarded. Run returns the per-phase dispatch
// counts and ctx's error if the run was cut short.
func (s *Shaper) Run(ctx context.Context) ([]PhaseResult, error) {
	s.state.Store(int32(Running))
	results := make([]PhaseResult, 0, len(s.phases))
	var wg sync.WaitGroup
	mi := 0

	for _, ph := range s.phases {
		if ctx.Err() != nil {
			break
		}
		if s.OnPhaseStart != nil {
			s.OnPhaseStart(ph)
		}
		log.Info("phase start", "label", ph.Label, "target_rps", ph.Rate,
			"duration", ph.Duration)

		// In stepwise mode each phase gets its own WaitGroup so the
		// next rate step starts with an idle gate.
		phaseWG := &wg
		if s.stepwise {
			phaseWG = &sync.WaitGroup{}
		}

		limiter := rate.NewLimiter(rate.Limit(ph.Rate), 1)
		phaseCtx, cancel := context.WithTimeout(ctx, ph.Duration)
		start := time.Now()
		dispatched := 0

		for {
			// Pacing and admission both stop at the phase boundary;
			// in-flight requests are unaffected.
			if err := limiter.Wait(phaseCtx); err != nil {
				break
			}
			if err := s.gate.Acquire(phaseCtx); err != nil {
				break
			}
			method := s.methods[mi%len(s.methods)]
			mi++
			dispatched++
			dispatchTotalMetric.WithLabelValues(ph.Label).Inc()

			phaseWG.Add(1)
			go func(m string) {
				defer phaseWG.Done()
				defer s.gate.Release()
				s.sink(s.exec.Do(ctx, m))
			}(method)
		}
		cancel()

		if s.stepwise {
			phaseWG.Wait()
		}

		pr := PhaseResult{
			Label:      ph.Label,
			TargetRate: ph.Rate,
			Duration:   ph.Duration,
			Elapsed:    time.Since(start),
			Dispatched: dispatched,
		}
		results = append(results, pr)
		if s.OnPhaseComplete != nil {
			s.OnPhaseComplete(pr)
		}
		log.Info("phase complete", "label", ph.Label, "dispatched", dispatched,
			"elapsed", pr.Elapsed)
	}

	s.state.Store(int32(Draining))
	log.Info("draining in-flight requests")
	wg.Wait()
	s.state.Store(int32(Done))

	return results, ctx.Err()
}
