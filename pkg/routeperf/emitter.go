package routeperf

import (
	"fmt"

	"github.com/freshie/bedrock-cross-partition-inferencing-sub000/internal/shaper"
	"github.com/freshie/bedrock-cross-partition-inferencing-sub000/pkg/routeperf/model"
)

// Emitter is an interface for emitting run progress and results.
type Emitter interface {
	// OnRunStart is called once before any traffic is generated.
	OnRunStart(runID string, profile string, methods []string)
	// OnPhaseStart is called when a traffic phase begins.
	OnPhaseStart(p shaper.Phase)
	// OnPhaseComplete is called after a phase's dispatch window closes.
	OnPhaseComplete(r shaper.PhaseResult)
	// OnRunComplete is called with the assembled report.
	OnRunComplete(rep model.Report)
}

// HumanReadable prints human-readable progress to stdout.
type HumanReadable struct{}

// OnRunStart prints the run header.
func (HumanReadable) OnRunStart(runID, profile string, methods []string) {
	fmt.Printf("Starting %s run %s (methods: %v)\n", profile, runID, methods)
}

// OnPhaseStart prints the phase target.
func (HumanReadable) OnPhaseStart(p shaper.Phase) {
	fmt.Printf("Phase %s: %.0f req/s for %s\n", p.Label, p.Rate, p.Duration)
}

// OnPhaseComplete prints the phase dispatch count.
func (HumanReadable) OnPhaseComplete(r shaper.PhaseResult) {
	fmt.Printf("Phase %s complete: %d dispatched in %.1fs\n",
		r.Label, r.Dispatched, r.Elapsed.Seconds())
}

// OnRunComplete prints the per-method summary and, when available, the
// comparison verdict.
func (HumanReadable) OnRunComplete(rep model.Report) {
	fmt.Println()
	fmt.Println("Run results:")
	for method, sum := range rep.RoutingBreakdown {
		fmt.Printf("  %s: %d requests, %.1f%% success", method,
			sum.TotalRequests, sum.SuccessRate)
		if sum.Latency != nil {
			fmt.Printf(", p50 %.1fms, p99 %.1fms", sum.Latency.P50MS, sum.Latency.P99MS)
		}
		fmt.Println()
	}
	if cmp := rep.StatisticalComparison; cmp != nil {
		if !cmp.Available {
			fmt.Printf("  comparison unavailable: %s\n", cmp.Reason)
			return
		}
		for _, rec := range cmp.Recommendations {
			fmt.Printf("  recommendation: %s\n", rec)
		}
	}
}
