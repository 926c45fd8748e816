// Package report assembles the run's final JSON artifact and writes it to
// disk. Pure assembly: all computation happens upstream.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/freshie/bedrock-cross-partition-inferencing-sub000/internal/aggregator"
	"github.com/freshie/bedrock-cross-partition-inferencing-sub000/pkg/routeperf/model"
)

// Build assembles the report from the run configuration echo, the
// finalized summaries and the (possibly nil) statistical comparison.
func Build(tc model.TestConfig, sum aggregator.Summary, cmp *model.Comparison) model.Report {
	breakdown := sum.PerMethod
	if breakdown == nil {
		breakdown = map[string]model.MethodSummary{}
	}
	errDist := sum.ErrorDistribution
	if errDist == nil {
		errDist = map[string]int{}
	}
	return model.Report{
		TestConfig:            tc,
		OverallMetrics:        sum.Overall,
		RoutingBreakdown:      breakdown,
		StatisticalComparison: cmp,
		ErrorDistribution:     errDist,
		Timestamp:             time.Now().UTC().Format(time.RFC3339),
	}
}

// Write marshals the report with indentation and writes it to path.
func Write(path string, r model.Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", path, err)
	}
	return nil
}
