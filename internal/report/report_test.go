package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/freshie/bedrock-cross-partition-inferencing-sub000/internal/aggregator"
	"github.com/freshie/bedrock-cross-partition-inferencing-sub000/pkg/routeperf/model"
)

func testSummary() aggregator.Summary {
	a := aggregator.New()
	a.Record(model.ResultRecord{RoutingMethod: model.RoutingInternet, Success: true, StatusCode: 200, LatencyMS: 100})
	a.Record(model.ResultRecord{RoutingMethod: model.RoutingInternet, Success: true, StatusCode: 200, LatencyMS: 120})
	a.Record(model.ResultRecord{RoutingMethod: model.RoutingVPN, StatusCode: 0, LatencyMS: 30000, ErrorDetail: "timeout: context deadline exceeded"})
	return a.Summarize()
}

// The JSON artifact's top-level keys are a stable contract: downstream
// Markdown reporting addresses them by fixed path.
func TestReportStableTopLevelKeys(t *testing.T) {
	rep := Build(model.TestConfig{TestID: "t1"}, testSummary(), nil)

	data, err := json.Marshal(rep)
	require.NoError(t, err)

	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &m))
	for _, key := range []string{
		"test_config", "overall_metrics", "routing_breakdown",
		"error_distribution", "timestamp",
	} {
		require.Contains(t, m, key)
	}
	// Comparison was nil: the key must be omitted, not null.
	require.NotContains(t, m, "statistical_comparison")
}

func TestReportComparisonIncludedWhenPresent(t *testing.T) {
	cmp := &model.Comparison{Available: false, Reason: "insufficient data"}
	rep := Build(model.TestConfig{}, testSummary(), cmp)

	data, err := json.Marshal(rep)
	require.NoError(t, err)
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &m))
	require.Contains(t, m, "statistical_comparison")
}

func TestReportBreakdownFields(t *testing.T) {
	rep := Build(model.TestConfig{}, testSummary(), nil)

	data, err := json.Marshal(rep)
	require.NoError(t, err)
	type summaryView struct {
		TotalRequests int                `json:"total_requests"`
		SuccessRate   float64            `json:"success_rate"`
		Latency       map[string]float64 `json:"latency"`
		Errors        map[string]int     `json:"errors"`
	}
	var decoded struct {
		RoutingBreakdown  map[string]summaryView `json:"routing_breakdown"`
		ErrorDistribution map[string]int         `json:"error_distribution"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	inet := decoded.RoutingBreakdown["internet"]
	require.Equal(t, 2, inet.TotalRequests)
	require.Equal(t, 100.0, inet.SuccessRate)
	require.NotEmpty(t, inet.Latency)

	vpn := decoded.RoutingBreakdown["vpn"]
	require.Empty(t, vpn.Latency, "zero successes must omit latency stats")
	require.Equal(t, 1, decoded.ErrorDistribution["0:timeout"])
}

func TestReportTimestampIsUTCISO8601(t *testing.T) {
	rep := Build(model.TestConfig{}, testSummary(), nil)
	ts, err := time.Parse(time.RFC3339, rep.Timestamp)
	require.NoError(t, err)
	require.Equal(t, time.UTC, ts.Location())
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	rep := Build(model.TestConfig{TestID: "t2"}, testSummary(), nil)

	require.NoError(t, Write(path, rep))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var round model.Report
	require.NoError(t, json.Unmarshal(data, &round))
	require.Equal(t, "t2", round.TestConfig.TestID)
	require.Equal(t, 3, round.OverallMetrics.TotalRequests)
}

func TestWriteBadPath(t *testing.T) {
	rep := Build(model.TestConfig{}, testSummary(), nil)
	err := Write(filepath.Join(t.TempDir(), "missing", "report.json"), rep)
	require.Error(t, err)
}
