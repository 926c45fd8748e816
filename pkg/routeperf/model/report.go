package model

import "time"

// LatencyStats are the latency statistics for one set of successful
// requests, in milliseconds. Percentiles are computed with linear
// interpolation on the sorted sample.
type LatencyStats struct {
	MeanMS   float64 `json:"mean_ms"`
	MinMS    float64 `json:"min_ms"`
	MaxMS    float64 `json:"max_ms"`
	StddevMS float64 `json:"stddev_ms"`
	P50MS    float64 `json:"p50_ms"`
	P75MS    float64 `json:"p75_ms"`
	P90MS    float64 `json:"p90_ms"`
	P95MS    float64 `json:"p95_ms"`
	P99MS    float64 `json:"p99_ms"`
}

// MethodSummary summarizes all ResultRecords observed for one routing
// method. Latency is nil when the method had zero successful requests:
// reporting zeroes there would imply a fast, working system.
type MethodSummary struct {
	TotalRequests      int     `json:"total_requests"`
	SuccessfulRequests int     `json:"successful_requests"`
	FailedRequests     int     `json:"failed_requests"`
	// SuccessRate is a percentage in [0, 100].
	SuccessRate float64       `json:"success_rate"`
	Latency     *LatencyStats `json:"latency,omitempty"`
	// Errors counts failures keyed by "<status_code>:<error class>".
	Errors map[string]int `json:"errors,omitempty"`
}

// TestResult is the outcome of one hypothesis test.
type TestResult struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
	// Significant is true iff PValue < 0.05.
	Significant bool `json:"significant"`
}

// EffectSize is Cohen's d with its conventional magnitude class.
type EffectSize struct {
	CohensD float64 `json:"cohens_d"`
	// Magnitude is one of "negligible", "small", "medium", "large".
	Magnitude string `json:"magnitude"`
}

// PracticalDifference reports raw deltas between the two methods'
// latency samples, independent of statistical significance. Deltas are
// method A minus method B.
type PracticalDifference struct {
	MeanDeltaMS   float64 `json:"mean_delta_ms"`
	MedianDeltaMS float64 `json:"median_delta_ms"`
	// MeanDeltaPct is the mean delta as a percentage of the slower
	// method's mean.
	MeanDeltaPct  float64 `json:"mean_delta_pct"`
	FasterRouting string  `json:"faster_routing"`
}

// Comparison is the statistical comparison of the two routing methods'
// successful-request latency samples. It is computed exactly once, after
// the run completes, and never mutated.
type Comparison struct {
	// Available is false when either sample had fewer than 2 points;
	// Reason then says why the tests were skipped.
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`

	MethodA string `json:"method_a,omitempty"`
	MethodB string `json:"method_b,omitempty"`
	SizeA   int    `json:"sample_size_a,omitempty"`
	SizeB   int    `json:"sample_size_b,omitempty"`

	TTest             *TestResult `json:"t_test,omitempty"`
	MannWhitneyU      *TestResult `json:"mann_whitney_u,omitempty"`
	KolmogorovSmirnov *TestResult `json:"kolmogorov_smirnov,omitempty"`

	EffectSize          *EffectSize          `json:"effect_size,omitempty"`
	PracticalDifference *PracticalDifference `json:"practical_difference,omitempty"`

	// Recommendations are plain-language, derived from a deterministic
	// ordered rule set over the summaries.
	Recommendations []string `json:"recommendations,omitempty"`
}

// PhaseConfig describes one executed traffic phase.
type PhaseConfig struct {
	Label       string  `json:"label"`
	TargetRPS   float64 `json:"target_rps"`
	DurationSec float64 `json:"duration_sec"`
	Dispatched  int     `json:"dispatched"`
}

// TestConfig echoes the run parameters into the report so a report file
// is self-describing.
type TestConfig struct {
	TestID             string        `json:"test_id"`
	APIURL             string        `json:"api_url"`
	RoutingMethods     []string      `json:"routing_methods"`
	Profile            string        `json:"profile"`
	DurationSec        int           `json:"duration_sec"`
	RPS                int           `json:"rps"`
	MaxRPS             int           `json:"max_rps"`
	ConcurrentRequests int           `json:"concurrent_requests"`
	RequestTimeoutSec  float64       `json:"request_timeout_sec"`
	Phases             []PhaseConfig `json:"phases"`
	StartTime          time.Time     `json:"start_time"`
	Version            string        `json:"version"`
	GitShortCommit     string        `json:"git_short_commit"`
}

// Report is the external JSON artifact. Field names and nesting are a
// stable contract: downstream Markdown summaries address them by fixed
// JSON path.
type Report struct {
	TestConfig            TestConfig               `json:"test_config"`
	OverallMetrics        MethodSummary            `json:"overall_metrics"`
	RoutingBreakdown      map[string]MethodSummary `json:"routing_breakdown"`
	StatisticalComparison *Comparison              `json:"statistical_comparison,omitempty"`
	ErrorDistribution     map[string]int           `json:"error_distribution"`
	Timestamp             string                   `json:"timestamp"`
}
