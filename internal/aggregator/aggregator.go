// Package aggregator collects ResultRecords from concurrent producers and
// computes per-method summaries once ingestion is complete.
package aggregator

import (
	"sort"
	"strconv"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/freshie/bedrock-cross-partition-inferencing-sub000/pkg/routeperf/model"
)

// Aggregator owns the full list of ResultRecords for one run. Appends are
// synchronized; summaries are computed only after all producers are done,
// so no read locks are needed.
type Aggregator struct {
	mu      sync.Mutex
	records []model.ResultRecord
}

// Summary is the finalized view of a run.
type Summary struct {
	// PerMethod maps routing method to its summary.
	PerMethod map[string]model.MethodSummary
	// Overall aggregates every record regardless of method.
	Overall model.MethodSummary
	// ErrorDistribution counts failures across all methods, keyed by
	// "<status_code>:<error class>".
	ErrorDistribution map[string]int
	// Latencies holds the successful-request latency sample per method,
	// sorted ascending, for the comparative analyzer.
	Latencies map[string][]float64
}

// New returns an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{}
}

// Record appends one result. Safe for concurrent use. Records may arrive
// out of dispatch order; nothing here depends on ordering.
func (a *Aggregator) Record(r model.ResultRecord) {
	a.mu.Lock()
	a.records = append(a.records, r)
	a.mu.Unlock()
}

// Len returns the number of records ingested so far.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.records)
}

// Snapshot returns a copy of the records collected so far. Used to flush
// partial data when a run is cut short.
func (a *Aggregator) Snapshot() []model.ResultRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]model.ResultRecord, len(a.records))
	copy(out, a.records)
	return out
}

// Summarize computes the per-method and overall summaries over everything
// recorded so far.
func (a *Aggregator) Summarize() Summary {
	records := a.Snapshot()

	byMethod := make(map[string][]model.ResultRecord)
	for _, r := range records {
		byMethod[r.RoutingMethod] = append(byMethod[r.RoutingMethod], r)
	}

	s := Summary{
		PerMethod:         make(map[string]model.MethodSummary, len(byMethod)),
		ErrorDistribution: make(map[string]int),
		Latencies:         make(map[string][]float64, len(byMethod)),
	}
	for method, recs := range byMethod {
		sum, sample := summarize(recs)
		s.PerMethod[method] = sum
		s.Latencies[method] = sample
		for k, v := range sum.Errors {
			s.ErrorDistribution[k] += v
		}
	}
	s.Overall, _ = summarize(records)
	return s
}

func summarize(records []model.ResultRecord) (model.MethodSummary, []float64) {
	sum := model.MethodSummary{TotalRequests: len(records)}
	var sample []float64
	errs := make(map[string]int)
	for i := range records {
		r := &records[i]
		if r.Success {
			sum.SuccessfulRequests++
			sample = append(sample, r.LatencyMS)
		} else {
			sum.FailedRequests++
			errs[strconv.Itoa(r.StatusCode)+":"+r.ErrorClass()]++
		}
	}
	if len(errs) > 0 {
		sum.Errors = errs
	}
	if sum.TotalRequests > 0 {
		sum.SuccessRate = 100 * float64(sum.SuccessfulRequests) / float64(sum.TotalRequests)
	}
	sort.Float64s(sample)
	sum.Latency = latencyStats(sample)
	return sum, sample
}

// latencyStats computes latency statistics over a sorted sample, or nil
// for an empty one: a zeroed-out stats block would imply a fast, working
// system where there was none.
func latencyStats(sorted []float64) *model.LatencyStats {
	if len(sorted) == 0 {
		return nil
	}
	ls := &model.LatencyStats{
		MeanMS: stat.Mean(sorted, nil),
		MinMS:  sorted[0],
		MaxMS:  sorted[len(sorted)-1],
		P50MS:  stat.Quantile(0.50, stat.LinInterp, sorted, nil),
		P75MS:  stat.Quantile(0.75, stat.LinInterp, sorted, nil),
		P90MS:  stat.Quantile(0.90, stat.LinInterp, sorted, nil),
		P95MS:  stat.Quantile(0.95, stat.LinInterp, sorted, nil),
		P99MS:  stat.Quantile(0.99, stat.LinInterp, sorted, nil),
	}
	if len(sorted) > 1 {
		ls.StddevMS = stat.StdDev(sorted, nil)
	}
	return ls
}
