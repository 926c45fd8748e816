package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/freshie/bedrock-cross-partition-inferencing-sub000/pkg/routeperf/model"
)

const (
	// meanDeltaThresholdPct is the relative mean-latency difference above
	// which the faster method is recommended as primary.
	meanDeltaThresholdPct = 20.0

	// successRateGapPoints is the success-rate gap, in percentage
	// points, above which the less reliable method is flagged.
	successRateGapPoints = 5.0
)

// Compare runs the full comparative analysis of two methods'
// successful-request latency samples. The rule set is deterministic:
// identical inputs always produce identical output.
func Compare(methodA string, a []float64, methodB string, b []float64,
	sumA, sumB model.MethodSummary) model.Comparison {

	c := model.Comparison{
		MethodA: methodA,
		MethodB: methodB,
		SizeA:   len(a),
		SizeB:   len(b),
	}
	if len(a) < MinSampleSize || len(b) < MinSampleSize {
		c.Reason = fmt.Sprintf("insufficient data: need at least %d successful requests per method (got %d and %d)",
			MinSampleSize, len(a), len(b))
		return c
	}
	c.Available = true

	tt := TTest(a, b)
	mw := MannWhitneyU(a, b)
	ks := KolmogorovSmirnov(a, b)
	es := CohensD(a, b)
	c.TTest = &tt
	c.MannWhitneyU = &mw
	c.KolmogorovSmirnov = &ks
	c.EffectSize = &es

	meanA, meanB := stat.Mean(a, nil), stat.Mean(b, nil)
	slower := math.Max(meanA, meanB)
	pd := model.PracticalDifference{
		MeanDeltaMS:   meanA - meanB,
		MedianDeltaMS: Median(a) - Median(b),
	}
	if slower > 0 {
		pd.MeanDeltaPct = (meanA - meanB) / slower * 100
	}
	switch {
	case meanA < meanB:
		pd.FasterRouting = methodA
	case meanB < meanA:
		pd.FasterRouting = methodB
	}
	c.PracticalDifference = &pd

	// Ordered, deterministic recommendation rules.
	relDiff := math.Abs(pd.MeanDeltaPct)
	if relDiff > meanDeltaThresholdPct && pd.FasterRouting != "" {
		c.Recommendations = append(c.Recommendations, fmt.Sprintf(
			"mean latency differs by %.1f%%; use %s routing as primary",
			relDiff, pd.FasterRouting))
	} else {
		c.Recommendations = append(c.Recommendations,
			"latency is comparable between routing methods; choose on non-performance criteria")
	}
	if gap := sumA.SuccessRate - sumB.SuccessRate; math.Abs(gap) > successRateGapPoints {
		lessReliable := methodA
		if gap > 0 {
			lessReliable = methodB
		}
		c.Recommendations = append(c.Recommendations, fmt.Sprintf(
			"success rate gap is %.1f points; investigate %s routing reliability regardless of latency",
			math.Abs(gap), lessReliable))
	}
	return c
}
