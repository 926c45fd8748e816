// Package stats is the pure-function statistics engine behind the
// comparative analyzer. Every function takes plain samples and returns
// value objects, so the math is testable without any network layer.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/freshie/bedrock-cross-partition-inferencing-sub000/pkg/routeperf/model"
)

// Alpha is the significance level for all hypothesis tests.
const Alpha = 0.05

// MinSampleSize is the smallest per-method sample the tests accept.
// Below 2 points the t and KS tests are undefined or meaningless.
const MinSampleSize = 2

// TTest runs a pooled-variance two-sample Student's t-test on the means.
// Two-sided.
func TTest(a, b []float64) model.TestResult {
	na, nb := float64(len(a)), float64(len(b))
	meanA, meanB := stat.Mean(a, nil), stat.Mean(b, nil)
	varA, varB := stat.Variance(a, nil), stat.Variance(b, nil)

	df := na + nb - 2
	pooled := ((na-1)*varA + (nb-1)*varB) / df
	se := math.Sqrt(pooled * (1/na + 1/nb))
	if se == 0 {
		// Two constant samples. Identical means are maximally
		// non-significant; different means with zero variance are a
		// degenerate certainty.
		if meanA == meanB {
			return model.TestResult{Statistic: 0, PValue: 1}
		}
		return model.TestResult{Statistic: math.Inf(sign(meanA - meanB)), PValue: 0, Significant: true}
	}

	t := (meanA - meanB) / se
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.CDF(-math.Abs(t))
	return model.TestResult{Statistic: t, PValue: p, Significant: p < Alpha}
}

// MannWhitneyU runs a two-sided Mann-Whitney U test using the normal
// approximation with midranks for ties, tie-corrected variance and a 0.5
// continuity correction. Robust to the right skew typical of latency
// distributions.
func MannWhitneyU(a, b []float64) model.TestResult {
	na, nb := float64(len(a)), float64(len(b))
	n := na + nb

	type obs struct {
		v     float64
		fromA bool
	}
	all := make([]obs, 0, int(n))
	for _, v := range a {
		all = append(all, obs{v, true})
	}
	for _, v := range b {
		all = append(all, obs{v, false})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].v < all[j].v })

	// Midranks, accumulating the tie-group correction term sum(t^3-t).
	var rankSumA, tieTerm float64
	for i := 0; i < len(all); {
		j := i
		for j < len(all) && all[j].v == all[i].v {
			j++
		}
		t := float64(j - i)
		midrank := float64(i+j+1) / 2 // ranks are 1-based
		for k := i; k < j; k++ {
			if all[k].fromA {
				rankSumA += midrank
			}
		}
		tieTerm += t*t*t - t
		i = j
	}

	u1 := rankSumA - na*(na+1)/2
	u2 := na*nb - u1
	u := math.Min(u1, u2)

	mu := na * nb / 2
	sigma := math.Sqrt(na * nb / 12 * ((n + 1) - tieTerm/(n*(n-1))))
	if sigma == 0 {
		// All observations tied.
		return model.TestResult{Statistic: u, PValue: 1}
	}
	z := (math.Abs(u-mu) - 0.5) / sigma
	if z < 0 {
		z = 0
	}
	p := 2 * distuv.UnitNormal.CDF(-z)
	if p > 1 {
		p = 1
	}
	return model.TestResult{Statistic: u, PValue: p, Significant: p < Alpha}
}

// KolmogorovSmirnov runs the two-sample KS test. The statistic comes from
// gonum; the p-value uses the standard asymptotic approximation with the
// small-sample effective-size adjustment.
func KolmogorovSmirnov(a, b []float64) model.TestResult {
	as := sortedCopy(a)
	bs := sortedCopy(b)
	d := stat.KolmogorovSmirnov(as, nil, bs, nil)

	na, nb := float64(len(a)), float64(len(b))
	ne := na * nb / (na + nb)
	lambda := (math.Sqrt(ne) + 0.12 + 0.11/math.Sqrt(ne)) * d
	p := ksProb(lambda)
	return model.TestResult{Statistic: d, PValue: p, Significant: p < Alpha}
}

// ksProb is the Kolmogorov distribution tail Q(lambda) =
// 2*sum_{j>=1} (-1)^(j-1) exp(-2 j^2 lambda^2).
func ksProb(lambda float64) float64 {
	if lambda <= 0 {
		return 1
	}
	var sum float64
	sign := 1.0
	for j := 1; j <= 100; j++ {
		term := sign * math.Exp(-2*float64(j)*float64(j)*lambda*lambda)
		sum += term
		if math.Abs(term) < 1e-10 {
			break
		}
		sign = -sign
	}
	p := 2 * sum
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// CohensD computes the pooled-standard-deviation effect size and its
// conventional magnitude class. Guards against over-reacting to
// statistically significant but practically trivial differences.
func CohensD(a, b []float64) model.EffectSize {
	na, nb := float64(len(a)), float64(len(b))
	varA, varB := stat.Variance(a, nil), stat.Variance(b, nil)
	pooled := math.Sqrt(((na-1)*varA + (nb-1)*varB) / (na + nb - 2))
	var d float64
	if pooled > 0 {
		d = (stat.Mean(a, nil) - stat.Mean(b, nil)) / pooled
	}
	return model.EffectSize{CohensD: d, Magnitude: magnitude(math.Abs(d))}
}

func magnitude(d float64) string {
	switch {
	case d < 0.2:
		return "negligible"
	case d < 0.5:
		return "small"
	case d < 0.8:
		return "medium"
	}
	return "large"
}

// Median returns the 50th percentile of a sample by linear interpolation.
func Median(sample []float64) float64 {
	if len(sample) == 0 {
		return 0
	}
	return stat.Quantile(0.5, stat.LinInterp, sortedCopy(sample), nil)
}

func sortedCopy(s []float64) []float64 {
	out := make([]float64, len(s))
	copy(out, s)
	sort.Float64s(out)
	return out
}

func sign(x float64) int {
	if x < 0 {
		return -1
	}
	return 1
}
