package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// sampleAround builds a deterministic sample of size n centered on c with
// a small fixed spread.
func sampleAround(c float64, n int) []float64 {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = c + float64(i%11) - 5
	}
	return out
}

func TestTTestSeparatedMeans(t *testing.T) {
	a := sampleAround(100, 30)
	b := sampleAround(500, 30)

	res := TTest(a, b)
	require.True(t, res.Significant)
	require.Less(t, res.PValue, 0.001)
	require.Less(t, res.Statistic, 0.0, "a is faster, statistic must be negative")
}

func TestTTestIdenticalSamples(t *testing.T) {
	a := sampleAround(100, 30)
	res := TTest(a, a)
	require.False(t, res.Significant)
	require.InDelta(t, 0, res.Statistic, 1e-12)
	require.InDelta(t, 1, res.PValue, 1e-9)
}

func TestTTestConstantSamples(t *testing.T) {
	a := []float64{100, 100, 100}
	b := []float64{100, 100, 100}
	res := TTest(a, b)
	require.False(t, res.Significant)
	require.Equal(t, 1.0, res.PValue)

	c := []float64{200, 200, 200}
	res = TTest(a, c)
	require.True(t, res.Significant)
	require.Equal(t, 0.0, res.PValue)
}

func TestMannWhitneySeparatedSamples(t *testing.T) {
	a := sampleAround(100, 30)
	b := sampleAround(500, 30)

	res := MannWhitneyU(a, b)
	require.True(t, res.Significant)
	require.Less(t, res.PValue, 0.001)
	// Complete separation: the smaller U is 0.
	require.Equal(t, 0.0, res.Statistic)
}

func TestMannWhitneyAllTied(t *testing.T) {
	a := []float64{7, 7, 7}
	res := MannWhitneyU(a, a)
	require.False(t, res.Significant)
	require.Equal(t, 1.0, res.PValue)
}

func TestKolmogorovSmirnovShapes(t *testing.T) {
	a := sampleAround(100, 40)
	b := sampleAround(500, 40)
	res := KolmogorovSmirnov(a, b)
	require.True(t, res.Significant)
	require.InDelta(t, 1.0, res.Statistic, 1e-12, "non-overlapping samples have D=1")

	same := KolmogorovSmirnov(a, a)
	require.False(t, same.Significant)
	require.InDelta(t, 0.0, same.Statistic, 1e-12)
}

func TestCohensDMagnitudes(t *testing.T) {
	a := sampleAround(100, 30)
	b := sampleAround(500, 30)
	es := CohensD(a, b)
	require.Equal(t, "large", es.Magnitude)
	require.Less(t, es.CohensD, 0.0)

	es = CohensD(a, a)
	require.Equal(t, "negligible", es.Magnitude)
	require.InDelta(t, 0, es.CohensD, 1e-12)
}

func TestMagnitudeBoundaries(t *testing.T) {
	require.Equal(t, "negligible", magnitude(0.19))
	require.Equal(t, "small", magnitude(0.2))
	require.Equal(t, "small", magnitude(0.49))
	require.Equal(t, "medium", magnitude(0.5))
	require.Equal(t, "medium", magnitude(0.79))
	require.Equal(t, "large", magnitude(0.8))
	require.Equal(t, "large", magnitude(3))
}

// Running the analyzer twice on identical input must yield identical
// statistics: no hidden randomness anywhere.
func TestIdempotence(t *testing.T) {
	a := sampleAround(120, 25)
	b := sampleAround(150, 35)

	first := []float64{
		TTest(a, b).Statistic, TTest(a, b).PValue,
		MannWhitneyU(a, b).Statistic, MannWhitneyU(a, b).PValue,
		KolmogorovSmirnov(a, b).Statistic, KolmogorovSmirnov(a, b).PValue,
		CohensD(a, b).CohensD,
	}
	second := []float64{
		TTest(a, b).Statistic, TTest(a, b).PValue,
		MannWhitneyU(a, b).Statistic, MannWhitneyU(a, b).PValue,
		KolmogorovSmirnov(a, b).Statistic, KolmogorovSmirnov(a, b).PValue,
		CohensD(a, b).CohensD,
	}
	require.Equal(t, first, second)
}

// Swapping the samples negates directional statistics but leaves
// p-values and effect-size magnitude unchanged.
func TestSwapSymmetry(t *testing.T) {
	a := sampleAround(100, 30)
	b := sampleAround(130, 28)

	tAB, tBA := TTest(a, b), TTest(b, a)
	require.InDelta(t, tAB.Statistic, -tBA.Statistic, 1e-9)
	require.InDelta(t, tAB.PValue, tBA.PValue, 1e-9)

	mAB, mBA := MannWhitneyU(a, b), MannWhitneyU(b, a)
	require.InDelta(t, mAB.Statistic, mBA.Statistic, 1e-9)
	require.InDelta(t, mAB.PValue, mBA.PValue, 1e-9)

	kAB, kBA := KolmogorovSmirnov(a, b), KolmogorovSmirnov(b, a)
	require.InDelta(t, kAB.Statistic, kBA.Statistic, 1e-9)
	require.InDelta(t, kAB.PValue, kBA.PValue, 1e-9)

	dAB, dBA := CohensD(a, b), CohensD(b, a)
	require.InDelta(t, math.Abs(dAB.CohensD), math.Abs(dBA.CohensD), 1e-9)
	require.Equal(t, dAB.Magnitude, dBA.Magnitude)
}

func TestNoNaNsOnRealisticInput(t *testing.T) {
	a := sampleAround(80, 12)
	b := sampleAround(85, 9)
	for _, res := range []float64{
		TTest(a, b).PValue, MannWhitneyU(a, b).PValue,
		KolmogorovSmirnov(a, b).PValue, CohensD(a, b).CohensD,
	} {
		require.False(t, math.IsNaN(res))
		require.False(t, math.IsInf(res, 0))
	}
}

func TestMedianLinearInterpolation(t *testing.T) {
	require.Equal(t, 15.0, Median([]float64{10, 20}))
	require.Equal(t, 20.0, Median([]float64{10, 20, 30}))
	require.Equal(t, 0.0, Median(nil))
}
