package factor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/factorlab/pkg/frame"
)

func col(values ...float64) [][]float64 {
	data := make([][]float64, len(values))
	for i, v := range values {
		data[i] = []float64{v}
	}
	return data
}

func TestFilter_PreservesMagnitude(t *testing.T) {
	fct := frame.MustMatrix(
		[]int64{1, 2},
		[]string{"A", "B"},
		[][]float64{{10, 20}, {30, 40}},
	)
	universe := frame.MustMatrix(
		[]int64{1, 2},
		[]string{"A", "B"},
		[][]float64{{1, 0}, {math.NaN(), 1}},
	)

	out := Filter(fct, universe)

	assert.Equal(t, 10.0, out.At(0, 0), "true cells keep the factor magnitude")
	assert.True(t, math.IsNaN(out.At(0, 1)), "false cells become missing")
	assert.True(t, math.IsNaN(out.At(1, 0)), "missing universe counts as false")
	assert.Equal(t, 40.0, out.At(1, 1))
}

func TestFilter_AlignsFirst(t *testing.T) {
	fct := frame.MustMatrix([]int64{1, 2, 3}, []string{"A"}, col(1, 2, 3))
	universe := frame.MustMatrix([]int64{2, 3}, []string{"A"}, col(1, 1))

	out := Filter(fct, universe)

	assert.Equal(t, []int64{2, 3}, out.Index())
	assert.Equal(t, 2.0, out.At(0, 0))
}

func TestPct(t *testing.T) {
	fct := frame.MustMatrix([]int64{1, 2, 3}, []string{"A"}, col(100, 110, 99))

	out := Pct(fct, 1)

	require.Equal(t, []int64{2, 3}, out.Index(), "first period rows are dropped")
	assert.InDelta(t, 0.10, out.At(0, 0), 1e-12)
	assert.InDelta(t, -0.10, out.At(1, 0), 1e-12)
}

func TestPct_ZeroAndMissingBase(t *testing.T) {
	fct := frame.MustMatrix([]int64{1, 2, 3}, []string{"A"}, col(0, 5, math.NaN()))

	out := Pct(fct, 1)

	assert.True(t, math.IsNaN(out.At(0, 0)), "division by zero base is missing, not infinite")
	assert.True(t, math.IsNaN(out.At(1, 0)), "missing operand stays missing")
}

func TestRollingMean(t *testing.T) {
	fct := frame.MustMatrix([]int64{1, 2, 3, 4}, []string{"A"}, col(1, 2, 3, 4))

	out := Mean(fct, 2)

	// Two leading rows are dropped; the first kept window covers rows 2 and 3.
	require.Equal(t, []int64{3, 4}, out.Index())
	assert.InDelta(t, 2.5, out.At(0, 0), 1e-12)
	assert.InDelta(t, 3.5, out.At(1, 0), 1e-12)
}

func TestRollingAggregates(t *testing.T) {
	fct := frame.MustMatrix([]int64{1, 2, 3, 4, 5}, []string{"A"}, col(5, 1, 4, 2, 3))

	minOut := Min(fct, 3)
	maxOut := Max(fct, 3)
	medOut := Median(fct, 3)

	require.Equal(t, []int64{4, 5}, minOut.Index())
	// Windows: rows {1,4,2} then {4,2,3}.
	assert.Equal(t, 1.0, minOut.At(0, 0))
	assert.Equal(t, 2.0, minOut.At(1, 0))
	assert.Equal(t, 4.0, maxOut.At(0, 0))
	assert.Equal(t, 4.0, maxOut.At(1, 0))
	assert.Equal(t, 2.0, medOut.At(0, 0))
	assert.Equal(t, 3.0, medOut.At(1, 0))
}

func TestRolling_NaNPropagates(t *testing.T) {
	fct := frame.MustMatrix([]int64{1, 2, 3, 4}, []string{"A"}, col(1, math.NaN(), 3, 4))

	out := Mean(fct, 2)

	assert.True(t, math.IsNaN(out.At(0, 0)), "window containing NaN is NaN")
	assert.InDelta(t, 3.5, out.At(1, 0), 1e-12)
}

func TestRoll_CustomAgg(t *testing.T) {
	fct := frame.MustMatrix([]int64{1, 2, 3}, []string{"A"}, col(1, 2, 3))

	sum := func(w []float64) float64 {
		total := 0.0
		for _, v := range w {
			total += v
		}
		return total
	}
	out := Roll(fct, 2, sum)

	require.Equal(t, []int64{3}, out.Index())
	assert.Equal(t, 5.0, out.At(0, 0))
}

func TestRolling_InsufficientRows(t *testing.T) {
	fct := frame.MustMatrix([]int64{1, 2}, []string{"A"}, col(1, 2))

	out := Mean(fct, 5)

	assert.Equal(t, 0, out.Rows(), "shorter input than window truncates to empty")
	assert.Equal(t, []string{"A"}, out.Columns())
}

func TestLag(t *testing.T) {
	fct := frame.MustMatrix([]int64{1, 2, 3}, []string{"A"}, col(10, 20, 30))

	forward := Lag(fct, 1)
	require.Equal(t, []int64{2, 3}, forward.Index(), "positive lag keeps later labels")
	assert.Equal(t, 10.0, forward.At(0, 0))
	assert.Equal(t, 20.0, forward.At(1, 0))

	backward := Lag(fct, -1)
	require.Equal(t, []int64{1, 2}, backward.Index(), "negative lag keeps earlier labels")
	assert.Equal(t, 20.0, backward.At(0, 0))
	assert.Equal(t, 30.0, backward.At(1, 0))

	unchanged := Lag(fct, 0)
	assert.True(t, unchanged.Equal(fct))
	assert.NotSame(t, fct, unchanged)
}

func TestHold(t *testing.T) {
	fct := frame.MustMatrix(
		[]int64{1, 2, 3, 4, 5, 6, 7},
		[]string{"A"},
		col(10, 11, 12, 13, 14, 15, 16),
	)

	out := Hold(fct, 3)

	require.Equal(t, fct.Index(), out.Index())
	// Refresh rows are 0, 3 and 6; everything in between reuses the frozen
	// snapshot.
	expected := []float64{10, 10, 10, 13, 13, 13, 16}
	for i, want := range expected {
		assert.Equal(t, want, out.At(i, 0), "row %d", i)
	}
}

func TestHold_ShortPeriodIsNoop(t *testing.T) {
	fct := frame.MustMatrix([]int64{1, 2}, []string{"A"}, col(1, 2))
	assert.True(t, Hold(fct, 1).Equal(fct))
}

func TestEMA_Shape(t *testing.T) {
	fct := frame.MustMatrix(
		[]int64{1, 2, 3, 4, 5, 6},
		[]string{"A"},
		col(10, 11, 12, 13, 14, 15),
	)

	out := EMA(fct, 3)

	require.Equal(t, []int64{4, 5, 6}, out.Index())
	for i := 0; i < out.Rows(); i++ {
		assert.False(t, math.IsNaN(out.At(i, 0)), "row %d", i)
		assert.Greater(t, out.At(i, 0), 10.0)
		assert.Less(t, out.At(i, 0), 15.0)
	}
}
