// Package factor provides column-wise factor preprocessing: universe
// filtering, windowed aggregation, lagging and hold-style rebalance
// throttling. All functions return new matrices and leave inputs untouched.
//
// Arithmetic anomalies (division by zero, missing operands) become NaN, the
// missing sentinel, never an error: sparse universes are the expected case.
package factor

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/aristath/factorlab/pkg/frame"
)

// Agg reduces one full rolling window to a single value. The window slice is
// passed as-is, NaNs included, so custom aggregations decide their own
// missing-value policy.
type Agg func(window []float64) float64

// Filter replaces factor values with NaN wherever the universe matrix is
// false (zero or NaN) after alignment. True cells keep their original
// magnitude; the universe acts purely as a mask.
func Filter(factor, universe *frame.Matrix) *frame.Matrix {
	universe, factor = frame.AlignMatrices(universe, factor)

	rows, cols := factor.Rows(), factor.Cols()
	data := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		row := make([]float64, cols)
		for j := 0; j < cols; j++ {
			if truthy(universe.At(i, j)) {
				row[j] = factor.At(i, j)
			} else {
				row[j] = math.NaN()
			}
		}
		data[i] = row
	}
	return frame.MustMatrix(factor.Index(), factor.Columns(), data)
}

// Pct computes the rate of change over period rows per column:
// (x[t] - x[t-period]) / x[t-period]. The first period rows are dropped and
// the index shifts accordingly; a zero or missing base yields NaN.
func Pct(factor *frame.Matrix, period int) *frame.Matrix {
	period = clampPeriod(period)
	rows, cols := factor.Rows(), factor.Cols()
	if rows <= period {
		return emptyLike(factor)
	}

	data := make([][]float64, rows-period)
	for t := period; t < rows; t++ {
		row := make([]float64, cols)
		for j := 0; j < cols; j++ {
			base := factor.At(t-period, j)
			v := (factor.At(t, j) - base) / base
			if math.IsInf(v, 0) {
				v = math.NaN()
			}
			row[j] = v
		}
		data[t-period] = row
	}
	return frame.MustMatrix(factor.Index()[period:], factor.Columns(), data)
}

// Mean computes the rolling mean over windows of width period.
func Mean(factor *frame.Matrix, period int) *frame.Matrix {
	return Roll(factor, period, nanPropagating(func(w []float64) float64 {
		return stat.Mean(w, nil)
	}))
}

// Median computes the rolling median over windows of width period.
func Median(factor *frame.Matrix, period int) *frame.Matrix {
	return Roll(factor, period, nanPropagating(median))
}

// Min computes the rolling minimum over windows of width period.
func Min(factor *frame.Matrix, period int) *frame.Matrix {
	return Roll(factor, period, nanPropagating(floats.Min))
}

// Max computes the rolling maximum over windows of width period.
func Max(factor *frame.Matrix, period int) *frame.Matrix {
	return Roll(factor, period, nanPropagating(floats.Max))
}

// Roll applies agg to a sliding window of width period, independently per
// column. Mirroring the truncation convention of the other windowed
// transforms, the first period output rows are dropped, so the window ending
// at the first kept row starts at row 1, never row 0.
func Roll(factor *frame.Matrix, period int, agg Agg) *frame.Matrix {
	period = clampPeriod(period)
	rows, cols := factor.Rows(), factor.Cols()
	if rows <= period {
		return emptyLike(factor)
	}

	window := make([]float64, period)
	data := make([][]float64, rows-period)
	for t := period; t < rows; t++ {
		row := make([]float64, cols)
		for j := 0; j < cols; j++ {
			for w := 0; w < period; w++ {
				window[w] = factor.At(t-period+1+w, j)
			}
			row[j] = agg(window)
		}
		data[t-period] = row
	}
	return frame.MustMatrix(factor.Index()[period:], factor.Columns(), data)
}

// Lag shifts factor values later in time by period rows when period is
// positive (dropping the first period output rows and keeping the later
// labels) and earlier when negative. A zero period returns an unchanged copy.
func Lag(factor *frame.Matrix, period int) *frame.Matrix {
	rows := factor.Rows()
	switch {
	case period == 0:
		return factor.Clone()
	case period >= rows || -period >= rows:
		return emptyLike(factor)
	case period > 0:
		data := make([][]float64, rows-period)
		for i := range data {
			data[i] = factor.Row(i)
		}
		return frame.MustMatrix(factor.Index()[period:], factor.Columns(), data)
	default: // period < 0
		data := make([][]float64, rows+period)
		for i := range data {
			data[i] = factor.Row(i - period)
		}
		return frame.MustMatrix(factor.Index()[:rows+period], factor.Columns(), data)
	}
}

// Hold freezes factor values at refresh rows {0, period, 2*period, ...} and
// reuses the frozen snapshot for every row until the next refresh. A strategy
// built on the result rebalances only every period rows. Periods of one or
// less leave the factor unchanged.
func Hold(factor *frame.Matrix, period int) *frame.Matrix {
	if period <= 1 {
		return factor.Clone()
	}
	rows := factor.Rows()
	data := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		refresh := (i / period) * period
		data[i] = factor.Row(refresh)
	}
	return frame.MustMatrix(factor.Index(), factor.Columns(), data)
}

func truthy(v float64) bool {
	return v != 0 && !math.IsNaN(v)
}

func clampPeriod(period int) int {
	if period < 1 {
		return 1
	}
	return period
}

func emptyLike(m *frame.Matrix) *frame.Matrix {
	return frame.MustMatrix(nil, m.Columns(), nil)
}

// nanPropagating wraps an aggregate so that any NaN inside the window makes
// the whole window NaN, matching the semantics of the named rolling
// transforms.
func nanPropagating(agg func([]float64) float64) Agg {
	return func(window []float64) float64 {
		for _, v := range window {
			if math.IsNaN(v) {
				return math.NaN()
			}
		}
		return agg(window)
	}
}

func median(window []float64) float64 {
	sorted := append([]float64(nil), window...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
