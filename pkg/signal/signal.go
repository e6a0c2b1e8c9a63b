// Package signal turns a factor matrix into a boolean inclusion matrix via
// cross-sectional (per period) selection rules. Selected cells are 1,
// everything else is 0; missing factor values can never be selected, so NaN
// does not appear in outputs.
//
// Boundary ties are always included: a top-k row with duplicate boundary
// values may select more than k assets. Tie-breaking by anything other than
// the factor value itself would not be reproducible.
package signal

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/aristath/factorlab/pkg/frame"
)

// Quantiles selects cells whose value lies between the minQ and maxQ
// row quantiles, inclusive. Quantiles are computed over the non-missing
// values of each row with linear interpolation; an all-missing row selects
// nothing.
func Quantiles(factor *frame.Matrix, minQ, maxQ float64) *frame.Matrix {
	return perRow(factor, func(row []float64) (float64, float64) {
		sorted := compactSorted(row)
		if len(sorted) == 0 {
			return math.NaN(), math.NaN()
		}
		lower := stat.Quantile(minQ, stat.LinInterp, sorted, nil)
		upper := stat.Quantile(maxQ, stat.LinInterp, sorted, nil)
		return lower, upper
	})
}

// Top selects cells at or above the k-th largest distinct value of their
// row. When fewer than k distinct values exist, k degrades to the available
// count (selecting everything equal to the row maximum); an all-missing row
// selects nothing.
func Top(factor *frame.Matrix, k int) *frame.Matrix {
	return perRow(factor, func(row []float64) (float64, float64) {
		distinct := compactDistinct(row)
		n := len(distinct)
		switch {
		case n == 0:
			return math.NaN(), math.NaN()
		case n > k && k > 0:
			return distinct[n-k], math.Inf(1)
		default:
			return distinct[n-1], math.Inf(1)
		}
	})
}

// Bottom selects cells at or below the k-th smallest distinct value of their
// row, symmetric to Top.
func Bottom(factor *frame.Matrix, k int) *frame.Matrix {
	return perRow(factor, func(row []float64) (float64, float64) {
		distinct := compactDistinct(row)
		n := len(distinct)
		switch {
		case n == 0:
			return math.NaN(), math.NaN()
		case n > k && k > 0:
			return math.Inf(-1), distinct[k-1]
		default:
			return math.Inf(-1), distinct[0]
		}
	})
}

// Thresholds selects cells with values in [minT, maxT] inclusive. The band
// is absolute, not cross-sectional, but shares the boolean-output contract
// of the other rules.
func Thresholds(factor *frame.Matrix, minT, maxT float64) *frame.Matrix {
	return perRow(factor, func([]float64) (float64, float64) {
		return minT, maxT
	})
}

// Custom applies an arbitrary row rule. pick receives one row (NaNs
// included) and returns one selection flag per column. This is the escape
// hatch for rules outside the fixed quantile/top/bottom/threshold set.
func Custom(factor *frame.Matrix, pick func(row []float64) []bool) *frame.Matrix {
	rows, cols := factor.Rows(), factor.Cols()
	data := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		selected := pick(factor.Row(i))
		row := make([]float64, cols)
		for j := 0; j < cols; j++ {
			if j < len(selected) && selected[j] {
				row[j] = 1
			}
		}
		data[i] = row
	}
	return frame.MustMatrix(factor.Index(), factor.Columns(), data)
}

// perRow builds the inclusion matrix from a per-row [lower, upper] band.
// Comparisons against NaN are false, so both NaN bounds (all-missing rows)
// and NaN cells fall out naturally unselected.
func perRow(factor *frame.Matrix, bounds func(row []float64) (float64, float64)) *frame.Matrix {
	rows, cols := factor.Rows(), factor.Cols()
	data := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		lower, upper := bounds(factor.Row(i))
		row := make([]float64, cols)
		for j := 0; j < cols; j++ {
			v := factor.At(i, j)
			if lower <= v && v <= upper {
				row[j] = 1
			}
		}
		data[i] = row
	}
	return frame.MustMatrix(factor.Index(), factor.Columns(), data)
}

// compactSorted returns the sorted non-NaN values of a row.
func compactSorted(row []float64) []float64 {
	out := make([]float64, 0, len(row))
	for _, v := range row {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}

// compactDistinct returns the sorted distinct non-NaN values of a row.
func compactDistinct(row []float64) []float64 {
	sorted := compactSorted(row)
	out := sorted[:0]
	for i, v := range sorted {
		if i == 0 || v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
