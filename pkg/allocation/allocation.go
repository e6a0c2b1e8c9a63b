// Package allocation converts boolean inclusion matrices into normalized
// portfolio weights and applies leverage scaling and clipping.
//
// Anomaly policy: any division anomaly while normalizing weights maps to 0;
// a non-finite leverage corrector maps to 1 (no change). Nothing in this
// package raises for malformed numeric input.
package allocation

import (
	"math"

	"github.com/aristath/factorlab/pkg/frame"
)

// Allocate multiplies signals by weights elementwise (after alignment) and
// normalizes each row to sum to 1. Rows whose weighted sum is zero or
// missing become all-zero rather than NaN.
func Allocate(signals, weights *frame.Matrix) *frame.Matrix {
	signals, weights = frame.AlignMatrices(signals, weights)

	rows, cols := signals.Rows(), signals.Cols()
	data := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		row := make([]float64, cols)
		total := 0.0
		for j := 0; j < cols; j++ {
			v := signals.At(i, j) * weights.At(i, j)
			row[j] = v
			if !math.IsNaN(v) {
				total += v
			}
		}
		for j := 0; j < cols; j++ {
			v := row[j] / total
			if math.IsNaN(v) || math.IsInf(v, 0) {
				v = 0
			}
			row[j] = v
		}
		data[i] = row
	}
	return frame.MustMatrix(signals.Index(), signals.Columns(), data)
}

// EqualWeight allocates 1/N among the selected assets of each row. It is
// Allocate with the signals doubling as their own weights.
func EqualWeight(signals *frame.Matrix) *frame.Matrix {
	return Allocate(signals, signals)
}

// Scale multiplies every holdings row by that period's leverage scalar after
// aligning the two on the row index.
func Scale(holdings *frame.Matrix, leverage *frame.Series) *frame.Matrix {
	holdings, leverage = frame.AlignMatrixSeries(holdings, leverage)

	rows, cols := holdings.Rows(), holdings.Cols()
	data := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		lev := leverage.At(i)
		row := make([]float64, cols)
		for j := 0; j < cols; j++ {
			row[j] = holdings.At(i, j) * lev
		}
		data[i] = row
	}
	return frame.MustMatrix(holdings.Index(), holdings.Columns(), data)
}

// Limit clips each row's total leverage into [minLeverage, maxLeverage].
// Rows below the floor scale up by minLeverage/total, rows above the cap
// scale down by maxLeverage/total, rows within bounds keep a corrector of 1.
// A zero or missing total would make the corrector non-finite, so it
// defaults to 1 instead. Implemented as a Scale with the corrector series.
func Limit(holdings *frame.Matrix, minLeverage, maxLeverage float64) *frame.Matrix {
	rows, cols := holdings.Rows(), holdings.Cols()
	corrector := make([]float64, rows)
	for i := 0; i < rows; i++ {
		total := 0.0
		for j := 0; j < cols; j++ {
			if v := holdings.At(i, j); !math.IsNaN(v) {
				total += v
			}
		}
		c := 1.0
		switch {
		case total < minLeverage:
			c = minLeverage / total
		case total > maxLeverage:
			c = maxLeverage / total
		}
		if math.IsNaN(c) || math.IsInf(c, 0) {
			c = 1
		}
		corrector[i] = c
	}
	return Scale(holdings, frame.MustSeries(holdings.Index(), corrector))
}
