// Package returns derives per-asset returns from close prices and combines
// them with lagged holdings into portfolio returns.
package returns

import (
	"math"

	"github.com/aristath/factorlab/pkg/frame"
)

// ToReturns computes simple per-asset returns from close prices:
// r[t] = (p[t] - p[t-1]) / p[t-1] for t >= 1, with row 0 defined as zero.
// Any non-finite result (missing prices across delistings, zero
// denominators) maps to zero by policy.
func ToReturns(prices *frame.Matrix) *frame.Matrix {
	rows, cols := prices.Rows(), prices.Cols()
	data := make([][]float64, rows)
	for i := range data {
		data[i] = make([]float64, cols)
	}
	for t := 1; t < rows; t++ {
		for j := 0; j < cols; j++ {
			prev := prices.At(t-1, j)
			v := (prices.At(t, j) - prev) / prev
			if math.IsNaN(v) || math.IsInf(v, 0) {
				v = 0
			}
			data[t][j] = v
		}
	}
	return frame.MustMatrix(prices.Index(), prices.Columns(), data)
}

// Calculate combines holdings with universe returns into a portfolio return
// series. Row t (t >= 1) is the sum over assets of holdings[t-1] times
// universeReturns[t]; row 0 is zero by definition. The one-period lag is the
// anti-look-ahead invariant: a period's return is driven only by the
// composition decided before that return was realized. Missing products
// contribute zero.
func Calculate(holdings, universeReturns *frame.Matrix) *frame.Series {
	holdings, universeReturns = frame.AlignMatrices(holdings, universeReturns)

	rows, cols := holdings.Rows(), holdings.Cols()
	values := make([]float64, rows)
	for t := 1; t < rows; t++ {
		total := 0.0
		for j := 0; j < cols; j++ {
			v := holdings.At(t-1, j) * universeReturns.At(t, j)
			if !math.IsNaN(v) {
				total += v
			}
		}
		values[t] = total
	}
	return frame.MustSeries(holdings.Index(), values)
}
