package factor

import (
	"github.com/markcheno/go-talib"

	"github.com/aristath/factorlab/pkg/frame"
)

// EMA computes a column-wise exponential moving average with the given
// period. The first period rows are dropped, matching the truncation
// convention of the rolling transforms. Columns with missing observations
// propagate NaN from the first gap onward, which is the factor-transform
// missing policy.
func EMA(factor *frame.Matrix, period int) *frame.Matrix {
	return indicator(factor, period, func(col []float64) []float64 {
		return talib.Ema(col, period)
	})
}

// RSI computes a column-wise relative strength index with the given period.
// Truncation and missing-value behavior match EMA.
func RSI(factor *frame.Matrix, period int) *frame.Matrix {
	return indicator(factor, period, func(col []float64) []float64 {
		return talib.Rsi(col, period)
	})
}

func indicator(factor *frame.Matrix, period int, compute func([]float64) []float64) *frame.Matrix {
	period = clampPeriod(period)
	rows, cols := factor.Rows(), factor.Cols()
	if rows <= period {
		return emptyLike(factor)
	}

	data := make([][]float64, rows-period)
	for i := range data {
		data[i] = make([]float64, cols)
	}
	for j := 0; j < cols; j++ {
		out := compute(factor.Column(j))
		for t := period; t < rows; t++ {
			data[t-period][j] = out[t]
		}
	}
	return frame.MustMatrix(factor.Index()[period:], factor.Columns(), data)
}
