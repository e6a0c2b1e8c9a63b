// Package metrics estimates performance statistics from a portfolio return
// series produced by the backtest pipeline. Functions that need a minimum
// amount of data return nil when it is not met.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// CumulativeReturn compounds periodic returns into a total growth figure:
// (1+r1)*(1+r2)*...*(1+rN) - 1.
func CumulativeReturn(returns []float64) float64 {
	wealth := 1.0
	for _, r := range returns {
		wealth *= 1 + r
	}
	return wealth - 1
}

// CAGR annualizes compounded growth: ((1+r1)*...*(1+rN))^(ppy/N) - 1.
// Returns nil for an empty series or when compounding wipes the portfolio
// below zero.
func CAGR(returns []float64, periodsPerYear int) *float64 {
	if len(returns) == 0 || periodsPerYear <= 0 {
		return nil
	}
	wealth := 1 + CumulativeReturn(returns)
	if wealth <= 0 {
		return nil
	}
	cagr := math.Pow(wealth, float64(periodsPerYear)/float64(len(returns))) - 1
	return &cagr
}

// AnnualizedVolatility scales the periodic standard deviation of returns by
// sqrt(periodsPerYear).
func AnnualizedVolatility(returns []float64, periodsPerYear int) float64 {
	if len(returns) < 2 {
		return 0
	}
	return stat.StdDev(returns, nil) * math.Sqrt(float64(periodsPerYear))
}

// SharpeRatio is the annualized excess return per unit of volatility:
// (mean - periodic risk-free) / stddev, scaled by sqrt(periodsPerYear).
// riskFreeRate is annual. Returns nil with fewer than two observations or
// zero volatility.
func SharpeRatio(returns []float64, riskFreeRate float64, periodsPerYear int) *float64 {
	if len(returns) < 2 || periodsPerYear <= 0 {
		return nil
	}
	sd := stat.StdDev(returns, nil)
	if sd == 0 {
		return nil
	}
	periodicRiskFree := riskFreeRate / float64(periodsPerYear)
	sharpe := (stat.Mean(returns, nil) - periodicRiskFree) * math.Sqrt(float64(periodsPerYear)) / sd
	return &sharpe
}

// SortinoRatio is the downside-deviation variant of Sharpe: only returns
// below the periodic target contribute to the denominator. targetReturn is
// annual. Returns nil when there is no downside to measure.
func SortinoRatio(returns []float64, riskFreeRate, targetReturn float64, periodsPerYear int) *float64 {
	if len(returns) < 2 || periodsPerYear <= 0 {
		return nil
	}
	periodicTarget := targetReturn / float64(periodsPerYear)

	var squaredSum float64
	downside := 0
	for _, r := range returns {
		if r < periodicTarget {
			d := r - periodicTarget
			squaredSum += d * d
			downside++
		}
	}
	if downside == 0 {
		return nil
	}
	dd := math.Sqrt(squaredSum / float64(downside))
	if dd == 0 {
		return nil
	}

	periodicRiskFree := riskFreeRate / float64(periodsPerYear)
	sortino := (stat.Mean(returns, nil) - periodicRiskFree) * math.Sqrt(float64(periodsPerYear)) / dd
	return &sortino
}

// MaxDrawdown is the largest peak-to-trough decline of the compounded wealth
// curve, expressed as a positive fraction (0.2 = 20% drawdown).
func MaxDrawdown(returns []float64) float64 {
	wealth := 1.0
	peak := 1.0
	maxDD := 0.0
	for _, r := range returns {
		wealth *= 1 + r
		if wealth > peak {
			peak = wealth
		}
		if dd := (peak - wealth) / peak; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}
