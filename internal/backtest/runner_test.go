package backtest

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/factorlab/internal/config"
	"github.com/aristath/factorlab/pkg/frame"
)

// trendingPrices builds a price matrix where A trends up and B trends down,
// so a momentum strategy should end up long A.
func trendingPrices(t *testing.T, periods int) *frame.Matrix {
	t.Helper()

	index := make([]int64, periods)
	data := make([][]float64, periods)
	a, b := 100.0, 100.0
	for i := 0; i < periods; i++ {
		index[i] = int64(i + 1)
		data[i] = []float64{a, b}
		a *= 1.01
		b *= 0.99
	}
	return frame.MustMatrix(index, []string{"A", "B"}, data)
}

func momentumStrategy() *config.Strategy {
	s := &config.Strategy{}
	s.Name = "momentum"
	s.Symbols = []string{"A", "B"}
	s.Transform.Kind = "pct"
	s.Transform.Period = 5
	s.Selection.Rule = "top"
	s.Selection.K = 1
	s.Leverage.Min = 1
	s.Leverage.Max = 1
	s.PeriodsPerYear = 252
	return s
}

func TestRunner_MomentumPicksTheWinner(t *testing.T) {
	runner := NewRunner(zerolog.Nop())
	strategy := momentumStrategy()
	prices := trendingPrices(t, 30)

	result, err := runner.Run(strategy, prices)
	require.NoError(t, err)
	require.NotEmpty(t, result.RunID)
	assert.Equal(t, "momentum", result.Strategy)

	holdings := result.Holdings
	require.Greater(t, holdings.Rows(), 0)
	require.Equal(t, []string{"A", "B"}, holdings.Columns())

	// Momentum on a diverging pair puts all weight on the uptrending asset.
	last := holdings.Rows() - 1
	assert.InDelta(t, 1.0, holdings.At(last, 0), 1e-9)
	assert.Equal(t, 0.0, holdings.At(last, 1))

	portfolio := result.PortfolioReturns
	require.Equal(t, holdings.Rows(), portfolio.Len())
	assert.Equal(t, 0.0, portfolio.At(0), "first period has no prior holdings")
	assert.Greater(t, result.Metrics.CumulativeReturn, 0.0)
	for i := 0; i < portfolio.Len(); i++ {
		assert.False(t, math.IsNaN(portfolio.At(i)), "row %d", i)
	}
}

func TestRunner_HoldThrottlesRebalancing(t *testing.T) {
	runner := NewRunner(zerolog.Nop())
	strategy := momentumStrategy()
	strategy.Hold = 5
	prices := trendingPrices(t, 40)

	result, err := runner.Run(strategy, prices)
	require.NoError(t, err)

	// Within a hold block the holdings cannot change: the factor is frozen.
	holdings := result.Holdings
	for i := 1; i < 5 && i < holdings.Rows(); i++ {
		for j := 0; j < holdings.Cols(); j++ {
			assert.Equal(t, holdings.At(0, j), holdings.At(i, j), "row %d col %d", i, j)
		}
	}
}

func TestRunner_LeverageBandRespected(t *testing.T) {
	runner := NewRunner(zerolog.Nop())
	strategy := momentumStrategy()
	strategy.Leverage.Min = 0.5
	strategy.Leverage.Max = 0.5
	prices := trendingPrices(t, 20)

	result, err := runner.Run(strategy, prices)
	require.NoError(t, err)

	holdings := result.Holdings
	for i := 0; i < holdings.Rows(); i++ {
		total := 0.0
		for j := 0; j < holdings.Cols(); j++ {
			total += holdings.At(i, j)
		}
		assert.InDelta(t, 0.5, total, 1e-9, "row %d", i)
	}
}

func TestRunner_TooFewPeriodsFails(t *testing.T) {
	runner := NewRunner(zerolog.Nop())
	strategy := momentumStrategy()
	strategy.Transform.Period = 50

	_, err := runner.Run(strategy, trendingPrices(t, 10))
	assert.Error(t, err)
}

func TestRunner_UnknownRuleFails(t *testing.T) {
	runner := NewRunner(zerolog.Nop())
	strategy := momentumStrategy()
	strategy.Selection.Rule = "magic"

	_, err := runner.Run(strategy, trendingPrices(t, 20))
	assert.Error(t, err)
}
