// Package backtest glues the pipeline together: prices in, factor transform,
// cross-sectional selection, allocation with leverage control, portfolio
// returns and performance metrics out. The numeric packages stay pure; this
// is where logging, timing and run bookkeeping live.
package backtest

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/factorlab/internal/config"
	"github.com/aristath/factorlab/internal/utils"
	"github.com/aristath/factorlab/pkg/allocation"
	"github.com/aristath/factorlab/pkg/factor"
	"github.com/aristath/factorlab/pkg/frame"
	"github.com/aristath/factorlab/pkg/metrics"
	"github.com/aristath/factorlab/pkg/returns"
	"github.com/aristath/factorlab/pkg/signal"
)

// Runner executes strategies against a price matrix.
type Runner struct {
	log zerolog.Logger
}

// NewRunner creates a new backtest runner.
func NewRunner(log zerolog.Logger) *Runner {
	return &Runner{log: log.With().Str("component", "backtest").Logger()}
}

// Metrics summarizes the performance of one backtest run. Pointer fields are
// nil when there was not enough data to estimate them.
type Metrics struct {
	CumulativeReturn     float64
	CAGR                 *float64
	AnnualizedVolatility float64
	Sharpe               *float64
	Sortino              *float64
	MaxDrawdown          float64
}

// Result holds everything a run produced.
type Result struct {
	RunID            string
	Strategy         string
	Holdings         *frame.Matrix
	PortfolioReturns *frame.Series
	Metrics          Metrics
}

// Run backtests one strategy over the given close-price matrix.
func (r *Runner) Run(strategy *config.Strategy, prices *frame.Matrix) (*Result, error) {
	runID := uuid.NewString()
	log := r.log.With().Str("run_id", runID).Str("strategy", strategy.Name).Logger()

	log.Info().
		Int("periods", prices.Rows()).
		Int("assets", prices.Cols()).
		Msg("Starting backtest")

	timer := utils.NewTimer("universe_returns", log)
	universeReturns := returns.ToReturns(prices)
	timer.Stop()

	timer = utils.NewTimer("factor_transform", log)
	fct, err := r.transform(strategy, prices)
	if err != nil {
		return nil, err
	}
	if strategy.Hold > 1 {
		fct = factor.Hold(fct, strategy.Hold)
	}
	timer.Stop()
	if fct.Rows() == 0 {
		return nil, fmt.Errorf("factor is empty after transform: %d price periods for window %d",
			prices.Rows(), strategy.Transform.Period)
	}

	timer = utils.NewTimer("selection", log)
	signals, err := r.selection(strategy, fct)
	if err != nil {
		return nil, err
	}
	timer.Stop()

	timer = utils.NewTimer("allocation", log)
	holdings := allocation.EqualWeight(signals)
	holdings = allocation.Limit(holdings, strategy.Leverage.Min, strategy.Leverage.Max)
	timer.Stop()

	timer = utils.NewTimer("returns", log)
	portfolio := returns.Calculate(holdings, universeReturns)
	timer.Stop()

	values := portfolio.Values()
	result := &Result{
		RunID:            runID,
		Strategy:         strategy.Name,
		Holdings:         holdings,
		PortfolioReturns: portfolio,
		Metrics: Metrics{
			CumulativeReturn:     metrics.CumulativeReturn(values),
			CAGR:                 metrics.CAGR(values, strategy.PeriodsPerYear),
			AnnualizedVolatility: metrics.AnnualizedVolatility(values, strategy.PeriodsPerYear),
			Sharpe:               metrics.SharpeRatio(values, strategy.RiskFreeRate, strategy.PeriodsPerYear),
			Sortino:              metrics.SortinoRatio(values, strategy.RiskFreeRate, 0, strategy.PeriodsPerYear),
			MaxDrawdown:          metrics.MaxDrawdown(values),
		},
	}

	event := log.Info().
		Int("periods", portfolio.Len()).
		Float64("cumulative_return", result.Metrics.CumulativeReturn).
		Float64("max_drawdown", result.Metrics.MaxDrawdown)
	if result.Metrics.CAGR != nil {
		event = event.Float64("cagr", *result.Metrics.CAGR)
	}
	if result.Metrics.Sharpe != nil {
		event = event.Float64("sharpe", *result.Metrics.Sharpe)
	}
	event.Msg("Backtest finished")

	return result, nil
}

func (r *Runner) transform(strategy *config.Strategy, prices *frame.Matrix) (*frame.Matrix, error) {
	period := strategy.Transform.Period
	switch strategy.Transform.Kind {
	case "":
		return prices.Clone(), nil
	case "pct":
		return factor.Pct(prices, period), nil
	case "mean":
		return factor.Mean(prices, period), nil
	case "median":
		return factor.Median(prices, period), nil
	case "min":
		return factor.Min(prices, period), nil
	case "max":
		return factor.Max(prices, period), nil
	case "ema":
		return factor.EMA(prices, period), nil
	case "rsi":
		return factor.RSI(prices, period), nil
	default:
		return nil, fmt.Errorf("unknown transform kind '%s'", strategy.Transform.Kind)
	}
}

func (r *Runner) selection(strategy *config.Strategy, fct *frame.Matrix) (*frame.Matrix, error) {
	sel := strategy.Selection
	switch sel.Rule {
	case "quantiles":
		return signal.Quantiles(fct, sel.MinQ, sel.MaxQ), nil
	case "top":
		return signal.Top(fct, sel.K), nil
	case "bottom":
		return signal.Bottom(fct, sel.K), nil
	case "thresholds":
		return signal.Thresholds(fct, sel.MinT, sel.MaxT), nil
	default:
		return nil, fmt.Errorf("unknown selection rule '%s'", sel.Rule)
	}
}
