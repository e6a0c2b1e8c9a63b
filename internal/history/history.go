// Package history assembles close-price matrices from the SQLite history
// store. Assets that were not yet listed (or already delisted) on a given
// trading day come back as NaN, which the pipeline treats as missing.
package history

import (
	"database/sql"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/aristath/factorlab/pkg/frame"
)

// DB provides access to historical price data
type DB struct {
	db  *sql.DB
	log zerolog.Logger
}

// New creates a new history database accessor
func New(db *sql.DB, log zerolog.Logger) *DB {
	return &DB{
		db:  db,
		log: log.With().Str("component", "history").Logger(),
	}
}

// PriceMatrix loads close prices for the given symbols into a single matrix
// on the union of their trading days, NaN where a symbol has no observation.
// limit caps the number of most recent periods per symbol (0 = all).
func (h *DB) PriceMatrix(symbols []string, limit int) (*frame.Matrix, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no symbols provided")
	}

	bySymbol := make(map[string]map[int64]float64, len(symbols))
	dates := make(map[int64]struct{})
	for _, symbol := range symbols {
		prices, err := h.closePrices(symbol, limit)
		if err != nil {
			return nil, err
		}
		if len(prices) == 0 {
			h.log.Warn().Str("symbol", symbol).Msg("No price history")
		}
		bySymbol[symbol] = prices
		for date := range prices {
			dates[date] = struct{}{}
		}
	}

	index := make([]int64, 0, len(dates))
	for date := range dates {
		index = append(index, date)
	}
	sort.Slice(index, func(i, j int) bool { return index[i] < index[j] })

	data := make([][]float64, len(index))
	for i, date := range index {
		row := make([]float64, len(symbols))
		for j, symbol := range symbols {
			if close, ok := bySymbol[symbol][date]; ok {
				row[j] = close
			} else {
				row[j] = math.NaN()
			}
		}
		data[i] = row
	}

	m, err := frame.NewMatrix(index, symbols, data)
	if err != nil {
		return nil, fmt.Errorf("failed to build price matrix: %w", err)
	}

	h.log.Debug().
		Int("symbols", len(symbols)).
		Int("periods", len(index)).
		Msg("Assembled price matrix")

	return m, nil
}

// closePrices fetches date -> close for one symbol, most recent first when
// limited, re-keyed by date so assembly order does not matter.
func (h *DB) closePrices(symbol string, limit int) (map[int64]float64, error) {
	query := `
		SELECT date, close
		FROM daily_prices
		WHERE symbol = ?
		ORDER BY date DESC
	`
	args := []interface{}{symbol}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := h.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily prices for %s: %w", symbol, err)
	}
	defer rows.Close()

	prices := make(map[int64]float64)
	for rows.Next() {
		var date int64
		var close float64
		if err := rows.Scan(&date, &close); err != nil {
			return nil, fmt.Errorf("failed to scan daily price: %w", err)
		}
		prices[date] = close
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily prices: %w", err)
	}
	return prices, nil
}
