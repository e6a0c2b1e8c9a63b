// Package main is the entry point for the factorlab backtest runner. It
// loads close prices from the SQLite history store (or a msgpack snapshot),
// runs one strategy through the factor pipeline, and logs the resulting
// performance metrics. The numeric engine itself lives under pkg/ and has no
// knowledge of any of this glue.
package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog"

	"github.com/aristath/factorlab/internal/backtest"
	"github.com/aristath/factorlab/internal/config"
	"github.com/aristath/factorlab/internal/database"
	"github.com/aristath/factorlab/internal/history"
	"github.com/aristath/factorlab/internal/utils"
	"github.com/aristath/factorlab/pkg/frame"
	"github.com/aristath/factorlab/pkg/logger"
)

func main() {
	var (
		strategyPath = flag.String("strategy", "strategy.yaml", "Path to the YAML strategy file")
		snapshotPath = flag.String("snapshot", "", "Load prices from a msgpack snapshot instead of the history database")
		saveSnapshot = flag.String("save-snapshot", "", "Write the loaded price matrix to a msgpack snapshot")
		symbolsCSV   = flag.String("symbols", "", "Comma-separated symbol list overriding the strategy file")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.Pretty,
	})

	strategy, err := config.LoadStrategy(*strategyPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *strategyPath).Msg("Failed to load strategy")
	}
	if symbols := utils.ParseCSV(*symbolsCSV); symbols != nil {
		strategy.Symbols = symbols
	}

	prices, err := loadPrices(cfg, strategy, *snapshotPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load prices")
	}

	if *saveSnapshot != "" {
		if err := history.SaveSnapshot(*saveSnapshot, prices); err != nil {
			log.Fatal().Err(err).Str("path", *saveSnapshot).Msg("Failed to save snapshot")
		}
		log.Info().Str("path", *saveSnapshot).Msg("Saved price snapshot")
	}

	runner := backtest.NewRunner(log)
	if _, err := runner.Run(strategy, prices); err != nil {
		log.Fatal().Err(err).Msg("Backtest failed")
	}

	os.Exit(0)
}

func loadPrices(cfg *config.Config, strategy *config.Strategy, snapshotPath string, log zerolog.Logger) (*frame.Matrix, error) {
	if snapshotPath != "" {
		log.Info().Str("path", snapshotPath).Msg("Loading prices from snapshot")
		return history.LoadSnapshot(snapshotPath)
	}

	db, err := database.New(database.Config{Path: cfg.HistoryDB, Name: "history"})
	if err != nil {
		return nil, err
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return nil, err
	}

	return history.New(db.Conn(), log).PriceMatrix(strategy.Symbols, strategy.Periods)
}
