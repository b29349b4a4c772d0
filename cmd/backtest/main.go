package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/moznion/go-optional"
	"github.com/schollz/progressbar/v3"
	"github.com/stratlab-io/stratsim/internal/backtest/engine"
	enginev1 "github.com/stratlab-io/stratsim/internal/backtest/engine/engine_v1"
	"github.com/stratlab-io/stratsim/internal/backtest/engine/engine_v1/datasource"
	"github.com/stratlab-io/stratsim/internal/logger"
	"github.com/urfave/cli/v3"
)

// backtestAction is the core logic executed by the CLI command. It wires the
// data source, loads every strategy matching the glob and runs the engine.
func backtestAction(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	dataPath := cmd.String("data")
	strategyGlob := cmd.String("strategy")
	resultsFolder := cmd.String("output")

	config, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	backtester := enginev1.NewBacktestEngineV1()

	if err := backtester.Initialize(string(config)); err != nil {
		return fmt.Errorf("failed to initialize backtest engine: %w", err)
	}

	l, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	source, err := datasource.NewDataSource(l)
	if err != nil {
		return fmt.Errorf("failed to create data source: %w", err)
	}
	defer source.Close()

	if err := backtester.SetDataSource(source); err != nil {
		return err
	}

	if err := backtester.SetDataPath(dataPath); err != nil {
		return err
	}

	if err := backtester.SetResultsFolder(resultsFolder); err != nil {
		return err
	}

	strategyFiles, err := filepath.Glob(strategyGlob)
	if err != nil {
		return fmt.Errorf("failed to expand strategy glob: %w", err)
	}

	if len(strategyFiles) == 0 {
		return fmt.Errorf("no strategy files match %s", strategyGlob)
	}

	for _, file := range strategyFiles {
		if err := backtester.LoadStrategyFromFile(file); err != nil {
			return fmt.Errorf("failed to load strategy %s: %w", file, err)
		}
	}

	var bar *progressbar.ProgressBar

	callback := engine.OnProcessDataCallback(func(current, total int) {
		if bar == nil {
			bar = progressbar.Default(int64(total))
		}

		bar.Set(current)
	})

	if err := backtester.Run(optional.Some(callback)); err != nil {
		return fmt.Errorf("backtest failed: %w", err)
	}

	log.Printf("Backtest completed. Results written to %s", resultsFolder)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "backtest",
		Usage: "Run strategy simulations over historical candle data",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Path to the engine configuration YAML",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "data",
				Aliases:  []string{"d"},
				Usage:    "Candle file or glob (CSV or parquet)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "strategy",
				Aliases:  []string{"s"},
				Usage:    "Strategy definition file or glob (YAML)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "Results output folder",
				Value:    "results",
				Required: false,
			},
		},
		Action: backtestAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
