package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PerformanceMetrics summarizes a finished simulation run. All fields are
// derived once from the full trade list and equity curve; nothing here is
// updated incrementally during the bar loop.
type PerformanceMetrics struct {
	// InitialCapital is the equity the run started with.
	InitialCapital float64 `yaml:"initial_capital"`
	// FinalEquity is the equity after the last bar.
	FinalEquity float64 `yaml:"final_equity"`
	// TotalReturn is (final - initial) / initial.
	TotalReturn float64 `yaml:"total_return"`
	// WinRate is winning closed trades over all closed trades, 0 when none closed.
	WinRate float64 `yaml:"win_rate"`
	// MaxDrawdown is the largest fractional fall from a running equity peak.
	MaxDrawdown float64 `yaml:"max_drawdown"`
	// SharpeRatio is mean over stdev of per-bar simple returns, annualized by sqrt(252).
	SharpeRatio float64 `yaml:"sharpe_ratio"`
	// NumberOfTrades counts closed trades only.
	NumberOfTrades int `yaml:"number_of_trades"`
	// NumberOfWinningTrades counts closed trades with positive pnl.
	NumberOfWinningTrades int `yaml:"number_of_winning_trades"`
	// NumberOfLosingTrades counts closed trades with negative pnl.
	NumberOfLosingTrades int `yaml:"number_of_losing_trades"`
	// MaximumProfit is the best single closed-trade pnl percentage.
	MaximumProfit float64 `yaml:"maximum_profit"`
	// MaximumLoss is the worst single closed-trade pnl percentage.
	MaximumLoss float64 `yaml:"maximum_loss"`
}

// RunStats wraps the metrics of one run with identifying metadata for export.
type RunStats struct {
	// ID is the unique identifier for this backtest run.
	ID string `yaml:"id"`
	// Timestamp is when this backtest run was executed.
	Timestamp time.Time `yaml:"timestamp"`
	// Symbol of the instrument the run was executed against.
	Symbol string `yaml:"symbol"`
	// StrategyName is the human-readable name of the strategy.
	StrategyName string `yaml:"strategy_name"`
	// DataPath is the path to the market data file used for this run.
	DataPath string `yaml:"data_path"`
	// Metrics holds the derived performance statistics.
	Metrics PerformanceMetrics `yaml:"metrics"`
}

// WriteRunStats writes run statistics to a YAML file.
func WriteRunStats(path string, stats []RunStats) error {
	data, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal run stats to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run stats to file: %w", err)
	}

	return nil
}
