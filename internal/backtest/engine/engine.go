package engine

import (
	"github.com/moznion/go-optional"
	"github.com/stratlab-io/stratsim/internal/backtest/engine/engine_v1/datasource"
	"github.com/stratlab-io/stratsim/internal/types"
)

// OnProcessDataCallback is called once per processed bar.
type OnProcessDataCallback func(current int, total int)

// Engine runs strategy simulations over candle data and writes results.
type Engine interface {
	// Initialize the engine with the given YAML configuration.
	Initialize(config string) error
	// LoadStrategy adds a parsed and validated strategy. Can be called
	// multiple times to queue several strategies for one run.
	LoadStrategy(strategy *types.Strategy) error
	// LoadStrategyFromFile loads a strategy definition from a YAML file.
	LoadStrategyFromFile(path string) error
	// SetDataPath points the engine at a candle file (CSV or parquet).
	SetDataPath(path string) error
	// SetDataSource sets the candle data source for the engine.
	SetDataSource(dataSource datasource.DataSource) error
	// SetResultsFolder sets the output directory for backtest results.
	// One subfolder per strategy is created inside it.
	SetResultsFolder(folder string) error
	// Run executes every loaded strategy over the configured data and
	// writes trades, equity curve and stats to the results folder.
	Run(onProcessDataCallback optional.Option[OnProcessDataCallback]) error
	// GetConfigSchema returns the JSON schema of the engine configuration.
	GetConfigSchema() (string, error)
}
