package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/stratlab-io/stratsim/internal/backtest/engine"
	"github.com/stratlab-io/stratsim/internal/backtest/engine/engine_v1/datasource"
	"github.com/stratlab-io/stratsim/internal/logger"
	"github.com/stratlab-io/stratsim/internal/types"
	"github.com/stratlab-io/stratsim/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// BacktestEngineV1 wires the pure simulation core to candle files, the
// result store and the results folder.
type BacktestEngineV1 struct {
	config        BacktestEngineV1Config
	strategies    []*types.Strategy
	dataPaths     []string
	resultsFolder string
	log           *logger.Logger
	state         *BacktestState
	datasource    datasource.DataSource
}

// NewBacktestEngineV1 creates an uninitialized engine.
func NewBacktestEngineV1() engine.Engine {
	return &BacktestEngineV1{
		config:        EmptyConfig(),
		strategies:    nil,
		dataPaths:     nil,
		resultsFolder: "",
		log:           nil,
		state:         nil,
		datasource:    nil,
	}
}

// Initialize implements engine.Engine.
func (b *BacktestEngineV1) Initialize(config string) error {
	if err := yaml.Unmarshal([]byte(config), &b.config); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to parse engine config", err)
	}

	if err := b.config.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "invalid engine config", err)
	}

	var loggerError error

	b.log, loggerError = logger.NewLogger()
	if loggerError != nil {
		return loggerError
	}

	b.log.Debug("Backtest engine initialized",
		zap.String("config", config),
	)

	state, err := NewBacktestState(b.log)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestInitFailed, "failed to create backtest state", err)
	}

	if err := state.Initialize(); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestInitFailed, "failed to initialize state", err)
	}

	b.state = state

	return nil
}

// LoadStrategy implements engine.Engine.
func (b *BacktestEngineV1) LoadStrategy(strategy *types.Strategy) error {
	if err := strategy.Validate(); err != nil {
		return err
	}

	b.strategies = append(b.strategies, strategy)
	b.log.Debug("Strategy loaded",
		zap.String("strategy", strategy.Name),
		zap.Int("total_strategies", len(b.strategies)),
	)

	return nil
}

// LoadStrategyFromFile implements engine.Engine.
func (b *BacktestEngineV1) LoadStrategyFromFile(path string) error {
	strategy, err := types.LoadStrategy(path)
	if err != nil {
		return err
	}

	return b.LoadStrategy(strategy)
}

// SetDataPath implements engine.Engine. Accepts glob patterns for batch runs.
func (b *BacktestEngineV1) SetDataPath(path string) error {
	files, err := filepath.Glob(path)
	if err != nil {
		b.log.Error("Failed to set data path",
			zap.String("path", path),
			zap.Error(err),
		)

		return err
	}

	absolutePaths := make([]string, len(files))

	for i, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			b.log.Error("Failed to get absolute path",
				zap.String("path", file),
				zap.Error(err),
			)

			return err
		}

		absolutePaths[i] = absPath
	}

	b.dataPaths = absolutePaths
	b.log.Debug("Data paths set",
		zap.Strings("files", absolutePaths),
	)

	return nil
}

// SetDataSource implements engine.Engine.
func (b *BacktestEngineV1) SetDataSource(dataSource datasource.DataSource) error {
	b.datasource = dataSource

	return nil
}

// SetResultsFolder implements engine.Engine.
func (b *BacktestEngineV1) SetResultsFolder(folder string) error {
	b.resultsFolder = folder
	b.log.Debug("Results folder set",
		zap.String("folder", folder),
	)

	return nil
}

// GetConfigSchema implements engine.Engine.
func (b *BacktestEngineV1) GetConfigSchema() (string, error) {
	return b.config.GenerateSchemaJSON()
}

// Run implements engine.Engine.
func (b *BacktestEngineV1) Run(onProcessDataCallback optional.Option[engine.OnProcessDataCallback]) error {
	if err := b.preRunCheck(); err != nil {
		return err
	}

	// Recreate the results folder for a clean run.
	if _, err := os.Stat(b.resultsFolder); err == nil {
		os.RemoveAll(b.resultsFolder)
	}

	if err := os.MkdirAll(b.resultsFolder, 0755); err != nil {
		return fmt.Errorf("failed to create results folder: %w", err)
	}

	for _, dataPath := range b.dataPaths {
		if err := b.datasource.Initialize(dataPath); err != nil {
			return fmt.Errorf("failed to initialize data source: %w", err)
		}

		candles, err := b.loadCandles(onProcessDataCallback)
		if err != nil {
			return err
		}

		for _, strategy := range b.strategies {
			if err := b.runOne(dataPath, candles, strategy); err != nil {
				return err
			}
		}
	}

	return nil
}

// loadCandles reads the configured candle range into memory, reporting
// progress through the optional callback.
func (b *BacktestEngineV1) loadCandles(onProcessDataCallback optional.Option[engine.OnProcessDataCallback]) ([]types.Candle, error) {
	start := b.config.StartTimeOption()
	end := b.config.EndTimeOption()

	count, err := b.datasource.Count(start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get data count: %w", err)
	}

	candles := make([]types.Candle, 0, count)

	for candle, err := range b.datasource.ReadAll(start, end) {
		if err != nil {
			return nil, fmt.Errorf("failed to read data: %w", err)
		}

		candles = append(candles, candle)

		if onProcessDataCallback.IsSome() {
			onProcessDataCallback.Unwrap()(len(candles), count)
		}
	}

	return candles, nil
}

// runOne executes a single (strategy, data file) combination and writes its
// results folder.
func (b *BacktestEngineV1) runOne(dataPath string, candles []types.Candle, strategy *types.Strategy) error {
	runID := uuid.New().String()

	b.log.Info("Running strategy",
		zap.String("run_id", runID),
		zap.String("strategy", strategy.Name),
		zap.String("data", dataPath),
		zap.Int("candles", len(candles)),
	)

	result, err := RunSimulation(candles, strategy, b.config.InitialCapital)
	if err != nil {
		return fmt.Errorf("simulation failed for strategy %s: %w", strategy.Name, err)
	}

	if err := b.state.RecordRun(runID, result); err != nil {
		return err
	}

	summary, err := b.state.SummarizeClosedTrades(runID)
	if err != nil {
		return err
	}

	b.log.Info("Run finished",
		zap.String("run_id", runID),
		zap.Int("closed_trades", summary.TotalTrades),
		zap.Float64("win_rate", summary.WinRate),
		zap.Float64("final_equity", result.Metrics.FinalEquity),
		zap.Float64("max_drawdown", result.Metrics.MaxDrawdown),
	)

	resultFolder := b.resultFolderPath(dataPath, strategy)
	if err := os.MkdirAll(resultFolder, 0755); err != nil {
		return fmt.Errorf("failed to create result folder: %w", err)
	}

	if err := b.state.Write(resultFolder); err != nil {
		return err
	}

	stats := []types.RunStats{
		{
			ID:           runID,
			Timestamp:    time.Now(),
			Symbol:       strategy.Symbol,
			StrategyName: strategy.Name,
			DataPath:     dataPath,
			Metrics:      result.Metrics,
		},
	}

	statsPath := filepath.Join(resultFolder, "stats.yaml")
	if err := types.WriteRunStats(statsPath, stats); err != nil {
		return err
	}

	return b.state.Cleanup()
}

// resultFolderPath is <results>/<data file base>_<strategy name>.
func (b *BacktestEngineV1) resultFolderPath(dataPath string, strategy *types.Strategy) string {
	base := strings.TrimSuffix(filepath.Base(dataPath), filepath.Ext(dataPath))
	name := strings.ReplaceAll(strategy.Name, " ", "_")

	return filepath.Join(b.resultsFolder, fmt.Sprintf("%s_%s", base, name))
}

func (b *BacktestEngineV1) preRunCheck() error {
	if len(b.strategies) == 0 {
		return errors.New(errors.ErrCodeBacktestNoStrategies, "no strategies loaded")
	}

	if len(b.dataPaths) == 0 {
		return errors.New(errors.ErrCodeBacktestNoDataPath, "no data path set")
	}

	if b.resultsFolder == "" {
		return errors.New(errors.ErrCodeBacktestNoResultsDir, "no results folder set")
	}

	if b.datasource == nil {
		return errors.New(errors.ErrCodeBacktestNoDatasource, "no data source set")
	}

	if b.state == nil {
		return errors.New(errors.ErrCodeBacktestStateNil, "engine not initialized")
	}

	return nil
}
