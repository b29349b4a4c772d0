package engine

import (
	"github.com/stratlab-io/stratsim/internal/indicator"
	"github.com/stratlab-io/stratsim/internal/types"
	"github.com/stratlab-io/stratsim/internal/version"
	"github.com/stratlab-io/stratsim/pkg/errors"
)

// RunSimulation executes one complete simulation run: validate the strategy,
// extract its indicator requirements, build the augmented series, replay the
// bar loop and derive metrics. It either returns a complete, consistent
// result or fails before any trade is recorded — never a partial trade log.
//
// The run holds no state across invocations; candles and strategy are not
// mutated. Cancellation is the caller's responsibility: cost is bounded and
// linear in series length times tree size.
func RunSimulation(candles []types.Candle, strategy *types.Strategy, initialCapital float64) (*types.BacktestResult, error) {
	if err := strategy.Validate(); err != nil {
		return nil, err
	}

	if strategy.SchemaVersion != "" {
		if err := version.CheckSchemaCompatibility(version.GetVersion(), strategy.SchemaVersion); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeVersionMismatch, err,
				"strategy %q is not loadable by this engine", strategy.Name)
		}
	}

	refs := indicator.Requirements(strategy.Entry, strategy.Exit)

	series, err := indicator.NewSeries(candles, refs)
	if err != nil {
		return nil, err
	}

	trades, equityCurve := Simulate(series, strategy, initialCapital)

	return &types.BacktestResult{
		Trades:      trades,
		EquityCurve: equityCurve,
		Metrics:     CalculateMetrics(trades, equityCurve, initialCapital),
	}, nil
}
