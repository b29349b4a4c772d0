package engine

import (
	"github.com/shopspring/decimal"
	"github.com/stratlab-io/stratsim/internal/indicator"
	"github.com/stratlab-io/stratsim/internal/types"
)

// Simulate replays a strategy bar-by-bar over the augmented series and
// returns the trade log and equity curve. It is a pure function of its
// inputs: two runs over identical data yield identical output.
//
// The position model is long-only with at most one open position. Rules per
// bar, in fixed priority while in a position: stop-loss, then take-profit,
// then the exit tree — so on a bar where both stop and target are crossed
// the stop wins (conservative bias). At most one of opening and closing
// happens on any bar; a position closed this bar cannot reopen until the
// next one. Equity is not marked to market intrabar: it compounds only at
// the instant a trade closes, so the curve is flat between trades and steps
// at each close.
func Simulate(series *indicator.Series, strategy *types.Strategy, initialCapital float64) ([]types.Trade, []types.EquityPoint) {
	equity := initialCapital
	trades := []types.Trade{}
	equityCurve := make([]types.EquityPoint, 0, series.Len())

	inPosition := false

	var entryPrice float64

	for i := 0; i < series.Len(); i++ {
		bar := series.Candle(i)

		if inPosition {
			exitPrice, reason, closed := checkExit(series, strategy, entryPrice, i)
			if closed {
				open := &trades[len(trades)-1]
				open.ExitTime = bar.Time
				open.ExitPrice = exitPrice
				open.PnlPct = (exitPrice - entryPrice) / entryPrice
				open.Status = types.TradeStatusClosed
				open.Reason = reason

				equity = compound(equity, open.PnlPct)
				inPosition = false
			}
		} else if !strategy.Entry.Empty() && Evaluate(strategy.Entry, series, i) {
			trades = append(trades, types.Trade{
				Symbol:       strategy.Symbol,
				StrategyName: strategy.Name,
				EntryTime:    bar.Time,
				EntryPrice:   bar.Close,
				Status:       types.TradeStatusOpen,
			})

			entryPrice = bar.Close
			inPosition = true
		}

		equityCurve = append(equityCurve, types.EquityPoint{
			Time:   bar.Time,
			Equity: equity,
		})
	}

	return trades, equityCurve
}

// checkExit applies the fixed-priority exit rules for one bar of an open
// position. Stop-loss and take-profit are disabled when their percentage is
// zero; a zero stop would otherwise fire on any dip below the entry price.
func checkExit(series *indicator.Series, strategy *types.Strategy, entryPrice float64, i int) (float64, types.ExitReason, bool) {
	bar := series.Candle(i)

	if strategy.StopLossPct > 0 {
		stopPrice := entryPrice * (1 - strategy.StopLossPct/100)
		if bar.Low <= stopPrice {
			return stopPrice, types.ExitReasonStopLoss, true
		}
	}

	if strategy.TakeProfitPct > 0 {
		targetPrice := entryPrice * (1 + strategy.TakeProfitPct/100)
		if bar.High >= targetPrice {
			return targetPrice, types.ExitReasonTakeProfit, true
		}
	}

	if !strategy.Exit.Empty() && Evaluate(strategy.Exit, series, i) {
		return bar.Close, types.ExitReasonSignal, true
	}

	return 0, types.ExitReasonNone, false
}

// compound applies a trade's fractional return to the running equity with
// full reinvestment: equity_after = equity_before * (1 + pnlPct).
func compound(equity, pnlPct float64) float64 {
	result, _ := decimal.NewFromFloat(equity).
		Mul(decimal.NewFromFloat(1).Add(decimal.NewFromFloat(pnlPct))).
		Float64()

	return result
}
