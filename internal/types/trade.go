package types

import "time"

// TradeStatus is the lifecycle state of a simulated trade.
type TradeStatus string

const (
	TradeStatusOpen   TradeStatus = "open"
	TradeStatusClosed TradeStatus = "closed"
)

// ExitReason records which rule closed a trade.
type ExitReason string

const (
	ExitReasonStopLoss   ExitReason = "stop_loss"
	ExitReasonTakeProfit ExitReason = "take_profit"
	ExitReasonSignal     ExitReason = "signal"
	// ExitReasonNone marks a trade still open at the end of the series.
	ExitReasonNone ExitReason = ""
)

// Trade is one simulated round trip. A trade is created when the simulator
// opens a position and finalized when the position closes; a trade still open
// at the end of the series keeps status open and is excluded from
// closed-trade statistics.
type Trade struct {
	Symbol       string      `yaml:"symbol" csv:"symbol"`
	StrategyName string      `yaml:"strategy_name" csv:"strategy_name"`
	EntryTime    time.Time   `yaml:"entry_time" csv:"entry_time"`
	EntryPrice   float64     `yaml:"entry_price" csv:"entry_price"`
	ExitTime     time.Time   `yaml:"exit_time,omitempty" csv:"exit_time"`
	ExitPrice    float64     `yaml:"exit_price,omitempty" csv:"exit_price"`
	// PnlPct is the fractional return of the round trip:
	// (exit - entry) / entry. Zero while the trade is open.
	PnlPct float64     `yaml:"pnl_pct" csv:"pnl_pct"`
	Status TradeStatus `yaml:"status" csv:"status"`
	Reason ExitReason  `yaml:"reason,omitempty" csv:"reason"`
}

// EquityPoint is one row of the equity curve, appended once per bar.
type EquityPoint struct {
	Time   time.Time `yaml:"time" csv:"time"`
	Equity float64   `yaml:"equity" csv:"equity"`
}

// BacktestResult is the complete in-memory output of one simulation run.
type BacktestResult struct {
	Trades      []Trade            `yaml:"trades"`
	EquityCurve []EquityPoint      `yaml:"equity_curve"`
	Metrics     PerformanceMetrics `yaml:"metrics"`
}
