package types

import (
	"fmt"

	"github.com/stratlab-io/stratsim/pkg/errors"
)

// IndicatorKind identifies a column of the augmented candle series.
type IndicatorKind string

const (
	// Static kinds read directly from the candle series.
	IndicatorKindPrice  IndicatorKind = "price"
	IndicatorKindOpen   IndicatorKind = "open"
	IndicatorKindHigh   IndicatorKind = "high"
	IndicatorKindLow    IndicatorKind = "low"
	IndicatorKindVolume IndicatorKind = "volume"
	IndicatorKindAux    IndicatorKind = "aux"

	// Structural derived kinds.
	IndicatorKindPrevHigh IndicatorKind = "prev_high"
	IndicatorKindPrevLow  IndicatorKind = "prev_low"
	IndicatorKindCPRPivot IndicatorKind = "cpr_pivot"
	IndicatorKindCPRTC    IndicatorKind = "cpr_tc"
	IndicatorKindCPRBC    IndicatorKind = "cpr_bc"

	// Computed kinds requiring a period.
	IndicatorKindSMA        IndicatorKind = "sma"
	IndicatorKindEMA        IndicatorKind = "ema"
	IndicatorKindRSI        IndicatorKind = "rsi"
	IndicatorKindMACD       IndicatorKind = "macd"
	IndicatorKindMACDSignal IndicatorKind = "macd_signal"
	IndicatorKindMACDHist   IndicatorKind = "macd_hist"
	IndicatorKindBBUpper    IndicatorKind = "bb_upper"
	IndicatorKindBBMiddle   IndicatorKind = "bb_middle"
	IndicatorKindBBLower    IndicatorKind = "bb_lower"
	IndicatorKindATR        IndicatorKind = "atr"
	IndicatorKindStochK     IndicatorKind = "stoch_k"
	IndicatorKindStochD     IndicatorKind = "stoch_d"
)

// MACD parameters are fixed; the period field of a MACD-family ref is ignored.
const (
	MACDFastPeriod   = 12
	MACDSlowPeriod   = 26
	MACDSignalPeriod = 9
)

// Stochastic smoothing parameters.
const (
	StochSlowK = 3
	StochSlowD = 3
)

// CPRBlockSize is the number of bars grouped into one simulated trading week.
const CPRBlockSize = 5

// Valid reports whether the kind is a known indicator kind.
func (k IndicatorKind) Valid() bool {
	switch k {
	case IndicatorKindPrice, IndicatorKindOpen, IndicatorKindHigh, IndicatorKindLow,
		IndicatorKindVolume, IndicatorKindAux, IndicatorKindPrevHigh, IndicatorKindPrevLow,
		IndicatorKindCPRPivot, IndicatorKindCPRTC, IndicatorKindCPRBC,
		IndicatorKindSMA, IndicatorKindEMA, IndicatorKindRSI,
		IndicatorKindMACD, IndicatorKindMACDSignal, IndicatorKindMACDHist,
		IndicatorKindBBUpper, IndicatorKindBBMiddle, IndicatorKindBBLower,
		IndicatorKindATR, IndicatorKindStochK, IndicatorKindStochD:
		return true
	}

	return false
}

// Computed reports whether the kind is produced by the indicator pipeline,
// as opposed to a static column read straight off the candles.
func (k IndicatorKind) Computed() bool {
	switch k {
	case IndicatorKindPrice, IndicatorKindOpen, IndicatorKindHigh, IndicatorKindLow,
		IndicatorKindVolume, IndicatorKindAux:
		return false
	}

	return true
}

// RequiresPeriod reports whether the kind needs an explicit positive period.
// MACD-family kinds use fixed 12/26/9 parameters and CPR/prev kinds derive
// from bar structure alone.
func (k IndicatorKind) RequiresPeriod() bool {
	switch k {
	case IndicatorKindSMA, IndicatorKindEMA, IndicatorKindRSI,
		IndicatorKindBBUpper, IndicatorKindBBMiddle, IndicatorKindBBLower,
		IndicatorKindATR, IndicatorKindStochK, IndicatorKindStochD:
		return true
	}

	return false
}

// IndicatorRef identifies one column of the augmented series: a kind plus its
// period for computed kinds. Identical refs anywhere in a condition tree
// resolve to the same underlying array.
type IndicatorRef struct {
	Kind   IndicatorKind `yaml:"kind" json:"kind" jsonschema:"title=Kind,description=Indicator kind"`
	Period int           `yaml:"period,omitempty" json:"period,omitempty" jsonschema:"title=Period,description=Look-back period for computed kinds"`
}

// Key returns the cache key identifying the underlying column.
func (r IndicatorRef) Key() string {
	if r.Kind.RequiresPeriod() {
		return fmt.Sprintf("%s_%d", r.Kind, r.Period)
	}

	return string(r.Kind)
}

// WarmupBars returns the number of leading bars for which the referenced
// column holds no value. Static and CPR kinds have no warm-up; prev_high and
// prev_low need one prior bar.
func (r IndicatorRef) WarmupBars() int {
	switch r.Kind {
	case IndicatorKindSMA, IndicatorKindEMA, IndicatorKindRSI, IndicatorKindATR,
		IndicatorKindBBUpper, IndicatorKindBBMiddle, IndicatorKindBBLower:
		return r.Period - 1
	case IndicatorKindMACD:
		return MACDSlowPeriod - 1
	case IndicatorKindMACDSignal, IndicatorKindMACDHist:
		return MACDSlowPeriod + MACDSignalPeriod - 2
	case IndicatorKindStochK:
		return r.Period + StochSlowK - 2
	case IndicatorKindStochD:
		return r.Period + StochSlowK + StochSlowD - 3
	case IndicatorKindPrevHigh, IndicatorKindPrevLow:
		return 1
	}

	return 0
}

// Validate checks that the ref names a known kind with a usable period.
func (r IndicatorRef) Validate() error {
	if !r.Kind.Valid() {
		return errors.Newf(errors.ErrCodeInvalidIndicator, "unknown indicator kind %q", r.Kind)
	}

	if r.Kind.RequiresPeriod() && r.Period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "indicator %q requires a positive period, got %d", r.Kind, r.Period)
	}

	return nil
}
