package indicator

import (
	"math"
	"time"

	"github.com/stratlab-io/stratsim/internal/types"
	"github.com/stratlab-io/stratsim/pkg/errors"
)

// Series is a candle series augmented with every indicator column a strategy
// requires. Columns are computed once at construction and shared by
// reference; the series is immutable afterwards and owned exclusively by one
// simulation run.
type Series struct {
	candles []types.Candle
	columns map[string][]float64
}

// NewSeries builds an augmented series from candles and the required
// indicator refs. It fails fast with an InsufficientDataError if the series
// is shorter than any requested indicator's warm-up, so a partial run never
// starts.
func NewSeries(candles []types.Candle, refs []types.IndicatorRef) (*Series, error) {
	if len(candles) == 0 {
		return nil, errors.New(errors.ErrCodeDataNotFound, "empty candle series")
	}

	for _, ref := range refs {
		if required := ref.WarmupBars() + 1; len(candles) < required {
			return nil, errors.NewInsufficientDataErrorf(required, len(candles), "",
				"series has %d bars but indicator %s needs %d", len(candles), ref.Key(), required)
		}
	}

	s := &Series{
		candles: candles,
		columns: make(map[string][]float64),
	}

	for _, ref := range refs {
		if err := s.compute(ref); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Len returns the number of bars.
func (s *Series) Len() int {
	return len(s.candles)
}

// Candle returns the bar at index i.
func (s *Series) Candle(i int) types.Candle {
	return s.candles[i]
}

// Time returns the timestamp of the bar at index i.
func (s *Series) Time(i int) time.Time {
	return s.candles[i].Time
}

// Value resolves an indicator ref at bar i. Static kinds read straight off
// the candle; computed kinds read their precomputed column. A value inside
// the warm-up window, or a column that was never requested, resolves to NaN
// so the evaluator treats the condition as not satisfiable at that bar.
func (s *Series) Value(ref types.IndicatorRef, i int) float64 {
	if i < 0 || i >= len(s.candles) {
		return math.NaN()
	}

	switch ref.Kind {
	case types.IndicatorKindPrice:
		return s.candles[i].Close
	case types.IndicatorKindOpen:
		return s.candles[i].Open
	case types.IndicatorKindHigh:
		return s.candles[i].High
	case types.IndicatorKindLow:
		return s.candles[i].Low
	case types.IndicatorKindVolume:
		return s.candles[i].Volume
	case types.IndicatorKindAux:
		return s.candles[i].Aux
	}

	column, ok := s.columns[ref.Key()]
	if !ok {
		return math.NaN()
	}

	return column[i]
}

// compute fills the column(s) for one ref. Sibling outputs of a shared
// calculation (MACD family, Bollinger bands, stochastic, CPR) are stored
// together so requesting two siblings costs one computation.
func (s *Series) compute(ref types.IndicatorRef) error {
	if _, ok := s.columns[ref.Key()]; ok {
		return nil
	}

	closes := s.extract(func(c types.Candle) float64 { return c.Close })

	switch ref.Kind {
	case types.IndicatorKindSMA:
		s.columns[ref.Key()] = SMA(closes, ref.Period)
	case types.IndicatorKindEMA:
		s.columns[ref.Key()] = EMA(closes, ref.Period)
	case types.IndicatorKindRSI:
		s.columns[ref.Key()] = RSI(closes, ref.Period)
	case types.IndicatorKindMACD, types.IndicatorKindMACDSignal, types.IndicatorKindMACDHist:
		line, signal, hist := MACD(closes, types.MACDFastPeriod, types.MACDSlowPeriod, types.MACDSignalPeriod)
		s.columns[string(types.IndicatorKindMACD)] = line
		s.columns[string(types.IndicatorKindMACDSignal)] = signal
		s.columns[string(types.IndicatorKindMACDHist)] = hist
	case types.IndicatorKindBBUpper, types.IndicatorKindBBMiddle, types.IndicatorKindBBLower:
		upper, middle, lower := BollingerBands(closes, ref.Period, 2)
		s.columns[types.IndicatorRef{Kind: types.IndicatorKindBBUpper, Period: ref.Period}.Key()] = upper
		s.columns[types.IndicatorRef{Kind: types.IndicatorKindBBMiddle, Period: ref.Period}.Key()] = middle
		s.columns[types.IndicatorRef{Kind: types.IndicatorKindBBLower, Period: ref.Period}.Key()] = lower
	case types.IndicatorKindATR:
		highs := s.extract(func(c types.Candle) float64 { return c.High })
		lows := s.extract(func(c types.Candle) float64 { return c.Low })
		s.columns[ref.Key()] = ATR(highs, lows, closes, ref.Period)
	case types.IndicatorKindStochK, types.IndicatorKindStochD:
		highs := s.extract(func(c types.Candle) float64 { return c.High })
		lows := s.extract(func(c types.Candle) float64 { return c.Low })
		k, d := Stochastic(highs, lows, closes, ref.Period, types.StochSlowK, types.StochSlowD)
		s.columns[types.IndicatorRef{Kind: types.IndicatorKindStochK, Period: ref.Period}.Key()] = k
		s.columns[types.IndicatorRef{Kind: types.IndicatorKindStochD, Period: ref.Period}.Key()] = d
	case types.IndicatorKindCPRPivot, types.IndicatorKindCPRTC, types.IndicatorKindCPRBC:
		highs := s.extract(func(c types.Candle) float64 { return c.High })
		lows := s.extract(func(c types.Candle) float64 { return c.Low })
		pivot, tc, bc := WeeklyCPR(highs, lows, closes, types.CPRBlockSize)
		s.columns[string(types.IndicatorKindCPRPivot)] = pivot
		s.columns[string(types.IndicatorKindCPRTC)] = tc
		s.columns[string(types.IndicatorKindCPRBC)] = bc
	case types.IndicatorKindPrevHigh:
		highs := s.extract(func(c types.Candle) float64 { return c.High })
		s.columns[ref.Key()] = PrevHigh(highs)
	case types.IndicatorKindPrevLow:
		lows := s.extract(func(c types.Candle) float64 { return c.Low })
		s.columns[ref.Key()] = PrevLow(lows)
	default:
		return errors.Newf(errors.ErrCodeIndicatorNotFound, "no pipeline for indicator kind %q", ref.Kind)
	}

	return nil
}

func (s *Series) extract(field func(types.Candle) float64) []float64 {
	out := make([]float64, len(s.candles))
	for i, c := range s.candles {
		out[i] = field(c)
	}

	return out
}
