package indicator

import "math"

// ATR returns the Average True Range: a Wilder EMA of the true range, where
// TR = max(high-low, |high-prevClose|, |low-prevClose|). The first bar has no
// previous close, so its TR is the plain high-low range; this keeps the
// warm-up at exactly period-1 bars. The first value is a simple average of
// the initial window, smoothed with Wilder's method afterwards.
func ATR(highs, lows, closes []float64, period int) []float64 {
	out := nans(len(closes))
	if period <= 0 || len(closes) < period {
		return out
	}

	tr := make([]float64, len(closes))
	tr[0] = highs[0] - lows[0]

	for i := 1; i < len(closes); i++ {
		hl := highs[i] - lows[i]
		hc := math.Abs(highs[i] - closes[i-1])
		lc := math.Abs(lows[i] - closes[i-1])
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += tr[i]
	}

	atr := sum / float64(period)
	out[period-1] = atr

	for i := period; i < len(closes); i++ {
		atr = (atr*float64(period-1) + tr[i]) / float64(period)
		out[i] = atr
	}

	return out
}
