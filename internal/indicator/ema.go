package indicator

// EMA returns the exponential moving average with multiplier 2/(period+1).
// The recursion is seeded with the first finite value of the input rather
// than an SMA of the first window; this converges slightly slower at the
// start of the series and is the documented seeding policy, not a bug.
// Positions inside the warm-up (the first period-1 after the seed) are NaN.
func EMA(values []float64, period int) []float64 {
	out := nans(len(values))
	if period <= 0 || len(values) == 0 {
		return out
	}

	seed := firstFinite(values)
	if seed < 0 {
		return out
	}

	multiplier := 2.0 / float64(period+1)

	ema := values[seed]
	if seed+period-1 < len(out) {
		// The recursion runs from the seed, but values inside the warm-up
		// window stay NaN for consumers.
		for i := seed + 1; i < len(values); i++ {
			if !finite(values[i]) {
				continue
			}

			ema = (values[i]-ema)*multiplier + ema
			if i >= seed+period-1 {
				out[i] = ema
			}
		}

		if period == 1 {
			out[seed] = values[seed]
		}
	}

	return out
}
