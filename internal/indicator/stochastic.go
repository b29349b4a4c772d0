package indicator

// Stochastic returns the slow stochastic oscillator. The raw %K is
// 100*(close-lowestLow)/(highestHigh-lowestLow) over the trailing period,
// smoothed by an SMA of slowK bars; %D is an SMA of slowD bars over the
// smoothed %K. A flat window (highest == lowest) yields a raw %K of 50 so a
// motionless series reads as neutral rather than dividing by zero.
func Stochastic(highs, lows, closes []float64, period, slowK, slowD int) (k, d []float64) {
	raw := nans(len(closes))
	if period <= 0 || len(closes) < period {
		return raw, nans(len(closes))
	}

	for i := period - 1; i < len(closes); i++ {
		highest := highs[i]
		lowest := lows[i]

		for j := i - period + 1; j <= i; j++ {
			if highs[j] > highest {
				highest = highs[j]
			}

			if lows[j] < lowest {
				lowest = lows[j]
			}
		}

		if highest == lowest {
			raw[i] = 50
		} else {
			raw[i] = 100 * (closes[i] - lowest) / (highest - lowest)
		}
	}

	k = SMA(raw, slowK)
	d = SMA(k, slowD)

	return k, d
}
