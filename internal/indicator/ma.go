package indicator

import "math"

// SMA returns the simple moving average of the trailing period values.
// The first period-1 positions are NaN; a NaN anywhere in the trailing window
// propagates NaN to the output so warm-up gaps of upstream series carry
// through instead of skewing the mean.
func SMA(values []float64, period int) []float64 {
	out := nans(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	for i := period - 1; i < len(values); i++ {
		sum := 0.0
		ok := true

		for j := i - period + 1; j <= i; j++ {
			if !finite(values[j]) {
				ok = false

				break
			}

			sum += values[j]
		}

		if ok {
			out[i] = sum / float64(period)
		}
	}

	return out
}

// RollingStdDev returns the population standard deviation of the trailing
// period values, NaN-padded like SMA.
func RollingStdDev(values []float64, period int) []float64 {
	out := nans(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	for i := period - 1; i < len(values); i++ {
		sum := 0.0
		ok := true

		for j := i - period + 1; j <= i; j++ {
			if !finite(values[j]) {
				ok = false

				break
			}

			sum += values[j]
		}

		if !ok {
			continue
		}

		mean := sum / float64(period)

		variance := 0.0
		for j := i - period + 1; j <= i; j++ {
			d := values[j] - mean
			variance += d * d
		}

		out[i] = math.Sqrt(variance / float64(period))
	}

	return out
}
