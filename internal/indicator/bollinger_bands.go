package indicator

// BollingerBands returns the upper, middle and lower bands: the middle is
// SMA(period) and the outer bands sit stdDevMultiplier rolling standard
// deviations away from it.
func BollingerBands(values []float64, period int, stdDevMultiplier float64) (upper, middle, lower []float64) {
	middle = SMA(values, period)
	stddev := RollingStdDev(values, period)

	upper = nans(len(values))
	lower = nans(len(values))

	for i := range values {
		if finite(middle[i]) && finite(stddev[i]) {
			upper[i] = middle[i] + stdDevMultiplier*stddev[i]
			lower[i] = middle[i] - stdDevMultiplier*stddev[i]
		}
	}

	return upper, middle, lower
}
