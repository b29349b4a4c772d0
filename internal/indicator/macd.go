package indicator

// MACD returns the MACD line, signal line and histogram for the given fast,
// slow and signal periods. The line is EMA(fast) - EMA(slow); the signal is
// an EMA of the line; the histogram is line - signal. Warm-up NaN padding
// follows from the underlying EMAs.
func MACD(values []float64, fastPeriod, slowPeriod, signalPeriod int) (line, signal, hist []float64) {
	fast := EMA(values, fastPeriod)
	slow := EMA(values, slowPeriod)

	line = nans(len(values))
	for i := range values {
		if finite(fast[i]) && finite(slow[i]) {
			line[i] = fast[i] - slow[i]
		}
	}

	signal = EMA(line, signalPeriod)

	hist = nans(len(values))
	for i := range values {
		if finite(line[i]) && finite(signal[i]) {
			hist[i] = line[i] - signal[i]
		}
	}

	return line, signal, hist
}
