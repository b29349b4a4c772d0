package indicator

// WeeklyCPR returns the central pivot range levels (pivot, top-central,
// bottom-central) derived from fixed 5-bar blocks simulating trading weeks.
// Each bar takes its levels from the previous block's high, low and close:
// pivot = (H+L+C)/3, bc = (H+L)/2, tc = 2*pivot - bc. Bars in the first
// block have no prior block and fall back to the current bar's close for all
// three outputs.
func WeeklyCPR(highs, lows, closes []float64, blockSize int) (pivot, tc, bc []float64) {
	n := len(closes)
	pivot = make([]float64, n)
	tc = make([]float64, n)
	bc = make([]float64, n)

	if blockSize <= 0 {
		blockSize = 1
	}

	for i := 0; i < n; i++ {
		block := i / blockSize
		if block == 0 {
			pivot[i] = closes[i]
			tc[i] = closes[i]
			bc[i] = closes[i]

			continue
		}

		start := (block - 1) * blockSize

		end := block*blockSize - 1
		if end >= n {
			end = n - 1
		}

		high := highs[start]
		low := lows[start]

		for j := start + 1; j <= end; j++ {
			if highs[j] > high {
				high = highs[j]
			}

			if lows[j] < low {
				low = lows[j]
			}
		}

		close := closes[end]

		p := (high + low + close) / 3
		b := (high + low) / 2

		pivot[i] = p
		bc[i] = b
		tc[i] = 2*p - b
	}

	return pivot, tc, bc
}

// PrevHigh returns each bar's previous high, NaN at index 0.
func PrevHigh(highs []float64) []float64 {
	out := nans(len(highs))
	for i := 1; i < len(highs); i++ {
		out[i] = highs[i-1]
	}

	return out
}

// PrevLow returns each bar's previous low, NaN at index 0.
func PrevLow(lows []float64) []float64 {
	out := nans(len(lows))
	for i := 1; i < len(lows); i++ {
		out[i] = lows[i-1]
	}

	return out
}
