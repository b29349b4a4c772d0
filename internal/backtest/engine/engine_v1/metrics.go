package engine

import (
	"math"

	"github.com/stratlab-io/stratsim/internal/types"
)

// tradingDaysPerYear annualizes the Sharpe ratio for daily bars.
const tradingDaysPerYear = 252

// CalculateMetrics derives the performance statistics of a finished run from
// the full trade log and equity curve. Open trades are excluded from the
// closed-trade statistics; the equity curve already reflects only closed
// trades by construction.
func CalculateMetrics(trades []types.Trade, equityCurve []types.EquityPoint, initialCapital float64) types.PerformanceMetrics {
	metrics := types.PerformanceMetrics{
		InitialCapital: initialCapital,
		FinalEquity:    initialCapital,
	}

	if len(equityCurve) > 0 {
		metrics.FinalEquity = equityCurve[len(equityCurve)-1].Equity
	}

	if initialCapital != 0 {
		metrics.TotalReturn = (metrics.FinalEquity - initialCapital) / initialCapital
	}

	for _, trade := range trades {
		if trade.Status != types.TradeStatusClosed {
			continue
		}

		metrics.NumberOfTrades++

		switch {
		case trade.PnlPct > 0:
			metrics.NumberOfWinningTrades++
		case trade.PnlPct < 0:
			metrics.NumberOfLosingTrades++
		}

		if trade.PnlPct > metrics.MaximumProfit {
			metrics.MaximumProfit = trade.PnlPct
		}

		if trade.PnlPct < metrics.MaximumLoss {
			metrics.MaximumLoss = trade.PnlPct
		}
	}

	if metrics.NumberOfTrades > 0 {
		metrics.WinRate = float64(metrics.NumberOfWinningTrades) / float64(metrics.NumberOfTrades)
	}

	metrics.MaxDrawdown = maxDrawdown(equityCurve)
	metrics.SharpeRatio = sharpeRatio(equityCurve)

	return metrics
}

// maxDrawdown is the largest fractional fall from a running equity peak.
func maxDrawdown(equityCurve []types.EquityPoint) float64 {
	maxDD := 0.0
	peak := math.Inf(-1)

	for _, point := range equityCurve {
		if point.Equity > peak {
			peak = point.Equity
		}

		if peak > 0 {
			dd := (peak - point.Equity) / peak
			if dd > maxDD {
				maxDD = dd
			}
		}
	}

	return maxDD
}

// sharpeRatio is mean over sample standard deviation of per-bar simple
// returns, annualized by sqrt(252). Defined as 0 with fewer than two equity
// points or a zero standard deviation.
func sharpeRatio(equityCurve []types.EquityPoint) float64 {
	if len(equityCurve) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(equityCurve)-1)

	for i := 1; i < len(equityCurve); i++ {
		prev := equityCurve[i-1].Equity
		if prev == 0 {
			continue
		}

		returns = append(returns, (equityCurve[i].Equity-prev)/prev)
	}

	if len(returns) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}

	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}

	stdev := math.Sqrt(variance / float64(len(returns)-1))
	if stdev == 0 {
		return 0
	}

	return mean / stdev * math.Sqrt(tradingDaysPerYear)
}
