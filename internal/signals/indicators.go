// Package signals provides technical indicator calculations
package signals

import (
	"math"

	"marketintel/internal/models"
)

// SMA calculates the Simple Moving Average over the most recent bars.
// Bars are sorted descending (most recent first). Returns 0 when the
// series is shorter than the period.
func SMA(bars []models.EODBar, period int) float64 {
	if period <= 0 || len(bars) < period {
		return 0
	}

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += bars[i].Close
	}
	return sum / float64(period)
}

// ClassifyTrend applies the golden-cross breakout heuristic: BULLISH when
// the short average sits above the long average and price confirms above
// the short average. A series too short for the long window classifies
// as CONSOLIDATING rather than erroring.
func ClassifyTrend(bars []models.EODBar, currentPrice float64, shortWindow, longWindow int) models.TrendType {
	if len(bars) < longWindow {
		return models.TrendConsolidating
	}

	maShort := SMA(bars, shortWindow)
	maLong := SMA(bars, longWindow)

	if maShort > maLong && currentPrice > maShort {
		return models.TrendBullish
	}
	return models.TrendConsolidating
}

// IsValue reports whether a trailing P/E trips the value trigger: present,
// finite, and strictly below the threshold. An absent P/E is never a value
// signal and never an error.
func IsValue(pe *float64, threshold float64) bool {
	if pe == nil {
		return false
	}
	v := *pe
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v < threshold
}

// DistanceToSMA calculates percentage distance from current price to an SMA
func DistanceToSMA(currentPrice, sma float64) float64 {
	if sma == 0 {
		return 0
	}
	return ((currentPrice - sma) / sma) * 100
}
