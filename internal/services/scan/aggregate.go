package scan

import (
	"sort"

	"marketintel/internal/models"
)

// BuildLeaderboard groups records by sector and ranks sectors by mean
// percent change, descending. Ties keep first-seen sector order.
func BuildLeaderboard(records []models.TickerRecord) []models.SectorAggregate {
	type bucket struct {
		sum   float64
		count int
	}

	order := make([]string, 0)
	buckets := make(map[string]*bucket)

	for _, r := range records {
		b, ok := buckets[r.Sector]
		if !ok {
			b = &bucket{}
			buckets[r.Sector] = b
			order = append(order, r.Sector)
		}
		b.sum += r.PercentChange
		b.count++
	}

	leaderboard := make([]models.SectorAggregate, 0, len(order))
	for _, sector := range order {
		b := buckets[sector]
		leaderboard = append(leaderboard, models.SectorAggregate{
			Sector:     sector,
			MeanChange: b.sum / float64(b.count),
			Tickers:    b.count,
		})
	}

	sort.SliceStable(leaderboard, func(i, j int) bool {
		return leaderboard[i].MeanChange > leaderboard[j].MeanChange
	})

	return leaderboard
}

// ClassifySentiment computes breadth over the combined record list and
// maps the advance/decline ratio to a regime. Zero-change records count
// toward neither side; an empty basket is NEUTRAL by definition.
func ClassifySentiment(records []models.TickerRecord) models.MarketSentiment {
	sentiment := models.MarketSentiment{Regime: models.RegimeNeutral}

	for _, r := range records {
		switch {
		case r.PercentChange > 0:
			sentiment.Advances++
		case r.PercentChange < 0:
			sentiment.Declines++
		}
	}

	if sentiment.Advances == 0 && sentiment.Declines == 0 {
		return sentiment
	}

	if sentiment.Declines == 0 {
		// Zero decliners: unbounded-strength signal equal to the advance count
		sentiment.Ratio = float64(sentiment.Advances)
	} else {
		sentiment.Ratio = float64(sentiment.Advances) / float64(sentiment.Declines)
	}

	sentiment.Regime = classifyRegime(sentiment.Ratio)
	return sentiment
}

// classifyRegime maps a breadth ratio to a regime label. Intervals are
// half-open so every boundary value resolves to exactly one regime.
func classifyRegime(ratio float64) models.SentimentRegime {
	switch {
	case ratio > 2.0:
		return models.RegimeExtremeGreed
	case ratio > 1.2:
		return models.RegimeGreed
	case ratio >= 0.8:
		return models.RegimeNeutral
	case ratio >= 0.5:
		return models.RegimeFear
	default:
		return models.RegimeExtremeFear
	}
}
