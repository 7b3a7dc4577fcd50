// Package models defines data structures for marketintel
package models

import (
	"time"
)

// SectorAggregate is one row of the sector leaderboard
type SectorAggregate struct {
	Sector     string  `json:"sector"`
	MeanChange float64 `json:"mean_change"`
	Tickers    int     `json:"tickers"`
}

// SentimentRegime labels overall market breadth
type SentimentRegime string

const (
	RegimeExtremeGreed SentimentRegime = "EXTREME_GREED"
	RegimeGreed        SentimentRegime = "GREED"
	RegimeNeutral      SentimentRegime = "NEUTRAL"
	RegimeFear         SentimentRegime = "FEAR"
	RegimeExtremeFear  SentimentRegime = "EXTREME_FEAR"
)

// MarketSentiment is the breadth-based sentiment classification for a run.
// Zero-change tickers count toward neither advances nor declines.
type MarketSentiment struct {
	Advances int             `json:"advances"`
	Declines int             `json:"declines"`
	Ratio    float64         `json:"ratio"`
	Regime   SentimentRegime `json:"regime"`
}

// ScanReport is the complete output of one scan run, handed to the
// report renderer. All contents are discarded after rendering.
type ScanReport struct {
	ID          string            `json:"id"`
	GeneratedAt time.Time         `json:"generated_at"`
	Records     []TickerRecord    `json:"records"`
	Leaderboard []SectorAggregate `json:"leaderboard"`
	Sentiment   MarketSentiment   `json:"sentiment"`
}

// RecordsBySector groups records by sector in leaderboard order.
// Sectors absent from the leaderboard (none, by construction) are skipped.
func (r *ScanReport) RecordsBySector() [][]TickerRecord {
	groups := make([][]TickerRecord, 0, len(r.Leaderboard))
	for _, agg := range r.Leaderboard {
		var group []TickerRecord
		for _, rec := range r.Records {
			if rec.Sector == agg.Sector {
				group = append(group, rec)
			}
		}
		groups = append(groups, group)
	}
	return groups
}
