package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTickerRoot(t *testing.T) {
	tests := []struct {
		ticker string
		want   string
	}{
		{"CBA.AU", "CBA"},
		{"BRK.A.US", "BRK.A"},
		{"AAPL", "AAPL"},
		{".HIDDEN", ".HIDDEN"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TickerRoot(tt.ticker), "ticker %q", tt.ticker)
	}
}

func TestCoreName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Commonwealth Bank of Australia", "Commonwealth"},
		{"BHP", "BHP"},
		{"  Wesfarmers Ltd", "Wesfarmers"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CoreName(tt.name), "name %q", tt.name)
	}
}

func TestRecordsBySector(t *testing.T) {
	report := &ScanReport{
		Records: []TickerRecord{
			{Ticker: "CBA.AU", Sector: "Financials"},
			{Ticker: "BHP.AU", Sector: "Materials"},
			{Ticker: "NAB.AU", Sector: "Financials"},
			{Ticker: "XRO.AU", Sector: "Technology"},
		},
		Leaderboard: []SectorAggregate{
			{Sector: "Materials", MeanChange: 2.0, Tickers: 1},
			{Sector: "Financials", MeanChange: 0.5, Tickers: 2},
			{Sector: "Technology", MeanChange: -1.0, Tickers: 1},
		},
	}

	groups := report.RecordsBySector()
	assert.Len(t, groups, 3)
	assert.Len(t, groups[0], 1, "Materials group leads")
	assert.Equal(t, "BHP.AU", groups[0][0].Ticker)
	assert.Len(t, groups[1], 2)
	assert.Equal(t, "CBA.AU", groups[1][0].Ticker, "within a sector, record order is preserved")
	assert.Equal(t, "NAB.AU", groups[1][1].Ticker)
	assert.Equal(t, "XRO.AU", groups[2][0].Ticker)
}
