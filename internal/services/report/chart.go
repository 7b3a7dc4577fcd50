package report

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"marketintel/internal/models"
)

// RenderSectorChart renders a PNG bar chart of mean percent change per
// sector, in leaderboard order. Returns raw PNG bytes.
func RenderSectorChart(leaderboard []models.SectorAggregate) ([]byte, error) {
	if len(leaderboard) == 0 {
		return nil, fmt.Errorf("no sectors to chart")
	}

	bars := make([]chart.Value, len(leaderboard))
	minVal, maxVal := 0.0, 0.0
	for i, agg := range leaderboard {
		color := drawing.ColorFromHex("27ae60") // green-ish for gainers
		if agg.MeanChange < 0 {
			color = drawing.ColorFromHex("c0392b")
		}
		bars[i] = chart.Value{
			Label: agg.Sector,
			Value: agg.MeanChange,
			Style: chart.Style{FillColor: color, StrokeColor: color},
		}
		if agg.MeanChange < minVal {
			minVal = agg.MeanChange
		}
		if agg.MeanChange > maxVal {
			maxVal = agg.MeanChange
		}
	}

	// Pad the range so bars never touch the frame and zero stays visible
	pad := (maxVal - minVal) * 0.1
	if pad == 0 {
		pad = 1
	}

	graph := chart.BarChart{
		Title:    "Sector Performance (mean % change)",
		Width:    900,
		Height:   400,
		BarWidth: 60,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{
				Min: minVal - pad,
				Max: maxVal + pad,
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render sector chart: %w", err)
	}

	return buf.Bytes(), nil
}
