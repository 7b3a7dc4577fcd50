package report

import (
	"fmt"
	"html"
	"strings"

	"marketintel/internal/models"
)

const (
	colorBull    = "#27ae60"
	colorBear    = "#c0392b"
	colorNeutral = "#7f8c8d"
	colorInk     = "#1a2a3a"
)

// FormatHTML renders the full scan report as a standalone HTML document:
// sentiment banner, sector leaderboard, then one card per ticker grouped
// by sector in leaderboard order.
func FormatHTML(report *models.ScanReport, title string) string {
	var sb strings.Builder

	sb.WriteString(`<html><body style="background-color: #f4f7f6; padding: 20px; font-family: sans-serif;">`)
	sb.WriteString(fmt.Sprintf(`<h1 style="text-align: center; color: %s; margin-bottom: 5px;">%s</h1>`, colorInk, html.EscapeString(title)))
	sb.WriteString(fmt.Sprintf(`<p style="text-align: center; color: %s; margin-bottom: 30px;">%s &mdash; %d tickers evaluated</p>`,
		colorNeutral, report.GeneratedAt.Format("02 Jan 2006 15:04"), len(report.Records)))

	sb.WriteString(formatSentimentBanner(report.Sentiment))
	sb.WriteString(formatLeaderboard(report.Leaderboard))

	for i, group := range report.RecordsBySector() {
		if len(group) == 0 {
			continue
		}
		agg := report.Leaderboard[i]
		sb.WriteString(fmt.Sprintf(`<h2 style="color: %s; margin-top: 30px;">%s <span style="color: %s; font-size: 0.7em;">(%s avg)</span></h2>`,
			colorInk, html.EscapeString(agg.Sector), changeColor(agg.MeanChange), formatSignedPct(agg.MeanChange)))
		for _, rec := range group {
			sb.WriteString(formatTickerCard(rec))
		}
	}

	sb.WriteString(`</body></html>`)
	return sb.String()
}

func formatSentimentBanner(s models.MarketSentiment) string {
	label, color := regimeLabel(s.Regime)
	return fmt.Sprintf(`<div style="background: %s; color: white; border-radius: 12px; padding: 15px 20px; margin-bottom: 20px; text-align: center;">`+
		`<span style="font-size: 1.1em; font-weight: bold;">%s</span>`+
		`<br><span style="font-size: 0.85em;">Breadth: %d advancing / %d declining (ratio %.2f)</span></div>`,
		color, label, s.Advances, s.Declines, s.Ratio)
}

func formatLeaderboard(leaderboard []models.SectorAggregate) string {
	if len(leaderboard) == 0 {
		return `<p style="text-align: center;">No sector data available this run.</p>`
	}

	var sb strings.Builder
	sb.WriteString(`<div style="background: white; border-radius: 12px; padding: 20px; margin-bottom: 20px;">`)
	sb.WriteString(fmt.Sprintf(`<h3 style="margin-top: 0; color: %s;">Sector Leaderboard</h3>`, colorInk))
	sb.WriteString(`<table style="width: 100%; border-collapse: collapse;">`)
	sb.WriteString(fmt.Sprintf(`<tr style="color: %s; text-align: left;"><th style="padding: 6px;">#</th><th style="padding: 6px;">Sector</th><th style="padding: 6px;">Avg Change</th><th style="padding: 6px;">Tickers</th></tr>`, colorNeutral))
	for i, agg := range leaderboard {
		sb.WriteString(fmt.Sprintf(`<tr><td style="padding: 6px;">%d</td><td style="padding: 6px;">%s</td><td style="padding: 6px; color: %s; font-weight: bold;">%s</td><td style="padding: 6px;">%d</td></tr>`,
			i+1, html.EscapeString(agg.Sector), changeColor(agg.MeanChange), formatSignedPct(agg.MeanChange), agg.Tickers))
	}
	sb.WriteString(`</table></div>`)
	return sb.String()
}

func formatTickerCard(rec models.TickerRecord) string {
	var sb strings.Builder

	trendLabel := "&#9878; CONSOLIDATING"
	trendColor := colorNeutral
	if rec.Trend == models.TrendBullish {
		trendLabel = "&#128640; BREAKOUT (Golden Cross)"
		trendColor = colorBull
	}

	cardStyle := "border-left: 8px solid #3498db;"
	valueBadge := ""
	if rec.IsValue {
		cardStyle = fmt.Sprintf("border: 2px solid %s; box-shadow: 0 4px 12px rgba(39,174,96,0.2);", colorBull)
		valueBadge = fmt.Sprintf(`<span style="background: %s; color: white; padding: 2px 8px; border-radius: 4px; font-size: 0.7em;">VALUE PICK</span>`, colorBull)
	}

	originBadge := ""
	if rec.Origin == models.OriginDiscovery {
		originBadge = `<span style="background: #8e44ad; color: white; padding: 2px 8px; border-radius: 4px; font-size: 0.7em;">DISCOVERY</span>`
	}

	sb.WriteString(fmt.Sprintf(`<div style="background: white; border-radius: 12px; padding: 20px; margin-bottom: 20px; %s">`, cardStyle))
	sb.WriteString(`<div style="display: flex; justify-content: space-between; align-items: center;">`)
	sb.WriteString(fmt.Sprintf(`<span style="font-size: 1.25em; font-weight: bold; color: %s;">%s %s %s</span>`,
		colorInk, html.EscapeString(rec.Name), valueBadge, originBadge))
	sb.WriteString(fmt.Sprintf(`<span style="color: %s; font-weight: bold; font-size: 0.85em;">%s</span>`, trendColor, trendLabel))
	sb.WriteString(`</div>`)

	sb.WriteString(`<div style="margin: 15px 0; display: grid; grid-template-columns: 1fr 1fr 1fr; gap: 10px; text-align: center;">`)
	sb.WriteString(fmt.Sprintf(`<div style="background: #f8f9fa; padding: 10px; border-radius: 8px;">Price: <b>%.2f</b><br><span style="color: %s; font-weight: bold;">%s</span></div>`,
		rec.Price, changeColor(rec.PercentChange), formatSignedPct(rec.PercentChange)))
	sb.WriteString(fmt.Sprintf(`<div style="background: #f8f9fa; padding: 10px; border-radius: 8px;">PE: <b>%s</b></div>`, formatOptional(rec.PERatio)))
	sb.WriteString(fmt.Sprintf(`<div style="background: #f8f9fa; padding: 10px; border-radius: 8px;">EPS: <b>%s</b></div>`, formatOptional(rec.EPSTrailing)))
	sb.WriteString(`</div>`)

	sb.WriteString(`<div style="background: #eef2f3; padding: 15px; border-radius: 8px; border-top: 1px solid #ddd;">`)
	sb.WriteString(fmt.Sprintf(`<span style="font-size: 0.7em; font-weight: bold; color: %s; text-transform: uppercase;">News Intel:</span><br>`, colorNeutral))
	sb.WriteString(`<div style="margin-top: 5px; font-size: 0.9em; line-height: 1.4;">` + formatNews(rec.News) + `</div>`)
	sb.WriteString(`</div></div>`)

	return sb.String()
}

func formatNews(sel models.NewsSelection) string {
	if sel.Item != nil {
		return fmt.Sprintf(`&#128293; <b>%s</b><br><a href="%s">View Source</a>`,
			html.EscapeString(sel.Item.Title), html.EscapeString(sel.Item.URL))
	}
	switch sel.Marker {
	case models.NewsMarkerUnavailable:
		return "News Service Unavailable"
	default:
		return "Neutral: Watching for financial catalysts."
	}
}

func regimeLabel(regime models.SentimentRegime) (label, color string) {
	switch regime {
	case models.RegimeExtremeGreed:
		return "EXTREME GREED", colorBull
	case models.RegimeGreed:
		return "GREED", "#2ecc71"
	case models.RegimeFear:
		return "FEAR", "#e67e22"
	case models.RegimeExtremeFear:
		return "EXTREME FEAR", colorBear
	default:
		return "NEUTRAL", colorNeutral
	}
}

func changeColor(v float64) string {
	if v >= 0 {
		return colorBull
	}
	return colorBear
}

func formatSignedPct(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

func formatOptional(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v)
}
