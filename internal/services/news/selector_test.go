package news

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketintel/internal/common"
	"marketintel/internal/interfaces"
	"marketintel/internal/models"
)

// stagedClient returns a fixed result slice per call, in order
type stagedClient struct {
	results [][]*models.NewsItem
	err     error
	queries []interfaces.NewsQuery
}

func (c *stagedClient) Search(ctx context.Context, query interfaces.NewsQuery) ([]*models.NewsItem, error) {
	c.queries = append(c.queries, query)
	if c.err != nil {
		return nil, c.err
	}
	call := len(c.queries) - 1
	if call >= len(c.results) {
		return nil, nil
	}
	return c.results[call], nil
}

func article(title string) *models.NewsItem {
	return &models.NewsItem{Title: title, URL: "https://example.com/a", PublishedAt: time.Now()}
}

func TestSelect_FirstStageWins(t *testing.T) {
	client := &stagedClient{
		results: [][]*models.NewsItem{
			{article("Reliance wins major defence contract")},
		},
	}

	sel := NewSelector(client, common.NewSilentLogger()).Select(context.Background(), "RELIANCE.NS", "Reliance Industries Ltd")

	require.NotNil(t, sel.Item)
	assert.Equal(t, "Reliance wins major defence contract", sel.Item.Title)
	assert.Equal(t, models.NewsMarkerNone, sel.Marker)
	assert.Len(t, client.queries, 1, "later stages must not run once a headline is found")
}

func TestSelect_FallsThroughToBroadStage(t *testing.T) {
	client := &stagedClient{
		results: [][]*models.NewsItem{
			nil,
			nil,
			{article("Tata announces quarterly update")},
		},
	}

	sel := NewSelector(client, common.NewSilentLogger()).Select(context.Background(), "TATMOTORS.NS", "Tata Motors")

	require.NotNil(t, sel.Item, "stage 3 result must be selected, never a neutral marker")
	assert.Equal(t, "Tata announces quarterly update", sel.Item.Title)
	assert.Len(t, client.queries, 3)
}

func TestSelect_AllStagesEmpty(t *testing.T) {
	client := &stagedClient{}

	sel := NewSelector(client, common.NewSilentLogger()).Select(context.Background(), "ABC.AU", "ABC Holdings")

	assert.Nil(t, sel.Item)
	assert.Equal(t, models.NewsMarkerNoCatalyst, sel.Marker)
	assert.Len(t, client.queries, 3)
}

func TestSelect_AdapterFailureIsDistinguishable(t *testing.T) {
	client := &stagedClient{err: models.AdapterUnavailable("newsapi", errors.New("dial timeout"))}

	sel := NewSelector(client, common.NewSilentLogger()).Select(context.Background(), "ABC.AU", "ABC Holdings")

	assert.Nil(t, sel.Item)
	assert.Equal(t, models.NewsMarkerUnavailable, sel.Marker)
	assert.NotEqual(t, models.NewsMarkerNoCatalyst, sel.Marker)
}

func TestSelect_QueryShape(t *testing.T) {
	client := &stagedClient{}
	NewSelector(client, common.NewSilentLogger(), WithRecencyDays(3)).
		Select(context.Background(), "INFY.NS", "Infosys Technologies Ltd")

	require.Len(t, client.queries, 3)

	stage1 := client.queries[0]
	assert.Contains(t, stage1.Query, `"Infosys"`, "core name is the first token of the display name")
	assert.Contains(t, stage1.Query, `"INFY"`, "ticker root has the exchange suffix stripped")
	assert.Contains(t, stage1.Query, "multibagger")
	assert.Contains(t, stage1.Query, `"order book"`)
	assert.Contains(t, stage1.Query, "NOT (jobs OR hiring)")
	assert.Equal(t, "relevancy", stage1.SortBy)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -3), stage1.From, time.Minute)

	stage2 := client.queries[1]
	assert.Contains(t, stage2.Query, `"target price"`)
	assert.Contains(t, stage2.Query, "investment")

	stage3 := client.queries[2]
	assert.Contains(t, stage3.Query, `"Infosys"`)
	assert.NotContains(t, stage3.Query, "breakout")
}

func TestSelect_StrictTitleFiltersMismatches(t *testing.T) {
	client := &stagedClient{
		results: [][]*models.NewsItem{
			{
				article("Markets rally on rate cut hopes"),
				article("INFY surges after blockbuster results"),
			},
		},
	}

	sel := NewSelector(client, common.NewSilentLogger(), WithStrictTitle(true)).
		Select(context.Background(), "INFY.NS", "Infosys Technologies")

	require.NotNil(t, sel.Item)
	assert.Equal(t, "INFY surges after blockbuster results", sel.Item.Title)
}

func TestSelect_HiringNoiseSuppressed(t *testing.T) {
	client := &stagedClient{
		results: [][]*models.NewsItem{
			{
				article("Infosys hiring 5000 engineers this quarter"),
				article("Infosys jobs portal expands"),
			},
		},
	}

	sel := NewSelector(client, common.NewSilentLogger()).
		Select(context.Background(), "INFY.NS", "Infosys Technologies")

	assert.Nil(t, sel.Item)
	assert.Equal(t, models.NewsMarkerNoCatalyst, sel.Marker)
}

func TestSelect_EmptyCompanyNameUsesTickerRoot(t *testing.T) {
	client := &stagedClient{}
	NewSelector(client, common.NewSilentLogger()).Select(context.Background(), "XYZ.AU", "")

	require.Len(t, client.queries, 3)
	assert.Contains(t, client.queries[0].Query, `"XYZ"`)
	assert.Contains(t, client.queries[2].Query, `"XYZ"`)
}
