package analytics

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grantlens/internal/dataset"
	"grantlens/internal/forecast"
)

func fundedRec(year int, state, ic, activity, piID, piName string, cost float64) dataset.Record {
	return dataset.Record{
		FiscalYear:      year,
		OrgState:        state,
		AdministeringIC: ic,
		Activity:        activity,
		PIPersonID:      piID,
		PIName:          piName,
		TotalCost:       cost,
	}
}

func TestFundingTrendsShortHistory(t *testing.T) {
	records := []dataset.Record{
		fundedRec(2020, "CA", "NINDS", "R01", "1", "Alice", 2e6),
		fundedRec(2021, "CA", "NINDS", "R01", "1", "Alice", 4e6),
	}

	view, err := FundingTrends(records, forecast.DefaultConfig())
	require.ErrorIs(t, err, forecast.ErrInsufficientHistory)

	// The trend itself is still usable; only the forecast is absent.
	require.Len(t, view.Points, 2)
	assert.Equal(t, 2.0, view.Points[0].Value, "values reported in millions")
	assert.Equal(t, 4.0, view.Points[1].Value)
	assert.Nil(t, view.Forecast)

	require.Len(t, view.MovingAvg, 2)
	assert.True(t, math.IsNaN(view.MovingAvg[0]))
	assert.True(t, math.IsNaN(view.MovingAvg[1]))
}

func TestFundingTrendsWithForecast(t *testing.T) {
	var records []dataset.Record
	for year := 2014; year <= 2023; year++ {
		records = append(records, fundedRec(year, "CA", "NINDS", "R01", "1", "Alice", 1e6*float64(year-2013)))
	}

	view, err := FundingTrends(records, forecast.DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, view.Forecast)
	assert.Equal(t, 2024, view.Forecast.Period)

	require.Len(t, view.MovingAvg, 10)
	assert.True(t, math.IsNaN(view.MovingAvg[1]))
	assert.InDelta(t, 2.0, view.MovingAvg[2], 1e-9, "mean of 1,2,3")
}

func TestFundingTrendsEmptyInput(t *testing.T) {
	view, err := FundingTrends(nil, forecast.DefaultConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, forecast.ErrInsufficientHistory))
	assert.Empty(t, view.Points)
}

func TestFundingByAgency(t *testing.T) {
	records := []dataset.Record{
		fundedRec(2020, "CA", "NIMH", "R01", "1", "Alice", 1e6),
		fundedRec(2020, "CA", "NINDS", "R01", "2", "Bob", 5e6),
		fundedRec(2021, "NY", "NICHD", "R21", "3", "Carol", 3e6),
	}

	series := FundingByAgency(records, 2)
	require.Len(t, series, 2)
	assert.Equal(t, "NINDS", series[0].Key)
	assert.Equal(t, 5.0, series[0].Value)
	assert.Equal(t, "NICHD", series[1].Key)
}

func TestFundingByState(t *testing.T) {
	records := []dataset.Record{
		fundedRec(2020, "NY", "NINDS", "R01", "1", "Alice", 2e6),
		fundedRec(2020, "CA", "NINDS", "R01", "2", "Bob", 1e6),
		fundedRec(2021, "NY", "NINDS", "R01", "1", "Alice", 2e6),
	}

	series := FundingByState(records)
	require.Len(t, series, 2)
	assert.Equal(t, Entry{Key: "CA", Value: 1, Count: 1}, series[0])
	assert.Equal(t, Entry{Key: "NY", Value: 4, Count: 2}, series[1])
}

func TestActivityBreakdownFoldLabel(t *testing.T) {
	records := []dataset.Record{
		fundedRec(2020, "CA", "NINDS", "R01", "1", "Alice", 10e6),
		fundedRec(2020, "CA", "NINDS", "R21", "2", "Bob", 7e6),
		fundedRec(2020, "CA", "NINDS", "U54", "3", "Carol", 3e6),
	}

	series := ActivityBreakdown(records, 1)
	require.Len(t, series, 2)
	assert.Equal(t, "R01", series[0].Key)
	assert.Equal(t, 10.0, series[0].Value)
	assert.Equal(t, "Other Types", series[1].Key)
	assert.InDelta(t, 10.0, series[1].Value, 1e-9)
}

func TestTopInvestigators(t *testing.T) {
	records := []dataset.Record{
		fundedRec(2020, "CA", "NINDS", "R01", "77", "Alice", 2e6),
		fundedRec(2021, "CA", "NINDS", "R01", "77", "Alice", 3e6),
		fundedRec(2020, "NY", "NIMH", "R21", "78", "Bob", 4e6),
		fundedRec(2020, "TX", "NIMH", "R21", "79", "Carol", 1e6),
	}

	rows := TopInvestigators(records, 2)
	require.Len(t, rows, 2)
	assert.Equal(t, "Alice", rows[0].Name)
	assert.Equal(t, 5.0, rows[0].TotalFunding)
	assert.Equal(t, 2, rows[0].Projects)
	assert.Equal(t, "Bob", rows[1].Name)
}

func TestTopInvestigatorsSplitsByState(t *testing.T) {
	// Same person id under two states stays two rows, matching the
	// composite grouping of the investigator table.
	records := []dataset.Record{
		fundedRec(2020, "CA", "NINDS", "R01", "77", "Alice", 2e6),
		fundedRec(2021, "NY", "NINDS", "R01", "77", "Alice", 1e6),
	}

	rows := TopInvestigators(records, 10)
	require.Len(t, rows, 2)
	assert.Equal(t, "CA", rows[0].State)
	assert.Equal(t, "NY", rows[1].State)
}
