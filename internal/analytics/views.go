package analytics

import (
	"sort"

	"grantlens/internal/dataset"
	"grantlens/internal/forecast"
)

// millionsDivisor converts raw currency units to millions for reporting.
const millionsDivisor = 1e6

// activityOtherLabel matches the overflow label the activity view has always
// reported under.
const activityOtherLabel = "Other Types"

// TotalCost is the value function used by every funding view.
func TotalCost(r dataset.Record) float64 { return r.TotalCost }

// TrendView is the funding-over-time view: annual totals in millions, a
// trailing moving average, and (history permitting) a one-step forecast.
type TrendView struct {
	Points    []YearPoint     `json:"points"`
	MovingAvg []float64       `json:"moving_avg"`
	Forecast  *forecast.Point `json:"forecast,omitempty"`
}

// FundingTrends aggregates total cost per fiscal year and fits the seasonal
// smoother one step past the last observed year. When the history is too
// short for the model the view is still returned and the error reports why
// the forecast is absent; callers decide whether to omit the trace.
func FundingTrends(records []dataset.Record, cfg forecast.Config) (TrendView, error) {
	points := ByFiscalYear(records, TotalCost)
	values := make([]float64, len(points))
	for i := range points {
		points[i].Value /= millionsDivisor
		values[i] = points[i].Value
	}

	view := TrendView{
		Points:    points,
		MovingAvg: forecast.MovingAverage(values, forecast.MovingAverageWindow),
	}
	if len(points) == 0 {
		return view, forecast.ErrInsufficientHistory
	}

	point, err := forecast.Forecast(values, points[len(points)-1].Year, cfg)
	if err != nil {
		return view, err
	}
	view.Forecast = &point
	return view, nil
}

// FundingByAgency returns the n administering units with the highest summed
// total cost, descending, in millions. The tail is omitted rather than
// folded; the agency view has no overflow bucket.
func FundingByAgency(records []dataset.Record, n int) Series {
	series := Aggregate(records, func(r dataset.Record) string {
		return r.AdministeringIC
	}, TotalCost, ReduceSum).SortByValueDesc()
	if n >= 0 && n < len(series) {
		series = series[:n]
	}
	return series.Scale(millionsDivisor)
}

// FundingByState returns summed total cost per organization state in
// millions, ordered by state code. This feeds the geographic view.
func FundingByState(records []dataset.Record) Series {
	return Aggregate(records, func(r dataset.Record) string {
		return r.OrgState
	}, TotalCost, ReduceSum).SortByKey().Scale(millionsDivisor)
}

// ActivityBreakdown returns the n highest-funded activity types plus an
// "Other Types" entry folding the remainder, in millions.
func ActivityBreakdown(records []dataset.Record, n int) Series {
	series := Aggregate(records, func(r dataset.Record) string {
		return r.Activity
	}, TotalCost, ReduceSum)
	return TopNLabel(series, n, activityOtherLabel).Scale(millionsDivisor)
}

// Investigator is one row of the top-investigators view.
type Investigator struct {
	PersonID     string  `json:"person_id"`
	Name         string  `json:"name"`
	State        string  `json:"state"`
	TotalFunding float64 `json:"total_funding"` // millions
	Projects     int     `json:"projects"`
}

// TopInvestigators groups records by (PI id, PI name, state), sums total
// cost and counts projects, and returns the n best-funded investigators in
// descending funding order.
func TopInvestigators(records []dataset.Record, n int) []Investigator {
	type piKey struct {
		id, name, state string
	}
	index := make(map[piKey]int)
	var rows []Investigator
	for _, r := range records {
		k := piKey{r.PIPersonID, r.PIName, r.OrgState}
		i, ok := index[k]
		if !ok {
			i = len(rows)
			index[k] = i
			rows = append(rows, Investigator{PersonID: k.id, Name: k.name, State: k.state})
		}
		if !r.HasTotalCost() {
			continue
		}
		rows[i].TotalFunding += r.TotalCost
		rows[i].Projects++
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalFunding > rows[j].TotalFunding
	})
	if n >= 0 && n < len(rows) {
		rows = rows[:n]
	}
	for i := range rows {
		rows[i].TotalFunding /= millionsDivisor
	}
	return rows
}
