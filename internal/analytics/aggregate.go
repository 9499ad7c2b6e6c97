package analytics

import (
	"math"
	"sort"
	"strconv"

	"grantlens/internal/dataset"
)

// OtherLabel is the key of the synthetic entry that absorbs the long tail in
// a top-N view.
const OtherLabel = "Other"

// Entry is one group of an aggregated series: the group key, the reduced
// value, and the number of contributing observations.
type Entry struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// Series is an ordered aggregation result. Freshly derived on every query,
// never cached.
type Series []Entry

// KeyFunc extracts the grouping dimension value from a record.
type KeyFunc func(dataset.Record) string

// ValueFunc extracts the numeric value a record contributes to its group.
type ValueFunc func(dataset.Record) float64

// Reducer selects how per-group values collapse into an Entry value.
type Reducer int

const (
	// ReduceSum sums the non-missing values of the group.
	ReduceSum Reducer = iota
	// ReduceCount counts the non-missing values of the group.
	ReduceCount
)

// Aggregate groups records by key and reduces each group's values. Groups
// appear in first-seen record order, which is the tie-break order every
// subsequent stable sort preserves. NaN values (the missing marker) are
// skipped, matching how the source treats unparseable cost cells.
func Aggregate(records []dataset.Record, key KeyFunc, value ValueFunc, r Reducer) Series {
	index := make(map[string]int)
	var series Series
	for _, rec := range records {
		k := key(rec)
		i, ok := index[k]
		if !ok {
			i = len(series)
			index[k] = i
			series = append(series, Entry{Key: k})
		}
		v := value(rec)
		if math.IsNaN(v) {
			continue
		}
		series[i].Value += v
		series[i].Count++
	}
	if r == ReduceCount {
		for i := range series {
			series[i].Value = float64(series[i].Count)
		}
	}
	return series
}

// TopN keeps the n highest-valued entries and folds the remainder into one
// synthetic OtherLabel entry whose value is their sum. When n covers every
// group no Other entry is added. The sum over the result always equals the
// sum over the input. Sorting is stable, so equal values keep their relative
// input order.
func TopN(s Series, n int) Series {
	return TopNLabel(s, n, OtherLabel)
}

// TopNLabel is TopN with a caller-chosen label for the overflow entry.
func TopNLabel(s Series, n int, label string) Series {
	if n < 0 {
		n = 0
	}
	sorted := s.SortByValueDesc()
	if n >= len(sorted) {
		return sorted
	}
	out := make(Series, 0, n+1)
	out = append(out, sorted[:n]...)
	other := Entry{Key: label}
	for _, e := range sorted[n:] {
		other.Value += e.Value
		other.Count += e.Count
	}
	return append(out, other)
}

// SortByValueDesc returns a copy sorted by value, highest first. The sort is
// stable over the series' existing order.
func (s Series) SortByValueDesc() Series {
	out := make(Series, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}

// SortByKey returns a copy sorted lexicographically by key.
func (s Series) SortByKey() Series {
	out := make(Series, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Total sums the series values.
func (s Series) Total() float64 {
	var total float64
	for _, e := range s {
		total += e.Value
	}
	return total
}

// Scale returns a copy with every value divided by divisor. Views use it to
// report funding in millions.
func (s Series) Scale(divisor float64) Series {
	out := make(Series, len(s))
	copy(out, s)
	for i := range out {
		out[i].Value /= divisor
	}
	return out
}

// YearPoint is one fiscal year of an annual series.
type YearPoint struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// ByFiscalYear aggregates the value per fiscal year and returns the points
// in ascending year order.
func ByFiscalYear(records []dataset.Record, value ValueFunc) []YearPoint {
	series := Aggregate(records, func(r dataset.Record) string {
		return strconv.Itoa(r.FiscalYear)
	}, value, ReduceSum)

	points := make([]YearPoint, 0, len(series))
	for _, e := range series {
		year, err := strconv.Atoi(e.Key)
		if err != nil {
			continue
		}
		points = append(points, YearPoint{Year: year, Value: e.Value, Count: e.Count})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })
	return points
}
