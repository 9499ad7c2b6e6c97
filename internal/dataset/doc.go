// Package dataset ingests the tabular grant-funding file and produces the
// normalized, filterable record set every analytical view is derived from.
//
// The lifecycle is load → normalize → filter:
//
//	records, err := dataset.Load("grants.csv", dataset.DefaultOptions())
//	subset := dataset.Filter(records, dataset.Selection{
//	    Years:  []int{2020, 2021},
//	    States: []string{"CA"},
//	})
//
// Column positions are resolved from the header row, never assumed; a
// required column missing from the header is the one fatal condition.
// Malformed cells coerce to per-type missing markers instead of failing,
// and a row is excluded only when its fiscal year is not positive or its
// record-type code matches the configured invalid sentinel. Records are
// immutable once built; filtering returns a new slice.
package dataset
