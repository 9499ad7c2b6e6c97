package dataset

import (
	"math"
	"sort"
	"time"
)

// Column names as they appear verbatim in the source file header.
const (
	ColAwardNoticeDate = "Award Notice Date"
	ColProjectStart    = "Project Start Date"
	ColProjectEnd      = "Project End Date"
	ColBudgetStart     = "Budget Start Date"
	ColBudgetEnd       = "Budget End Date"
	ColApplicationID   = "Application ID"
	ColFiscalYear      = "Fiscal Year"
	ColTotalCost       = "Total Cost"
	ColTotalCostIC     = "Total Cost IC"
	ColOrgState        = "Organization State"
	ColAdministeringIC = "Administering IC"
	ColActivity        = "Activity"
	ColPIPersonID      = "Contact PI Person ID"
	ColPIName          = "Contact PI / Project Leader"
	ColCoInvestigators = "Other PI or Project Leader(s)"
	ColTypeCode        = "Type"
)

// DefaultInvalidTypeCode is the record-type code whose rows are excluded
// during normalization. It is an artifact observed in the source dataset and
// stays configurable rather than hard-coded downstream.
const DefaultInvalidTypeCode = "139104"

// Record is one award/fiscal-year funding observation. Records are created
// once during normalization and never mutated; every derived view builds new
// structures on top of them.
//
// Missing markers: unparseable dates coerce to the zero time.Time,
// non-numeric cost fields coerce to NaN, a non-numeric fiscal year coerces
// to 0 (which also triggers the row drop rule).
type Record struct {
	ApplicationID   int64
	AwardNoticeDate time.Time
	ProjectStart    time.Time
	ProjectEnd      time.Time
	BudgetStart     time.Time
	BudgetEnd       time.Time
	FiscalYear      int
	TotalCost       float64
	TotalCostIC     float64
	OrgState        string
	AdministeringIC string
	Activity        string
	PIPersonID      string
	PIName          string
	CoInvestigators []string
	TypeCode        string
}

// HasTotalCost reports whether the total cost field carries a real value
// rather than the missing marker.
func (r Record) HasTotalCost() bool {
	return !math.IsNaN(r.TotalCost)
}

// Years returns the distinct fiscal years present in records, ascending.
// This is what the presentation layer offers as the year filter options.
func Years(records []Record) []int {
	seen := make(map[int]struct{})
	var years []int
	for _, r := range records {
		if _, ok := seen[r.FiscalYear]; !ok {
			seen[r.FiscalYear] = struct{}{}
			years = append(years, r.FiscalYear)
		}
	}
	sort.Ints(years)
	return years
}

// States returns the distinct organization states present in records,
// ascending.
func States(records []Record) []string {
	seen := make(map[string]struct{})
	var states []string
	for _, r := range records {
		if _, ok := seen[r.OrgState]; !ok {
			seen[r.OrgState] = struct{}{}
			states = append(states, r.OrgState)
		}
	}
	sort.Strings(states)
	return states
}
