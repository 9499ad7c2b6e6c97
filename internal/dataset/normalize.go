package dataset

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"
)

// dateFormats covers the representations seen across dataset vintages.
var dateFormats = []string{
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
	"2006/01/02",
	"2006-01-02 15:04:05",
}

// normalize coerces raw rows into typed Records and applies the row drop
// rule: a row is excluded when its fiscal year is not positive or its
// record-type code equals opts.InvalidTypeCode. Coercion is non-destructive;
// a malformed cell becomes the field's missing marker and the row is kept
// unless the drop rule applies.
func normalize(rows [][]string, cols columnMap, opts Options) []Record {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	records := make([]Record, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		rec := normalizeRow(row, cols)
		if rec.FiscalYear <= 0 {
			dropped++
			continue
		}
		if opts.InvalidTypeCode != "" && rec.TypeCode == opts.InvalidTypeCode {
			dropped++
			continue
		}
		records = append(records, rec)
	}

	if dropped > 0 {
		logger.Debug("dropped invalid rows",
			"dropped", dropped,
			"kept", len(records),
		)
	}
	return records
}

func normalizeRow(row []string, cols columnMap) Record {
	return Record{
		ApplicationID:   coerceInt(cols.cell(row, ColApplicationID)),
		AwardNoticeDate: coerceDate(cols.cell(row, ColAwardNoticeDate)),
		ProjectStart:    coerceDate(cols.cell(row, ColProjectStart)),
		ProjectEnd:      coerceDate(cols.cell(row, ColProjectEnd)),
		BudgetStart:     coerceDate(cols.cell(row, ColBudgetStart)),
		BudgetEnd:       coerceDate(cols.cell(row, ColBudgetEnd)),
		FiscalYear:      int(coerceInt(cols.cell(row, ColFiscalYear))),
		TotalCost:       coerceFloat(cols.cell(row, ColTotalCost)),
		TotalCostIC:     coerceFloat(cols.cell(row, ColTotalCostIC)),
		OrgState:        cols.cell(row, ColOrgState),
		AdministeringIC: cols.cell(row, ColAdministeringIC),
		Activity:        cols.cell(row, ColActivity),
		PIPersonID:      cols.cell(row, ColPIPersonID),
		PIName:          cols.cell(row, ColPIName),
		CoInvestigators: splitInvestigators(cols.cell(row, ColCoInvestigators)),
		TypeCode:        cols.cell(row, ColTypeCode),
	}
}

// coerceDate parses a date cell, returning the zero time as the missing
// marker when no format matches.
func coerceDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// coerceFloat parses a numeric cell, returning NaN as the missing marker.
// Thousands separators and a leading currency sign are tolerated.
func coerceFloat(s string) float64 {
	s = strings.TrimPrefix(strings.ReplaceAll(s, ",", ""), "$")
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// coerceInt parses an integer cell, returning 0 as the missing marker. A
// fractional representation of a whole number ("2020.0") is accepted.
func coerceInt(s string) int64 {
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) {
		return int64(f)
	}
	return 0
}

// splitInvestigators splits the semicolon-separated co-investigator cell into
// raw name tokens. Tokens are kept as-is apart from surrounding whitespace;
// empty tokens survive here and are discarded by the graph builder.
func splitInvestigators(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	names := make([]string, len(parts))
	for i, p := range parts {
		names[i] = strings.TrimSpace(p)
	}
	return names
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
