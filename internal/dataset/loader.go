package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Options configures dataset loading and normalization.
type Options struct {
	// InvalidTypeCode is the record-type code whose rows are dropped during
	// normalization. Empty disables the rule.
	InvalidTypeCode string
	Logger          *slog.Logger
}

// DefaultOptions returns loader options matching the source dataset.
func DefaultOptions() Options {
	return Options{InvalidTypeCode: DefaultInvalidTypeCode}
}

// Load reads the tabular grant file at path (.csv or .xlsx), maps its header,
// and returns the normalized record set. A required column missing from the
// header is fatal; malformed cell values are coerced per the normalization
// rules instead.
func Load(path string, opts Options) ([]Record, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	rows, err := readRows(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: file has no header row", filepath.Base(path))
	}

	cols, err := mapColumns(rows[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	records := normalize(rows[1:], cols, opts)
	logger.Info("dataset loaded",
		"path", path,
		"raw_rows", len(rows)-1,
		"records", len(records),
	)
	return records, nil
}

// readRows reads all rows from a CSV or Excel file. The first row is the
// header.
func readRows(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readExcelRows(path)
	default:
		return readCSVRows(path)
	}
}

func readCSVRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	// Strip UTF-8 BOM so the first header cell maps cleanly.
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		content = content[3:]
	}

	reader := csv.NewReader(strings.NewReader(string(content)))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV records: %w", err)
	}
	return rows, nil
}

func readExcelRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	// Use the first sheet that carries the expected header.
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) == 0 {
			continue
		}
		if _, err := mapColumns(rows[0]); err == nil {
			return rows, nil
		}
	}
	return nil, fmt.Errorf("no sheet with a grant data header")
}

// columnMap holds the index of each known column, -1 when absent.
type columnMap map[string]int

// requiredColumns must all be present in the header; a missing one aborts
// loading rather than degrading silently.
var requiredColumns = []string{
	ColFiscalYear,
	ColTotalCost,
	ColOrgState,
	ColAdministeringIC,
	ColActivity,
	ColPIName,
	ColTypeCode,
}

var knownColumns = []string{
	ColAwardNoticeDate, ColProjectStart, ColProjectEnd,
	ColBudgetStart, ColBudgetEnd,
	ColApplicationID, ColFiscalYear, ColTotalCost, ColTotalCostIC,
	ColOrgState, ColAdministeringIC, ColActivity,
	ColPIPersonID, ColPIName, ColCoInvestigators, ColTypeCode,
}

// mapColumns resolves header cells to column indices.
func mapColumns(header []string) (columnMap, error) {
	cols := make(columnMap, len(knownColumns))
	for _, name := range knownColumns {
		cols[name] = -1
	}
	for i, cell := range header {
		name := strings.TrimSpace(cell)
		if _, known := cols[name]; known && cols[name] == -1 {
			cols[name] = i
		}
	}

	var missing []string
	for _, name := range requiredColumns {
		if cols[name] == -1 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("required columns not found: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

// cell returns the trimmed value at the named column, or "" when the column
// is absent or the row is short.
func (c columnMap) cell(row []string, name string) string {
	idx, ok := c[name]
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
