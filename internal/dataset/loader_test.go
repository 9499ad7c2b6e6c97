package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const testHeader = "Application ID,Fiscal Year,Total Cost,Total Cost IC,Award Notice Date," +
	"Organization State,Administering IC,Activity,Contact PI Person ID," +
	"Contact PI / Project Leader,Other PI or Project Leader(s),Type"

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grants.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadCSV(t *testing.T) {
	csv := testHeader + "\n" +
		"10001,2020,1000000,250000,2020-03-15,CA,NINDS,R01,77,Alice,Bob; Carol,1\n" +
		"10002,0,500,0,,NY,NIMH,R21,78,Dana,,1\n" +
		"10003,2021,750000,,,CA,NINDS,R01,77,Alice,,139104\n"

	records, err := Load(writeTempCSV(t, csv), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, records, 1, "fiscal year 0 and sentinel type rows are dropped")

	rec := records[0]
	assert.Equal(t, 2020, rec.FiscalYear)
	assert.Equal(t, "Alice", rec.PIName)
	assert.Equal(t, []string{"Bob", "Carol"}, rec.CoInvestigators)
}

func TestLoadCSVWithBOM(t *testing.T) {
	csv := "\xEF\xBB\xBF" + testHeader + "\n" +
		"1,2020,100,0,,CA,NINDS,R01,1,Alice,,1\n"

	records, err := Load(writeTempCSV(t, csv), DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestLoadMissingRequiredColumn(t *testing.T) {
	header := strings.Replace(testHeader, "Fiscal Year", "FY", 1)
	csv := header + "\n1,2020,100,0,,CA,NINDS,R01,1,Alice,,1\n"

	_, err := Load(writeTempCSV(t, csv), DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Fiscal Year")
}

func TestLoadReordersColumns(t *testing.T) {
	// Column positions are resolved from the header, not assumed.
	csv := "Type,Fiscal Year,Organization State,Total Cost,Administering IC,Activity,Contact PI / Project Leader\n" +
		"1,2020,CA,100,NINDS,R01,Alice\n"

	records, err := Load(writeTempCSV(t, csv), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "CA", records[0].OrgState)
	assert.Equal(t, 100.0, records[0].TotalCost)
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grants.xlsx")

	f := excelize.NewFile()
	defer f.Close()
	header := strings.Split(testHeader, ",")
	for i, name := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue("Sheet1", cell, name))
	}
	row := []string{"10001", "2020", "1000000", "250000", "2020-03-15", "CA", "NINDS", "R01", "77", "Alice", "Bob; Carol", "1"}
	for i, val := range row {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue("Sheet1", cell, val))
	}
	require.NoError(t, f.SaveAs(path))

	records, err := Load(path, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 2020, records[0].FiscalYear)
	assert.Equal(t, "Alice", records[0].PIName)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.csv"), DefaultOptions())
	assert.Error(t, err)
}
