package dataprocessing

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseGrantsCSV(t *testing.T) {
	content := "Grant Number,State,Program Name,Awardee Amount\n" +
		"H18MC00001,CA,Healthy Start Initiative,\"$10,000\"\n" +
		"H18MC00002,CA,Newborn Screening,\"$5,000\"\n" +
		"H18MC00003,TX,Home Visiting Program,invalid\n"
	path := writeTempFile(t, "grants.csv", content)

	records, err := ParseGrantsCSV(path)
	require.NoError(t, err)
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, "H18MC00001", first.GrantID)
	assert.Equal(t, "CA", first.State)
	assert.Equal(t, "Healthy Start Initiative", first.ProgramName)
	require.True(t, first.Amount.Valid)
	assert.InDelta(t, 10000, first.Amount.Value, 1e-9)
	assert.Equal(t, CategoryMaternal, first.Category)

	// Unparseable amount degrades to missing, record survives.
	third := records[2]
	assert.False(t, third.Amount.Valid)
	assert.Equal(t, CategoryHomeVisiting, third.Category)
}

func TestParseGrantsCSV_BOM(t *testing.T) {
	content := "\xEF\xBB\xBFGrant Number,State,Program Name,Awardee Amount\n" +
		"H18MC00001,CA,Healthy Start,$100\n"
	path := writeTempFile(t, "grants_bom.csv", content)

	records, err := ParseGrantsCSV(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "H18MC00001", records[0].GrantID)
}

func TestParseGrantsCSV_HeaderVariations(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "canonical", header: "Grant Number,State,Program Name,Awardee Amount"},
		{name: "underscore id and geography", header: "grant_id,Geography,Program,Award Amount"},
		{name: "state code", header: "Grant ID,State Code,program title,total amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, "grants.csv", tt.header+"\nG1,CA,Maternal Health,$50\n")

			records, err := ParseGrantsCSV(path)
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, "G1", records[0].GrantID)
			assert.Equal(t, "CA", records[0].State)
			require.True(t, records[0].Amount.Valid)
			assert.InDelta(t, 50, records[0].Amount.Value, 1e-9)
		})
	}
}

func TestParseGrantsCSV_MissingRequiredColumns(t *testing.T) {
	path := writeTempFile(t, "grants.csv", "Program Name,Awardee Amount\nX,$5\n")

	records, err := ParseGrantsCSV(path)
	require.Error(t, err)
	assert.Nil(t, records)
	assert.Contains(t, err.Error(), "required columns")
}

func TestParseGrantsCSV_SkipsBlankRows(t *testing.T) {
	content := "Grant Number,State,Program Name,Awardee Amount\n" +
		"G1,CA,Maternal Health,$50\n" +
		",,,\n" +
		"G2,TX,,\n"
	path := writeTempFile(t, "grants.csv", content)

	records, err := ParseGrantsCSV(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "G2", records[1].GrantID)
	assert.Equal(t, CategoryUnknown, records[1].Category)
}

func TestParseGrantsCSV_FileMissing(t *testing.T) {
	_, err := ParseGrantsCSV(filepath.Join(t.TempDir(), "does-not-exist.csv"))
	require.Error(t, err)
}

func writeTempWorkbook(t *testing.T, rows [][]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grants.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetList()[0]
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, value))
		}
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestParseGrantsWorkbook(t *testing.T) {
	// Title row above the header, as in real award exports.
	path := writeTempWorkbook(t, [][]string{
		{"FY 2021 MCH Block Grant Awards"},
		{"Grant Number", "State", "Program Name", "Awardee Amount"},
		{"H18MC00001", "CA", "Healthy Start Initiative", "$10,000"},
		{"H18MC00002", "TX", "Home Visiting Program", "invalid"},
	})

	records, err := ParseGrantsWorkbook(slog.Default(), path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "H18MC00001", first.GrantID)
	assert.Equal(t, "CA", first.State)
	require.True(t, first.Amount.Valid)
	assert.InDelta(t, 10000, first.Amount.Value, 1e-9)
	assert.Equal(t, CategoryMaternal, first.Category)

	assert.False(t, records[1].Amount.Valid)
	assert.Equal(t, CategoryHomeVisiting, records[1].Category)
}

func TestParseGrantsWorkbook_NoHeaderRow(t *testing.T) {
	path := writeTempWorkbook(t, [][]string{
		{"Quarterly Notes"},
		{"nothing", "to", "see"},
	})

	// A nil logger falls back to the default.
	records, err := ParseGrantsWorkbook(nil, path)
	require.Error(t, err)
	assert.Nil(t, records)
	assert.Contains(t, err.Error(), "header row")
}

func TestParseGrantsWorkbook_FileMissing(t *testing.T) {
	_, err := ParseGrantsWorkbook(slog.Default(), filepath.Join(t.TempDir(), "missing.xlsx"))
	require.Error(t, err)
}

func TestParseHealthCSV(t *testing.T) {
	content := "state,state_fips,year,infant_mortality_rate,prenatal_care_pct\n" +
		"CA,6,2021,4.2,80.1\n" +
		"TX,48,2021,5.5,n/a\n"
	path := writeTempFile(t, "health.csv", content)

	table, err := ParseHealthCSV(path)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"infant_mortality_rate", "prenatal_care_pct"}, table.Columns)
	assert.True(t, table.HasColumn("infant_mortality_rate"))
	assert.False(t, table.HasColumn("state"))
	require.Len(t, table.Records, 2)

	ca := table.Records[0]
	assert.Equal(t, "CA", ca.State)
	assert.Equal(t, 6, ca.FIPS)
	assert.Equal(t, 2021, ca.Year)
	v, ok := ca.Metric("infant_mortality_rate")
	require.True(t, ok)
	assert.InDelta(t, 4.2, v, 1e-9)

	// An unparseable cell is missing for that row only.
	tx := table.Records[1]
	_, ok = tx.Metric("prenatal_care_pct")
	assert.False(t, ok)
	v, ok = tx.Metric("infant_mortality_rate")
	require.True(t, ok)
	assert.InDelta(t, 5.5, v, 1e-9)
}

func TestParseHealthCSV_MissingStateColumn(t *testing.T) {
	path := writeTempFile(t, "health.csv", "fips,infant_mortality_rate\n6,4.2\n")

	table, err := ParseHealthCSV(path)
	require.Error(t, err)
	assert.Nil(t, table)
}

func TestParseHealthCSV_SkipsBlankStates(t *testing.T) {
	content := "state,infant_mortality_rate\nCA,4.2\n,9.9\n"
	path := writeTempFile(t, "health.csv", content)

	table, err := ParseHealthCSV(path)
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "CA", table.Records[0].State)
}
