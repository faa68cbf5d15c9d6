package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSVComma(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(
		"Campaign,Impressions,Device\nSpring,1000,Desktop\nSummer,2000,Mobile\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Campaign", "Impressions", "Device"}, ds.Columns)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, "1000", ds.Cell(ds.Rows[0], "Impressions"))
}

func TestReadCSVSniffsSemicolon(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(
		"Campaign;Impressions;Device\nSpring;1000;Desktop\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Campaign", "Impressions", "Device"}, ds.Columns)
	assert.Equal(t, "Desktop", ds.Cell(ds.Rows[0], "Device"))
}

func TestReadCSVSniffsTab(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(
		"Campaign\tImpressions\nSpring\t1000\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Campaign", "Impressions"}, ds.Columns)
}

func TestReadCSVPadsShortRows(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(
		"Campaign,Impressions,Device\nSpring,1000\n"))
	require.NoError(t, err)

	require.Len(t, ds.Rows, 1)
	assert.Len(t, ds.Rows[0], 3)
	assert.Equal(t, "", ds.Cell(ds.Rows[0], "Device"))
}

func TestReadCSVEmpty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestReadCSVTrimsHeaderWhitespace(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(" Impressions , Device \n100,Desktop\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Impressions", "Device"}, ds.Columns)
}

func TestReadExcel(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Campaign", "Impressions"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Spring", 1000}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	ds, err := ReadExcel(buf)
	require.NoError(t, err)

	assert.Equal(t, []string{"Campaign", "Impressions"}, ds.Columns)
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, "1000", ds.Cell(ds.Rows[0], "Impressions"))
}

func TestReadFileDispatch(t *testing.T) {
	ds, err := ReadFile("report.csv", strings.NewReader("Impressions\n100\n"))
	require.NoError(t, err)
	assert.Len(t, ds.Rows, 1)

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Impressions"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	ds, err = ReadFile("report.XLSX", buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"Impressions"}, ds.Columns)
}
