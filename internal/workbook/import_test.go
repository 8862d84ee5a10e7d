package workbook

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildBook1(t *testing.T, rows [][]interface{}) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	header := []interface{}{colUniqueID, colAdminName, colAge, colWhatsApp, colPersons}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func TestReadBookings(t *testing.T) {
	r := buildBook1(t, [][]interface{}{
		{"BK-001", "Ramesh Patel", "45", "9876543210", 4},
		{"BK-002", "Suresh Shah", "52", "9876500000", 7},
	})

	rows, err := ReadBookings(r)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "BK-001", rows[0].UniqueID)
	assert.Equal(t, "Ramesh Patel", rows[0].GroupAdminName)
	assert.Equal(t, "45", rows[0].Age)
	assert.Equal(t, "9876543210", rows[0].WhatsAppNo)
	assert.Equal(t, 4, rows[0].Persons)
	assert.Equal(t, 7, rows[1].Persons)
}

func TestReadBookingsCoercesJunkPersonCounts(t *testing.T) {
	r := buildBook1(t, [][]interface{}{
		{"BK-001", "A", "", "", "five"},
		{"BK-002", "B", "", "", ""},
		{"BK-003", "C", "", "", "6.0"},
	})

	rows, err := ReadBookings(r)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, 0, rows[0].Persons)
	assert.Equal(t, 0, rows[1].Persons)
	assert.Equal(t, 6, rows[2].Persons)
}

func TestReadBookingsRequiresPersonColumn(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	header := []interface{}{colUniqueID, colAdminName}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = ReadBookings(bytes.NewReader(buf.Bytes()))
	assert.ErrorIs(t, err, ErrMissingPersonCol)
}

func TestReadAllotments(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "East Gate"))
	header := []interface{}{colDhajaNo, colCapacity}
	// Book2 sheets carry a banner row; the header sits on row 2
	require.NoError(t, f.SetSheetRow("East Gate", "A2", &header))
	row1 := []interface{}{"E-101", 8}
	row2 := []interface{}{"E-102", 5}
	require.NoError(t, f.SetSheetRow("East Gate", "A3", &row1))
	require.NoError(t, f.SetSheetRow("East Gate", "A4", &row2))

	_, err := f.NewSheet("Notes")
	require.NoError(t, err)
	note := []interface{}{"this sheet has no capacity column"}
	require.NoError(t, f.SetSheetRow("Notes", "A2", &note))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, report, err := ReadAllotments(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "East Gate", rows[0].Section)
	assert.Equal(t, "E-101", rows[0].DhajaNo)
	assert.Equal(t, 8, rows[0].Capacity)
	assert.Equal(t, 0, rows[0].Position)
	assert.Equal(t, 1, rows[1].Position)

	assert.Equal(t, 2, report.Rows)
	assert.Equal(t, []string{"Notes"}, report.SkippedSheets)
}
