// Package workbook reads and writes the Excel files the seva office works
// with: Book1 carries bookings (header on row 1), Book2 carries one sheet per
// dhaja section with the header on row 2, a "test" capacity column and a
// "New Dhaja No." column.
package workbook

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// Book1 column headers.
const (
	colUniqueID  = "Unique Id"
	colAdminName = "Group Admin Name"
	colAge       = "Age"
	colWhatsApp  = "WhatsApp No"
	colPersons   = "No. of Person"
)

// Book2 column headers.
const (
	colCapacity = "test"
	colDhajaNo  = "New Dhaja No."
)

var (
	ErrEmptyWorkbook    = errors.New("workbook has no sheets")
	ErrMissingPersonCol = errors.New("bookings sheet has no 'No. of Person' column")
)

// BookingRow is one imported Book1 line.
type BookingRow struct {
	UniqueID       string
	GroupAdminName string
	Age            string
	WhatsAppNo     string
	Persons        int
}

// AllotmentRow is one imported Book2 line. Position preserves sheet order so
// the allocation walk matches the workbook.
type AllotmentRow struct {
	Section  string
	DhajaNo  string
	Capacity int
	Position int
}

// ImportReport tells the caller what was taken and what was skipped.
type ImportReport struct {
	Rows          int      `json:"rows"`
	SkippedSheets []string `json:"skipped_sheets,omitempty"`
}

// ReadBookings parses a Book1 workbook from r. Only the first sheet is read.
// Person counts that do not parse as numbers coerce to 0.
func ReadBookings(r io.Reader) ([]BookingRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrMissingPersonCol
	}

	cols := headerIndex(rows[0])
	if _, ok := cols[colPersons]; !ok {
		return nil, ErrMissingPersonCol
	}

	out := make([]BookingRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		out = append(out, BookingRow{
			UniqueID:       cell(row, cols, colUniqueID),
			GroupAdminName: cell(row, cols, colAdminName),
			Age:            cell(row, cols, colAge),
			WhatsAppNo:     cell(row, cols, colWhatsApp),
			Persons:        coerceInt(cell(row, cols, colPersons)),
		})
	}
	return out, nil
}

// ReadAllotments parses a Book2 workbook from r. Every sheet becomes a
// section; sheets without a capacity column are skipped and reported, the
// rest of the import proceeds.
func ReadAllotments(r io.Reader) ([]AllotmentRow, ImportReport, error) {
	var report ImportReport

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, report, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, report, ErrEmptyWorkbook
	}

	var out []AllotmentRow
	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, report, err
		}
		// header sits on the second row
		if len(rows) < 2 {
			report.SkippedSheets = append(report.SkippedSheets, sheet)
			continue
		}
		cols := headerIndex(rows[1])
		if _, ok := cols[colCapacity]; !ok {
			log.Warn().Str("sheet", sheet).Msg("sheet has no capacity column, skipping")
			report.SkippedSheets = append(report.SkippedSheets, sheet)
			continue
		}

		pos := 0
		for _, row := range rows[2:] {
			if blankRow(row) {
				continue
			}
			out = append(out, AllotmentRow{
				Section:  sheet,
				DhajaNo:  cell(row, cols, colDhajaNo),
				Capacity: coerceInt(cell(row, cols, colCapacity)),
				Position: pos,
			})
			pos++
		}
	}

	report.Rows = len(out)
	return out, report, nil
}

func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name != "" {
			cols[name] = i
		}
	}
	return cols
}

func cell(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// coerceInt mirrors a to_numeric(..., errors="coerce") read: junk becomes 0,
// and spreadsheet floats like "4.0" round down to their integer part.
func coerceInt(s string) int {
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if fl, err := strconv.ParseFloat(s, 64); err == nil {
		return int(fl)
	}
	return 0
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
