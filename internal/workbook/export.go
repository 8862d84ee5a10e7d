package workbook

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/sevasetu/dhaja/internal/model"
)

var sectionHeader = []interface{}{
	colDhajaNo, colCapacity,
	colUniqueID, colAdminName, colAge, colWhatsApp, "BOOKING",
	"Booking 1 Id", "Booking 1 Persons", "Booking 2 Id", "Booking 2 Persons",
}

var bookingsHeader = []interface{}{
	colUniqueID, colAdminName, colAge, colWhatsApp, colPersons,
	"Allocation Status", "Allotted Dhaja No",
}

// WriteResults builds the results workbook: one sheet per section with the
// allotment rows and their matched booking details, then a final Bookings
// sheet with each booking's allocation status. Every sheet gets an
// auto-filter, matching the workbook the office used to assemble by hand.
func WriteResults(allotments []model.Allotment, bookings []model.Booking) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	byID := make(map[int]model.Booking, len(bookings))
	for _, b := range bookings {
		byID[b.ID] = b
	}

	// group by section, keeping first-seen order
	var sections []string
	grouped := make(map[string][]model.Allotment)
	for _, a := range allotments {
		if _, seen := grouped[a.Section]; !seen {
			sections = append(sections, a.Section)
		}
		grouped[a.Section] = append(grouped[a.Section], a)
	}

	for _, section := range sections {
		if _, err := f.NewSheet(section); err != nil {
			return nil, fmt.Errorf("creating sheet %q: %w", section, err)
		}
		if err := f.SetSheetRow(section, "A1", &sectionHeader); err != nil {
			return nil, err
		}
		for i, a := range grouped[section] {
			row := sectionRow(a, byID)
			cellRef, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(section, cellRef, &row); err != nil {
				return nil, err
			}
		}
		if err := autoFilter(f, section, len(sectionHeader), len(grouped[section])+1); err != nil {
			return nil, err
		}
	}

	const bookingsSheet = "Bookings"
	if _, err := f.NewSheet(bookingsSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(bookingsSheet, "A1", &bookingsHeader); err != nil {
		return nil, err
	}
	for i, b := range bookings {
		row := bookingRow(b)
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(bookingsSheet, cellRef, &row); err != nil {
			return nil, err
		}
	}
	if err := autoFilter(f, bookingsSheet, len(bookingsHeader), len(bookings)+1); err != nil {
		return nil, err
	}

	// drop the default sheet excelize creates
	if len(sections) > 0 {
		f.DeleteSheet("Sheet1")
	}

	return f.WriteToBuffer()
}

func sectionRow(a model.Allotment, byID map[int]model.Booking) []interface{} {
	var (
		ids, names, ages, whatsapps []string
		status                      string
		b1ID, b1Persons             interface{}
		b2ID, b2Persons             interface{}
	)

	collect := func(bookingID *int, persons *int) (interface{}, interface{}) {
		if bookingID == nil {
			return nil, nil
		}
		b, ok := byID[*bookingID]
		if !ok {
			return *bookingID, deref(persons)
		}
		ids = append(ids, b.UniqueID)
		names = append(names, b.GroupAdminName)
		ages = append(ages, strDeref(b.Age))
		whatsapps = append(whatsapps, strDeref(b.WhatsAppNo))
		return b.UniqueID, b.Persons
	}

	b1ID, b1Persons = collect(a.Booking1ID, a.Booking1Persons)
	b2ID, b2Persons = collect(a.Booking2ID, a.Booking2Persons)
	if a.Status == model.AllotmentFilled {
		status = "Allocated"
	}

	return []interface{}{
		a.DhajaNo, a.Capacity,
		strings.Join(ids, ", "), strings.Join(names, ", "),
		strings.Join(ages, ", "), strings.Join(whatsapps, ", "),
		status,
		b1ID, b1Persons, b2ID, b2Persons,
	}
}

func bookingRow(b model.Booking) []interface{} {
	status := "Not Allocated"
	if b.Status == model.BookingAllocated {
		status = "Allocated"
	}
	return []interface{}{
		b.UniqueID, b.GroupAdminName, strDeref(b.Age), strDeref(b.WhatsAppNo),
		b.Persons, status, strDeref(b.AllottedDhaja),
	}
}

func autoFilter(f *excelize.File, sheet string, cols, rows int) error {
	last, err := excelize.CoordinatesToCellName(cols, rows)
	if err != nil {
		return err
	}
	return f.AutoFilter(sheet, "A1:"+last, nil)
}

func deref(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func strDeref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
