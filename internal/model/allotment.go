package model

import "time"

// Allotment statuses.
const (
	AllotmentOpen   = "open"
	AllotmentFilled = "filled"
)

// Allotment is a numbered dhaja slot inside a section (sections arrive as the
// sheet names of the allotments workbook). Capacity is the number of persons
// the slot should receive; at most two bookings fill it.
type Allotment struct {
	ID              int       `db:"id"               json:"id"`
	Section         string    `db:"section"          json:"section"`
	DhajaNo         string    `db:"dhaja_no"         json:"dhaja_no"`
	Capacity        int       `db:"capacity"         json:"capacity"`
	Position        int       `db:"position"         json:"position"`
	Status          string    `db:"status"           json:"status"`
	Booking1ID      *int      `db:"booking1_id"      json:"booking1_id"`
	Booking1Persons *int      `db:"booking1_persons" json:"booking1_persons"`
	Booking2ID      *int      `db:"booking2_id"      json:"booking2_id"`
	Booking2Persons *int      `db:"booking2_persons" json:"booking2_persons"`
	CreatedBy       int       `db:"created_by"       json:"created_by"`
	CreatedAt       time.Time `db:"created_at"       json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"       json:"updated_at"`
}
