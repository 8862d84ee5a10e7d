package model

import "time"

// Booking statuses. A booking moves from pending to allocated exactly once;
// resetting a run moves it back.
const (
	BookingPending   = "pending"
	BookingAllocated = "allocated"
)

// Booking is one group reservation waiting for a dhaja. UniqueID carries the
// reference printed on the paper receipt; Persons is the party size the
// allocation matches against.
type Booking struct {
	ID             int       `db:"id"              json:"id"`
	UniqueID       string    `db:"unique_id"       json:"unique_id"`
	GroupAdminName string    `db:"group_admin_name" json:"group_admin_name"`
	Age            *string   `db:"age"             json:"age"`
	WhatsAppNo     *string   `db:"whatsapp_no"     json:"whatsapp_no"`
	Persons        int       `db:"persons"         json:"persons"`
	Status         string    `db:"status"          json:"status"`
	AllottedDhaja  *string   `db:"allotted_dhaja"  json:"allotted_dhaja"`
	CreatedBy      int       `db:"created_by"      json:"created_by"`
	CreatedAt      time.Time `db:"created_at"      json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"      json:"updated_at"`
}
