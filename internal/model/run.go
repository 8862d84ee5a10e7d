package model

import "time"

// AllocationRun statuses.
const (
	RunPending   = "pending"
	RunRunning   = "running"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// AllocationRun records one allocation pass over the open allotments.
// Progress is a 0..1 fraction mirrored to Redis while the run is live;
// ExportPath points at the results workbook once the run completes.
type AllocationRun struct {
	ID               string     `db:"id"                json:"id"`
	Status           string     `db:"status"            json:"status"`
	Progress         float64    `db:"progress"          json:"progress"`
	BookingsPlaced   int        `db:"bookings_placed"   json:"bookings_placed"`
	AllotmentsFilled int        `db:"allotments_filled" json:"allotments_filled"`
	Error            *string    `db:"error"             json:"error"`
	ExportPath       *string    `db:"export_path"       json:"export_path"`
	RequestedBy      int        `db:"requested_by"      json:"requested_by"`
	StartedAt        time.Time  `db:"started_at"        json:"started_at"`
	FinishedAt       *time.Time `db:"finished_at"       json:"finished_at"`
}
