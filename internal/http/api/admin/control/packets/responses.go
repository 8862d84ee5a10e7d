package packets

type BookingResponse struct {
	ID             int     `json:"id"`
	UniqueID       string  `json:"unique_id"`
	GroupAdminName string  `json:"group_admin_name"`
	Age            *string `json:"age"`
	WhatsAppNo     *string `json:"whatsapp_no"`
	Persons        int     `json:"persons"`
	Status         string  `json:"status"`
	AllottedDhaja  *string `json:"allotted_dhaja"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

type AllotmentResponse struct {
	ID              int     `json:"id"`
	Section         string  `json:"section"`
	DhajaNo         string  `json:"dhaja_no"`
	Capacity        int     `json:"capacity"`
	Position        int     `json:"position"`
	Status          string  `json:"status"`
	Booking1ID      *int    `json:"booking1_id"`
	Booking1Persons *int    `json:"booking1_persons"`
	Booking2ID      *int    `json:"booking2_id"`
	Booking2Persons *int    `json:"booking2_persons"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type ImportResponse struct {
	Imported      int      `json:"imported"`
	SkippedSheets []string `json:"skipped_sheets,omitempty"`
}

type RunResponse struct {
	ID               string  `json:"id"`
	Status           string  `json:"status"`
	Progress         float64 `json:"progress"`
	BookingsPlaced   int     `json:"bookings_placed"`
	AllotmentsFilled int     `json:"allotments_filled"`
	Error            *string `json:"error"`
	StartedAt        string  `json:"started_at"`
	FinishedAt       *string `json:"finished_at"`
}
