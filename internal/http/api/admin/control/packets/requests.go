package packets

type CreateBookingRequest struct {
	UniqueID       string  `json:"unique_id" binding:"required"`
	GroupAdminName string  `json:"group_admin_name" binding:"required"`
	Age            *string `json:"age"`
	WhatsAppNo     *string `json:"whatsapp_no"`
	Persons        int     `json:"persons" binding:"min=0"`
}

type UpdateBookingRequest struct {
	GroupAdminName *string `json:"group_admin_name"`
	Age            *string `json:"age"`
	WhatsAppNo     *string `json:"whatsapp_no"`
	Persons        *int    `json:"persons"`
}

type CreateAllotmentRequest struct {
	Section  string `json:"section" binding:"required"`
	DhajaNo  string `json:"dhaja_no" binding:"required"`
	Capacity int    `json:"capacity" binding:"min=0"`
	Position int    `json:"position"`
}

type UpdateAllotmentRequest struct {
	DhajaNo  *string `json:"dhaja_no"`
	Capacity *int    `json:"capacity"`
}
