package endpoints

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/sevasetu/dhaja/internal/db"
	"github.com/sevasetu/dhaja/internal/http/api"
	"github.com/sevasetu/dhaja/internal/http/api/admin/control/packets"
	"github.com/sevasetu/dhaja/internal/model"
	"github.com/sevasetu/dhaja/internal/storage"
	"github.com/sevasetu/dhaja/internal/workbook"
)

type BookingController struct {
	store db.Store
	files storage.Storage
}

func newBookingController(store db.Store, files storage.Storage) *BookingController {
	return &BookingController{store: store, files: files}
}

// BookingModule mounts all authenticated /bookings endpoints.
func BookingModule(store db.Store, files storage.Storage) api.Module {
	ctl := newBookingController(store, files)
	return api.ModuleFunc(func(c *api.Controller) {
		// CRUD
		c.GET("/bookings", ctl.listBookings)
		c.POST("/bookings", ctl.createBooking)
		c.GET("/bookings/:id", ctl.getBooking)
		c.PUT("/bookings/:id", ctl.updateBooking)
		c.DELETE("/bookings/:id", ctl.deleteBooking)

		// workbook import
		c.POST("/bookings/import", ctl.importBookings)
	})
}

func bookingResponse(b model.Booking) packets.BookingResponse {
	return packets.BookingResponse{
		ID:             b.ID,
		UniqueID:       b.UniqueID,
		GroupAdminName: b.GroupAdminName,
		Age:            b.Age,
		WhatsAppNo:     b.WhatsAppNo,
		Persons:        b.Persons,
		Status:         b.Status,
		AllottedDhaja:  b.AllottedDhaja,
		CreatedAt:      b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      b.UpdatedAt.Format(time.RFC3339),
	}
}

// GET /api/admin/bookings
func (t *BookingController) listBookings(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := t.store.ListBookings(user.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}

	out := make([]packets.BookingResponse, 0, len(all))
	for _, b := range all {
		out = append(out, bookingResponse(b))
	}
	return out, nil
}

// POST /api/admin/bookings
func (t *BookingController) createBooking(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.CreateBookingRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	booking, err := t.store.CreateBooking(request.UniqueID, request.GroupAdminName,
		request.Age, request.WhatsAppNo, request.Persons, user.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create booking"}
	}
	return bookingResponse(booking), nil
}

// GET /api/admin/bookings/:id
func (t *BookingController) getBooking(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		log.Error().Err(err).Str("id_raw", ctx.Param("id")).Msg("invalid id in request")
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	booking, err := t.store.GetBookingByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "booking not found"}
	}
	if booking.CreatedBy != user.ID {
		log.Error().
			Int("user_id", user.ID).
			Int("booking_owner", booking.CreatedBy).
			Msg("forbidden access to booking")
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}
	return bookingResponse(booking), nil
}

// PUT /api/admin/bookings/:id
func (t *BookingController) updateBooking(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	existing, err := t.store.GetBookingByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "booking not found"}
	}
	if existing.CreatedBy != user.ID {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}
	// party size is frozen once the booking holds a dhaja
	if existing.Status == model.BookingAllocated {
		return nil, &api.APIError{Code: http.StatusConflict, Message: "booking already allocated"}
	}

	var request packets.UpdateBookingRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := t.store.UpdateBooking(id, request.GroupAdminName, request.Age,
		request.WhatsAppNo, request.Persons); err != nil {
		log.Error().Err(err).Int("booking_id", id).Msg("database update failed for booking")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update booking"}
	}

	updated, _ := t.store.GetBookingByID(id)
	return bookingResponse(updated), nil
}

// DELETE /api/admin/bookings/:id
func (t *BookingController) deleteBooking(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	existing, err := t.store.GetBookingByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "booking not found"}
	}
	if existing.CreatedBy != user.ID {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}

	if err := t.store.DeleteBooking(id); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete booking"}
	}
	return gin.H{"deleted": id}, nil
}

// POST /api/admin/bookings/import
func (t *BookingController) importBookings(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "missing workbook file"}
	}

	// keep the raw upload for audit
	if _, err := t.files.SaveFile(fileHeader, fileHeader.Filename); err != nil {
		log.Warn().Err(err).Msg("failed to archive uploaded bookings workbook")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "could not open workbook"}
	}
	defer src.Close()

	rows, err := workbook.ReadBookings(src)
	if err != nil {
		if errors.Is(err, workbook.ErrMissingPersonCol) || errors.Is(err, workbook.ErrEmptyWorkbook) {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
		}
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "could not parse workbook: " + err.Error()}
	}

	imported := 0
	for _, row := range rows {
		age, whatsapp := optional(row.Age), optional(row.WhatsAppNo)
		if _, err := t.store.CreateBooking(row.UniqueID, row.GroupAdminName,
			age, whatsapp, row.Persons, user.ID); err != nil {
			return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not store imported bookings"}
		}
		imported++
	}

	log.Info().Int("imported", imported).Int("user_id", user.ID).Msg("bookings workbook imported")
	return packets.ImportResponse{Imported: imported}, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
