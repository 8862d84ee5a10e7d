package endpoints

import (
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

type AllotmentController struct {
	store db.Store
	files storage.Storage
}

func newAllotmentController(store db.Store, files storage.Storage) *AllotmentController {
	return &AllotmentController{store: store, files: files}
}

// AllotmentModule mounts all authenticated /allotments endpoints.
func AllotmentModule(store db.Store, files storage.Storage) api.Module {
	ctl := newAllotmentController(store, files)
	return api.ModuleFunc(func(c *api.Controller) {
		// CRUD
		c.GET("/allotments", ctl.listAllotments)
		c.POST("/allotments", ctl.createAllotment)
		c.GET("/allotments/:id", ctl.getAllotment)
		c.PUT("/allotments/:id", ctl.updateAllotment)
		c.DELETE("/allotments/:id", ctl.deleteAllotment)

		// workbook import
		c.POST("/allotments/import", ctl.importAllotments)
	})
}

func allotmentResponse(a model.Allotment) packets.AllotmentResponse {
	return packets.AllotmentResponse{
		ID:              a.ID,
		Section:         a.Section,
		DhajaNo:         a.DhajaNo,
		Capacity:        a.Capacity,
		Position:        a.Position,
		Status:          a.Status,
		Booking1ID:      a.Booking1ID,
		Booking1Persons: a.Booking1Persons,
		Booking2ID:      a.Booking2ID,
		Booking2Persons: a.Booking2Persons,
		CreatedAt:       a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       a.UpdatedAt.Format(time.RFC3339),
	}
}

// GET /api/admin/allotments
func (t *AllotmentController) listAllotments(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := t.store.ListAllotments(user.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}

	out := make([]packets.AllotmentResponse, 0, len(all))
	for _, a := range all {
		out = append(out, allotmentResponse(a))
	}
	return out, nil
}

// POST /api/admin/allotments
func (t *AllotmentController) createAllotment(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.CreateAllotmentRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	allotment, err := t.store.CreateAllotment(request.Section, request.DhajaNo,
		request.Capacity, request.Position, user.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create allotment"}
	}
	return allotmentResponse(allotment), nil
}

// GET /api/admin/allotments/:id
func (t *AllotmentController) getAllotment(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		log.Error().Err(err).Str("id_raw", ctx.Param("id")).Msg("invalid id in request")
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	allotment, err := t.store.GetAllotmentByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "allotment not found"}
	}
	if allotment.CreatedBy != user.ID {
		log.Error().
			Int("user_id", user.ID).
			Int("allotment_owner", allotment.CreatedBy).
			Msg("forbidden access to allotment")
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}
	return allotmentResponse(allotment), nil
}

// PUT /api/admin/allotments/:id
func (t *AllotmentController) updateAllotment(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	existing, err := t.store.GetAllotmentByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "allotment not found"}
	}
	if existing.CreatedBy != user.ID {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}
	if existing.Status == model.AllotmentFilled {
		return nil, &api.APIError{Code: http.StatusConflict, Message: "allotment already filled"}
	}

	var request packets.UpdateAllotmentRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := t.store.UpdateAllotment(id, request.DhajaNo, request.Capacity); err != nil {
		log.Error().Err(err).Int("allotment_id", id).Msg("database update failed for allotment")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update allotment"}
	}

	updated, _ := t.store.GetAllotmentByID(id)
	return allotmentResponse(updated), nil
}

// DELETE /api/admin/allotments/:id
func (t *AllotmentController) deleteAllotment(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	existing, err := t.store.GetAllotmentByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "allotment not found"}
	}
	if existing.CreatedBy != user.ID {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}

	if err := t.store.DeleteAllotment(id); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete allotment"}
	}
	return gin.H{"deleted": id}, nil
}

// POST /api/admin/allotments/import
func (t *AllotmentController) importAllotments(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "missing workbook file"}
	}

	if _, err := t.files.SaveFile(fileHeader, fileHeader.Filename); err != nil {
		log.Warn().Err(err).Msg("failed to archive uploaded allotments workbook")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "could not open workbook"}
	}
	defer src.Close()

	rows, report, err := workbook.ReadAllotments(src)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "could not parse workbook: " + err.Error()}
	}

	for _, row := range rows {
		if _, err := t.store.CreateAllotment(row.Section, row.DhajaNo,
			row.Capacity, row.Position, user.ID); err != nil {
			return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not store imported allotments"}
		}
	}

	log.Info().
		Int("imported", report.Rows).
		Strs("skipped_sheets", report.SkippedSheets).
		Int("user_id", user.ID).
		Msg("allotments workbook imported")
	return packets.ImportResponse{Imported: report.Rows, SkippedSheets: report.SkippedSheets}, nil
}
