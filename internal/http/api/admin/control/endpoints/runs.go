package endpoints

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/sevasetu/dhaja/internal/db"
	"github.com/sevasetu/dhaja/internal/http/api"
	"github.com/sevasetu/dhaja/internal/http/api/admin/control/packets"
	"github.com/sevasetu/dhaja/internal/model"
	"github.com/sevasetu/dhaja/internal/redis"
	"github.com/sevasetu/dhaja/internal/runner"
	"github.com/sevasetu/dhaja/internal/storage"
)

const exportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type RunController struct {
	store  db.Store
	runner *runner.Runner
	files  storage.Storage
}

func newRunController(store db.Store, r *runner.Runner, files storage.Storage) *RunController {
	return &RunController{store: store, runner: r, files: files}
}

// RunModule mounts all authenticated /runs endpoints.
func RunModule(store db.Store, r *runner.Runner, files storage.Storage) api.Module {
	ctl := newRunController(store, r, files)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/runs", ctl.listRuns)
		c.POST("/runs", ctl.startRun)
		c.GET("/runs/:id", ctl.getRun)
		c.GET("/runs/:id/export", ctl.exportRun)
		c.POST("/runs/reset", ctl.resetAllocations)
	})
}

func runResponse(r model.AllocationRun) packets.RunResponse {
	var finished *string
	if r.FinishedAt != nil {
		f := r.FinishedAt.Format(time.RFC3339)
		finished = &f
	}
	return packets.RunResponse{
		ID:               r.ID,
		Status:           r.Status,
		Progress:         r.Progress,
		BookingsPlaced:   r.BookingsPlaced,
		AllotmentsFilled: r.AllotmentsFilled,
		Error:            r.Error,
		StartedAt:        r.StartedAt.Format(time.RFC3339),
		FinishedAt:       finished,
	}
}

// GET /api/admin/runs
func (t *RunController) listRuns(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := t.store.ListRuns(user.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}

	out := make([]packets.RunResponse, 0, len(all))
	for _, r := range all {
		out = append(out, runResponse(r))
	}
	return out, nil
}

// POST /api/admin/runs
func (t *RunController) startRun(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	run, err := t.runner.Start(user.ID)
	if errors.Is(err, runner.ErrRunInProgress) {
		return nil, &api.APIError{Code: http.StatusConflict, Message: "an allocation run is already in progress"}
	}
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not start allocation run"}
	}

	log.Info().Str("run_id", run.ID).Int("user_id", user.ID).Msg("allocation run requested")
	return runResponse(run), nil
}

// GET /api/admin/runs/:id
func (t *RunController) getRun(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	run, apiErr := t.ownedRun(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	// live runs read their progress from the cache
	if run.Status == model.RunRunning || run.Status == model.RunPending {
		if progress, ok := redis.GetRunProgress(ctx.Request.Context(), run.ID); ok {
			run.Progress = progress
		}
	}
	return runResponse(run), nil
}

// GET /api/admin/runs/:id/export
func (t *RunController) exportRun(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	run, apiErr := t.ownedRun(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	if run.Status != model.RunCompleted || run.ExportPath == nil {
		return nil, &api.APIError{Code: http.StatusConflict, Message: "run has no export"}
	}

	src, err := t.files.Open(*run.ExportPath)
	if err != nil {
		log.Error().Err(err).Str("path", *run.ExportPath).Msg("failed to open export file")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not open export"}
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not read export"}
	}

	ctx.Header("Content-Disposition", `attachment; filename="Allocation_Results.xlsx"`)
	ctx.Data(http.StatusOK, exportContentType, data)
	return nil, nil
}

// POST /api/admin/runs/reset
func (t *RunController) resetAllocations(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if t.runner.Active() {
		return nil, &api.APIError{Code: http.StatusConflict, Message: "an allocation run is in progress"}
	}
	if err := t.store.ResetBookingAllocations(user.ID); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not reset allocations"}
	}
	log.Info().Int("user_id", user.ID).Msg("allocations reset")
	return gin.H{"reset": true}, nil
}

func (t *RunController) ownedRun(ctx *gin.Context, user *model.User) (model.AllocationRun, *api.APIError) {
	run, err := t.store.GetRun(ctx.Param("id"))
	if err != nil {
		return model.AllocationRun{}, &api.APIError{Code: http.StatusNotFound, Message: "run not found"}
	}
	if run.RequestedBy != user.ID {
		log.Error().
			Int("user_id", user.ID).
			Int("run_owner", run.RequestedBy).
			Msg("forbidden access to run")
		return model.AllocationRun{}, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}
	return run, nil
}
