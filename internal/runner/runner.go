// Package runner executes allocation runs on a worker goroutine. One run at a
// time: the office re-runs allocation over the same pool, so overlapping runs
// would fight over bookings.
package runner

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sevasetu/dhaja/internal/allocation"
	"github.com/sevasetu/dhaja/internal/db"
	"github.com/sevasetu/dhaja/internal/model"
	"github.com/sevasetu/dhaja/internal/notify"
	"github.com/sevasetu/dhaja/internal/redis"
	"github.com/sevasetu/dhaja/internal/storage"
	"github.com/sevasetu/dhaja/internal/workbook"
)

var ErrRunInProgress = errors.New("allocation_run_in_progress")

const exportFilename = "Allocation_Results.xlsx"

type Runner struct {
	store    db.Store
	files    storage.Storage
	notifier *notify.Publisher

	mu     sync.Mutex
	active bool
}

func New(store db.Store, files storage.Storage, notifier *notify.Publisher) *Runner {
	return &Runner{store: store, files: files, notifier: notifier}
}

// Start registers a new run and launches the worker goroutine. A second start
// while one is live returns ErrRunInProgress.
func (r *Runner) Start(userID int) (model.AllocationRun, error) {
	r.mu.Lock()
	if r.active {
		r.mu.Unlock()
		return model.AllocationRun{}, ErrRunInProgress
	}
	r.active = true
	r.mu.Unlock()

	run := model.AllocationRun{
		ID:          uuid.NewString(),
		Status:      model.RunPending,
		RequestedBy: userID,
		StartedAt:   time.Now(),
	}
	if err := r.store.CreateRun(run); err != nil {
		r.release()
		return model.AllocationRun{}, err
	}

	go r.execute(run)
	return run, nil
}

// Active reports whether a run is currently executing.
func (r *Runner) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

func (r *Runner) release() {
	r.mu.Lock()
	r.active = false
	r.mu.Unlock()
}

func (r *Runner) execute(run model.AllocationRun) {
	defer r.release()

	ctx := context.Background()
	redis.SetRunStatus(ctx, run.ID, model.RunRunning)
	r.notifier.PublishRunEvent(notify.RunEvent{RunID: run.ID, Status: model.RunRunning})

	allotments, err := r.store.ListOpenAllotments(run.RequestedBy)
	if err != nil {
		r.fail(ctx, run, err)
		return
	}
	pending, err := r.store.ListPendingBookings(run.RequestedBy)
	if err != nil {
		r.fail(ctx, run, err)
		return
	}

	log.Info().
		Str("run_id", run.ID).
		Int("open_allotments", len(allotments)).
		Int("pending_bookings", len(pending)).
		Msg("allocation run started")

	progress := func(done, total int) {
		if total == 0 {
			return
		}
		fraction := float64(done) / float64(total)
		redis.SetRunProgress(ctx, run.ID, fraction)
		// Postgres gets a coarser trail than Redis
		if done%50 == 0 || done == total {
			_ = r.store.UpdateRunProgress(run.ID, fraction)
		}
	}

	engine := allocation.NewEngine(r.store, progress)
	summary, err := engine.Run(allotments, pending)
	if err != nil {
		r.fail(ctx, run, err)
		return
	}

	exportPath, err := r.export(run.RequestedBy)
	if err != nil {
		r.fail(ctx, run, err)
		return
	}

	if err := r.store.FinishRun(run.ID, model.RunCompleted,
		summary.BookingsPlaced, summary.AllotmentsFilled, nil, &exportPath); err != nil {
		log.Error().Err(err).Str("run_id", run.ID).Msg("failed to record run completion")
		return
	}

	redis.SetRunStatus(ctx, run.ID, model.RunCompleted)
	r.notifier.PublishRunEvent(notify.RunEvent{
		RunID:            run.ID,
		Status:           model.RunCompleted,
		Progress:         1,
		BookingsPlaced:   summary.BookingsPlaced,
		AllotmentsFilled: summary.AllotmentsFilled,
	})

	log.Info().
		Str("run_id", run.ID).
		Int("bookings_placed", summary.BookingsPlaced).
		Int("allotments_filled", summary.AllotmentsFilled).
		Msg("allocation run completed")
}

func (r *Runner) export(userID int) (string, error) {
	allotments, err := r.store.ListAllotments(userID)
	if err != nil {
		return "", err
	}
	bookings, err := r.store.ListBookings(userID)
	if err != nil {
		return "", err
	}

	buf, err := workbook.WriteResults(allotments, bookings)
	if err != nil {
		return "", err
	}
	return r.files.SaveBytes(buf.Bytes(), exportFilename)
}

func (r *Runner) fail(ctx context.Context, run model.AllocationRun, cause error) {
	log.Error().Err(cause).Str("run_id", run.ID).Msg("allocation run failed")

	msg := cause.Error()
	if err := r.store.FinishRun(run.ID, model.RunFailed, 0, 0, &msg, nil); err != nil {
		log.Error().Err(err).Str("run_id", run.ID).Msg("failed to record run failure")
	}
	redis.SetRunStatus(ctx, run.ID, model.RunFailed)
	r.notifier.PublishRunEvent(notify.RunEvent{RunID: run.ID, Status: model.RunFailed})
}
