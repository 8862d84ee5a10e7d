package db

import (
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/sevasetu/dhaja/internal/model"
)

const runColumns = `
	id, status, progress, bookings_placed, allotments_filled,
	error, export_path, requested_by, started_at, finished_at`

func (s *pgStore) CreateRun(run model.AllocationRun) error {
	_, err := s.db.Exec(`
		INSERT INTO allocation_runs (id, status, progress, bookings_placed, allotments_filled, requested_by, started_at)
		VALUES ($1, $2, 0, 0, 0, $3, now())
		`, run.ID, run.Status, run.RequestedBy)
	if err != nil {
		log.Error().Err(err).Str("run_id", run.ID).Msg("failed to create allocation run")
	}
	return err
}

func (s *pgStore) GetRun(id string) (model.AllocationRun, error) {
	var r model.AllocationRun
	err := s.db.Get(&r, `SELECT `+runColumns+` FROM allocation_runs WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.AllocationRun{}, ErrRunNotFound
	}
	return r, err
}

func (s *pgStore) ListRuns(ownerID int) ([]model.AllocationRun, error) {
	var out []model.AllocationRun
	err := s.db.Select(&out, `
		SELECT `+runColumns+`
		FROM allocation_runs
		WHERE requested_by = $1
		ORDER BY started_at DESC
		`, ownerID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list allocation runs")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) UpdateRunProgress(id string, progress float64) error {
	_, err := s.db.Exec(`
		UPDATE allocation_runs
		SET status = 'running', progress = $2
		WHERE id = $1
		`, id, progress)
	if err != nil {
		log.Error().Err(err).Str("run_id", id).Msg("failed to update run progress")
	}
	return err
}

func (s *pgStore) FinishRun(id, status string, placed, filled int, errText, exportPath *string) error {
	_, err := s.db.Exec(`
		UPDATE allocation_runs
		SET status = $2,
		progress = 1,
		bookings_placed = $3,
		allotments_filled = $4,
		error = $5,
		export_path = $6,
		finished_at = now()
		WHERE id = $1
		`, id, status, placed, filled, errText, exportPath)
	if err != nil {
		log.Error().Err(err).Str("run_id", id).Msg("failed to finish run")
	}
	return err
}
