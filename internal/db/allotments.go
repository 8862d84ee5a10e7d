package db

import (
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/sevasetu/dhaja/internal/model"
)

const allotmentColumns = `
	id, section, dhaja_no, capacity, position, status,
	booking1_id, booking1_persons, booking2_id, booking2_persons,
	created_by, created_at, updated_at`

func (s *pgStore) CreateAllotment(section, dhajaNo string, capacity, position, createdBy int) (model.Allotment, error) {
	var a model.Allotment
	q := `
	INSERT INTO allotments (section, dhaja_no, capacity, position, status, created_by, created_at, updated_at)
	VALUES ($1, $2, $3, $4, 'open', $5, now(), now())
	RETURNING ` + allotmentColumns
	if err := s.db.Get(&a, q, section, dhajaNo, capacity, position, createdBy); err != nil {
		log.Error().Err(err).Str("dhaja_no", dhajaNo).Msg("failed to create allotment")
		return model.Allotment{}, err
	}
	return a, nil
}

func (s *pgStore) GetAllotmentByID(id int) (model.Allotment, error) {
	var a model.Allotment
	err := s.db.Get(&a, `SELECT `+allotmentColumns+` FROM allotments WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Allotment{}, ErrAllotmentNotFound
	}
	return a, err
}

func (s *pgStore) ListAllotments(ownerID int) ([]model.Allotment, error) {
	var out []model.Allotment
	err := s.db.Select(&out, `
		SELECT `+allotmentColumns+`
		FROM allotments
		WHERE created_by = $1
		ORDER BY section, position, id
		`, ownerID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list allotments")
		return nil, err
	}
	return out, nil
}

// ListOpenAllotments keeps workbook order: sections in the order their sheets
// arrived, rows in sheet order. The engine walks them exactly like this.
func (s *pgStore) ListOpenAllotments(ownerID int) ([]model.Allotment, error) {
	var out []model.Allotment
	err := s.db.Select(&out, `
		SELECT `+allotmentColumns+`
		FROM allotments
		WHERE created_by = $1 AND status = 'open'
		ORDER BY section, position, id
		`, ownerID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list open allotments")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) UpdateAllotment(id int, dhajaNo *string, capacity *int) error {
	res, err := s.db.Exec(`
		UPDATE allotments
		SET dhaja_no = COALESCE($2, dhaja_no),
		capacity = COALESCE($3, capacity),
		updated_at = now()
		WHERE id = $1
		`, id, dhajaNo, capacity)
	if err != nil {
		log.Error().Err(err).Int("allotment_id", id).Msg("failed to update allotment")
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAllotmentNotFound
	}
	return nil
}

func (s *pgStore) DeleteAllotment(id int) error {
	res, err := s.db.Exec(`DELETE FROM allotments WHERE id = $1`, id)
	if err != nil {
		log.Error().Err(err).Int("allotment_id", id).Msg("failed to delete allotment")
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAllotmentNotFound
	}
	return nil
}

// FillAllotment records the matched bookings on the slot and closes it.
// booking2 may be nil when a single booking covered the target.
func (s *pgStore) FillAllotment(id int, booking1, booking2 *model.Booking) error {
	var b2ID, b2Persons *int
	if booking2 != nil {
		b2ID = &booking2.ID
		b2Persons = &booking2.Persons
	}
	res, err := s.db.Exec(`
		UPDATE allotments
		SET status = 'filled',
		booking1_id = $2, booking1_persons = $3,
		booking2_id = $4, booking2_persons = $5,
		updated_at = now()
		WHERE id = $1 AND status = 'open'
		`, id, booking1.ID, booking1.Persons, b2ID, b2Persons)
	if err != nil {
		log.Error().Err(err).Int("allotment_id", id).Msg("failed to fill allotment")
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAllotmentNotFound
	}
	return nil
}
