package db

import (
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/sevasetu/dhaja/internal/model"
)

const bookingColumns = `
	id, unique_id, group_admin_name, age, whatsapp_no, persons,
	status, allotted_dhaja, created_by, created_at, updated_at`

func (s *pgStore) CreateBooking(uniqueID, adminName string, age, whatsapp *string, persons, createdBy int) (model.Booking, error) {
	var b model.Booking
	q := `
	INSERT INTO bookings (unique_id, group_admin_name, age, whatsapp_no, persons, status, created_by, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, 'pending', $6, now(), now())
	RETURNING ` + bookingColumns
	if err := s.db.Get(&b, q, uniqueID, adminName, age, whatsapp, persons, createdBy); err != nil {
		log.Error().Err(err).Str("unique_id", uniqueID).Msg("failed to create booking")
		return model.Booking{}, err
	}
	return b, nil
}

func (s *pgStore) GetBookingByID(id int) (model.Booking, error) {
	var b model.Booking
	err := s.db.Get(&b, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, ErrBookingNotFound
	}
	return b, err
}

func (s *pgStore) ListBookings(ownerID int) ([]model.Booking, error) {
	var out []model.Booking
	err := s.db.Select(&out, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE created_by = $1
		ORDER BY id
		`, ownerID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list bookings")
		return nil, err
	}
	return out, nil
}

// ListPendingBookings returns the pool the allocation engine draws from,
// in insertion order so earlier bookings get first pick.
func (s *pgStore) ListPendingBookings(ownerID int) ([]model.Booking, error) {
	var out []model.Booking
	err := s.db.Select(&out, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE created_by = $1 AND status = 'pending'
		ORDER BY id
		`, ownerID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list pending bookings")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) UpdateBooking(id int, adminName, age, whatsapp *string, persons *int) error {
	res, err := s.db.Exec(`
		UPDATE bookings
		SET group_admin_name = COALESCE($2, group_admin_name),
		age = COALESCE($3, age),
		whatsapp_no = COALESCE($4, whatsapp_no),
		persons = COALESCE($5, persons),
		updated_at = now()
		WHERE id = $1
		`, id, adminName, age, whatsapp, persons)
	if err != nil {
		log.Error().Err(err).Int("booking_id", id).Msg("failed to update booking")
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (s *pgStore) DeleteBooking(id int) error {
	res, err := s.db.Exec(`DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		log.Error().Err(err).Int("booking_id", id).Msg("failed to delete booking")
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (s *pgStore) MarkBookingAllocated(id int, dhajaNo string) error {
	res, err := s.db.Exec(`
		UPDATE bookings
		SET status = 'allocated',
		allotted_dhaja = $2,
		updated_at = now()
		WHERE id = $1 AND status = 'pending'
		`, id, dhajaNo)
	if err != nil {
		log.Error().Err(err).Int("booking_id", id).Msg("failed to mark booking allocated")
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// ResetBookingAllocations returns every allocated booking of the owner to the
// pending pool and reopens the allotments they were holding.
func (s *pgStore) ResetBookingAllocations(ownerID int) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		UPDATE bookings
		SET status = 'pending', allotted_dhaja = NULL, updated_at = now()
		WHERE created_by = $1 AND status = 'allocated'
		`, ownerID); err != nil {
		log.Error().Err(err).Msg("failed to reset booking allocations")
		return err
	}
	if _, err := tx.Exec(`
		UPDATE allotments
		SET status = 'open',
		booking1_id = NULL, booking1_persons = NULL,
		booking2_id = NULL, booking2_persons = NULL,
		updated_at = now()
		WHERE created_by = $1 AND status = 'filled'
		`, ownerID); err != nil {
		log.Error().Err(err).Msg("failed to reopen allotments")
		return err
	}
	return tx.Commit()
}
