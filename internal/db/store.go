// exposes a Store interface that is passed to API calls w/ param requirements
package db

import (
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/sevasetu/dhaja/internal/model"
)

// not-found sentinels; sql.ErrNoRows never leaves this package.
var (
	ErrUserNotFound      = errors.New("user_not_found")
	ErrBookingNotFound   = errors.New("booking_not_found")
	ErrAllotmentNotFound = errors.New("allotment_not_found")
	ErrRunNotFound       = errors.New("allocation_run_not_found")
)

type Store interface {
	// user functions
	CreateUser(email, hashedPassword string, name *string) (int, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	UpdateUserProfile(id int, email string, name *string) error

	// booking functions
	CreateBooking(uniqueID, adminName string, age, whatsapp *string, persons, createdBy int) (model.Booking, error)
	GetBookingByID(id int) (model.Booking, error)
	ListBookings(ownerID int) ([]model.Booking, error)
	ListPendingBookings(ownerID int) ([]model.Booking, error)
	UpdateBooking(id int, adminName, age, whatsapp *string, persons *int) error
	DeleteBooking(id int) error
	MarkBookingAllocated(id int, dhajaNo string) error
	ResetBookingAllocations(ownerID int) error

	// allotment functions
	CreateAllotment(section, dhajaNo string, capacity, position, createdBy int) (model.Allotment, error)
	GetAllotmentByID(id int) (model.Allotment, error)
	ListAllotments(ownerID int) ([]model.Allotment, error)
	ListOpenAllotments(ownerID int) ([]model.Allotment, error)
	UpdateAllotment(id int, dhajaNo *string, capacity *int) error
	DeleteAllotment(id int) error
	FillAllotment(id int, booking1, booking2 *model.Booking) error

	// allocation run functions
	CreateRun(run model.AllocationRun) error
	GetRun(id string) (model.AllocationRun, error)
	ListRuns(ownerID int) ([]model.AllocationRun, error)
	UpdateRunProgress(id string, progress float64) error
	FinishRun(id, status string, placed, filled int, errText, exportPath *string) error
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(database *sqlx.DB) Store {
	if database == nil {
		database = DB
	}
	return &pgStore{db: database}
}
