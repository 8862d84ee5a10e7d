package db_test

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevasetu/dhaja/internal/db"
	"github.com/sevasetu/dhaja/internal/model"
)

// TestStoreIntegration exercises the store against a live Postgres.
func TestStoreIntegration(t *testing.T) {
	if os.Getenv("TEST_DATABASE_URL") == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, db.InitTestDB("../../migrations"))
	store := db.TestStore

	suffix := time.Now().UnixNano()
	email := fmt.Sprintf("seva-%d@example.com", suffix)

	userID, err := store.CreateUser(email, "hashedpassword", nil)
	require.NoError(t, err)
	require.Greater(t, userID, 0)

	t.Run("User Management", func(t *testing.T) {
		user, err := store.GetUserByEmail(email)
		require.NoError(t, err)
		assert.Equal(t, email, user.Email)

		name := "Seva Admin"
		err = store.UpdateUserProfile(userID, email, &name)
		assert.NoError(t, err)

		_, err = store.GetUserByID(-1)
		assert.ErrorIs(t, err, db.ErrUserNotFound)
	})

	t.Run("Booking Management", func(t *testing.T) {
		booking, err := store.CreateBooking("BK-001", "Ramesh Patel", nil, nil, 4, userID)
		require.NoError(t, err)
		assert.Equal(t, model.BookingPending, booking.Status)

		fetched, err := store.GetBookingByID(booking.ID)
		require.NoError(t, err)
		assert.Equal(t, booking.UniqueID, fetched.UniqueID)

		persons := 6
		require.NoError(t, store.UpdateBooking(booking.ID, nil, nil, nil, &persons))
		updated, _ := store.GetBookingByID(booking.ID)
		assert.Equal(t, 6, updated.Persons)

		pending, err := store.ListPendingBookings(userID)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(pending), 1)
	})

	t.Run("Allotment Fill And Reset", func(t *testing.T) {
		booking, err := store.CreateBooking("BK-002", "Suresh Shah", nil, nil, 8, userID)
		require.NoError(t, err)
		allotment, err := store.CreateAllotment("East Gate", "E-101", 8, 0, userID)
		require.NoError(t, err)

		require.NoError(t, store.MarkBookingAllocated(booking.ID, allotment.DhajaNo))
		require.NoError(t, store.FillAllotment(allotment.ID, &booking, nil))

		// filling an already filled slot is rejected
		err = store.FillAllotment(allotment.ID, &booking, nil)
		assert.ErrorIs(t, err, db.ErrAllotmentNotFound)

		filled, err := store.GetAllotmentByID(allotment.ID)
		require.NoError(t, err)
		assert.Equal(t, model.AllotmentFilled, filled.Status)
		require.NotNil(t, filled.Booking1ID)
		assert.Equal(t, booking.ID, *filled.Booking1ID)

		open, err := store.ListOpenAllotments(userID)
		require.NoError(t, err)
		for _, a := range open {
			assert.NotEqual(t, allotment.ID, a.ID)
		}

		require.NoError(t, store.ResetBookingAllocations(userID))
		reopened, err := store.GetAllotmentByID(allotment.ID)
		require.NoError(t, err)
		assert.Equal(t, model.AllotmentOpen, reopened.Status)
		assert.Nil(t, reopened.Booking1ID)
	})

	t.Run("Run Lifecycle", func(t *testing.T) {
		run := model.AllocationRun{
			ID:          fmt.Sprintf("00000000-0000-4000-8000-%012d", suffix%1_000_000_000_000),
			Status:      model.RunPending,
			RequestedBy: userID,
		}
		require.NoError(t, store.CreateRun(run))

		require.NoError(t, store.UpdateRunProgress(run.ID, 0.5))
		mid, err := store.GetRun(run.ID)
		require.NoError(t, err)
		assert.Equal(t, model.RunRunning, mid.Status)
		assert.InDelta(t, 0.5, mid.Progress, 1e-9)

		exportPath := "workbooks/results.xlsx"
		require.NoError(t, store.FinishRun(run.ID, model.RunCompleted, 3, 2, nil, &exportPath))
		done, err := store.GetRun(run.ID)
		require.NoError(t, err)
		assert.Equal(t, model.RunCompleted, done.Status)
		assert.Equal(t, 3, done.BookingsPlaced)
		require.NotNil(t, done.FinishedAt)

		_, err = store.GetRun("00000000-0000-4000-8000-000000000000")
		assert.ErrorIs(t, err, db.ErrRunNotFound)
	})
}
