package database

import (
	"context"
	"testing"

	"snowpool/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBooking(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	req := submitRequest(t, db, "00100")
	minutes := 20

	b, err := db.CreateBooking(ctx, models.Booking{
		ServiceRequestID:   req.ID,
		ScheduledDate:      "2025-01-10",
		ScheduledTime:      "08:30",
		ActualTimeMinutes:  &minutes,
		BasePrice:          50,
		HourlyRate:         100,
		DiscountMultiplier: 1,
		FinalPrice:         75,
		Status:             models.BookingScheduled,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, b.ID)
	assert.NotEqual(t, req.ID, b.ID)
	assert.Equal(t, 75.0, b.FinalPrice)
	assert.False(t, b.CreatedAt.IsZero())

	got, err := db.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b, got)

	_, err = db.GetBooking(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestActiveBookingCount(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	count, err := db.GetActiveBookingCount(ctx, "00100", "2025-01-10")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	req := submitRequest(t, db, "00100")
	for i := 1; i <= 3; i++ {
		_, err := db.CreateBooking(ctx, models.Booking{ServiceRequestID: req.ID, ScheduledDate: "2025-01-10", Status: models.BookingScheduled})
		require.NoError(t, err)

		count, err = db.GetActiveBookingCount(ctx, "00100", "2025-01-10")
		require.NoError(t, err)
		assert.Equal(t, i, count)
	}

	other, _ := db.GetActiveBookingCount(ctx, "00100", "2025-01-11")
	assert.Equal(t, 0, other)
	otherArea, _ := db.GetActiveBookingCount(ctx, "00200", "2025-01-10")
	assert.Equal(t, 0, otherArea)
}

func TestActiveBookingCount_CountsCancelledBookings(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	req := submitRequest(t, db, "00300")

	_, err := db.CreateBooking(ctx, models.Booking{ServiceRequestID: req.ID, ScheduledDate: "2025-02-01", Status: models.BookingCancelled})
	require.NoError(t, err)

	count, err := db.GetActiveBookingCount(ctx, "00300", "2025-02-01")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	active, err := db.ListActiveBookingsByAreaAndDate(ctx, "00300", "2025-02-01")
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestCreateBooking_UnknownServiceRequest(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	b, err := db.CreateBooking(ctx, models.Booking{ServiceRequestID: "missing", ScheduledDate: "2025-01-10"})
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)

	counts, err := db.ListBookingCounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, counts)

	all, _ := db.ListBookings(ctx)
	assert.Len(t, all, 1)
}

func TestListActiveBookingsByAreaAndDate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	inArea := submitRequest(t, db, "00100")
	elsewhere := submitRequest(t, db, "00200")

	scheduled, _ := db.CreateBooking(ctx, models.Booking{ServiceRequestID: inArea.ID, ScheduledDate: "2025-01-10", Status: models.BookingScheduled})
	inProgress, _ := db.CreateBooking(ctx, models.Booking{ServiceRequestID: inArea.ID, ScheduledDate: "2025-01-10", Status: models.BookingInProgress})
	_, _ = db.CreateBooking(ctx, models.Booking{ServiceRequestID: inArea.ID, ScheduledDate: "2025-01-10", Status: models.BookingCancelled})
	_, _ = db.CreateBooking(ctx, models.Booking{ServiceRequestID: inArea.ID, ScheduledDate: "2025-01-11", Status: models.BookingScheduled})
	_, _ = db.CreateBooking(ctx, models.Booking{ServiceRequestID: elsewhere.ID, ScheduledDate: "2025-01-10", Status: models.BookingScheduled})

	active, err := db.ListActiveBookingsByAreaAndDate(ctx, "00100", "2025-01-10")
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, scheduled.ID, active[0].ID)
	assert.Equal(t, inProgress.ID, active[1].ID)

	count, _ := db.GetActiveBookingCount(ctx, "00100", "2025-01-10")
	assert.Equal(t, 3, count, "counter includes the cancelled booking")
}

func TestListBookingCounts_InsertionOrder(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	a := submitRequest(t, db, "00100")
	b := submitRequest(t, db, "02100")
	_, _ = db.CreateBooking(ctx, models.Booking{ServiceRequestID: b.ID, ScheduledDate: "2025-01-10"})
	_, _ = db.CreateBooking(ctx, models.Booking{ServiceRequestID: a.ID, ScheduledDate: "2025-01-10"})
	_, _ = db.CreateBooking(ctx, models.Booking{ServiceRequestID: b.ID, ScheduledDate: "2025-01-10"})

	counts, err := db.ListBookingCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.PostalAreaBookingCount{
		{PostalCode: "02100", BookingDate: "2025-01-10", ActiveBookingsCount: 2},
		{PostalCode: "00100", BookingDate: "2025-01-10", ActiveBookingsCount: 1},
	}, counts)
}
