package service

import (
	"context"
	"testing"
	"time"

	"snowpool/internal/events"
	"snowpool/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateBooking_PricesWithAreaDiscount(t *testing.T) {
	s, pub := newTestMarketplace(t, true)
	ctx := context.Background()

	first := submit(t, s, "00100", models.YardSmall)
	second := submit(t, s, "00100", models.YardSmall)

	b1, err := s.CreateBooking(ctx, customer, models.BookingInput{ServiceRequestID: first.ID, ScheduledDate: "2025-12-24"})
	require.NoError(t, err)
	assert.Equal(t, models.BookingScheduled, b1.Status)
	assert.InDelta(t, 75.0, b1.FinalPrice, 1e-9)
	assert.InDelta(t, 1.0, b1.DiscountMultiplier, 1e-9)
	assert.InDelta(t, 50.0, b1.BasePrice, 1e-9)
	assert.InDelta(t, 100.0, b1.HourlyRate, 1e-9)

	b2, err := s.CreateBooking(ctx, customer, models.BookingInput{ServiceRequestID: second.ID, ScheduledDate: "2025-12-24"})
	require.NoError(t, err)
	assert.InDelta(t, 50.0, b2.FinalPrice, 1e-9)
	assert.InDelta(t, 0.5, b2.DiscountMultiplier, 1e-9)

	count, err := s.ActiveBookingCount(ctx, "00100", "2025-12-24")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	active, err := s.ListActiveBookings(ctx, "00100", "2025-12-24")
	require.NoError(t, err)
	assert.Len(t, active, 2)

	pub.AssertCalled(t, "PublishJSON", events.EventBookingCreated, mock.Anything)
}

func TestCreateBooking_OtherDateIsUndiscounted(t *testing.T) {
	s, _ := newTestMarketplace(t, true)
	ctx := context.Background()
	req := submit(t, s, "00100", models.YardMedium)

	_, err := s.CreateBooking(ctx, customer, models.BookingInput{ServiceRequestID: req.ID, ScheduledDate: "2025-12-24"})
	require.NoError(t, err)

	b, err := s.CreateBooking(ctx, customer, models.BookingInput{ServiceRequestID: req.ID, ScheduledDate: "2025-12-25"})
	require.NoError(t, err)
	assert.InDelta(t, 100.0, b.FinalPrice, 1e-9)
}

func TestCreateBooking_CancelledStillCounts(t *testing.T) {
	s, _ := newTestMarketplace(t, true)
	ctx := context.Background()
	req := submit(t, s, "00200", models.YardSmall)

	_, err := s.CreateBooking(ctx, customer, models.BookingInput{
		ServiceRequestID: req.ID,
		ScheduledDate:    "2025-12-24",
		Status:           models.BookingCancelled,
	})
	require.NoError(t, err)

	count, err := s.ActiveBookingCount(ctx, "00200", "2025-12-24")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	active, err := s.ListActiveBookings(ctx, "00200", "2025-12-24")
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestCreateBooking_Completed(t *testing.T) {
	s, _ := newTestMarketplace(t, true)
	completedAt := time.Date(2025, 12, 24, 9, 15, 0, 0, time.UTC)
	s.now = func() time.Time { return completedAt }
	req := submit(t, s, "00100", models.YardSmall)
	minutes := 20

	b, err := s.CreateBooking(context.Background(), customer, models.BookingInput{
		ServiceRequestID:  req.ID,
		ScheduledDate:     "2025-12-24",
		ScheduledTime:     "08:30",
		ActualTimeMinutes: &minutes,
		Status:            models.BookingCompleted,
	})
	require.NoError(t, err)
	require.NotNil(t, b.CompletedAt)
	assert.Equal(t, completedAt, *b.CompletedAt)
	require.NotNil(t, b.ActualTimeMinutes)
	assert.Equal(t, 20, *b.ActualTimeMinutes)
	assert.InDelta(t, 75.0, b.FinalPrice, 1e-9)
}

func TestCreateBooking_UnknownRequest(t *testing.T) {
	ctx := context.Background()

	strict, _ := newTestMarketplace(t, true)
	_, err := strict.CreateBooking(ctx, customer, models.BookingInput{ServiceRequestID: "missing", ScheduledDate: "2025-12-24"})
	assert.True(t, IsNotFound(err))

	permissive, _ := newTestMarketplace(t, false)
	minutes := 30
	b, err := permissive.CreateBooking(ctx, customer, models.BookingInput{
		ServiceRequestID:  "missing",
		ScheduledDate:     "2025-12-24",
		ActualTimeMinutes: &minutes,
	})
	require.NoError(t, err)
	assert.InDelta(t, 100.0, b.FinalPrice, 1e-9)

	counts, err := permissive.ListBookingCounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestCreateBooking_Validation(t *testing.T) {
	s, _ := newTestMarketplace(t, true)
	ctx := context.Background()
	req := submit(t, s, "00100", models.YardSmall)
	negative := -5

	tests := []struct {
		name  string
		input models.BookingInput
	}{
		{"missing request", models.BookingInput{ScheduledDate: "2025-12-24"}},
		{"missing date", models.BookingInput{ServiceRequestID: req.ID}},
		{"bad date", models.BookingInput{ServiceRequestID: req.ID, ScheduledDate: "tomorrow"}},
		{"bad time", models.BookingInput{ServiceRequestID: req.ID, ScheduledDate: "2025-12-24", ScheduledTime: "25:99"}},
		{"bad status", models.BookingInput{ServiceRequestID: req.ID, ScheduledDate: "2025-12-24", Status: "done"}},
		{"negative minutes", models.BookingInput{ServiceRequestID: req.ID, ScheduledDate: "2025-12-24", ActualTimeMinutes: &negative}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateBooking(ctx, customer, tt.input)
			assert.True(t, IsValidation(err), "got %v", err)
		})
	}

	_, err := s.CreateBooking(ctx, customer, models.BookingInput{ServiceRequestID: req.ID, ScheduledDate: "2025-12-24", OperatorServiceID: "ghost"})
	assert.True(t, IsNotFound(err))

	_, err = s.CreateBooking(ctx, models.Caller{}, models.BookingInput{ServiceRequestID: req.ID, ScheduledDate: "2025-12-24"})
	assert.ErrorIs(t, err, ErrMissingCaller)
}

func TestGetBooking(t *testing.T) {
	s, _ := newTestMarketplace(t, true)
	ctx := context.Background()
	req := submit(t, s, "00100", models.YardSmall)

	created, err := s.CreateBooking(ctx, customer, models.BookingInput{ServiceRequestID: req.ID, ScheduledDate: "2025-12-24"})
	require.NoError(t, err)

	got, err := s.GetBooking(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.FinalPrice, got.FinalPrice)

	_, err = s.GetBooking(ctx, "missing")
	assert.True(t, IsNotFound(err))
}
