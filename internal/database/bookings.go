package database

import (
	"context"
	"fmt"

	"snowpool/internal/models"
)

// CreateBooking stores the booking as given, assigning id and timestamps, and bumps the
// (postal code, date) counter of its service request.
//
// The counter is bumped whatever the booking status is, including cancelled, and it is never
// decremented. A booking whose service request does not exist is stored without touching any
// counter and without error.
func (db *DB) CreateBooking(ctx context.Context, booking models.Booking) (*models.Booking, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	now := db.now()
	b := copyBooking(&booking)
	b.ID = db.newID()
	b.CreatedAt = now
	b.UpdatedAt = now

	db.bookings = append(db.bookings, b)
	db.bookingsByID[b.ID] = b

	db.bumpBookingCount(b.ServiceRequestID, b.ScheduledDate)

	return copyBooking(b), nil
}

func (db *DB) bumpBookingCount(serviceRequestID, date string) {
	req, ok := db.requestsByID[serviceRequestID]
	if !ok {
		db.logger.Debug().Str("request_id", serviceRequestID).Msg("booking without known service request, counter unchanged")
		return
	}

	key := countKey{postalCode: req.PostalCode, date: date}
	if existing, ok := db.countsByKey[key]; ok {
		existing.ActiveBookingsCount++
		return
	}

	count := &models.PostalAreaBookingCount{
		PostalCode:          req.PostalCode,
		BookingDate:         date,
		ActiveBookingsCount: 1,
	}
	db.bookingCounts = append(db.bookingCounts, count)
	db.countsByKey[key] = count
}

func (db *DB) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	b, ok := db.bookingsByID[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}
	return copyBooking(b), nil
}

func (db *DB) ListBookings(ctx context.Context) ([]models.Booking, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]models.Booking, 0, len(db.bookings))
	for _, b := range db.bookings {
		out = append(out, *copyBooking(b))
	}
	return out, nil
}

// ListActiveBookingsByAreaAndDate returns non-cancelled bookings on date whose service request
// is in the postal area.
func (db *DB) ListActiveBookingsByAreaAndDate(ctx context.Context, postalCode, date string) ([]models.Booking, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]models.Booking, 0)
	for _, b := range db.bookings {
		if b.ScheduledDate != date || b.Status == models.BookingCancelled {
			continue
		}
		req, ok := db.requestsByID[b.ServiceRequestID]
		if !ok || req.PostalCode != postalCode {
			continue
		}
		out = append(out, *copyBooking(b))
	}
	return out, nil
}

// GetActiveBookingCount reads the stored counter for the pair, 0 when none exists.
func (db *DB) GetActiveBookingCount(ctx context.Context, postalCode, date string) (int, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if count, ok := db.countsByKey[countKey{postalCode: postalCode, date: date}]; ok {
		return count.ActiveBookingsCount, nil
	}
	return 0, nil
}

func (db *DB) ListBookingCounts(ctx context.Context) ([]models.PostalAreaBookingCount, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]models.PostalAreaBookingCount, 0, len(db.bookingCounts))
	for _, c := range db.bookingCounts {
		out = append(out, *c)
	}
	return out, nil
}

func copyBooking(b *models.Booking) *models.Booking {
	out := *b
	if b.ActualTimeMinutes != nil {
		minutes := *b.ActualTimeMinutes
		out.ActualTimeMinutes = &minutes
	}
	if b.CompletedAt != nil {
		completed := *b.CompletedAt
		out.CompletedAt = &completed
	}
	return &out
}
