package service

import (
	"context"
	"errors"
	"fmt"

	"snowpool/internal/database"
	"snowpool/internal/events"
	"snowpool/internal/metrics"
	"snowpool/internal/models"
)

// CreateBooking prices and stores a booking for a service request.
//
// The price uses the request's estimated duration and the number of bookings already active in
// the same area on the scheduled date, plus this one. A booking for an unknown request is
// rejected in strict mode; otherwise it is priced from its actual duration as a lone booking.
func (s *Marketplace) CreateBooking(ctx context.Context, caller models.Caller, input models.BookingInput) (*models.Booking, error) {
	if caller.Anonymous() {
		return nil, ErrMissingCaller
	}
	if input.Status == "" {
		input.Status = models.BookingScheduled
	}
	if s.strict {
		if err := validateBooking(input); err != nil {
			return nil, err
		}
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	req, err := s.dir.GetServiceRequest(ctx, input.ServiceRequestID)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("get service request: %w", err)
		}
		if s.strict {
			return nil, &NotFoundError{Kind: "service request", ID: input.ServiceRequestID}
		}
		req = nil
	}

	if s.strict && input.OperatorServiceID != "" {
		if _, err := s.dir.GetOperatorService(ctx, input.OperatorServiceID); err != nil {
			return nil, notFoundOr(err, "operator service", input.OperatorServiceID)
		}
	}

	minutes := 0
	bookingsInArea := 1
	postalCode := ""
	if req != nil {
		minutes = req.EstimatedTimeMinutes
		postalCode = req.PostalCode
		active, err := s.dir.GetActiveBookingCount(ctx, req.PostalCode, input.ScheduledDate)
		if err != nil {
			return nil, fmt.Errorf("get active booking count: %w", err)
		}
		bookingsInArea = active + 1
	} else if input.ActualTimeMinutes != nil {
		minutes = *input.ActualTimeMinutes
	}

	price := s.calc.Calculate(minutes, bookingsInArea)
	booking := models.Booking{
		ServiceRequestID:   input.ServiceRequestID,
		OperatorServiceID:  input.OperatorServiceID,
		ScheduledDate:      input.ScheduledDate,
		ScheduledTime:      input.ScheduledTime,
		ActualTimeMinutes:  input.ActualTimeMinutes,
		BasePrice:          price.BasePrice,
		HourlyRate:         s.calc.Config().HourlyRate,
		DiscountMultiplier: price.DiscountMultiplier,
		FinalPrice:         price.TotalPrice,
		Status:             input.Status,
	}
	if booking.Status == models.BookingCompleted {
		completedAt := s.now()
		booking.CompletedAt = &completedAt
	}

	created, err := s.dir.CreateBooking(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	metrics.IncBooking(string(created.Status))
	s.publishEvent(events.EventBookingCreated, events.BookingPayload{
		BookingID:        created.ID,
		ServiceRequestID: created.ServiceRequestID,
		PostalCode:       postalCode,
		ScheduledDate:    created.ScheduledDate,
		Status:           string(created.Status),
		FinalPrice:       created.FinalPrice,
		CreatedBy:        caller.ID,
	})

	s.logger.Info().
		Str("booking_id", created.ID).
		Str("request_id", created.ServiceRequestID).
		Int("bookings_in_area", bookingsInArea).
		Float64("final_price", created.FinalPrice).
		Msg("booking created")

	return created, nil
}

func (s *Marketplace) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	b, err := s.dir.GetBooking(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "booking", id)
	}
	return b, nil
}

func (s *Marketplace) ListBookings(ctx context.Context) ([]models.Booking, error) {
	return s.dir.ListBookings(ctx)
}

// ListActiveBookings returns non-cancelled bookings scheduled in the area on the date.
func (s *Marketplace) ListActiveBookings(ctx context.Context, postalCode, date string) ([]models.Booking, error) {
	if err := s.checkAreaDate(ctx, postalCode, date); err != nil {
		return nil, err
	}
	return s.dir.ListActiveBookingsByAreaAndDate(ctx, postalCode, date)
}

// ActiveBookingCount reads the per-area counter for the date.
func (s *Marketplace) ActiveBookingCount(ctx context.Context, postalCode, date string) (int, error) {
	if err := s.checkAreaDate(ctx, postalCode, date); err != nil {
		return 0, err
	}
	return s.dir.GetActiveBookingCount(ctx, postalCode, date)
}

func (s *Marketplace) ListBookingCounts(ctx context.Context) ([]models.PostalAreaBookingCount, error) {
	return s.dir.ListBookingCounts(ctx)
}

func (s *Marketplace) checkAreaDate(ctx context.Context, postalCode, date string) error {
	if !s.strict {
		return nil
	}
	if err := s.requireKnownArea(ctx, postalCode); err != nil {
		return err
	}
	return validateDate("date", date, true)
}
