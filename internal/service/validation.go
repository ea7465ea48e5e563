package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"snowpool/internal/database"
	"snowpool/internal/models"
)

func (s *Marketplace) requireKnownArea(ctx context.Context, postalCode string) error {
	if strings.TrimSpace(postalCode) == "" {
		return invalid("postal_code", "is required")
	}
	if _, err := s.dir.GetPostalAreaByCode(ctx, postalCode); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return invalid("postal_code", fmt.Sprintf("unknown postal code %q", postalCode))
		}
		return fmt.Errorf("lookup postal area: %w", err)
	}
	return nil
}

func validateDate(field, value string, required bool) error {
	if value == "" {
		if required {
			return invalid(field, "is required")
		}
		return nil
	}
	if _, err := time.Parse(models.DateLayout, value); err != nil {
		return invalid(field, "expected YYYY-MM-DD")
	}
	return nil
}

func validateClock(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse(models.TimeLayout, value); err != nil {
		return invalid(field, "expected HH:MM")
	}
	return nil
}

func (s *Marketplace) validateServiceRequest(ctx context.Context, input models.ServiceRequestInput) error {
	if err := s.requireKnownArea(ctx, input.PostalCode); err != nil {
		return err
	}
	if strings.TrimSpace(input.Address) == "" {
		return invalid("address", "is required")
	}
	if !input.YardSizeCategory.Valid() {
		return invalid("yard_size_category", "expected small, medium or large")
	}
	if !input.ServiceType.Valid() {
		return invalid("service_type", "expected hand, machine or both")
	}
	return validateDate("requested_date", input.RequestedDate, false)
}

func (s *Marketplace) validateOperatorService(ctx context.Context, input models.OperatorServiceInput) error {
	if err := s.requireKnownArea(ctx, input.PostalCode); err != nil {
		return err
	}
	if !input.ServiceType.Valid() {
		return invalid("service_type", "expected hand, machine or both")
	}
	if input.MaxCapacityPerDay != nil && *input.MaxCapacityPerDay <= 0 {
		return invalid("max_capacity_per_day", "must be positive")
	}
	return nil
}

func validateBooking(input models.BookingInput) error {
	if strings.TrimSpace(input.ServiceRequestID) == "" {
		return invalid("service_request_id", "is required")
	}
	if err := validateDate("scheduled_date", input.ScheduledDate, true); err != nil {
		return err
	}
	if err := validateClock("scheduled_time", input.ScheduledTime); err != nil {
		return err
	}
	if input.ActualTimeMinutes != nil && *input.ActualTimeMinutes <= 0 {
		return invalid("actual_time_minutes", "must be positive")
	}
	if !input.Status.Valid() {
		return invalid("status", "expected scheduled, in_progress, completed or cancelled")
	}
	return nil
}
