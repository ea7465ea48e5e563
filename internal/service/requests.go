package service

import (
	"context"
	"fmt"

	"snowpool/internal/events"
	"snowpool/internal/metrics"
	"snowpool/internal/models"
	"snowpool/internal/pricing"
)

// SubmitServiceRequest stores a pending request owned by the caller. The estimated duration is
// always derived from the yard size.
func (s *Marketplace) SubmitServiceRequest(ctx context.Context, caller models.Caller, input models.ServiceRequestInput) (*models.ServiceRequest, error) {
	if caller.Anonymous() {
		return nil, ErrMissingCaller
	}

	input.EstimatedTimeMinutes = pricing.EstimatedTime(input.YardSizeCategory)
	if s.strict {
		if err := s.validateServiceRequest(ctx, input); err != nil {
			return nil, err
		}
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	req, err := s.dir.CreateServiceRequest(ctx, caller.ID, input)
	if err != nil {
		return nil, fmt.Errorf("create service request: %w", err)
	}

	metrics.IncServiceRequest(req.PostalCode)
	s.publishEvent(events.EventServiceRequestSubmitted, events.ServiceRequestPayload{
		RequestID:  req.ID,
		CustomerID: req.CustomerID,
		PostalCode: req.PostalCode,
		Status:     string(req.Status),
	})

	s.logger.Info().
		Str("request_id", req.ID).
		Str("postal_code", req.PostalCode).
		Str("yard_size", string(req.YardSizeCategory)).
		Msg("service request submitted")

	return req, nil
}

func (s *Marketplace) GetServiceRequest(ctx context.Context, id string) (*models.ServiceRequest, error) {
	req, err := s.dir.GetServiceRequest(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "service request", id)
	}
	return req, nil
}

// ListServiceRequests returns every request, or only those of one postal code when it is set.
func (s *Marketplace) ListServiceRequests(ctx context.Context, postalCode string) ([]models.ServiceRequest, error) {
	if postalCode == "" {
		return s.dir.ListServiceRequests(ctx)
	}
	return s.dir.ListServiceRequestsByPostalCode(ctx, postalCode)
}

// UpdateServiceRequestStatus moves a request along its lifecycle.
func (s *Marketplace) UpdateServiceRequestStatus(ctx context.Context, caller models.Caller, id string, status models.RequestStatus) (*models.ServiceRequest, error) {
	if caller.Anonymous() {
		return nil, ErrMissingCaller
	}
	if !status.Valid() {
		return nil, invalid("status", fmt.Sprintf("unknown status %q", status))
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current, err := s.dir.GetServiceRequest(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "service request", id)
	}
	if !current.Status.CanTransition(status) {
		return nil, invalid("status", fmt.Sprintf("cannot move from %s to %s", current.Status, status))
	}

	updated, err := s.dir.UpdateServiceRequestStatus(ctx, id, status)
	if err != nil {
		return nil, notFoundOr(err, "service request", id)
	}

	s.publishEvent(events.EventServiceRequestStatusChanged, events.ServiceRequestPayload{
		RequestID:  updated.ID,
		CustomerID: updated.CustomerID,
		PostalCode: updated.PostalCode,
		Status:     string(updated.Status),
		ChangedBy:  caller.ID,
	})

	s.logger.Info().
		Str("request_id", updated.ID).
		Str("from", string(current.Status)).
		Str("to", string(updated.Status)).
		Msg("service request status changed")

	return updated, nil
}

// CurrentDemand is the number of pending or confirmed requests in the postal area.
func (s *Marketplace) CurrentDemand(ctx context.Context, postalCode string) (int, error) {
	if s.strict {
		if err := s.requireKnownArea(ctx, postalCode); err != nil {
			return 0, err
		}
	}
	return s.dir.CountCurrentBookingsInArea(ctx, postalCode)
}
