package service

import (
	"context"
	"fmt"

	"snowpool/internal/events"
	"snowpool/internal/metrics"
	"snowpool/internal/models"
)

// SubmitOperatorService stores an available operator listing owned by the caller.
func (s *Marketplace) SubmitOperatorService(ctx context.Context, caller models.Caller, input models.OperatorServiceInput) (*models.OperatorService, error) {
	if caller.Anonymous() {
		return nil, ErrMissingCaller
	}
	if s.strict {
		if err := s.validateOperatorService(ctx, input); err != nil {
			return nil, err
		}
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	svc, err := s.dir.CreateOperatorService(ctx, caller.ID, input)
	if err != nil {
		return nil, fmt.Errorf("create operator service: %w", err)
	}

	metrics.IncOperatorService(svc.PostalCode)
	s.publishEvent(events.EventOperatorServiceSubmitted, events.OperatorServicePayload{
		OperatorServiceID: svc.ID,
		OperatorID:        svc.OperatorID,
		PostalCode:        svc.PostalCode,
		Available:         svc.Available,
	})

	s.logger.Info().
		Str("operator_service_id", svc.ID).
		Str("postal_code", svc.PostalCode).
		Str("service_type", string(svc.ServiceType)).
		Msg("operator service submitted")

	return svc, nil
}

func (s *Marketplace) GetOperatorService(ctx context.Context, id string) (*models.OperatorService, error) {
	svc, err := s.dir.GetOperatorService(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "operator service", id)
	}
	return svc, nil
}

// ListOperatorServices returns every listing, or only those of one postal code when it is set.
func (s *Marketplace) ListOperatorServices(ctx context.Context, postalCode string) ([]models.OperatorService, error) {
	if postalCode == "" {
		return s.dir.ListOperatorServices(ctx)
	}
	return s.dir.ListOperatorServicesByPostalCode(ctx, postalCode)
}

func (s *Marketplace) SetOperatorAvailability(ctx context.Context, caller models.Caller, id string, available bool) (*models.OperatorService, error) {
	if caller.Anonymous() {
		return nil, ErrMissingCaller
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	svc, err := s.dir.SetOperatorAvailability(ctx, id, available)
	if err != nil {
		return nil, notFoundOr(err, "operator service", id)
	}

	s.publishEvent(events.EventOperatorAvailabilityChanged, events.OperatorServicePayload{
		OperatorServiceID: svc.ID,
		OperatorID:        svc.OperatorID,
		PostalCode:        svc.PostalCode,
		Available:         svc.Available,
		ChangedBy:         caller.ID,
	})

	s.logger.Info().
		Str("operator_service_id", svc.ID).
		Bool("available", svc.Available).
		Msg("operator availability changed")

	return svc, nil
}
