// Package service composes the directory and the pricing calculator into the marketplace
// operations exposed over HTTP and gRPC.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"snowpool/internal/domain"
	"snowpool/internal/metrics"
	"snowpool/internal/models"
	"snowpool/internal/pricing"

	"github.com/rs/zerolog"
)

// Marketplace is the entry point for every read and write against the directory.
//
// With strict validation enabled, unknown postal codes, malformed dates and invalid enums are
// rejected with a ValidationError and dangling references with a NotFoundError. Without it the
// directory stays permissive: inputs are stored as given and a booking
// for an unknown service request is accepted without updating any area counter.
type Marketplace struct {
	dir      domain.Directory
	calc     pricing.Calculator
	eventBus domain.EventPublisher
	strict   bool
	logger   *zerolog.Logger
	now      func() time.Time

	// writeMu serializes mutating operations so that read-then-write steps
	// (pricing against the current area count, status transitions) stay consistent.
	writeMu sync.Mutex
}

func NewMarketplace(dir domain.Directory, calc pricing.Calculator, eventBus domain.EventPublisher, strict bool, logger *zerolog.Logger) *Marketplace {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	serviceLogger := logger.With().Str("component", "marketplace").Logger()

	return &Marketplace{
		dir:      dir,
		calc:     calc,
		eventBus: eventBus,
		strict:   strict,
		logger:   &serviceLogger,
		now:      time.Now,
	}
}

func (s *Marketplace) Strict() bool {
	return s.strict
}

func (s *Marketplace) Pricing() pricing.Config {
	return s.calc.Config()
}

func (s *Marketplace) ListPostalAreas(ctx context.Context) ([]models.PostalArea, error) {
	return s.dir.ListPostalAreas(ctx)
}

func (s *Marketplace) GetPostalArea(ctx context.Context, postalCode string) (*models.PostalArea, error) {
	area, err := s.dir.GetPostalAreaByCode(ctx, postalCode)
	if err != nil {
		return nil, notFoundOr(err, "postal area", postalCode)
	}
	return area, nil
}

func (s *Marketplace) Stats(ctx context.Context) (models.DirectoryStats, error) {
	return s.dir.Stats(ctx)
}

func (s *Marketplace) Ping(ctx context.Context) error {
	return s.dir.PingContext(ctx)
}

// AreaDemand is the live demand of one postal area.
type AreaDemand struct {
	PostalCode    string `json:"postal_code"`
	CurrentDemand int    `json:"current_demand"`
}

// RefreshDemand recomputes the current demand of every postal area and publishes it as metrics.
func (s *Marketplace) RefreshDemand(ctx context.Context) ([]AreaDemand, error) {
	areas, err := s.dir.ListPostalAreas(ctx)
	if err != nil {
		return nil, fmt.Errorf("list postal areas: %w", err)
	}

	out := make([]AreaDemand, 0, len(areas))
	for _, area := range areas {
		count, err := s.dir.CountCurrentBookingsInArea(ctx, area.PostalCode)
		if err != nil {
			return nil, fmt.Errorf("count demand in %s: %w", area.PostalCode, err)
		}
		metrics.SetCurrentDemand(area.PostalCode, count)
		out = append(out, AreaDemand{PostalCode: area.PostalCode, CurrentDemand: count})
	}
	return out, nil
}

func (s *Marketplace) publishEvent(eventType string, payload interface{}) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Msg("publish event error")
	}
}
