package service

import (
	"context"
	"fmt"

	"snowpool/internal/metrics"
	"snowpool/internal/models"
	"snowpool/internal/pricing"
)

// Quote is a price preview for a yard in a postal area.
type Quote struct {
	PostalCode            string            `json:"postal_code"`
	YardSizeCategory      models.YardSize   `json:"yard_size_category"`
	EstimatedTimeMinutes  int               `json:"estimated_time_minutes"`
	CurrentBookingsInArea int               `json:"current_bookings_in_area"`
	Price                 pricing.Breakdown `json:"price"`
	FormattedTotal        string            `json:"formatted_total"`
}

// Quote prices a prospective request as if it joined the area's current demand.
func (s *Marketplace) Quote(ctx context.Context, postalCode string, size models.YardSize) (*Quote, error) {
	if !size.Valid() {
		return nil, invalid("yard_size_category", "expected small, medium or large")
	}
	if s.strict {
		if err := s.requireKnownArea(ctx, postalCode); err != nil {
			return nil, err
		}
	}

	demand, err := s.dir.CountCurrentBookingsInArea(ctx, postalCode)
	if err != nil {
		return nil, fmt.Errorf("count current demand: %w", err)
	}

	minutes := pricing.EstimatedTime(size)
	price := s.calc.Calculate(minutes, demand+1)
	metrics.IncQuote()

	return &Quote{
		PostalCode:            postalCode,
		YardSizeCategory:      size,
		EstimatedTimeMinutes:  minutes,
		CurrentBookingsInArea: demand,
		Price:                 price,
		FormattedTotal:        pricing.FormatPrice(price.TotalPrice),
	}, nil
}
