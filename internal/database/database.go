package database

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"snowpool/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned when a record looked up by id or code does not exist.
var ErrNotFound = errors.New("not found")

// ErrClosed is returned by PingContext after Close.
var ErrClosed = errors.New("directory closed")

type countKey struct {
	postalCode string
	date       string
}

// DB is the in-memory directory of postal areas, service requests, operator listings,
// bookings and per-area booking counters. State lives only as long as the process.
// All collections keep insertion order and are never shrunk; writers are serialized.
type DB struct {
	mu sync.RWMutex

	postalAreas      []models.PostalArea
	serviceRequests  []*models.ServiceRequest
	operatorServices []*models.OperatorService
	bookings         []*models.Booking
	bookingCounts    []*models.PostalAreaBookingCount

	requestsByID map[string]*models.ServiceRequest
	servicesByID map[string]*models.OperatorService
	bookingsByID map[string]*models.Booking
	countsByKey  map[countKey]*models.PostalAreaBookingCount
	areasByCode  map[string]int

	closed atomic.Bool

	newID  func() string
	now    func() time.Time
	logger *zerolog.Logger
}

// NewDB creates a directory seeded with the given postal areas. A nil or empty slice seeds the
// built-in default areas.
func NewDB(areas []models.PostalArea, logger *zerolog.Logger) *DB {
	if len(areas) == 0 {
		areas = DefaultPostalAreas()
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	db := &DB{
		postalAreas:  append([]models.PostalArea(nil), areas...),
		requestsByID: make(map[string]*models.ServiceRequest),
		servicesByID: make(map[string]*models.OperatorService),
		bookingsByID: make(map[string]*models.Booking),
		countsByKey:  make(map[countKey]*models.PostalAreaBookingCount),
		areasByCode:  make(map[string]int, len(areas)),
		newID:        uuid.NewString,
		now:          time.Now,
		logger:       logger,
	}

	for i := len(db.postalAreas) - 1; i >= 0; i-- {
		// first match wins on duplicate codes
		db.areasByCode[db.postalAreas[i].PostalCode] = i
	}

	db.logger.Info().Int("postal_areas", len(db.postalAreas)).Msg("directory initialized")
	return db
}

// PingContext reports whether the directory still accepts traffic.
func (db *DB) PingContext(ctx context.Context) error {
	if db.closed.Load() {
		return ErrClosed
	}
	return ctx.Err()
}

// Close marks the directory as shut down for readiness checks. Data stays readable.
func (db *DB) Close() error {
	db.closed.Store(true)
	return nil
}

// Stats returns collection sizes.
func (db *DB) Stats(ctx context.Context) (models.DirectoryStats, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return models.DirectoryStats{
		PostalAreas:      len(db.postalAreas),
		ServiceRequests:  len(db.serviceRequests),
		OperatorServices: len(db.operatorServices),
		Bookings:         len(db.bookings),
	}, nil
}
