package domain

import (
	"context"
	"time"

	"snowpool/internal/models"
)

// Directory is the store of postal areas, service requests, operator listings and bookings.
type Directory interface {
	ListPostalAreas(ctx context.Context) ([]models.PostalArea, error)
	GetPostalAreaByCode(ctx context.Context, postalCode string) (*models.PostalArea, error)

	CreateServiceRequest(ctx context.Context, customerID string, input models.ServiceRequestInput) (*models.ServiceRequest, error)
	GetServiceRequest(ctx context.Context, id string) (*models.ServiceRequest, error)
	ListServiceRequests(ctx context.Context) ([]models.ServiceRequest, error)
	ListServiceRequestsByPostalCode(ctx context.Context, postalCode string) ([]models.ServiceRequest, error)
	UpdateServiceRequestStatus(ctx context.Context, id string, status models.RequestStatus) (*models.ServiceRequest, error)
	CountCurrentBookingsInArea(ctx context.Context, postalCode string) (int, error)

	CreateOperatorService(ctx context.Context, operatorID string, input models.OperatorServiceInput) (*models.OperatorService, error)
	GetOperatorService(ctx context.Context, id string) (*models.OperatorService, error)
	ListOperatorServices(ctx context.Context) ([]models.OperatorService, error)
	ListOperatorServicesByPostalCode(ctx context.Context, postalCode string) ([]models.OperatorService, error)
	SetOperatorAvailability(ctx context.Context, id string, available bool) (*models.OperatorService, error)

	CreateBooking(ctx context.Context, booking models.Booking) (*models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListBookings(ctx context.Context) ([]models.Booking, error)
	ListActiveBookingsByAreaAndDate(ctx context.Context, postalCode, date string) ([]models.Booking, error)
	GetActiveBookingCount(ctx context.Context, postalCode, date string) (int, error)
	ListBookingCounts(ctx context.Context) ([]models.PostalAreaBookingCount, error)

	Stats(ctx context.Context) (models.DirectoryStats, error)
	PingContext(ctx context.Context) error
}

type LimitRepository interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}
