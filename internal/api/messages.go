package api

import (
	"snowpool/internal/models"
)

// Empty is the request of parameterless marketplace calls.
type Empty struct{}

type PostalCodeRequest struct {
	PostalCode string `json:"postal_code"`
}

type IDRequest struct {
	ID string `json:"id"`
}

type AreaDateRequest struct {
	PostalCode string `json:"postal_code"`
	Date       string `json:"date"`
}

type StatusUpdateRequest struct {
	ID     string               `json:"id"`
	Status models.RequestStatus `json:"status"`
}

type AvailabilityRequest struct {
	ID        string `json:"id"`
	Available bool   `json:"available"`
}

type QuoteRequest struct {
	PostalCode       string          `json:"postal_code"`
	YardSizeCategory models.YardSize `json:"yard_size_category"`
}

type PostalAreasResponse struct {
	PostalAreas []models.PostalArea `json:"postal_areas"`
}

type ServiceRequestsResponse struct {
	ServiceRequests []models.ServiceRequest `json:"service_requests"`
}

type OperatorServicesResponse struct {
	OperatorServices []models.OperatorService `json:"operator_services"`
}

type BookingsResponse struct {
	Bookings []models.Booking `json:"bookings"`
}

type BookingCountsResponse struct {
	Counts []models.PostalAreaBookingCount `json:"counts"`
}
