package models

import "time"

type ServiceRequest struct {
	ID                   string        `json:"id"`
	CustomerID           string        `json:"customer_id"`
	PostalCode           string        `json:"postal_code"`
	Address              string        `json:"address"`
	YardSizeCategory     YardSize      `json:"yard_size_category"`
	EstimatedTimeMinutes int           `json:"estimated_time_minutes"`
	ServiceType          ServiceType   `json:"service_type"`
	Status               RequestStatus `json:"status"`
	RequestedDate        string        `json:"requested_date,omitempty"`
	Notes                string        `json:"notes,omitempty"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

// ServiceRequestInput holds the customer-supplied fields of a service request.
type ServiceRequestInput struct {
	PostalCode           string      `json:"postal_code"`
	Address              string      `json:"address"`
	YardSizeCategory     YardSize    `json:"yard_size_category"`
	EstimatedTimeMinutes int         `json:"estimated_time_minutes"`
	ServiceType          ServiceType `json:"service_type"`
	RequestedDate        string      `json:"requested_date,omitempty"`
	Notes                string      `json:"notes,omitempty"`
}
