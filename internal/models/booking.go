package models

import "time"

type Booking struct {
	ID                 string        `json:"id"`
	ServiceRequestID   string        `json:"service_request_id"`
	OperatorServiceID  string        `json:"operator_service_id,omitempty"`
	ScheduledDate      string        `json:"scheduled_date"`
	ScheduledTime      string        `json:"scheduled_time,omitempty"`
	ActualTimeMinutes  *int          `json:"actual_time_minutes,omitempty"`
	BasePrice          float64       `json:"base_price"`
	HourlyRate         float64       `json:"hourly_rate"`
	DiscountMultiplier float64       `json:"discount_multiplier"`
	FinalPrice         float64       `json:"final_price"`
	Status             BookingStatus `json:"status"` // scheduled, in_progress, completed, cancelled
	CompletedAt        *time.Time    `json:"completed_at,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// BookingInput holds the caller-supplied fields of a booking; prices are computed server-side.
type BookingInput struct {
	ServiceRequestID  string        `json:"service_request_id"`
	OperatorServiceID string        `json:"operator_service_id,omitempty"`
	ScheduledDate     string        `json:"scheduled_date"`
	ScheduledTime     string        `json:"scheduled_time,omitempty"`
	ActualTimeMinutes *int          `json:"actual_time_minutes,omitempty"`
	Status            BookingStatus `json:"status,omitempty"`
}
