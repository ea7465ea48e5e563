package models

type PostalArea struct {
	ID         string `json:"id" yaml:"id"`
	PostalCode string `json:"postal_code" yaml:"postal_code"`
	City       string `json:"city" yaml:"city"`
	AreaName   string `json:"area_name,omitempty" yaml:"area_name"`
}

// PostalAreaBookingCount is the per-area, per-date booking counter.
type PostalAreaBookingCount struct {
	PostalCode          string `json:"postal_code"`
	BookingDate         string `json:"booking_date"`
	ActiveBookingsCount int    `json:"active_bookings_count"`
}
