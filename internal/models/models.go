package models

// Caller identifies who performs a mutating operation.
type Caller struct {
	ID string `json:"id"`
}

func (c Caller) Anonymous() bool {
	return c.ID == ""
}

// DirectoryStats summarizes directory contents for the landing page.
type DirectoryStats struct {
	PostalAreas      int `json:"postal_areas"`
	ServiceRequests  int `json:"service_requests"`
	OperatorServices int `json:"operator_services"`
	Bookings         int `json:"bookings"`
}
