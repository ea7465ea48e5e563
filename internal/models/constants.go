package models

// DateLayout is the calendar date format used for requested and scheduled dates.
const DateLayout = "2006-01-02"

// TimeLayout is the wall-clock format used for scheduled times.
const TimeLayout = "15:04"

type YardSize string

const (
	YardSmall  YardSize = "small"
	YardMedium YardSize = "medium"
	YardLarge  YardSize = "large"
)

func (s YardSize) Valid() bool {
	switch s {
	case YardSmall, YardMedium, YardLarge:
		return true
	}
	return false
}

type ServiceType string

const (
	ServiceHand    ServiceType = "hand"
	ServiceMachine ServiceType = "machine"
	ServiceBoth    ServiceType = "both"
)

func (t ServiceType) Valid() bool {
	switch t {
	case ServiceHand, ServiceMachine, ServiceBoth:
		return true
	}
	return false
}

type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusConfirmed RequestStatus = "confirmed"
	StatusAssigned  RequestStatus = "assigned"
	StatusCompleted RequestStatus = "completed"
	StatusCancelled RequestStatus = "cancelled"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusAssigned, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed.
func (s RequestStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Current reports whether the request counts toward the live demand of its area.
func (s RequestStatus) Current() bool {
	return s == StatusPending || s == StatusConfirmed
}

var requestTransitions = map[RequestStatus]RequestStatus{
	StatusPending:   StatusConfirmed,
	StatusConfirmed: StatusAssigned,
	StatusAssigned:  StatusCompleted,
}

// CanTransition reports whether a request may move from s to next.
// Requests advance one step at a time and may be cancelled from any non-terminal state.
func (s RequestStatus) CanTransition(next RequestStatus) bool {
	if s.Terminal() || !next.Valid() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	return requestTransitions[s] == next
}

type BookingStatus string

const (
	BookingScheduled  BookingStatus = "scheduled"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingScheduled, BookingInProgress, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

const (
	// DefaultCallerHeader carries the caller identity on HTTP requests and gRPC metadata.
	DefaultCallerHeader = "x-caller-id"

	// DemandRefreshSchedule is how often per-area demand gauges are recomputed.
	DemandRefreshSchedule = "@every 1m"

	// ShutdownTimeout bounds graceful shutdown of the API servers, in seconds.
	ShutdownTimeout = 10
)
