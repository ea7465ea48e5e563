package database

import (
	"context"
	"fmt"

	"snowpool/internal/models"
)

// CreateServiceRequest stores a new pending request owned by customerID. Input is not validated.
func (db *DB) CreateServiceRequest(ctx context.Context, customerID string, input models.ServiceRequestInput) (*models.ServiceRequest, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	now := db.now()
	req := &models.ServiceRequest{
		ID:                   db.newID(),
		CustomerID:           customerID,
		PostalCode:           input.PostalCode,
		Address:              input.Address,
		YardSizeCategory:     input.YardSizeCategory,
		EstimatedTimeMinutes: input.EstimatedTimeMinutes,
		ServiceType:          input.ServiceType,
		Status:               models.StatusPending,
		RequestedDate:        input.RequestedDate,
		Notes:                input.Notes,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	db.serviceRequests = append(db.serviceRequests, req)
	db.requestsByID[req.ID] = req

	db.logger.Debug().Str("request_id", req.ID).Str("postal_code", req.PostalCode).Msg("service request created")

	out := *req
	return &out, nil
}

func (db *DB) GetServiceRequest(ctx context.Context, id string) (*models.ServiceRequest, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	req, ok := db.requestsByID[id]
	if !ok {
		return nil, fmt.Errorf("service request %s: %w", id, ErrNotFound)
	}
	out := *req
	return &out, nil
}

func (db *DB) ListServiceRequests(ctx context.Context) ([]models.ServiceRequest, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]models.ServiceRequest, 0, len(db.serviceRequests))
	for _, req := range db.serviceRequests {
		out = append(out, *req)
	}
	return out, nil
}

func (db *DB) ListServiceRequestsByPostalCode(ctx context.Context, postalCode string) ([]models.ServiceRequest, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]models.ServiceRequest, 0)
	for _, req := range db.serviceRequests {
		if req.PostalCode == postalCode {
			out = append(out, *req)
		}
	}
	return out, nil
}

// UpdateServiceRequestStatus sets the status without checking the transition.
func (db *DB) UpdateServiceRequestStatus(ctx context.Context, id string, status models.RequestStatus) (*models.ServiceRequest, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	req, ok := db.requestsByID[id]
	if !ok {
		return nil, fmt.Errorf("service request %s: %w", id, ErrNotFound)
	}
	req.Status = status
	req.UpdatedAt = db.now()

	out := *req
	return &out, nil
}

// CountCurrentBookingsInArea counts pending or confirmed requests in the area, the number of
// neighbours a prospective customer would share the base fee with.
func (db *DB) CountCurrentBookingsInArea(ctx context.Context, postalCode string) (int, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	count := 0
	for _, req := range db.serviceRequests {
		if req.PostalCode == postalCode && req.Status.Current() {
			count++
		}
	}
	return count, nil
}
