package database

import (
	"context"
	"fmt"

	"snowpool/internal/models"
)

// CreateOperatorService stores a new available listing owned by operatorID.
func (db *DB) CreateOperatorService(ctx context.Context, operatorID string, input models.OperatorServiceInput) (*models.OperatorService, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	now := db.now()
	svc := &models.OperatorService{
		ID:                   db.newID(),
		OperatorID:           operatorID,
		PostalCode:           input.PostalCode,
		ServiceType:          input.ServiceType,
		Available:            true,
		EquipmentDescription: input.EquipmentDescription,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if input.MaxCapacityPerDay != nil {
		capacity := *input.MaxCapacityPerDay
		svc.MaxCapacityPerDay = &capacity
	}

	db.operatorServices = append(db.operatorServices, svc)
	db.servicesByID[svc.ID] = svc

	return copyOperatorService(svc), nil
}

func (db *DB) GetOperatorService(ctx context.Context, id string) (*models.OperatorService, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	svc, ok := db.servicesByID[id]
	if !ok {
		return nil, fmt.Errorf("operator service %s: %w", id, ErrNotFound)
	}
	return copyOperatorService(svc), nil
}

func (db *DB) ListOperatorServices(ctx context.Context) ([]models.OperatorService, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]models.OperatorService, 0, len(db.operatorServices))
	for _, svc := range db.operatorServices {
		out = append(out, *copyOperatorService(svc))
	}
	return out, nil
}

func (db *DB) ListOperatorServicesByPostalCode(ctx context.Context, postalCode string) ([]models.OperatorService, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]models.OperatorService, 0)
	for _, svc := range db.operatorServices {
		if svc.PostalCode == postalCode {
			out = append(out, *copyOperatorService(svc))
		}
	}
	return out, nil
}

func (db *DB) SetOperatorAvailability(ctx context.Context, id string, available bool) (*models.OperatorService, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	svc, ok := db.servicesByID[id]
	if !ok {
		return nil, fmt.Errorf("operator service %s: %w", id, ErrNotFound)
	}
	svc.Available = available
	svc.UpdatedAt = db.now()

	return copyOperatorService(svc), nil
}

func copyOperatorService(svc *models.OperatorService) *models.OperatorService {
	out := *svc
	if svc.MaxCapacityPerDay != nil {
		capacity := *svc.MaxCapacityPerDay
		out.MaxCapacityPerDay = &capacity
	}
	return &out
}
