package database

import (
	"context"
	"testing"

	"snowpool/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateServiceRequest(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	req, err := db.CreateServiceRequest(ctx, "customer-42", models.ServiceRequestInput{
		PostalCode:           "00200",
		Address:              "Lauttasaarentie 5",
		YardSizeCategory:     models.YardLarge,
		EstimatedTimeMinutes: 45,
		ServiceType:          models.ServiceMachine,
		RequestedDate:        "2025-01-15",
		Notes:                "gate code 1234",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, req.ID)
	assert.Equal(t, "customer-42", req.CustomerID)
	assert.Equal(t, models.StatusPending, req.Status)
	assert.Equal(t, 45, req.EstimatedTimeMinutes)
	assert.Equal(t, "gate code 1234", req.Notes)
	assert.False(t, req.CreatedAt.IsZero())
	assert.Equal(t, req.CreatedAt, req.UpdatedAt)

	got, err := db.GetServiceRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, req, got)
}

func TestCreateServiceRequest_NoValidation(t *testing.T) {
	db := setupTestDB(t)

	req, err := db.CreateServiceRequest(context.Background(), "customer-1", models.ServiceRequestInput{
		PostalCode:           "not-a-code",
		EstimatedTimeMinutes: -5,
	})
	require.NoError(t, err)
	assert.Equal(t, "not-a-code", req.PostalCode)
	assert.Equal(t, -5, req.EstimatedTimeMinutes)
}

func TestListServiceRequests_OrderAndDistinctIDs(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	const n = 25
	var submitted []string
	for i := 0; i < n; i++ {
		submitted = append(submitted, submitRequest(t, db, "00100").ID)
	}

	list, err := db.ListServiceRequests(ctx)
	require.NoError(t, err)
	require.Len(t, list, n)

	seen := make(map[string]bool, n)
	for i, req := range list {
		assert.Equal(t, submitted[i], req.ID)
		assert.False(t, seen[req.ID], "duplicate id %s", req.ID)
		seen[req.ID] = true
	}
}

func TestListServiceRequestsByPostalCode(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	first := submitRequest(t, db, "00100")
	submitRequest(t, db, "00200")
	third := submitRequest(t, db, "00100")

	list, err := db.ListServiceRequestsByPostalCode(ctx, "00100")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, third.ID, list[1].ID)

	empty, err := db.ListServiceRequestsByPostalCode(ctx, "02600")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGetServiceRequest_NotFound(t *testing.T) {
	db := setupTestDB(t)
	_, err := db.GetServiceRequest(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateServiceRequestStatus(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	req := submitRequest(t, db, "00100")

	updated, err := db.UpdateServiceRequestStatus(ctx, req.ID, models.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, updated.Status)
	assert.False(t, updated.UpdatedAt.Before(req.UpdatedAt))

	_, err = db.UpdateServiceRequestStatus(ctx, "missing", models.StatusConfirmed)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCountCurrentBookingsInArea(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	count, err := db.CountCurrentBookingsInArea(ctx, "00100")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	pending := submitRequest(t, db, "00100")
	confirmed := submitRequest(t, db, "00100")
	completed := submitRequest(t, db, "00100")
	cancelled := submitRequest(t, db, "00100")
	assigned := submitRequest(t, db, "00100")
	submitRequest(t, db, "00200")

	_, _ = db.UpdateServiceRequestStatus(ctx, confirmed.ID, models.StatusConfirmed)
	_, _ = db.UpdateServiceRequestStatus(ctx, completed.ID, models.StatusCompleted)
	_, _ = db.UpdateServiceRequestStatus(ctx, cancelled.ID, models.StatusCancelled)
	_, _ = db.UpdateServiceRequestStatus(ctx, assigned.ID, models.StatusAssigned)

	count, err = db.CountCurrentBookingsInArea(ctx, "00100")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "only %s and %s should count", pending.ID, confirmed.ID)
}

func TestServiceRequest_ReturnedCopiesAreIsolated(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	req := submitRequest(t, db, "00100")

	req.Status = models.StatusCancelled
	list, _ := db.ListServiceRequests(ctx)
	list[0].PostalCode = "99999"

	got, err := db.GetServiceRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Equal(t, "00100", got.PostalCode)
}
