package database

import (
	"context"
	"fmt"

	"snowpool/internal/models"
)

// DefaultPostalAreas returns the built-in Helsinki metropolitan area seed list.
func DefaultPostalAreas() []models.PostalArea {
	return []models.PostalArea{
		{ID: "1", PostalCode: "00100", City: "Helsinki", AreaName: "Keskusta"},
		{ID: "2", PostalCode: "00200", City: "Helsinki", AreaName: "Lauttasaari"},
		{ID: "3", PostalCode: "00300", City: "Helsinki", AreaName: "Munkkiniemi"},
		{ID: "4", PostalCode: "00400", City: "Helsinki", AreaName: "Käpylä"},
		{ID: "5", PostalCode: "00500", City: "Helsinki", AreaName: "Sörnäinen"},
		{ID: "6", PostalCode: "02100", City: "Espoo", AreaName: "Tapiola"},
		{ID: "7", PostalCode: "02200", City: "Espoo", AreaName: "Niittykumpu"},
		{ID: "8", PostalCode: "02600", City: "Espoo", AreaName: "Leppävaara"},
		{ID: "9", PostalCode: "01300", City: "Vantaa", AreaName: "Tikkurila"},
		{ID: "10", PostalCode: "01600", City: "Vantaa", AreaName: "Myyrmäki"},
	}
}

func (db *DB) ListPostalAreas(ctx context.Context) ([]models.PostalArea, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return append([]models.PostalArea(nil), db.postalAreas...), nil
}

func (db *DB) GetPostalAreaByCode(ctx context.Context, postalCode string) (*models.PostalArea, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	idx, ok := db.areasByCode[postalCode]
	if !ok {
		return nil, fmt.Errorf("postal area %q: %w", postalCode, ErrNotFound)
	}
	area := db.postalAreas[idx]
	return &area, nil
}
