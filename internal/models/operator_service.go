package models

import "time"

type OperatorService struct {
	ID                   string      `json:"id"`
	OperatorID           string      `json:"operator_id"`
	PostalCode           string      `json:"postal_code"`
	ServiceType          ServiceType `json:"service_type"`
	Available            bool        `json:"available"`
	MaxCapacityPerDay    *int        `json:"max_capacity_per_day,omitempty"`
	EquipmentDescription string      `json:"equipment_description,omitempty"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

type OperatorServiceInput struct {
	PostalCode           string      `json:"postal_code"`
	ServiceType          ServiceType `json:"service_type"`
	MaxCapacityPerDay    *int        `json:"max_capacity_per_day,omitempty"`
	EquipmentDescription string      `json:"equipment_description,omitempty"`
}
