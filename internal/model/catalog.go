package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GarmentType classifies the garments a customer brings in. It is a
// filtering key for the service catalog, never a pricing input.
type GarmentType struct {
	Base
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description,omitempty"`
	Active      bool   `db:"is_active" json:"active"`
}

// Service is a unit of work from the shop catalog (hemming, dry cleaning,
// zipper replacement). BasePrice applies unless a price list overrides it.
type Service struct {
	Base
	Name               string          `db:"name" json:"name"`
	Description        string          `db:"description" json:"description,omitempty"`
	DefaultDurationMin int             `db:"default_duration_min" json:"default_duration_min"`
	BasePrice          decimal.Decimal `db:"base_price" json:"base_price"`
	Active             bool            `db:"is_active" json:"active"`
}

// GarmentServiceLink associates a garment type with a service it can be
// combined with on an order item. Authored explicitly in the catalog.
type GarmentServiceLink struct {
	GarmentTypeID uuid.UUID `db:"garment_type_id" json:"garment_type_id"`
	ServiceID     uuid.UUID `db:"service_id" json:"service_id"`
}

type CreateGarmentTypeRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
}

type UpdateGarmentTypeRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

type CreateServiceRequest struct {
	Name               string          `json:"name" binding:"required,max=100"`
	Description        string          `json:"description" binding:"max=500"`
	DefaultDurationMin int             `json:"default_duration_min" binding:"omitempty,min=1"`
	BasePrice          decimal.Decimal `json:"base_price" binding:"required"`
	GarmentTypeIDs     []uuid.UUID     `json:"garment_type_ids"`
}

type UpdateServiceRequest struct {
	Name               *string          `json:"name"`
	Description        *string          `json:"description"`
	DefaultDurationMin *int             `json:"default_duration_min"`
	BasePrice          *decimal.Decimal `json:"base_price"`
	Active             *bool            `json:"active"`
	GarmentTypeIDs     []uuid.UUID      `json:"garment_type_ids"`
}
