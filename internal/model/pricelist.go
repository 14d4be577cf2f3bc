package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceList is a prioritized set of per-service price overrides with a
// validity window. Higher priority wins when several lists are in effect.
// Lists only influence prices captured at order creation or edit time;
// existing order items keep their snapshot.
type PriceList struct {
	Base
	Name      string          `db:"name" json:"name"`
	Priority  int             `db:"priority" json:"priority"`
	ValidFrom time.Time       `db:"valid_from" json:"valid_from"`
	ValidTo   *time.Time      `db:"valid_to" json:"valid_to,omitempty"`
	Active    bool            `db:"is_active" json:"active"`
	Items     []PriceListItem `db:"-" json:"items"`
}

// PriceListItem overrides the price of a single service. Unique per
// (price list, service).
type PriceListItem struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	PriceListID uuid.UUID       `db:"price_list_id" json:"price_list_id"`
	ServiceID   uuid.UUID       `db:"service_id" json:"service_id"`
	Price       decimal.Decimal `db:"price" json:"price"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

type PriceListItemRequest struct {
	ServiceID uuid.UUID       `json:"service_id" binding:"required"`
	Price     decimal.Decimal `json:"price" binding:"required"`
}

type CreatePriceListRequest struct {
	Name      string                 `json:"name" binding:"required,max=150"`
	Priority  int                    `json:"priority"`
	ValidFrom time.Time              `json:"valid_from" binding:"required"`
	ValidTo   *time.Time             `json:"valid_to"`
	Active    bool                   `json:"active"`
	Items     []PriceListItemRequest `json:"items" binding:"dive"`
}

// UpdatePriceListRequest replaces the item set wholesale, mirroring how
// the admin screen submits the complete override table.
type UpdatePriceListRequest struct {
	Name      string                 `json:"name" binding:"required,max=150"`
	Priority  int                    `json:"priority"`
	ValidFrom time.Time              `json:"valid_from" binding:"required"`
	ValidTo   *time.Time             `json:"valid_to"`
	Active    bool                   `json:"active"`
	Items     []PriceListItemRequest `json:"items" binding:"dive"`
}

type CalculatePriceRequest struct {
	ServiceID uuid.UUID  `json:"service_id" binding:"required"`
	At        *time.Time `json:"at"`
}

// CalculatePriceResponse reports the effective price and where it came
// from: a price list name or "BASE_PRICE".
type CalculatePriceResponse struct {
	ServiceID   uuid.UUID       `json:"service_id"`
	FinalPrice  decimal.Decimal `json:"final_price"`
	Source      string          `json:"source"`
	PriceListID *uuid.UUID      `json:"price_list_id,omitempty"`
}

type BulkAdjustRequest struct {
	PriceListID uuid.UUID       `json:"price_list_id" binding:"required"`
	Delta       decimal.Decimal `json:"delta" binding:"required"`
}

// BulkAdjustPreviewItem is one row of a bulk-adjust preview. Clamped is
// set when the zero floor was hit, so the operator can review the rows
// that would lose information.
type BulkAdjustPreviewItem struct {
	ServiceID uuid.UUID       `json:"service_id"`
	OldPrice  decimal.Decimal `json:"old_price"`
	NewPrice  decimal.Decimal `json:"new_price"`
	Clamped   bool            `json:"clamped"`
}
