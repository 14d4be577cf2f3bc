package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt is the structured payload the counter printer UI renders. The
// server assembles numbers and snapshots; presentation stays client-side.
type Receipt struct {
	TicketNumber string          `json:"ticket_number"`
	IssuedAt     time.Time       `json:"issued_at"`
	CustomerName string          `json:"customer_name"`
	Phone        string          `json:"phone,omitempty"`
	Deadline     time.Time       `json:"deadline"`
	Items        []ReceiptItem   `json:"items"`
	Total        decimal.Decimal `json:"total"`
	AmountPaid   decimal.Decimal `json:"amount_paid"`
	Balance      decimal.Decimal `json:"balance"`
	Shop         ReceiptShop     `json:"shop"`
}

type ReceiptItem struct {
	Garment          string          `json:"garment"`
	Service          string          `json:"service"`
	Price            decimal.Decimal `json:"price"`
	Adjustment       decimal.Decimal `json:"adjustment"`
	AdjustmentReason string          `json:"adjustment_reason,omitempty"`
	Notes            string          `json:"notes,omitempty"`
}

type ReceiptShop struct {
	Name         string `json:"name"`
	Address      string `json:"address,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
	TaxID        string `json:"tax_id,omitempty"`
	TaxRegime    string `json:"tax_regime,omitempty"`
}
