package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusReceived   OrderStatus = "RECEIVED"
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"
	OrderStatusReady      OrderStatus = "READY"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// Terminal reports whether an order in this status is frozen.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo enforces the linear intake workflow. CANCELLED is
// reachable from any non-terminal status.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	order := map[OrderStatus]OrderStatus{
		OrderStatusPending:    OrderStatusReceived,
		OrderStatusReceived:   OrderStatusInProgress,
		OrderStatusInProgress: OrderStatusReady,
		OrderStatusReady:      OrderStatusDelivered,
	}
	return order[s] == next
}

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer:
		return true
	}
	return false
}

// Order is a shop ticket: the garments a customer left, the services to
// perform on them, and the money side of the deal.
type Order struct {
	Base
	TicketNumber      string          `db:"ticket_number" json:"ticket_number"`
	CustomerID        uuid.UUID       `db:"customer_id" json:"customer_id"`
	CommittedDeadline time.Time       `db:"committed_deadline" json:"committed_deadline"`
	Status            OrderStatus     `db:"status" json:"status"`
	TotalAmount       decimal.Decimal `db:"total_amount" json:"total_amount"`
	AmountPaid        decimal.Decimal `db:"amount_paid" json:"amount_paid"`
	PaymentMethod     PaymentMethod   `db:"payment_method" json:"payment_method,omitempty"`
	Notes             string          `db:"notes" json:"notes,omitempty"`
	CancelReason      *string         `db:"cancel_reason" json:"cancel_reason,omitempty"`
	CreatedBy         uuid.UUID       `db:"created_by" json:"created_by"`
	Items             []OrderItem     `db:"-" json:"items"`
}

// OrderItem snapshots the garment, the service and its price at the time
// the ticket was written. Catalog and price-list edits never touch it.
type OrderItem struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	OrderID          uuid.UUID       `db:"order_id" json:"order_id"`
	GarmentTypeID    uuid.UUID       `db:"garment_type_id" json:"garment_type_id"`
	GarmentName      string          `db:"garment_name" json:"garment_name"`
	ServiceID        uuid.UUID       `db:"service_id" json:"service_id"`
	ServiceName      string          `db:"service_name" json:"service_name"`
	UnitPrice        decimal.Decimal `db:"unit_price" json:"unit_price"`
	Quantity         int             `db:"quantity" json:"quantity"`
	AdjustmentAmount decimal.Decimal `db:"adjustment_amount" json:"adjustment_amount"`
	AdjustmentReason string          `db:"adjustment_reason" json:"adjustment_reason,omitempty"`
	Notes            string          `db:"notes" json:"notes,omitempty"`
}

type OrderItemRequest struct {
	GarmentTypeID    uuid.UUID        `json:"garment_type_id" binding:"required"`
	ServiceID        uuid.UUID        `json:"service_id" binding:"required"`
	AdjustmentAmount *decimal.Decimal `json:"adjustment_amount"`
	AdjustmentReason string           `json:"adjustment_reason" binding:"max=300"`
	Notes            string           `json:"notes" binding:"max=500"`
}

type CreateOrderRequest struct {
	Customer          CreateCustomerRequest `json:"customer" binding:"required"`
	Items             []OrderItemRequest    `json:"items" binding:"required,min=1,dive"`
	CommittedDeadline time.Time             `json:"committed_deadline" binding:"required"`
	AmountPaid        *decimal.Decimal      `json:"amount_paid"`
	PaymentMethod     PaymentMethod         `json:"payment_method" binding:"omitempty,oneof=CASH CARD TRANSFER"`
	Notes             string                `json:"notes" binding:"max=1000"`
}

// UpdateOrderRequest replaces the item set wholesale, matching the edit
// screen. Unit prices are re-resolved for the replaced items only.
type UpdateOrderRequest struct {
	Items             []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	CommittedDeadline *time.Time         `json:"committed_deadline"`
	AmountPaid        *decimal.Decimal   `json:"amount_paid"`
	PaymentMethod     *PaymentMethod     `json:"payment_method"`
	Notes             *string            `json:"notes"`
}

type TransitionOrderRequest struct {
	Status       OrderStatus `json:"status" binding:"required,oneof=PENDING RECEIVED IN_PROGRESS READY DELIVERED CANCELLED"`
	CancelReason string      `json:"cancel_reason" binding:"max=300"`
}

type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Method PaymentMethod   `json:"method" binding:"required,oneof=CASH CARD TRANSFER"`
}

type OrderFilters struct {
	CustomerID   uuid.UUID
	Status       OrderStatus
	DeadlineFrom time.Time
	DeadlineTo   time.Time
	SearchTerm   string
}
