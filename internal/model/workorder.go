package model

import (
	"github.com/google/uuid"
)

type WorkOrderStatus string

const (
	WorkOrderStatusPending    WorkOrderStatus = "PENDING"
	WorkOrderStatusInProgress WorkOrderStatus = "IN_PROGRESS"
	WorkOrderStatusCompleted  WorkOrderStatus = "COMPLETED"
	WorkOrderStatusCancelled  WorkOrderStatus = "CANCELLED"
)

// Terminal reports whether the workshop is done with this work order.
func (s WorkOrderStatus) Terminal() bool {
	return s == WorkOrderStatusCompleted || s == WorkOrderStatusCancelled
}

type WorkStage string

const (
	WorkStageWaiting  WorkStage = "WAITING"
	WorkStageWashing  WorkStage = "WASHING"
	WorkStageIroning  WorkStage = "IRONING"
	WorkStageFinished WorkStage = "FINISHED"
)

func (s WorkStage) Valid() bool {
	switch s {
	case WorkStageWaiting, WorkStageWashing, WorkStageIroning, WorkStageFinished:
		return true
	}
	return false
}

// WorkOrder tracks the workshop side of a sales order: one row per order
// item, advanced stage by stage at the pressing table.
type WorkOrder struct {
	Base
	SalesOrderID uuid.UUID       `db:"sales_order_id" json:"sales_order_id"`
	Status       WorkOrderStatus `db:"status" json:"status"`
	Items        []WorkOrderItem `db:"-" json:"items"`
}

type WorkOrderItem struct {
	ID               uuid.UUID `db:"id" json:"id"`
	WorkOrderID      uuid.UUID `db:"work_order_id" json:"work_order_id"`
	SalesOrderItemID uuid.UUID `db:"sales_order_item_id" json:"sales_order_item_id"`
	ServiceName      string    `db:"service_name" json:"service_name"`
	CurrentStage     WorkStage `db:"current_stage" json:"current_stage"`
	Notes            string    `db:"notes" json:"notes,omitempty"`
}

type AdvanceWorkItemRequest struct {
	Stage WorkStage `json:"stage" binding:"required,oneof=WAITING WASHING IRONING FINISHED"`
}
