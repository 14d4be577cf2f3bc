package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hiloazul/tailor-api/internal/model"
	"github.com/hiloazul/tailor-api/internal/repository"
)

type workOrderRepository struct {
	BaseRepository
}

func NewWorkOrderRepository(base BaseRepository) repository.WorkOrderRepository {
	return &workOrderRepository{base}
}

func (r *workOrderRepository) Create(ctx context.Context, wo *model.WorkOrder) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO work_orders (id, sales_order_id, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
		`
		if wo.ID == uuid.Nil {
			wo.ID = uuid.New()
		}
		wo.CreatedAt = time.Now()
		wo.UpdatedAt = time.Now()

		if _, err := tx.ExecContext(ctx, query, wo.ID, wo.SalesOrderID, wo.Status, wo.CreatedAt, wo.UpdatedAt); err != nil {
			return fmt.Errorf("failed to create work order: %w", err)
		}

		itemQuery := `
			INSERT INTO work_order_items (id, work_order_id, sales_order_item_id, service_name, current_stage, notes)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		for i := range wo.Items {
			item := &wo.Items[i]
			if item.ID == uuid.Nil {
				item.ID = uuid.New()
			}
			item.WorkOrderID = wo.ID
			_, err := tx.ExecContext(ctx, itemQuery,
				item.ID, wo.ID, item.SalesOrderItemID, item.ServiceName, item.CurrentStage, item.Notes)
			if err != nil {
				return fmt.Errorf("failed to create work order item: %w", err)
			}
		}
		return nil
	})
}

func (r *workOrderRepository) Get(ctx context.Context, id uuid.UUID) (*model.WorkOrder, error) {
	query := `SELECT * FROM work_orders WHERE id = $1 AND deleted_at IS NULL`
	var wo model.WorkOrder
	if err := r.db.GetContext(ctx, &wo, query, id); err != nil {
		return nil, fmt.Errorf("failed to get work order: %w", mapNotFound(err))
	}
	if err := r.loadItems(ctx, &wo); err != nil {
		return nil, err
	}
	return &wo, nil
}

func (r *workOrderRepository) GetBySalesOrder(ctx context.Context, salesOrderID uuid.UUID) (*model.WorkOrder, error) {
	query := `SELECT * FROM work_orders WHERE sales_order_id = $1 AND deleted_at IS NULL`
	var wo model.WorkOrder
	if err := r.db.GetContext(ctx, &wo, query, salesOrderID); err != nil {
		return nil, fmt.Errorf("failed to get work order for sales order: %w", mapNotFound(err))
	}
	if err := r.loadItems(ctx, &wo); err != nil {
		return nil, err
	}
	return &wo, nil
}

func (r *workOrderRepository) List(ctx context.Context, status model.WorkOrderStatus) ([]*model.WorkOrder, error) {
	query := `SELECT * FROM work_orders WHERE deleted_at IS NULL`
	args := []interface{}{}
	if status != "" {
		query += ` AND status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at`

	var orders []*model.WorkOrder
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list work orders: %w", err)
	}
	for _, wo := range orders {
		if err := r.loadItems(ctx, wo); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *workOrderRepository) UpdateItemStage(ctx context.Context, itemID uuid.UUID, stage model.WorkStage) error {
	query := `UPDATE work_order_items SET current_stage = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, stage, itemID)
	if err != nil {
		return fmt.Errorf("failed to update work item stage: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *workOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.WorkOrderStatus) error {
	query := `UPDATE work_orders SET status = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update work order status: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *workOrderRepository) loadItems(ctx context.Context, wo *model.WorkOrder) error {
	query := `SELECT * FROM work_order_items WHERE work_order_id = $1 ORDER BY id`
	if err := r.db.SelectContext(ctx, &wo.Items, query, wo.ID); err != nil {
		return fmt.Errorf("failed to load work order items: %w", err)
	}
	return nil
}
