package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/hiloazul/tailor-api/internal/model"
	"github.com/hiloazul/tailor-api/internal/repository"
)

type orderRepository struct {
	BaseRepository
}

func NewOrderRepository(base BaseRepository) repository.OrderRepository {
	return &orderRepository{base}
}

// Create writes the order, its items and, when given, the domain event
// in one transaction. The ticket and its event commit together or not
// at all.
func (r *orderRepository) Create(ctx context.Context, order *model.Order, evt *model.OutboxEvent) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO orders (
				id, ticket_number, customer_id, committed_deadline, status,
				total_amount, amount_paid, payment_method, notes, created_by,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`
		if order.ID == uuid.Nil {
			order.ID = uuid.New()
		}
		order.CreatedAt = time.Now()
		order.UpdatedAt = time.Now()

		_, err := tx.ExecContext(ctx, query,
			order.ID,
			order.TicketNumber,
			order.CustomerID,
			order.CommittedDeadline,
			order.Status,
			order.TotalAmount,
			order.AmountPaid,
			order.PaymentMethod,
			order.Notes,
			order.CreatedBy,
			order.CreatedAt,
			order.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		if err := insertOrderItems(ctx, tx, order.ID, order.Items); err != nil {
			return err
		}
		if evt != nil {
			return createOutboxEventTx(ctx, tx, evt)
		}
		return nil
	})
}

func (r *orderRepository) Get(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `SELECT * FROM orders WHERE id = $1 AND deleted_at IS NULL`
	var order model.Order
	if err := r.db.GetContext(ctx, &order, query, id); err != nil {
		return nil, fmt.Errorf("failed to get order: %w", mapNotFound(err))
	}
	if err := r.loadItems(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByTicketNumber(ctx context.Context, ticket string) (*model.Order, error) {
	query := `SELECT * FROM orders WHERE ticket_number = $1 AND deleted_at IS NULL`
	var order model.Order
	if err := r.db.GetContext(ctx, &order, query, ticket); err != nil {
		return nil, fmt.Errorf("failed to get order by ticket: %w", mapNotFound(err))
	}
	if err := r.loadItems(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) Update(ctx context.Context, order *model.Order) error {
	query := `
		UPDATE orders
		SET committed_deadline = $1, total_amount = $2, amount_paid = $3,
		    payment_method = $4, notes = $5, updated_at = $6
		WHERE id = $7 AND deleted_at IS NULL
	`
	order.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, query,
		order.CommittedDeadline,
		order.TotalAmount,
		order.AmountPaid,
		order.PaymentMethod,
		order.Notes,
		order.UpdatedAt,
		order.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) ReplaceItems(ctx context.Context, orderID uuid.UUID, items []model.OrderItem) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
			return fmt.Errorf("failed to clear order items: %w", err)
		}
		return insertOrderItems(ctx, tx, orderID, items)
	})
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus, cancelReason *string) error {
	query := `
		UPDATE orders SET status = $1, cancel_reason = $2, updated_at = $3
		WHERE id = $4 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, status, cancelReason, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) RecordPayment(ctx context.Context, id uuid.UUID, amountPaid decimal.Decimal, method model.PaymentMethod) error {
	query := `
		UPDATE orders SET amount_paid = $1, payment_method = $2, updated_at = $3
		WHERE id = $4 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, amountPaid, method, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to record payment: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) List(ctx context.Context, filters *model.OrderFilters) ([]*model.Order, error) {
	query := `SELECT * FROM orders WHERE deleted_at IS NULL`
	args := []interface{}{}
	argNum := 1

	if filters != nil {
		if filters.CustomerID != uuid.Nil {
			query += fmt.Sprintf(` AND customer_id = $%d`, argNum)
			args = append(args, filters.CustomerID)
			argNum++
		}
		if filters.Status != "" {
			query += fmt.Sprintf(` AND status = $%d`, argNum)
			args = append(args, filters.Status)
			argNum++
		}
		if !filters.DeadlineFrom.IsZero() {
			query += fmt.Sprintf(` AND committed_deadline >= $%d`, argNum)
			args = append(args, filters.DeadlineFrom)
			argNum++
		}
		if !filters.DeadlineTo.IsZero() {
			query += fmt.Sprintf(` AND committed_deadline <= $%d`, argNum)
			args = append(args, filters.DeadlineTo)
			argNum++
		}
		if filters.SearchTerm != "" {
			query += fmt.Sprintf(` AND ticket_number ILIKE $%d`, argNum)
			args = append(args, "%"+filters.SearchTerm+"%")
			argNum++
		}
	}
	query += ` ORDER BY created_at DESC`

	var orders []*model.Order
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	for _, order := range orders {
		if err := r.loadItems(ctx, order); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *orderRepository) ListWithDeadlineBetween(ctx context.Context, from, to time.Time) ([]*model.Order, error) {
	query := `
		SELECT * FROM orders
		WHERE deleted_at IS NULL
		  AND committed_deadline BETWEEN $1 AND $2
		  AND status NOT IN ($3, $4)
		ORDER BY committed_deadline
	`
	var orders []*model.Order
	err := r.db.SelectContext(ctx, &orders, query, from, to,
		model.OrderStatusDelivered, model.OrderStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders by deadline: %w", err)
	}
	return orders, nil
}

// NextTicketNumber draws from a database sequence so concurrent intakes
// never collide.
func (r *orderRepository) NextTicketNumber(ctx context.Context) (string, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT nextval('ticket_number_seq')`); err != nil {
		return "", fmt.Errorf("failed to get next ticket number: %w", err)
	}
	return fmt.Sprintf("ORD-%04d", n), nil
}

func (r *orderRepository) loadItems(ctx context.Context, order *model.Order) error {
	query := `SELECT * FROM order_items WHERE order_id = $1 ORDER BY id`
	if err := r.db.SelectContext(ctx, &order.Items, query, order.ID); err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	return nil
}

func insertOrderItems(ctx context.Context, tx *sqlx.Tx, orderID uuid.UUID, items []model.OrderItem) error {
	query := `
		INSERT INTO order_items (
			id, order_id, garment_type_id, garment_name, service_id, service_name,
			unit_price, quantity, adjustment_amount, adjustment_reason, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	for i := range items {
		item := &items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.OrderID = orderID
		_, err := tx.ExecContext(ctx, query,
			item.ID,
			orderID,
			item.GarmentTypeID,
			item.GarmentName,
			item.ServiceID,
			item.ServiceName,
			item.UnitPrice,
			item.Quantity,
			item.AdjustmentAmount,
			item.AdjustmentReason,
			item.Notes,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}
	return nil
}
