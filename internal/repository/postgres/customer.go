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

type customerRepository struct {
	db *sqlx.DB
}

func NewCustomerRepository(db *sqlx.DB) repository.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *model.Customer) error {
	query := `
		INSERT INTO customers (id, first_name, last_name, email, phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	customer.CreatedAt = time.Now()
	customer.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		customer.ID,
		customer.FirstName,
		customer.LastName,
		customer.Email,
		customer.Phone,
		customer.Address,
		customer.CreatedAt,
		customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *customerRepository) Get(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	query := `SELECT * FROM customers WHERE id = $1 AND deleted_at IS NULL`
	var customer model.Customer
	if err := r.db.GetContext(ctx, &customer, query, id); err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", mapNotFound(err))
	}
	return &customer, nil
}

func (r *customerRepository) GetByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	query := `SELECT * FROM customers WHERE phone = $1 AND deleted_at IS NULL`
	var customer model.Customer
	if err := r.db.GetContext(ctx, &customer, query, phone); err != nil {
		return nil, fmt.Errorf("failed to get customer by phone: %w", mapNotFound(err))
	}
	return &customer, nil
}

func (r *customerRepository) Update(ctx context.Context, customer *model.Customer) error {
	query := `
		UPDATE customers
		SET first_name = $1, last_name = $2, email = $3, phone = $4, address = $5, updated_at = $6
		WHERE id = $7 AND deleted_at IS NULL
	`
	customer.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, query,
		customer.FirstName,
		customer.LastName,
		customer.Email,
		customer.Phone,
		customer.Address,
		customer.UpdatedAt,
		customer.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE customers SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	return err
}

func (r *customerRepository) List(ctx context.Context, filters *model.CustomerFilters) ([]*model.Customer, error) {
	query := `SELECT * FROM customers WHERE deleted_at IS NULL`
	args := []interface{}{}

	if filters != nil && filters.SearchTerm != "" {
		query += ` AND (first_name ILIKE $1 OR last_name ILIKE $1 OR phone ILIKE $1 OR email ILIKE $1)`
		args = append(args, "%"+filters.SearchTerm+"%")
	}
	query += ` ORDER BY last_name, first_name`

	if filters != nil && filters.PageSize > 0 {
		offset := 0
		if filters.Page > 1 {
			offset = (filters.Page - 1) * filters.PageSize
		}
		query += fmt.Sprintf(` LIMIT %d OFFSET %d`, filters.PageSize, offset)
	}

	var customers []*model.Customer
	if err := r.db.SelectContext(ctx, &customers, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// Count applies the same filter as List without the page window, so a
// paginated response can report the true total.
func (r *customerRepository) Count(ctx context.Context, filters *model.CustomerFilters) (int, error) {
	query := `SELECT COUNT(*) FROM customers WHERE deleted_at IS NULL`
	args := []interface{}{}

	if filters != nil && filters.SearchTerm != "" {
		query += ` AND (first_name ILIKE $1 OR last_name ILIKE $1 OR phone ILIKE $1 OR email ILIKE $1)`
		args = append(args, "%"+filters.SearchTerm+"%")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return total, nil
}
