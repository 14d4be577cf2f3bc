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

type priceListRepository struct {
	BaseRepository
}

func NewPriceListRepository(base BaseRepository) repository.PriceListRepository {
	return &priceListRepository{base}
}

func (r *priceListRepository) Create(ctx context.Context, list *model.PriceList) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO price_lists (id, name, priority, valid_from, valid_to, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		if list.ID == uuid.Nil {
			list.ID = uuid.New()
		}
		list.CreatedAt = time.Now()
		list.UpdatedAt = time.Now()

		_, err := tx.ExecContext(ctx, query,
			list.ID,
			list.Name,
			list.Priority,
			list.ValidFrom,
			list.ValidTo,
			list.Active,
			list.CreatedAt,
			list.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create price list: %w", err)
		}
		return insertItems(ctx, tx, list.ID, list.Items)
	})
}

func (r *priceListRepository) Get(ctx context.Context, id uuid.UUID) (*model.PriceList, error) {
	query := `SELECT * FROM price_lists WHERE id = $1 AND deleted_at IS NULL`
	var list model.PriceList
	if err := r.db.GetContext(ctx, &list, query, id); err != nil {
		return nil, fmt.Errorf("failed to get price list: %w", mapNotFound(err))
	}
	if err := r.loadItems(ctx, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (r *priceListRepository) Update(ctx context.Context, list *model.PriceList) error {
	query := `
		UPDATE price_lists
		SET name = $1, priority = $2, valid_from = $3, valid_to = $4, is_active = $5, updated_at = $6
		WHERE id = $7 AND deleted_at IS NULL
	`
	list.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, query,
		list.Name,
		list.Priority,
		list.ValidFrom,
		list.ValidTo,
		list.Active,
		list.UpdatedAt,
		list.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update price list: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *priceListRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE price_lists SET deleted_at = $1, is_active = false WHERE id = $2 AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	return err
}

func (r *priceListRepository) List(ctx context.Context) ([]*model.PriceList, error) {
	query := `SELECT * FROM price_lists WHERE deleted_at IS NULL ORDER BY priority DESC, created_at DESC`
	var lists []*model.PriceList
	if err := r.db.SelectContext(ctx, &lists, query); err != nil {
		return nil, fmt.Errorf("failed to list price lists: %w", err)
	}
	for _, list := range lists {
		if err := r.loadItems(ctx, list); err != nil {
			return nil, err
		}
	}
	return lists, nil
}

// ListEffectiveAt returns active lists whose validity window covers the
// given instant, items included. Both window bounds are inclusive.
func (r *priceListRepository) ListEffectiveAt(ctx context.Context, at time.Time) ([]*model.PriceList, error) {
	query := `
		SELECT * FROM price_lists
		WHERE deleted_at IS NULL
		  AND is_active = true
		  AND valid_from <= $1
		  AND (valid_to IS NULL OR valid_to >= $1)
		ORDER BY priority DESC, created_at DESC
	`
	var lists []*model.PriceList
	if err := r.db.SelectContext(ctx, &lists, query, at); err != nil {
		return nil, fmt.Errorf("failed to list effective price lists: %w", err)
	}
	for _, list := range lists {
		if err := r.loadItems(ctx, list); err != nil {
			return nil, err
		}
	}
	return lists, nil
}

func (r *priceListRepository) ReplaceItems(ctx context.Context, listID uuid.UUID, items []model.PriceListItem) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM price_list_items WHERE price_list_id = $1`, listID); err != nil {
			return fmt.Errorf("failed to clear price list items: %w", err)
		}
		return insertItems(ctx, tx, listID, items)
	})
}

func (r *priceListRepository) AdjustItemPrices(ctx context.Context, listID uuid.UUID, items []model.BulkAdjustPreviewItem) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `UPDATE price_list_items SET price = $1 WHERE price_list_id = $2 AND service_id = $3`
		for _, item := range items {
			if _, err := tx.ExecContext(ctx, query, item.NewPrice, listID, item.ServiceID); err != nil {
				return fmt.Errorf("failed to adjust price for service %s: %w", item.ServiceID, err)
			}
		}
		return nil
	})
}

func (r *priceListRepository) loadItems(ctx context.Context, list *model.PriceList) error {
	query := `SELECT * FROM price_list_items WHERE price_list_id = $1 ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &list.Items, query, list.ID); err != nil {
		return fmt.Errorf("failed to load price list items: %w", err)
	}
	return nil
}

func insertItems(ctx context.Context, tx *sqlx.Tx, listID uuid.UUID, items []model.PriceListItem) error {
	query := `
		INSERT INTO price_list_items (id, price_list_id, service_id, price, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	now := time.Now()
	for i := range items {
		item := &items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.PriceListID = listID
		item.CreatedAt = now
		if _, err := tx.ExecContext(ctx, query, item.ID, listID, item.ServiceID, item.Price, item.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert price list item: %w", err)
		}
	}
	return nil
}
