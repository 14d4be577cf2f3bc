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

type catalogRepository struct {
	BaseRepository
}

func NewCatalogRepository(base BaseRepository) repository.CatalogRepository {
	return &catalogRepository{base}
}

func (r *catalogRepository) CreateGarmentType(ctx context.Context, gt *model.GarmentType) error {
	query := `
		INSERT INTO garment_types (id, name, description, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if gt.ID == uuid.Nil {
		gt.ID = uuid.New()
	}
	gt.CreatedAt = time.Now()
	gt.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query, gt.ID, gt.Name, gt.Description, gt.Active, gt.CreatedAt, gt.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create garment type: %w", err)
	}
	return nil
}

func (r *catalogRepository) GetGarmentType(ctx context.Context, id uuid.UUID) (*model.GarmentType, error) {
	query := `SELECT * FROM garment_types WHERE id = $1 AND deleted_at IS NULL`
	var gt model.GarmentType
	if err := r.db.GetContext(ctx, &gt, query, id); err != nil {
		return nil, fmt.Errorf("failed to get garment type: %w", mapNotFound(err))
	}
	return &gt, nil
}

func (r *catalogRepository) UpdateGarmentType(ctx context.Context, gt *model.GarmentType) error {
	query := `
		UPDATE garment_types SET name = $1, description = $2, is_active = $3, updated_at = $4
		WHERE id = $5 AND deleted_at IS NULL
	`
	gt.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, query, gt.Name, gt.Description, gt.Active, gt.UpdatedAt, gt.ID)
	if err != nil {
		return fmt.Errorf("failed to update garment type: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *catalogRepository) DeleteGarmentType(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE garment_types SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	return err
}

func (r *catalogRepository) ListGarmentTypes(ctx context.Context, activeOnly bool) ([]*model.GarmentType, error) {
	query := `SELECT * FROM garment_types WHERE deleted_at IS NULL`
	if activeOnly {
		query += ` AND is_active = true`
	}
	query += ` ORDER BY name`

	var types []*model.GarmentType
	if err := r.db.SelectContext(ctx, &types, query); err != nil {
		return nil, fmt.Errorf("failed to list garment types: %w", err)
	}
	return types, nil
}

func (r *catalogRepository) CreateService(ctx context.Context, svc *model.Service) error {
	query := `
		INSERT INTO services (id, name, description, default_duration_min, base_price, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if svc.ID == uuid.Nil {
		svc.ID = uuid.New()
	}
	svc.CreatedAt = time.Now()
	svc.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		svc.ID,
		svc.Name,
		svc.Description,
		svc.DefaultDurationMin,
		svc.BasePrice,
		svc.Active,
		svc.CreatedAt,
		svc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

func (r *catalogRepository) GetService(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	query := `SELECT * FROM services WHERE id = $1 AND deleted_at IS NULL`
	var svc model.Service
	if err := r.db.GetContext(ctx, &svc, query, id); err != nil {
		return nil, fmt.Errorf("failed to get service: %w", mapNotFound(err))
	}
	return &svc, nil
}

func (r *catalogRepository) UpdateService(ctx context.Context, svc *model.Service) error {
	query := `
		UPDATE services
		SET name = $1, description = $2, default_duration_min = $3, base_price = $4, is_active = $5, updated_at = $6
		WHERE id = $7 AND deleted_at IS NULL
	`
	svc.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, query,
		svc.Name,
		svc.Description,
		svc.DefaultDurationMin,
		svc.BasePrice,
		svc.Active,
		svc.UpdatedAt,
		svc.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *catalogRepository) DeleteService(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE services SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	return err
}

func (r *catalogRepository) ListServices(ctx context.Context, activeOnly bool) ([]*model.Service, error) {
	query := `SELECT * FROM services WHERE deleted_at IS NULL`
	if activeOnly {
		query += ` AND is_active = true`
	}
	query += ` ORDER BY name`

	var services []*model.Service
	if err := r.db.SelectContext(ctx, &services, query); err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

func (r *catalogRepository) ListServicesForGarmentType(ctx context.Context, garmentTypeID uuid.UUID) ([]*model.Service, error) {
	query := `
		SELECT s.* FROM services s
		JOIN garment_type_services gts ON gts.service_id = s.id
		WHERE gts.garment_type_id = $1 AND s.deleted_at IS NULL AND s.is_active = true
		ORDER BY s.name
	`
	var services []*model.Service
	if err := r.db.SelectContext(ctx, &services, query, garmentTypeID); err != nil {
		return nil, fmt.Errorf("failed to list services for garment type: %w", err)
	}
	return services, nil
}

func (r *catalogRepository) ReplaceServiceGarmentTypes(ctx context.Context, serviceID uuid.UUID, garmentTypeIDs []uuid.UUID) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM garment_type_services WHERE service_id = $1`, serviceID); err != nil {
			return fmt.Errorf("failed to clear garment type links: %w", err)
		}
		for _, gtID := range garmentTypeIDs {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO garment_type_services (garment_type_id, service_id) VALUES ($1, $2)`,
				gtID, serviceID,
			)
			if err != nil {
				return fmt.Errorf("failed to link garment type %s: %w", gtID, err)
			}
		}
		return nil
	})
}

func (r *catalogRepository) GarmentTypeIDsForService(ctx context.Context, serviceID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT garment_type_id FROM garment_type_services WHERE service_id = $1`
	var ids []uuid.UUID
	if err := r.db.SelectContext(ctx, &ids, query, serviceID); err != nil {
		return nil, fmt.Errorf("failed to list garment types for service: %w", err)
	}
	return ids, nil
}
