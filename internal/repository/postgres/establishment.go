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

type establishmentRepository struct {
	db *sqlx.DB
}

func NewEstablishmentRepository(db *sqlx.DB) repository.EstablishmentRepository {
	return &establishmentRepository{db: db}
}

// Get returns the single shop profile. The table holds one active row.
func (r *establishmentRepository) Get(ctx context.Context) (*model.Establishment, error) {
	query := `SELECT * FROM establishments WHERE is_active = true ORDER BY created_at LIMIT 1`
	var est model.Establishment
	if err := r.db.GetContext(ctx, &est, query); err != nil {
		return nil, fmt.Errorf("failed to get establishment: %w", mapNotFound(err))
	}
	return &est, nil
}

func (r *establishmentRepository) Upsert(ctx context.Context, est *model.Establishment) error {
	if est.ID == uuid.Nil {
		est.ID = uuid.New()
		est.CreatedAt = time.Now()
	}
	est.UpdatedAt = time.Now()
	est.Active = true

	query := `
		INSERT INTO establishments (id, name, owner_name, contact_phone, address, tax_info, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    owner_name = EXCLUDED.owner_name,
		    contact_phone = EXCLUDED.contact_phone,
		    address = EXCLUDED.address,
		    tax_info = EXCLUDED.tax_info,
		    updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		est.ID,
		est.Name,
		est.OwnerName,
		est.ContactPhone,
		est.Address,
		est.TaxInfo,
		est.Active,
		est.CreatedAt,
		est.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert establishment: %w", err)
	}
	return nil
}
