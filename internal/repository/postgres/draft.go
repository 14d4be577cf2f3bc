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

type draftRepository struct {
	db *sqlx.DB
}

func NewDraftRepository(db *sqlx.DB) repository.DraftRepository {
	return &draftRepository{db: db}
}

// Save upserts: the client keeps posting the same draft id while the
// operator walks through the wizard.
func (r *draftRepository) Save(ctx context.Context, draft *model.DraftOrder) error {
	query := `
		INSERT INTO order_drafts (id, owner_id, current_step, payload, last_modified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET current_step = EXCLUDED.current_step,
		    payload = EXCLUDED.payload,
		    last_modified = EXCLUDED.last_modified
	`
	if draft.ID == uuid.Nil {
		draft.ID = uuid.New()
	}
	draft.LastModified = time.Now()
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = draft.LastModified
	}

	_, err := r.db.ExecContext(ctx, query,
		draft.ID,
		draft.OwnerID,
		draft.CurrentStep,
		draft.Payload,
		draft.LastModified,
		draft.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

func (r *draftRepository) Get(ctx context.Context, id uuid.UUID) (*model.DraftOrder, error) {
	query := `SELECT * FROM order_drafts WHERE id = $1`
	var draft model.DraftOrder
	if err := r.db.GetContext(ctx, &draft, query, id); err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", mapNotFound(err))
	}
	return &draft, nil
}

func (r *draftRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.DraftOrder, error) {
	query := `SELECT * FROM order_drafts WHERE owner_id = $1 ORDER BY last_modified DESC`
	var drafts []*model.DraftOrder
	if err := r.db.SelectContext(ctx, &drafts, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	return drafts, nil
}

func (r *draftRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM order_drafts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *draftRepository) DeleteModifiedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM order_drafts WHERE last_modified < $1`
	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge stale drafts: %w", err)
	}
	return result.RowsAffected()
}
