package draft

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hiloazul/tailor-api/internal/model"
	"github.com/hiloazul/tailor-api/internal/repository"
	apperrors "github.com/hiloazul/tailor-api/pkg/errors"
)

// RetentionPeriod is how long an untouched draft survives before the
// cleanup job purges it.
const RetentionPeriod = 30 * 24 * time.Hour

type DraftService interface {
	Save(ctx context.Context, ownerID uuid.UUID, id *uuid.UUID, req *model.SaveDraftRequest) (*model.DraftOrder, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (*model.DraftOrder, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]*model.DraftOrder, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	PurgeStale(ctx context.Context) (int64, error)
}

type Service struct {
	repo repository.DraftRepository
}

func NewService(repo repository.DraftRepository) *Service {
	return &Service{repo: repo}
}

// Save creates a draft on first call and overwrites it on every
// subsequent autosave. Ownership is checked on overwrite so one counter
// terminal cannot clobber another operator's wizard.
func (s *Service) Save(ctx context.Context, ownerID uuid.UUID, id *uuid.UUID, req *model.SaveDraftRequest) (*model.DraftOrder, error) {
	draft := &model.DraftOrder{
		OwnerID:     ownerID,
		CurrentStep: req.CurrentStep,
		Payload:     req.Payload,
	}
	if id != nil {
		existing, err := s.repo.Get(ctx, *id)
		if err != nil {
			return nil, err
		}
		if existing.OwnerID != ownerID {
			return nil, apperrors.Forbidden(fmt.Sprintf("draft %s belongs to another user", *id), nil)
		}
		draft.ID = *id
		draft.CreatedAt = existing.CreatedAt
	}

	if err := s.repo.Save(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}
	return draft, nil
}

func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (*model.DraftOrder, error) {
	draft, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if draft.OwnerID != ownerID {
		return nil, apperrors.Forbidden(fmt.Sprintf("draft %s belongs to another user", id), nil)
	}
	return draft, nil
}

func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]*model.DraftOrder, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	draft, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if draft.OwnerID != ownerID {
		return apperrors.Forbidden(fmt.Sprintf("draft %s belongs to another user", id), nil)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) PurgeStale(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-RetentionPeriod)
	return s.repo.DeleteModifiedBefore(ctx, cutoff)
}
