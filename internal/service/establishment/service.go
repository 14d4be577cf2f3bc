package establishment

import (
	"context"
	"errors"
	"fmt"

	"github.com/hiloazul/tailor-api/internal/model"
	"github.com/hiloazul/tailor-api/internal/repository"
	"github.com/hiloazul/tailor-api/internal/repository/postgres"
)

type EstablishmentService interface {
	Get(ctx context.Context) (*model.Establishment, error)
	Update(ctx context.Context, req *model.UpdateEstablishmentRequest) (*model.Establishment, error)
}

type Service struct {
	repo repository.EstablishmentRepository
}

func NewService(repo repository.EstablishmentRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context) (*model.Establishment, error) {
	return s.repo.Get(ctx)
}

// Update edits the single shop profile, creating it on first save. The
// tax document is stamped with the current schema version on write.
func (s *Service) Update(ctx context.Context, req *model.UpdateEstablishmentRequest) (*model.Establishment, error) {
	est, err := s.repo.Get(ctx)
	if err != nil {
		if !errors.Is(err, postgres.ErrNotFound) {
			return nil, err
		}
		est = &model.Establishment{}
	}

	est.Name = req.Name
	est.OwnerName = req.OwnerName
	est.ContactPhone = req.ContactPhone
	est.Address = req.Address
	est.TaxInfo = req.TaxInfo
	est.TaxInfo.Version = model.CurrentTaxInfoVersion

	if err := s.repo.Upsert(ctx, est); err != nil {
		return nil, fmt.Errorf("failed to save establishment: %w", err)
	}
	return est, nil
}
