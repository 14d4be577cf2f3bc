package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/hiloazul/tailor-api/internal/model"
	"github.com/hiloazul/tailor-api/internal/repository"
)

const (
	cacheKeyServices     = "services:active"
	cacheKeyGarmentTypes = "garment_types:active"
	cacheTTL             = 5 * time.Minute
)

type CatalogService interface {
	CreateGarmentType(ctx context.Context, req *model.CreateGarmentTypeRequest) (*model.GarmentType, error)
	GetGarmentType(ctx context.Context, id uuid.UUID) (*model.GarmentType, error)
	UpdateGarmentType(ctx context.Context, id uuid.UUID, req *model.UpdateGarmentTypeRequest) (*model.GarmentType, error)
	DeleteGarmentType(ctx context.Context, id uuid.UUID) error
	ListGarmentTypes(ctx context.Context, activeOnly bool) ([]*model.GarmentType, error)

	CreateService(ctx context.Context, req *model.CreateServiceRequest) (*model.Service, error)
	GetService(ctx context.Context, id uuid.UUID) (*model.Service, error)
	UpdateService(ctx context.Context, id uuid.UUID, req *model.UpdateServiceRequest) (*model.Service, error)
	DeleteService(ctx context.Context, id uuid.UUID) error
	ListServices(ctx context.Context, activeOnly bool) ([]*model.Service, error)
	ListServicesForGarmentType(ctx context.Context, garmentTypeID uuid.UUID) ([]*model.Service, error)
}

// Service fronts the catalog repository with a short read cache. The
// catalog is read on every intake keystroke and changes rarely, so the
// cache is invalidated wholesale on any write.
type Service struct {
	repo  repository.CatalogRepository
	cache *cache.Cache
}

func NewService(repo repository.CatalogRepository) *Service {
	return &Service{
		repo:  repo,
		cache: cache.New(cacheTTL, 10*time.Minute),
	}
}

func (s *Service) CreateGarmentType(ctx context.Context, req *model.CreateGarmentTypeRequest) (*model.GarmentType, error) {
	gt := &model.GarmentType{
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
	}
	if err := s.repo.CreateGarmentType(ctx, gt); err != nil {
		return nil, fmt.Errorf("failed to create garment type: %w", err)
	}
	s.invalidate()
	return gt, nil
}

func (s *Service) GetGarmentType(ctx context.Context, id uuid.UUID) (*model.GarmentType, error) {
	return s.repo.GetGarmentType(ctx, id)
}

func (s *Service) UpdateGarmentType(ctx context.Context, id uuid.UUID, req *model.UpdateGarmentTypeRequest) (*model.GarmentType, error) {
	gt, err := s.repo.GetGarmentType(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		gt.Name = *req.Name
	}
	if req.Description != nil {
		gt.Description = *req.Description
	}
	if req.Active != nil {
		gt.Active = *req.Active
	}
	if err := s.repo.UpdateGarmentType(ctx, gt); err != nil {
		return nil, fmt.Errorf("failed to update garment type: %w", err)
	}
	s.invalidate()
	return gt, nil
}

func (s *Service) DeleteGarmentType(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteGarmentType(ctx, id); err != nil {
		return fmt.Errorf("failed to delete garment type: %w", err)
	}
	s.invalidate()
	return nil
}

func (s *Service) ListGarmentTypes(ctx context.Context, activeOnly bool) ([]*model.GarmentType, error) {
	if activeOnly {
		if cached, ok := s.cache.Get(cacheKeyGarmentTypes); ok {
			return cached.([]*model.GarmentType), nil
		}
	}
	types, err := s.repo.ListGarmentTypes(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	if activeOnly {
		s.cache.Set(cacheKeyGarmentTypes, types, cache.DefaultExpiration)
	}
	return types, nil
}

func (s *Service) CreateService(ctx context.Context, req *model.CreateServiceRequest) (*model.Service, error) {
	if req.BasePrice.IsNegative() {
		return nil, fmt.Errorf("base price cannot be negative")
	}
	svc := &model.Service{
		Name:               req.Name,
		Description:        req.Description,
		DefaultDurationMin: req.DefaultDurationMin,
		BasePrice:          req.BasePrice,
		Active:             true,
	}
	if err := s.repo.CreateService(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	if len(req.GarmentTypeIDs) > 0 {
		if err := s.repo.ReplaceServiceGarmentTypes(ctx, svc.ID, req.GarmentTypeIDs); err != nil {
			return nil, fmt.Errorf("failed to link garment types: %w", err)
		}
	}
	s.invalidate()
	return svc, nil
}

func (s *Service) GetService(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	return s.repo.GetService(ctx, id)
}

func (s *Service) UpdateService(ctx context.Context, id uuid.UUID, req *model.UpdateServiceRequest) (*model.Service, error) {
	svc, err := s.repo.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.DefaultDurationMin != nil {
		svc.DefaultDurationMin = *req.DefaultDurationMin
	}
	if req.BasePrice != nil {
		if req.BasePrice.IsNegative() {
			return nil, fmt.Errorf("base price cannot be negative")
		}
		svc.BasePrice = *req.BasePrice
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}
	if err := s.repo.UpdateService(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to update service: %w", err)
	}
	if req.GarmentTypeIDs != nil {
		if err := s.repo.ReplaceServiceGarmentTypes(ctx, svc.ID, req.GarmentTypeIDs); err != nil {
			return nil, fmt.Errorf("failed to relink garment types: %w", err)
		}
	}
	s.invalidate()
	return svc, nil
}

func (s *Service) DeleteService(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteService(ctx, id); err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	s.invalidate()
	return nil
}

func (s *Service) ListServices(ctx context.Context, activeOnly bool) ([]*model.Service, error) {
	if activeOnly {
		if cached, ok := s.cache.Get(cacheKeyServices); ok {
			return cached.([]*model.Service), nil
		}
	}
	services, err := s.repo.ListServices(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	if activeOnly {
		s.cache.Set(cacheKeyServices, services, cache.DefaultExpiration)
	}
	return services, nil
}

func (s *Service) ListServicesForGarmentType(ctx context.Context, garmentTypeID uuid.UUID) ([]*model.Service, error) {
	key := "services:garment:" + garmentTypeID.String()
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]*model.Service), nil
	}
	services, err := s.repo.ListServicesForGarmentType(ctx, garmentTypeID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, services, cache.DefaultExpiration)
	return services, nil
}

func (s *Service) invalidate() {
	s.cache.Flush()
}
