package pricelist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hiloazul/tailor-api/internal/model"
	"github.com/hiloazul/tailor-api/internal/pricing"
	"github.com/hiloazul/tailor-api/internal/repository"
	"github.com/hiloazul/tailor-api/internal/service/event"
)

type PriceListService interface {
	Create(ctx context.Context, req *model.CreatePriceListRequest) (*model.PriceList, error)
	Get(ctx context.Context, id uuid.UUID) (*model.PriceList, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdatePriceListRequest) (*model.PriceList, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*model.PriceList, error)
	CalculatePrice(ctx context.Context, req *model.CalculatePriceRequest) (*model.CalculatePriceResponse, error)
	PreviewBulkAdjust(ctx context.Context, req *model.BulkAdjustRequest) ([]model.BulkAdjustPreviewItem, error)
	ApplyBulkAdjust(ctx context.Context, req *model.BulkAdjustRequest) ([]model.BulkAdjustPreviewItem, error)
}

type Service struct {
	repo        repository.PriceListRepository
	catalogRepo repository.CatalogRepository
	engine      *pricing.Engine
	events      *event.Service
}

func NewService(repo repository.PriceListRepository, catalogRepo repository.CatalogRepository, engine *pricing.Engine, events *event.Service) *Service {
	return &Service{
		repo:        repo,
		catalogRepo: catalogRepo,
		engine:      engine,
		events:      events,
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreatePriceListRequest) (*model.PriceList, error) {
	if err := validateWindow(req.ValidFrom, req.ValidTo); err != nil {
		return nil, err
	}
	items, err := s.buildItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	list := &model.PriceList{
		Name:      req.Name,
		Priority:  req.Priority,
		ValidFrom: req.ValidFrom,
		ValidTo:   req.ValidTo,
		Active:    req.Active,
		Items:     items,
	}
	if err := s.repo.Create(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to create price list: %w", err)
	}
	s.emitChanged(ctx, list.ID, "created")
	return list, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.PriceList, error) {
	return s.repo.Get(ctx, id)
}

// Update replaces the list header and its full item set, matching the
// admin screen submission.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePriceListRequest) (*model.PriceList, error) {
	if err := validateWindow(req.ValidFrom, req.ValidTo); err != nil {
		return nil, err
	}
	list, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := s.buildItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	list.Name = req.Name
	list.Priority = req.Priority
	list.ValidFrom = req.ValidFrom
	list.ValidTo = req.ValidTo
	list.Active = req.Active

	if err := s.repo.Update(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to update price list: %w", err)
	}
	if err := s.repo.ReplaceItems(ctx, id, items); err != nil {
		return nil, fmt.Errorf("failed to replace price list items: %w", err)
	}
	list.Items = items

	s.emitChanged(ctx, id, "updated")
	return list, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete price list: %w", err)
	}
	s.emitChanged(ctx, id, "deleted")
	return nil
}

func (s *Service) List(ctx context.Context) ([]*model.PriceList, error) {
	return s.repo.List(ctx)
}

// CalculatePrice resolves the effective price for a service at a given
// instant, defaulting to now. Existing order items are never touched;
// this is a lookup for the intake screen.
func (s *Service) CalculatePrice(ctx context.Context, req *model.CalculatePriceRequest) (*model.CalculatePriceResponse, error) {
	at := time.Now()
	if req.At != nil {
		at = *req.At
	}

	svc, err := s.catalogRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load service: %w", err)
	}

	lists, err := s.repo.ListEffectiveAt(ctx, at)
	if err != nil {
		return nil, fmt.Errorf("failed to load price lists: %w", err)
	}

	res, err := s.engine.ResolveEffectivePrice(svc, deref(lists), at)
	if err != nil {
		return nil, err
	}
	return &model.CalculatePriceResponse{
		ServiceID:   svc.ID,
		FinalPrice:  res.Price,
		Source:      res.Source,
		PriceListID: res.PriceListID,
	}, nil
}

// PreviewBulkAdjust computes the outcome of shifting every item of a
// list by a delta without persisting anything.
func (s *Service) PreviewBulkAdjust(ctx context.Context, req *model.BulkAdjustRequest) ([]model.BulkAdjustPreviewItem, error) {
	list, err := s.repo.Get(ctx, req.PriceListID)
	if err != nil {
		return nil, err
	}

	prices := make([]pricing.ServicePrice, 0, len(list.Items))
	for _, item := range list.Items {
		prices = append(prices, pricing.ServicePrice{ServiceID: item.ServiceID, Price: item.Price})
	}
	return s.engine.BulkAdjust(prices, req.Delta), nil
}

func (s *Service) ApplyBulkAdjust(ctx context.Context, req *model.BulkAdjustRequest) ([]model.BulkAdjustPreviewItem, error) {
	preview, err := s.PreviewBulkAdjust(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AdjustItemPrices(ctx, req.PriceListID, preview); err != nil {
		return nil, fmt.Errorf("failed to apply bulk adjustment: %w", err)
	}
	s.emitChanged(ctx, req.PriceListID, "bulk_adjusted")
	return preview, nil
}

func (s *Service) buildItems(ctx context.Context, reqs []model.PriceListItemRequest) ([]model.PriceListItem, error) {
	items := make([]model.PriceListItem, 0, len(reqs))
	seen := make(map[uuid.UUID]bool, len(reqs))
	for _, r := range reqs {
		if seen[r.ServiceID] {
			return nil, fmt.Errorf("duplicate override for service %s", r.ServiceID)
		}
		seen[r.ServiceID] = true
		if r.Price.IsNegative() {
			return nil, fmt.Errorf("override price for service %s cannot be negative", r.ServiceID)
		}
		if _, err := s.catalogRepo.GetService(ctx, r.ServiceID); err != nil {
			return nil, fmt.Errorf("unknown service %s: %w", r.ServiceID, err)
		}
		items = append(items, model.PriceListItem{ServiceID: r.ServiceID, Price: r.Price})
	}
	return items, nil
}

func (s *Service) emitChanged(ctx context.Context, listID uuid.UUID, action string) {
	if s.events == nil {
		return
	}
	payload := map[string]interface{}{"price_list_id": listID, "action": action}
	if err := s.events.Emit(ctx, model.EventPriceListChanged, payload); err != nil {
		log.Error().Err(err).Str("price_list_id", listID.String()).Str("action", action).Msg("failed to record price list event")
	}
}

func validateWindow(from time.Time, to *time.Time) error {
	if to != nil && to.Before(from) {
		return fmt.Errorf("valid_to cannot precede valid_from")
	}
	return nil
}

func deref(lists []*model.PriceList) []model.PriceList {
	out := make([]model.PriceList, 0, len(lists))
	for _, l := range lists {
		out = append(out, *l)
	}
	return out
}
