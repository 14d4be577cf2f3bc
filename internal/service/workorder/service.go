package workorder

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hiloazul/tailor-api/internal/model"
	"github.com/hiloazul/tailor-api/internal/repository"
	"github.com/hiloazul/tailor-api/internal/service/event"
)

// stageOrder defines the workshop progression. Stages may be skipped
// forward (not every garment gets washed) but never moved back.
var stageOrder = map[model.WorkStage]int{
	model.WorkStageWaiting:  0,
	model.WorkStageWashing:  1,
	model.WorkStageIroning:  2,
	model.WorkStageFinished: 3,
}

type WorkOrderService interface {
	Get(ctx context.Context, id uuid.UUID) (*model.WorkOrder, error)
	GetBySalesOrder(ctx context.Context, salesOrderID uuid.UUID) (*model.WorkOrder, error)
	List(ctx context.Context, status model.WorkOrderStatus) ([]*model.WorkOrder, error)
	AdvanceItem(ctx context.Context, workOrderID, itemID uuid.UUID, stage model.WorkStage) (*model.WorkOrder, error)
}

type Service struct {
	repo      repository.WorkOrderRepository
	orderRepo repository.OrderRepository
	events    *event.Service
}

func NewService(repo repository.WorkOrderRepository, orderRepo repository.OrderRepository, events *event.Service) *Service {
	return &Service{
		repo:      repo,
		orderRepo: orderRepo,
		events:    events,
	}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.WorkOrder, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetBySalesOrder(ctx context.Context, salesOrderID uuid.UUID) (*model.WorkOrder, error) {
	return s.repo.GetBySalesOrder(ctx, salesOrderID)
}

func (s *Service) List(ctx context.Context, status model.WorkOrderStatus) ([]*model.WorkOrder, error) {
	return s.repo.List(ctx, status)
}

// AdvanceItem moves one garment to a later stage. When the last item
// reaches FINISHED the work order completes and the sales ticket is
// walked forward to READY.
func (s *Service) AdvanceItem(ctx context.Context, workOrderID, itemID uuid.UUID, stage model.WorkStage) (*model.WorkOrder, error) {
	wo, err := s.repo.Get(ctx, workOrderID)
	if err != nil {
		return nil, err
	}

	var item *model.WorkOrderItem
	for i := range wo.Items {
		if wo.Items[i].ID == itemID {
			item = &wo.Items[i]
			break
		}
	}
	if item == nil {
		return nil, fmt.Errorf("work item %s not found on work order %s", itemID, workOrderID)
	}

	if stageOrder[stage] <= stageOrder[item.CurrentStage] {
		return nil, fmt.Errorf("cannot move item from %s back to %s", item.CurrentStage, stage)
	}

	if err := s.repo.UpdateItemStage(ctx, itemID, stage); err != nil {
		return nil, err
	}
	item.CurrentStage = stage

	if wo.Status == model.WorkOrderStatusPending {
		if err := s.repo.UpdateStatus(ctx, workOrderID, model.WorkOrderStatusInProgress); err != nil {
			return nil, err
		}
		wo.Status = model.WorkOrderStatusInProgress
	}

	if allFinished(wo.Items) {
		if err := s.repo.UpdateStatus(ctx, workOrderID, model.WorkOrderStatusCompleted); err != nil {
			return nil, err
		}
		wo.Status = model.WorkOrderStatusCompleted
		if err := s.markSalesOrderReady(ctx, wo.SalesOrderID); err != nil {
			return nil, err
		}
	}

	return wo, nil
}

func allFinished(items []model.WorkOrderItem) bool {
	for _, item := range items {
		if item.CurrentStage != model.WorkStageFinished {
			return false
		}
	}
	return len(items) > 0
}

// markSalesOrderReady steps the ticket through its linear workflow until
// READY. A cancelled or delivered ticket is left alone.
func (s *Service) markSalesOrderReady(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orderRepo.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status.Terminal() || order.Status == model.OrderStatusReady {
		return nil
	}

	steps := []model.OrderStatus{
		model.OrderStatusReceived,
		model.OrderStatusInProgress,
		model.OrderStatusReady,
	}
	for _, next := range steps {
		if !order.Status.CanTransitionTo(next) {
			continue
		}
		if err := s.orderRepo.UpdateStatus(ctx, orderID, next, nil); err != nil {
			return fmt.Errorf("failed to advance sales order: %w", err)
		}
		order.Status = next
		if s.events != nil {
			if err := s.events.Emit(ctx, model.EventOrderStatusChanged, order); err != nil {
				log.Error().Err(err).Str("ticket", order.TicketNumber).Str("status", string(next)).Msg("failed to record order status event")
			}
		}
		if next == model.OrderStatusReady {
			break
		}
	}
	return nil
}
