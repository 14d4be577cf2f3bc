package workorder

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiloazul/tailor-api/internal/model"
	"github.com/hiloazul/tailor-api/internal/repository"
)

type fakeWorkOrderRepo struct {
	repository.WorkOrderRepository
	wo *model.WorkOrder
}

func (r *fakeWorkOrderRepo) Get(_ context.Context, id uuid.UUID) (*model.WorkOrder, error) {
	if r.wo == nil || r.wo.ID != id {
		return nil, fmt.Errorf("work order %s not found", id)
	}
	cp := *r.wo
	cp.Items = append([]model.WorkOrderItem(nil), r.wo.Items...)
	return &cp, nil
}

func (r *fakeWorkOrderRepo) UpdateItemStage(_ context.Context, itemID uuid.UUID, stage model.WorkStage) error {
	for i := range r.wo.Items {
		if r.wo.Items[i].ID == itemID {
			r.wo.Items[i].CurrentStage = stage
			return nil
		}
	}
	return fmt.Errorf("item %s not found", itemID)
}

func (r *fakeWorkOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.WorkOrderStatus) error {
	r.wo.Status = status
	return nil
}

type fakeOrderRepo struct {
	repository.OrderRepository
	order    *model.Order
	statuses []model.OrderStatus
}

func (r *fakeOrderRepo) Get(_ context.Context, id uuid.UUID) (*model.Order, error) {
	cp := *r.order
	return &cp, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.OrderStatus, _ *string) error {
	r.order.Status = status
	r.statuses = append(r.statuses, status)
	return nil
}

func setup(stages ...model.WorkStage) (*Service, *fakeWorkOrderRepo, *fakeOrderRepo) {
	order := &model.Order{Status: model.OrderStatusInProgress}
	order.ID = uuid.New()

	wo := &model.WorkOrder{SalesOrderID: order.ID, Status: model.WorkOrderStatusPending}
	wo.ID = uuid.New()
	for i, stage := range stages {
		wo.Items = append(wo.Items, model.WorkOrderItem{
			ID:           uuid.New(),
			WorkOrderID:  wo.ID,
			ServiceName:  fmt.Sprintf("Service %d", i+1),
			CurrentStage: stage,
		})
	}

	woRepo := &fakeWorkOrderRepo{wo: wo}
	orderRepo := &fakeOrderRepo{order: order}
	return NewService(woRepo, orderRepo, nil), woRepo, orderRepo
}

func TestAdvanceItemForward(t *testing.T) {
	svc, repo, _ := setup(model.WorkStageWaiting, model.WorkStageWaiting)
	itemID := repo.wo.Items[0].ID

	wo, err := svc.AdvanceItem(context.Background(), repo.wo.ID, itemID, model.WorkStageWashing)
	require.NoError(t, err)
	assert.Equal(t, model.WorkStageWashing, wo.Items[0].CurrentStage)
	assert.Equal(t, model.WorkOrderStatusInProgress, wo.Status)
}

func TestAdvanceItemSkippingStages(t *testing.T) {
	svc, repo, _ := setup(model.WorkStageWaiting)

	// Not every garment gets washed; jumping straight to ironing is fine.
	wo, err := svc.AdvanceItem(context.Background(), repo.wo.ID, repo.wo.Items[0].ID, model.WorkStageIroning)
	require.NoError(t, err)
	assert.Equal(t, model.WorkStageIroning, wo.Items[0].CurrentStage)
}

func TestAdvanceItemRejectsBackwardMove(t *testing.T) {
	svc, repo, _ := setup(model.WorkStageIroning)

	_, err := svc.AdvanceItem(context.Background(), repo.wo.ID, repo.wo.Items[0].ID, model.WorkStageWashing)
	assert.ErrorContains(t, err, "back")

	_, err = svc.AdvanceItem(context.Background(), repo.wo.ID, repo.wo.Items[0].ID, model.WorkStageIroning)
	assert.Error(t, err)
}

func TestAdvanceItemUnknownItem(t *testing.T) {
	svc, repo, _ := setup(model.WorkStageWaiting)

	_, err := svc.AdvanceItem(context.Background(), repo.wo.ID, uuid.New(), model.WorkStageWashing)
	assert.ErrorContains(t, err, "not found")
}

func TestCompletingLastItemMarksOrderReady(t *testing.T) {
	svc, repo, orderRepo := setup(model.WorkStageFinished, model.WorkStageIroning)
	lastItem := repo.wo.Items[1].ID

	wo, err := svc.AdvanceItem(context.Background(), repo.wo.ID, lastItem, model.WorkStageFinished)
	require.NoError(t, err)

	assert.Equal(t, model.WorkOrderStatusCompleted, wo.Status)
	assert.Equal(t, model.OrderStatusReady, orderRepo.order.Status)
	assert.Equal(t, []model.OrderStatus{model.OrderStatusReady}, orderRepo.statuses)
}

func TestCompletionWalksLaggingOrderForward(t *testing.T) {
	svc, repo, orderRepo := setup(model.WorkStageIroning)
	orderRepo.order.Status = model.OrderStatusReceived

	_, err := svc.AdvanceItem(context.Background(), repo.wo.ID, repo.wo.Items[0].ID, model.WorkStageFinished)
	require.NoError(t, err)

	// A sales order that fell behind walks its linear workflow, never jumping.
	assert.Equal(t, []model.OrderStatus{
		model.OrderStatusInProgress,
		model.OrderStatusReady,
	}, orderRepo.statuses)
}

func TestCompletionLeavesCancelledOrderAlone(t *testing.T) {
	svc, repo, orderRepo := setup(model.WorkStageIroning)
	orderRepo.order.Status = model.OrderStatusCancelled

	wo, err := svc.AdvanceItem(context.Background(), repo.wo.ID, repo.wo.Items[0].ID, model.WorkStageFinished)
	require.NoError(t, err)

	assert.Equal(t, model.WorkOrderStatusCompleted, wo.Status)
	assert.Empty(t, orderRepo.statuses)
}
