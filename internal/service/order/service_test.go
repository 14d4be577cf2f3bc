package order

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiloazul/tailor-api/internal/model"
	"github.com/hiloazul/tailor-api/internal/pricing"
	"github.com/hiloazul/tailor-api/internal/repository"
	"github.com/hiloazul/tailor-api/internal/repository/postgres"
	"github.com/hiloazul/tailor-api/internal/service/customer"
	"github.com/hiloazul/tailor-api/internal/service/event"
)

type fakeOrderRepo struct {
	repository.OrderRepository
	orders     map[uuid.UUID]*model.Order
	nextTicket int
	statuses   []model.OrderStatus
	createdEvt *model.OutboxEvent
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*model.Order), nextTicket: 1}
}

func (r *fakeOrderRepo) Create(_ context.Context, order *model.Order, evt *model.OutboxEvent) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	r.createdEvt = evt
	for i := range order.Items {
		order.Items[i].ID = uuid.New()
		order.Items[i].OrderID = order.ID
	}
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) Get(_ context.Context, id uuid.UUID) (*model.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s not found", id)
	}
	cp := *order
	return &cp, nil
}

func (r *fakeOrderRepo) Update(_ context.Context, order *model.Order) error {
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) ReplaceItems(_ context.Context, orderID uuid.UUID, items []model.OrderItem) error {
	r.orders[orderID].Items = items
	return nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.OrderStatus, cancelReason *string) error {
	r.orders[id].Status = status
	r.orders[id].CancelReason = cancelReason
	r.statuses = append(r.statuses, status)
	return nil
}

func (r *fakeOrderRepo) RecordPayment(_ context.Context, id uuid.UUID, amountPaid decimal.Decimal, method model.PaymentMethod) error {
	r.orders[id].AmountPaid = amountPaid
	r.orders[id].PaymentMethod = method
	return nil
}

func (r *fakeOrderRepo) NextTicketNumber(_ context.Context) (string, error) {
	n := r.nextTicket
	r.nextTicket++
	return fmt.Sprintf("ORD-%04d", n), nil
}

type fakeCustomerService struct {
	customer.CustomerService
	known *model.Customer
}

func (s *fakeCustomerService) FindOrCreate(_ context.Context, req *model.CreateCustomerRequest) (*model.Customer, error) {
	if s.known != nil {
		return s.known, nil
	}
	c := &model.Customer{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	}
	c.ID = uuid.New()
	return c, nil
}

func (s *fakeCustomerService) Get(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	if s.known != nil && s.known.ID == id {
		return s.known, nil
	}
	return nil, fmt.Errorf("customer %s not found", id)
}

type fakeCatalogRepo struct {
	repository.CatalogRepository
	garments map[uuid.UUID]*model.GarmentType
	services map[uuid.UUID]*model.Service
	links    map[uuid.UUID][]uuid.UUID
}

func (r *fakeCatalogRepo) GetGarmentType(_ context.Context, id uuid.UUID) (*model.GarmentType, error) {
	gt, ok := r.garments[id]
	if !ok {
		return nil, fmt.Errorf("garment type %s not found", id)
	}
	return gt, nil
}

func (r *fakeCatalogRepo) GetService(_ context.Context, id uuid.UUID) (*model.Service, error) {
	svc, ok := r.services[id]
	if !ok {
		return nil, fmt.Errorf("service %s not found", id)
	}
	return svc, nil
}

func (r *fakeCatalogRepo) GarmentTypeIDsForService(_ context.Context, serviceID uuid.UUID) ([]uuid.UUID, error) {
	return r.links[serviceID], nil
}

type fakePriceListRepo struct {
	repository.PriceListRepository
	lists []*model.PriceList
}

func (r *fakePriceListRepo) ListEffectiveAt(_ context.Context, _ time.Time) ([]*model.PriceList, error) {
	return r.lists, nil
}

type fakeWorkOrderRepo struct {
	repository.WorkOrderRepository
	created *model.WorkOrder
}

func (r *fakeWorkOrderRepo) Create(_ context.Context, wo *model.WorkOrder) error {
	wo.ID = uuid.New()
	r.created = wo
	return nil
}

func (r *fakeWorkOrderRepo) GetBySalesOrder(_ context.Context, salesOrderID uuid.UUID) (*model.WorkOrder, error) {
	if r.created == nil || r.created.SalesOrderID != salesOrderID {
		return nil, fmt.Errorf("load work order: %w", postgres.ErrNotFound)
	}
	return r.created, nil
}

func (r *fakeWorkOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.WorkOrderStatus) error {
	if r.created == nil || r.created.ID != id {
		return fmt.Errorf("work order %s not found", id)
	}
	r.created.Status = status
	return nil
}

type fakeOutboxRepo struct {
	repository.OutboxRepository
	created []*model.OutboxEvent
}

func (r *fakeOutboxRepo) Create(_ context.Context, evt *model.OutboxEvent) error {
	evt.ID = uuid.New()
	r.created = append(r.created, evt)
	return nil
}

type fakeEstablishmentRepo struct {
	repository.EstablishmentRepository
	est *model.Establishment
}

func (r *fakeEstablishmentRepo) Get(_ context.Context) (*model.Establishment, error) {
	if r.est == nil {
		return nil, fmt.Errorf("not configured")
	}
	return r.est, nil
}

type alwaysOpen struct{}

func (alwaysOpen) IsOpen(context.Context, time.Time) (bool, error) { return true, nil }

type alwaysClosed struct{}

func (alwaysClosed) IsOpen(context.Context, time.Time) (bool, error) { return false, nil }

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type fixture struct {
	svc       *Service
	orderRepo *fakeOrderRepo
	workRepo  *fakeWorkOrderRepo
	estRepo   *fakeEstablishmentRepo
	garmentID uuid.UUID
	serviceID uuid.UUID
}

func newFixture(t *testing.T, lists ...*model.PriceList) *fixture {
	t.Helper()

	garment := &model.GarmentType{Name: "Suit Jacket", Active: true}
	garment.ID = uuid.New()
	hemming := &model.Service{Name: "Hemming", BasePrice: dec("120.00"), Active: true}
	hemming.ID = uuid.New()

	catalog := &fakeCatalogRepo{
		garments: map[uuid.UUID]*model.GarmentType{garment.ID: garment},
		services: map[uuid.UUID]*model.Service{hemming.ID: hemming},
		links:    map[uuid.UUID][]uuid.UUID{},
	}
	orderRepo := newFakeOrderRepo()
	workRepo := &fakeWorkOrderRepo{}
	estRepo := &fakeEstablishmentRepo{}

	svc := NewService(
		orderRepo,
		&fakeCustomerService{},
		catalog,
		&fakePriceListRepo{lists: lists},
		workRepo,
		estRepo,
		alwaysOpen{},
		pricing.NewEngine(),
		nil,
	)

	return &fixture{
		svc:       svc,
		orderRepo: orderRepo,
		workRepo:  workRepo,
		estRepo:   estRepo,
		garmentID: garment.ID,
		serviceID: hemming.ID,
	}
}

func createRequest(f *fixture, items ...model.OrderItemRequest) *model.CreateOrderRequest {
	if len(items) == 0 {
		items = []model.OrderItemRequest{{GarmentTypeID: f.garmentID, ServiceID: f.serviceID}}
	}
	return &model.CreateOrderRequest{
		Customer: model.CreateCustomerRequest{
			FirstName: "Marta",
			LastName:  "Reyes",
			Email:     "marta@example.com",
			Phone:     "555-0101",
		},
		Items:             items,
		CommittedDeadline: time.Now().Add(72 * time.Hour),
	}
}

func TestCreateOrder(t *testing.T) {
	f := newFixture(t)

	order, err := f.svc.Create(context.Background(), createRequest(f), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, "ORD-0001", order.TicketNumber)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(dec("120.00")), "total %s", order.TotalAmount)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Hemming", order.Items[0].ServiceName)
	assert.Equal(t, "Suit Jacket", order.Items[0].GarmentName)
	assert.True(t, order.Items[0].UnitPrice.Equal(dec("120.00")))

	// The workshop queue opens only once work starts, not at intake.
	assert.Nil(t, f.workRepo.created)
}

func TestCreateOrderPersistsEventWithOrder(t *testing.T) {
	f := newFixture(t)
	f.svc.events = event.NewService(&fakeOutboxRepo{}, nil)

	order, err := f.svc.Create(context.Background(), createRequest(f), uuid.New())
	require.NoError(t, err)

	require.NotNil(t, f.orderRepo.createdEvt)
	assert.Equal(t, model.EventOrderCreated, f.orderRepo.createdEvt.EventType)
	assert.Contains(t, string(f.orderRepo.createdEvt.Payload), order.TicketNumber)
}

func TestWorkOrderFollowsOrderLifecycle(t *testing.T) {
	f := newFixture(t)
	order, err := f.svc.Create(context.Background(), createRequest(f), uuid.New())
	require.NoError(t, err)

	_, err = f.svc.Transition(context.Background(), order.ID, &model.TransitionOrderRequest{Status: model.OrderStatusReceived})
	require.NoError(t, err)
	assert.Nil(t, f.workRepo.created)

	_, err = f.svc.Transition(context.Background(), order.ID, &model.TransitionOrderRequest{Status: model.OrderStatusInProgress})
	require.NoError(t, err)
	require.NotNil(t, f.workRepo.created)
	assert.Equal(t, order.ID, f.workRepo.created.SalesOrderID)
	require.Len(t, f.workRepo.created.Items, 1)
	assert.Equal(t, model.WorkStageWaiting, f.workRepo.created.Items[0].CurrentStage)

	_, err = f.svc.Transition(context.Background(), order.ID, &model.TransitionOrderRequest{
		Status:       model.OrderStatusCancelled,
		CancelReason: "garment damaged beyond repair",
	})
	require.NoError(t, err)
	assert.Equal(t, model.WorkOrderStatusCancelled, f.workRepo.created.Status)
}

func TestCreateOrderUsesEffectivePriceList(t *testing.T) {
	now := time.Now()
	f := newFixture(t)
	list := &model.PriceList{
		Name:      "Winter Promo",
		Priority:  5,
		ValidFrom: now.Add(-time.Hour),
		Active:    true,
	}
	list.ID = uuid.New()
	f.svc.priceListRepo = &fakePriceListRepo{lists: []*model.PriceList{list}}
	list.Items = []model.PriceListItem{{PriceListID: list.ID, ServiceID: f.serviceID, Price: dec("95.50")}}

	order, err := f.svc.Create(context.Background(), createRequest(f), uuid.New())
	require.NoError(t, err)
	assert.True(t, order.TotalAmount.Equal(dec("95.50")), "total %s", order.TotalAmount)
}

func TestCreateOrderRejectsPastDeadline(t *testing.T) {
	f := newFixture(t)
	req := createRequest(f)
	req.CommittedDeadline = time.Now().Add(-time.Hour)

	_, err := f.svc.Create(context.Background(), req, uuid.New())
	assert.ErrorContains(t, err, "deadline")
}

func TestCreateOrderRejectsDeadlineOutsideOpeningHours(t *testing.T) {
	f := newFixture(t)
	f.svc.hours = alwaysClosed{}
	req := createRequest(f)

	_, err := f.svc.Create(context.Background(), req, uuid.New())
	assert.ErrorContains(t, err, "opening hours")
}

func TestCreateOrderAdjustmentRequiresReason(t *testing.T) {
	f := newFixture(t)
	adj := dec("-10.00")
	req := createRequest(f, model.OrderItemRequest{
		GarmentTypeID:    f.garmentID,
		ServiceID:        f.serviceID,
		AdjustmentAmount: &adj,
	})

	_, err := f.svc.Create(context.Background(), req, uuid.New())
	assert.ErrorContains(t, err, "reason")
}

func TestCreateOrderAdvanceRequiresMethod(t *testing.T) {
	f := newFixture(t)
	paid := dec("50.00")
	req := createRequest(f)
	req.AmountPaid = &paid

	_, err := f.svc.Create(context.Background(), req, uuid.New())
	assert.ErrorContains(t, err, "payment method")
}

func TestCreateOrderRespectsGarmentServiceLinks(t *testing.T) {
	f := newFixture(t)
	catalog := f.svc.catalogRepo.(*fakeCatalogRepo)
	// Link the service exclusively to some other garment type.
	catalog.links[f.serviceID] = []uuid.UUID{uuid.New()}

	_, err := f.svc.Create(context.Background(), createRequest(f), uuid.New())
	assert.ErrorContains(t, err, "not available")
}

func TestTransition(t *testing.T) {
	f := newFixture(t)
	order, err := f.svc.Create(context.Background(), createRequest(f), uuid.New())
	require.NoError(t, err)

	t.Run("linear step", func(t *testing.T) {
		updated, err := f.svc.Transition(context.Background(), order.ID, &model.TransitionOrderRequest{Status: model.OrderStatusReceived})
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusReceived, updated.Status)
	})

	t.Run("skipping is rejected", func(t *testing.T) {
		_, err := f.svc.Transition(context.Background(), order.ID, &model.TransitionOrderRequest{Status: model.OrderStatusReady})
		assert.ErrorContains(t, err, "cannot transition")
	})

	t.Run("cancel requires a reason", func(t *testing.T) {
		_, err := f.svc.Transition(context.Background(), order.ID, &model.TransitionOrderRequest{Status: model.OrderStatusCancelled})
		assert.ErrorContains(t, err, "reason")
	})

	t.Run("cancel with reason", func(t *testing.T) {
		updated, err := f.svc.Transition(context.Background(), order.ID, &model.TransitionOrderRequest{
			Status:       model.OrderStatusCancelled,
			CancelReason: "customer changed their mind",
		})
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusCancelled, updated.Status)
	})

	t.Run("terminal orders are frozen", func(t *testing.T) {
		_, err := f.svc.Transition(context.Background(), order.ID, &model.TransitionOrderRequest{Status: model.OrderStatusReceived})
		assert.ErrorContains(t, err, "cannot transition")
	})
}

func TestRecordPayment(t *testing.T) {
	f := newFixture(t)
	order, err := f.svc.Create(context.Background(), createRequest(f), uuid.New())
	require.NoError(t, err)

	updated, err := f.svc.RecordPayment(context.Background(), order.ID, &model.RecordPaymentRequest{
		Amount: dec("50.00"),
		Method: model.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.True(t, updated.AmountPaid.Equal(dec("50.00")))
	assert.True(t, f.svc.Balance(updated).Equal(dec("70.00")))

	// Payments accumulate.
	updated, err = f.svc.RecordPayment(context.Background(), order.ID, &model.RecordPaymentRequest{
		Amount: dec("70.00"),
		Method: model.PaymentMethodCard,
	})
	require.NoError(t, err)
	assert.True(t, updated.AmountPaid.Equal(dec("120.00")))
	assert.True(t, f.svc.Balance(updated).IsZero())

	_, err = f.svc.RecordPayment(context.Background(), order.ID, &model.RecordPaymentRequest{
		Amount: dec("0.01"),
		Method: model.PaymentMethodCash,
	})
	assert.ErrorContains(t, err, "exceeds")
}

func TestRecordPaymentRejectsCancelledOrder(t *testing.T) {
	f := newFixture(t)
	order, err := f.svc.Create(context.Background(), createRequest(f), uuid.New())
	require.NoError(t, err)

	_, err = f.svc.Transition(context.Background(), order.ID, &model.TransitionOrderRequest{
		Status:       model.OrderStatusCancelled,
		CancelReason: "no-show",
	})
	require.NoError(t, err)

	_, err = f.svc.RecordPayment(context.Background(), order.ID, &model.RecordPaymentRequest{
		Amount: dec("10.00"),
		Method: model.PaymentMethodCash,
	})
	assert.ErrorContains(t, err, "cancelled")
}

func TestUpdateRejectsTerminalOrder(t *testing.T) {
	f := newFixture(t)
	order, err := f.svc.Create(context.Background(), createRequest(f), uuid.New())
	require.NoError(t, err)

	_, err = f.svc.Transition(context.Background(), order.ID, &model.TransitionOrderRequest{
		Status:       model.OrderStatusCancelled,
		CancelReason: "duplicate ticket",
	})
	require.NoError(t, err)

	_, err = f.svc.Update(context.Background(), order.ID, &model.UpdateOrderRequest{
		Items: []model.OrderItemRequest{{GarmentTypeID: f.garmentID, ServiceID: f.serviceID}},
	})
	assert.ErrorContains(t, err, "cannot be edited")
}

func TestReceipt(t *testing.T) {
	f := newFixture(t)
	cust := &model.Customer{FirstName: "Marta", LastName: "Reyes", Phone: "555-0101"}
	cust.ID = uuid.New()
	f.svc.customers = &fakeCustomerService{known: cust}
	f.estRepo.est = &model.Establishment{
		Name:    "Sastreria El Hilo",
		Address: "Av. Central 42",
		TaxInfo: model.TaxInfo{TaxID: "XAXX010101000", TaxRegime: "simplified"},
	}

	order, err := f.svc.Create(context.Background(), createRequest(f), uuid.New())
	require.NoError(t, err)

	receipt, err := f.svc.Receipt(context.Background(), order.ID)
	require.NoError(t, err)

	assert.Equal(t, order.TicketNumber, receipt.TicketNumber)
	assert.Equal(t, "Marta Reyes", receipt.CustomerName)
	assert.True(t, receipt.Total.Equal(dec("120.00")))
	assert.True(t, receipt.Balance.Equal(dec("120.00")))
	require.Len(t, receipt.Items, 1)
	assert.Equal(t, "Hemming", receipt.Items[0].Service)
	assert.Equal(t, "XAXX010101000", receipt.Shop.TaxID)
}
