package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/hiloazul/tailor-api/internal/model"
	"github.com/hiloazul/tailor-api/internal/pricing"
	"github.com/hiloazul/tailor-api/internal/repository"
	"github.com/hiloazul/tailor-api/internal/repository/postgres"
	"github.com/hiloazul/tailor-api/internal/service/customer"
	"github.com/hiloazul/tailor-api/internal/service/event"
)

type OrderService interface {
	Create(ctx context.Context, req *model.CreateOrderRequest, createdBy uuid.UUID) (*model.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Order, error)
	GetByTicketNumber(ctx context.Context, ticket string) (*model.Order, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateOrderRequest) (*model.Order, error)
	Transition(ctx context.Context, id uuid.UUID, req *model.TransitionOrderRequest) (*model.Order, error)
	RecordPayment(ctx context.Context, id uuid.UUID, req *model.RecordPaymentRequest) (*model.Order, error)
	List(ctx context.Context, filters *model.OrderFilters) ([]*model.Order, error)
	Balance(order *model.Order) decimal.Decimal
	Receipt(ctx context.Context, id uuid.UUID) (*model.Receipt, error)
}

// OpeningHours reports whether the shop is open at an instant. Committed
// deadlines must land inside opening hours so a customer can actually
// pick the garments up.
type OpeningHours interface {
	IsOpen(ctx context.Context, at time.Time) (bool, error)
}

type Service struct {
	repo          repository.OrderRepository
	customers     customer.CustomerService
	catalogRepo   repository.CatalogRepository
	priceListRepo repository.PriceListRepository
	workOrderRepo repository.WorkOrderRepository
	estRepo       repository.EstablishmentRepository
	hours         OpeningHours
	engine        *pricing.Engine
	events        *event.Service
}

func NewService(
	repo repository.OrderRepository,
	customers customer.CustomerService,
	catalogRepo repository.CatalogRepository,
	priceListRepo repository.PriceListRepository,
	workOrderRepo repository.WorkOrderRepository,
	estRepo repository.EstablishmentRepository,
	hours OpeningHours,
	engine *pricing.Engine,
	events *event.Service,
) *Service {
	return &Service{
		repo:          repo,
		customers:     customers,
		catalogRepo:   catalogRepo,
		priceListRepo: priceListRepo,
		workOrderRepo: workOrderRepo,
		estRepo:       estRepo,
		hours:         hours,
		engine:        engine,
		events:        events,
	}
}

// Create writes a new ticket. Prices and names are snapshotted at this
// moment; later catalog or price-list edits never touch this order.
func (s *Service) Create(ctx context.Context, req *model.CreateOrderRequest, createdBy uuid.UUID) (*model.Order, error) {
	if err := s.checkDeadline(ctx, req.CommittedDeadline); err != nil {
		return nil, err
	}

	cust, err := s.customers.FindOrCreate(ctx, &req.Customer)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve customer: %w", err)
	}

	items, err := s.buildItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	amountPaid := decimal.Zero
	if req.AmountPaid != nil {
		amountPaid = *req.AmountPaid
	}
	if amountPaid.IsNegative() {
		return nil, fmt.Errorf("amount paid cannot be negative")
	}
	if amountPaid.IsPositive() && !req.PaymentMethod.Valid() {
		return nil, fmt.Errorf("payment method is required when an advance is recorded")
	}

	ticket, err := s.repo.NextTicketNumber(ctx)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		TicketNumber:      ticket,
		CustomerID:        cust.ID,
		CommittedDeadline: req.CommittedDeadline,
		Status:            model.OrderStatusPending,
		TotalAmount:       s.engine.OrderTotal(items),
		AmountPaid:        amountPaid,
		PaymentMethod:     req.PaymentMethod,
		Notes:             req.Notes,
		CreatedBy:         createdBy,
		Items:             items,
	}
	order.ID = uuid.New()

	// The event rides in the same transaction as the ticket, so a
	// created order always has its created event.
	var evt *model.OutboxEvent
	if s.events != nil {
		evt, err = s.events.Prepare(model.EventOrderCreated, order)
		if err != nil {
			return nil, err
		}
	}
	if err := s.repo.Create(ctx, order, evt); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	if s.events != nil {
		s.events.Publish(evt)
	}
	return order, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByTicketNumber(ctx context.Context, ticket string) (*model.Order, error) {
	return s.repo.GetByTicketNumber(ctx, ticket)
}

// Update replaces the item set and recomputes the total. Replaced items
// are re-priced against the lists in effect now; the order keeps its
// original ticket number and status.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateOrderRequest) (*model.Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status.Terminal() {
		return nil, fmt.Errorf("order %s is %s and cannot be edited", order.TicketNumber, order.Status)
	}

	items, err := s.buildItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	if req.CommittedDeadline != nil {
		if err := s.checkDeadline(ctx, *req.CommittedDeadline); err != nil {
			return nil, err
		}
		order.CommittedDeadline = *req.CommittedDeadline
	}
	if req.AmountPaid != nil {
		if req.AmountPaid.IsNegative() {
			return nil, fmt.Errorf("amount paid cannot be negative")
		}
		order.AmountPaid = *req.AmountPaid
	}
	if req.PaymentMethod != nil {
		if !req.PaymentMethod.Valid() {
			return nil, fmt.Errorf("invalid payment method %q", *req.PaymentMethod)
		}
		order.PaymentMethod = *req.PaymentMethod
	}
	if req.Notes != nil {
		order.Notes = *req.Notes
	}
	order.TotalAmount = s.engine.OrderTotal(items)

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	if err := s.repo.ReplaceItems(ctx, id, items); err != nil {
		return nil, fmt.Errorf("failed to replace order items: %w", err)
	}
	order.Items = items

	s.emit(ctx, model.EventOrderUpdated, order)
	return order, nil
}

// Transition moves the ticket along the intake workflow. The path is
// linear; CANCELLED is reachable from any non-terminal status and
// requires a reason.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, req *model.TransitionOrderRequest) (*model.Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(req.Status) {
		return nil, fmt.Errorf("cannot transition order from %s to %s", order.Status, req.Status)
	}

	var cancelReason *string
	if req.Status == model.OrderStatusCancelled {
		if req.CancelReason == "" {
			return nil, fmt.Errorf("a cancellation reason is required")
		}
		cancelReason = &req.CancelReason
	}

	if err := s.repo.UpdateStatus(ctx, id, req.Status, cancelReason); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	order.Status = req.Status
	order.CancelReason = cancelReason

	eventType := model.EventOrderStatusChanged
	switch req.Status {
	case model.OrderStatusInProgress:
		// The workshop queue opens when work actually starts.
		if err := s.createWorkOrder(ctx, order); err != nil {
			return nil, err
		}
	case model.OrderStatusCancelled:
		eventType = model.EventOrderCancelled
		if err := s.cancelWorkOrder(ctx, order.ID); err != nil {
			return nil, err
		}
	}

	s.emit(ctx, eventType, order)
	return order, nil
}

// RecordPayment adds to the running advance. Overpayment is rejected
// here even though the balance computation floors at zero.
func (s *Service) RecordPayment(ctx context.Context, id uuid.UUID, req *model.RecordPaymentRequest) (*model.Order, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("payment amount must be positive")
	}

	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == model.OrderStatusCancelled {
		return nil, fmt.Errorf("cannot record a payment on a cancelled order")
	}

	newPaid := order.AmountPaid.Add(req.Amount)
	if newPaid.GreaterThan(order.TotalAmount) {
		return nil, fmt.Errorf("payment exceeds outstanding balance of %s", s.Balance(order))
	}

	if err := s.repo.RecordPayment(ctx, id, newPaid, req.Method); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	order.AmountPaid = newPaid
	order.PaymentMethod = req.Method

	s.emit(ctx, model.EventOrderUpdated, order)
	return order, nil
}

func (s *Service) List(ctx context.Context, filters *model.OrderFilters) ([]*model.Order, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Balance(order *model.Order) decimal.Decimal {
	return s.engine.Balance(order.TotalAmount, order.AmountPaid)
}

// Receipt assembles the printable payload for a ticket: snapshots from
// the order plus the shop's fiscal identity.
func (s *Service) Receipt(ctx context.Context, id uuid.UUID) (*model.Receipt, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	cust, err := s.customers.Get(ctx, order.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}

	receipt := &model.Receipt{
		TicketNumber: order.TicketNumber,
		IssuedAt:     time.Now(),
		CustomerName: cust.FirstName + " " + cust.LastName,
		Phone:        cust.Phone,
		Deadline:     order.CommittedDeadline,
		Total:        order.TotalAmount,
		AmountPaid:   order.AmountPaid,
		Balance:      s.Balance(order),
	}
	for _, item := range order.Items {
		receipt.Items = append(receipt.Items, model.ReceiptItem{
			Garment:          item.GarmentName,
			Service:          item.ServiceName,
			Price:            item.UnitPrice,
			Adjustment:       item.AdjustmentAmount,
			AdjustmentReason: item.AdjustmentReason,
			Notes:            item.Notes,
		})
	}

	est, err := s.estRepo.Get(ctx)
	if err == nil {
		receipt.Shop = model.ReceiptShop{
			Name:         est.Name,
			Address:      est.Address,
			ContactPhone: est.ContactPhone,
			TaxID:        est.TaxInfo.TaxID,
			TaxRegime:    est.TaxInfo.TaxRegime,
		}
	}
	return receipt, nil
}

// buildItems resolves a snapshot for each requested line: garment and
// service names plus the effective unit price at this instant.
func (s *Service) buildItems(ctx context.Context, reqs []model.OrderItemRequest) ([]model.OrderItem, error) {
	now := time.Now()
	lists, err := s.priceListRepo.ListEffectiveAt(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load price lists: %w", err)
	}
	effective := make([]model.PriceList, 0, len(lists))
	for _, l := range lists {
		effective = append(effective, *l)
	}

	items := make([]model.OrderItem, 0, len(reqs))
	for _, r := range reqs {
		gt, err := s.catalogRepo.GetGarmentType(ctx, r.GarmentTypeID)
		if err != nil {
			return nil, fmt.Errorf("unknown garment type %s: %w", r.GarmentTypeID, err)
		}
		svc, err := s.catalogRepo.GetService(ctx, r.ServiceID)
		if err != nil {
			return nil, fmt.Errorf("unknown service %s: %w", r.ServiceID, err)
		}
		if !svc.Active {
			return nil, fmt.Errorf("service %s is no longer offered", svc.Name)
		}

		linked, err := s.catalogRepo.GarmentTypeIDsForService(ctx, svc.ID)
		if err != nil {
			return nil, err
		}
		if len(linked) > 0 && !containsID(linked, gt.ID) {
			return nil, fmt.Errorf("service %s is not available for garment type %s", svc.Name, gt.Name)
		}

		res, err := s.engine.ResolveEffectivePrice(svc, effective, now)
		if err != nil {
			return nil, err
		}

		adjustment := decimal.Zero
		if r.AdjustmentAmount != nil {
			adjustment = *r.AdjustmentAmount
		}
		if !adjustment.IsZero() && r.AdjustmentReason == "" {
			return nil, fmt.Errorf("an adjustment on %s requires a reason", svc.Name)
		}

		items = append(items, model.OrderItem{
			GarmentTypeID:    gt.ID,
			GarmentName:      gt.Name,
			ServiceID:        svc.ID,
			ServiceName:      svc.Name,
			UnitPrice:        res.Price,
			Quantity:         1,
			AdjustmentAmount: adjustment,
			AdjustmentReason: r.AdjustmentReason,
			Notes:            r.Notes,
		})
	}
	return items, nil
}

func (s *Service) checkDeadline(ctx context.Context, deadline time.Time) error {
	if deadline.Before(time.Now()) {
		return fmt.Errorf("committed deadline cannot be in the past")
	}
	if s.hours == nil {
		return nil
	}
	open, err := s.hours.IsOpen(ctx, deadline)
	if err != nil {
		return fmt.Errorf("failed to check opening hours: %w", err)
	}
	if !open {
		return fmt.Errorf("committed deadline falls outside opening hours")
	}
	return nil
}

func (s *Service) createWorkOrder(ctx context.Context, order *model.Order) error {
	wo := &model.WorkOrder{
		SalesOrderID: order.ID,
		Status:       model.WorkOrderStatusPending,
	}
	for _, item := range order.Items {
		wo.Items = append(wo.Items, model.WorkOrderItem{
			SalesOrderItemID: item.ID,
			ServiceName:      item.ServiceName,
			CurrentStage:     model.WorkStageWaiting,
		})
	}
	if err := s.workOrderRepo.Create(ctx, wo); err != nil {
		return fmt.Errorf("failed to create work order: %w", err)
	}
	return nil
}

// cancelWorkOrder pulls the ticket's garments out of the workshop queue.
// Orders cancelled before work starts have no work order; that is not an
// error.
func (s *Service) cancelWorkOrder(ctx context.Context, orderID uuid.UUID) error {
	wo, err := s.workOrderRepo.GetBySalesOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load work order: %w", err)
	}
	if wo.Status.Terminal() {
		return nil
	}
	if err := s.workOrderRepo.UpdateStatus(ctx, wo.ID, model.WorkOrderStatusCancelled); err != nil {
		return fmt.Errorf("failed to cancel work order: %w", err)
	}
	return nil
}

func (s *Service) emit(ctx context.Context, eventType string, order *model.Order) {
	if s.events == nil {
		return
	}
	if err := s.events.Emit(ctx, eventType, order); err != nil {
		log.Error().Err(err).Str("ticket", order.TicketNumber).Str("event_type", eventType).Msg("failed to record order event")
	}
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
