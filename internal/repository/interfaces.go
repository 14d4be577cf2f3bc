package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hiloazul/tailor-api/internal/model"
)

// All repository interfaces in one file
type (
	CustomerRepository interface {
		Create(ctx context.Context, customer *model.Customer) error
		Get(ctx context.Context, id uuid.UUID) (*model.Customer, error)
		GetByPhone(ctx context.Context, phone string) (*model.Customer, error)
		Update(ctx context.Context, customer *model.Customer) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.CustomerFilters) ([]*model.Customer, error)
		Count(ctx context.Context, filters *model.CustomerFilters) (int, error)
	}

	// CatalogRepository covers garment types, services and the explicit
	// garment-service association table.
	CatalogRepository interface {
		CreateGarmentType(ctx context.Context, gt *model.GarmentType) error
		GetGarmentType(ctx context.Context, id uuid.UUID) (*model.GarmentType, error)
		UpdateGarmentType(ctx context.Context, gt *model.GarmentType) error
		DeleteGarmentType(ctx context.Context, id uuid.UUID) error
		ListGarmentTypes(ctx context.Context, activeOnly bool) ([]*model.GarmentType, error)

		CreateService(ctx context.Context, svc *model.Service) error
		GetService(ctx context.Context, id uuid.UUID) (*model.Service, error)
		UpdateService(ctx context.Context, svc *model.Service) error
		DeleteService(ctx context.Context, id uuid.UUID) error
		ListServices(ctx context.Context, activeOnly bool) ([]*model.Service, error)
		ListServicesForGarmentType(ctx context.Context, garmentTypeID uuid.UUID) ([]*model.Service, error)

		ReplaceServiceGarmentTypes(ctx context.Context, serviceID uuid.UUID, garmentTypeIDs []uuid.UUID) error
		GarmentTypeIDsForService(ctx context.Context, serviceID uuid.UUID) ([]uuid.UUID, error)
	}

	PriceListRepository interface {
		Create(ctx context.Context, list *model.PriceList) error
		Get(ctx context.Context, id uuid.UUID) (*model.PriceList, error)
		Update(ctx context.Context, list *model.PriceList) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.PriceList, error)
		ListEffectiveAt(ctx context.Context, at time.Time) ([]*model.PriceList, error)
		ReplaceItems(ctx context.Context, listID uuid.UUID, items []model.PriceListItem) error
		AdjustItemPrices(ctx context.Context, listID uuid.UUID, items []model.BulkAdjustPreviewItem) error
	}

	OrderRepository interface {
		Create(ctx context.Context, order *model.Order, evt *model.OutboxEvent) error
		Get(ctx context.Context, id uuid.UUID) (*model.Order, error)
		GetByTicketNumber(ctx context.Context, ticket string) (*model.Order, error)
		Update(ctx context.Context, order *model.Order) error
		ReplaceItems(ctx context.Context, orderID uuid.UUID, items []model.OrderItem) error
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus, cancelReason *string) error
		RecordPayment(ctx context.Context, id uuid.UUID, amountPaid decimal.Decimal, method model.PaymentMethod) error
		List(ctx context.Context, filters *model.OrderFilters) ([]*model.Order, error)
		ListWithDeadlineBetween(ctx context.Context, from, to time.Time) ([]*model.Order, error)
		NextTicketNumber(ctx context.Context) (string, error)
	}

	DraftRepository interface {
		Save(ctx context.Context, draft *model.DraftOrder) error
		Get(ctx context.Context, id uuid.UUID) (*model.DraftOrder, error)
		ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.DraftOrder, error)
		Delete(ctx context.Context, id uuid.UUID) error
		DeleteModifiedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	}

	EstablishmentRepository interface {
		Get(ctx context.Context) (*model.Establishment, error)
		Upsert(ctx context.Context, est *model.Establishment) error
	}

	ScheduleRepository interface {
		UpsertWorkDay(ctx context.Context, day *model.WorkDay) error
		ListWorkDays(ctx context.Context) ([]*model.WorkDay, error)
		CreateHoliday(ctx context.Context, holiday *model.Holiday) error
		DeleteHoliday(ctx context.Context, id uuid.UUID) error
		ListHolidays(ctx context.Context, from, to time.Time) ([]*model.Holiday, error)
		IsHoliday(ctx context.Context, date time.Time) (bool, error)
		CreateWorkShift(ctx context.Context, shift *model.WorkShift) error
		DeleteWorkShift(ctx context.Context, id uuid.UUID) error
		ListWorkShifts(ctx context.Context, userID *uuid.UUID) ([]*model.WorkShift, error)
	}

	WorkOrderRepository interface {
		Create(ctx context.Context, wo *model.WorkOrder) error
		Get(ctx context.Context, id uuid.UUID) (*model.WorkOrder, error)
		GetBySalesOrder(ctx context.Context, salesOrderID uuid.UUID) (*model.WorkOrder, error)
		List(ctx context.Context, status model.WorkOrderStatus) ([]*model.WorkOrder, error)
		UpdateItemStage(ctx context.Context, itemID uuid.UUID, stage model.WorkStage) error
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.WorkOrderStatus) error
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.User, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessedIfPending(ctx context.Context, id uuid.UUID) (bool, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error
		IncrementRetry(ctx context.Context, id uuid.UUID, errMsg string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
