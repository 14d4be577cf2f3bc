package worker

import (
	"context"
	"time"

	"github.com/hiloazul/tailor-api/internal/email"
	"github.com/hiloazul/tailor-api/internal/repository"
	"github.com/hiloazul/tailor-api/pkg/logger"
	"github.com/hiloazul/tailor-api/pkg/metrics"
)

// ReminderJob emails customers whose ticket deadline falls within the
// next day. Orders already delivered or cancelled are skipped by the
// repository query.
type ReminderJob struct {
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	emailSvc     email.Service
	logger       *logger.Logger
	metrics      *metrics.Metrics
}

func NewReminderJob(
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	emailSvc email.Service,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *ReminderJob {
	return &ReminderJob{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		emailSvc:     emailSvc,
		logger:       logger,
		metrics:      metrics,
	}
}

func (j *ReminderJob) Run(ctx context.Context) {
	now := time.Now()
	orders, err := j.orderRepo.ListWithDeadlineBetween(ctx, now, now.Add(24*time.Hour))
	if err != nil {
		j.logger.Error(err, "Failed to load orders due for reminders")
		return
	}

	sent := 0
	for _, order := range orders {
		cust, err := j.customerRepo.Get(ctx, order.CustomerID)
		if err != nil {
			j.logger.Error(err, "Failed to load customer for reminder", "order_id", order.ID.String())
			continue
		}
		if cust.Email == "" {
			continue
		}

		name := cust.FirstName + " " + cust.LastName
		if err := j.emailSvc.SendDeadlineReminder(ctx, cust.Email, name, order.TicketNumber, order.CommittedDeadline); err != nil {
			j.logger.Error(err, "Failed to send reminder", "ticket", order.TicketNumber)
			continue
		}
		j.metrics.RemindersSent.Inc()
		sent++
	}

	j.logger.Info("Deadline reminder run finished", "due_orders", len(orders), "sent", sent)
}
