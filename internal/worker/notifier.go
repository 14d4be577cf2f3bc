package worker

import (
	"context"
	"encoding/json"

	"github.com/hiloazul/tailor-api/internal/email"
	"github.com/hiloazul/tailor-api/internal/model"
	"github.com/hiloazul/tailor-api/internal/repository"
	"github.com/hiloazul/tailor-api/pkg/logger"
	"github.com/hiloazul/tailor-api/pkg/messaging"
)

// ReadyNotifier listens for order status events and emails the customer
// when a ticket reaches READY. Delivery is best-effort: a failed email is
// logged and dropped, the worker does not retry pickup notifications.
type ReadyNotifier struct {
	broker       messaging.Broker
	customerRepo repository.CustomerRepository
	emailSvc     email.Service
	logger       *logger.Logger
}

func NewReadyNotifier(
	broker messaging.Broker,
	customerRepo repository.CustomerRepository,
	emailSvc email.Service,
	logger *logger.Logger,
) *ReadyNotifier {
	return &ReadyNotifier{
		broker:       broker,
		customerRepo: customerRepo,
		emailSvc:     emailSvc,
		logger:       logger,
	}
}

// Run blocks consuming status events until ctx is cancelled.
func (n *ReadyNotifier) Run(ctx context.Context) error {
	msgs, err := n.broker.Subscribe(ctx, model.EventOrderStatusChanged)
	if err != nil {
		return err
	}

	n.logger.Info("Ready notifier started", "channel", model.EventOrderStatusChanged)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case payload, ok := <-msgs:
			if !ok {
				return nil
			}
			n.handle(ctx, payload)
		}
	}
}

func (n *ReadyNotifier) handle(ctx context.Context, payload []byte) {
	var order model.Order
	if err := json.Unmarshal(payload, &order); err != nil {
		n.logger.Error(err, "Failed to decode order status event")
		return
	}
	if order.Status != model.OrderStatusReady {
		return
	}

	cust, err := n.customerRepo.Get(ctx, order.CustomerID)
	if err != nil {
		n.logger.Error(err, "Failed to load customer for pickup notification", "order_id", order.ID.String())
		return
	}
	if cust.Email == "" {
		return
	}

	name := cust.FirstName + " " + cust.LastName
	if err := n.emailSvc.SendOrderReady(ctx, cust.Email, name, order.TicketNumber); err != nil {
		n.logger.Error(err, "Failed to send pickup notification", "ticket", order.TicketNumber)
		return
	}
	n.logger.Info("Pickup notification sent", "ticket", order.TicketNumber)
}
