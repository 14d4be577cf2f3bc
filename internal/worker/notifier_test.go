package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiloazul/tailor-api/internal/model"
	"github.com/hiloazul/tailor-api/internal/repository"
	"github.com/hiloazul/tailor-api/pkg/logger"
)

type fakeCustomerRepo struct {
	repository.CustomerRepository
	customers map[uuid.UUID]*model.Customer
}

func (f *fakeCustomerRepo) Get(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, assert.AnError
	}
	return c, nil
}

type fakeEmail struct {
	readySent []string
}

func (f *fakeEmail) SendDeadlineReminder(ctx context.Context, to, customerName, ticketNumber string, deadline time.Time) error {
	return nil
}

func (f *fakeEmail) SendOrderReady(ctx context.Context, to, customerName, ticketNumber string) error {
	f.readySent = append(f.readySent, ticketNumber)
	return nil
}

func (f *fakeEmail) SendCustom(ctx context.Context, to, subject, body string) error {
	return nil
}

func TestReadyNotifierHandle(t *testing.T) {
	custID := uuid.New()
	repo := &fakeCustomerRepo{customers: map[uuid.UUID]*model.Customer{
		custID: {FirstName: "Marta", LastName: "Ruiz", Email: "marta@example.com"},
	}}
	mail := &fakeEmail{}
	n := NewReadyNotifier(nil, repo, mail, logger.NewLogger(nil))

	readyPayload := func(status model.OrderStatus, customerID uuid.UUID) []byte {
		order := model.Order{
			TicketNumber: "ORD-0042",
			CustomerID:   customerID,
			Status:       status,
		}
		b, err := json.Marshal(order)
		require.NoError(t, err)
		return b
	}

	t.Run("ready order notifies customer", func(t *testing.T) {
		n.handle(context.Background(), readyPayload(model.OrderStatusReady, custID))
		assert.Equal(t, []string{"ORD-0042"}, mail.readySent)
	})

	t.Run("other statuses are ignored", func(t *testing.T) {
		before := len(mail.readySent)
		n.handle(context.Background(), readyPayload(model.OrderStatusInProgress, custID))
		assert.Len(t, mail.readySent, before)
	})

	t.Run("unknown customer is skipped", func(t *testing.T) {
		before := len(mail.readySent)
		n.handle(context.Background(), readyPayload(model.OrderStatusReady, uuid.New()))
		assert.Len(t, mail.readySent, before)
	})

	t.Run("customer without email is skipped", func(t *testing.T) {
		noMail := uuid.New()
		repo.customers[noMail] = &model.Customer{FirstName: "Luis", LastName: "Vega"}
		before := len(mail.readySent)
		n.handle(context.Background(), readyPayload(model.OrderStatusReady, noMail))
		assert.Len(t, mail.readySent, before)
	})

	t.Run("garbage payload is dropped", func(t *testing.T) {
		before := len(mail.readySent)
		n.handle(context.Background(), []byte("{not json"))
		assert.Len(t, mail.readySent, before)
	})
}
