package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiloazul/tailor-api/internal/model"
	"github.com/hiloazul/tailor-api/internal/repository"
)

type fakeOutbox struct {
	repository.OutboxRepository
	statuses map[uuid.UUID]model.OutboxStatus
	created  []*model.OutboxEvent
}

func newFakeOutbox() *fakeOutbox {
	return &fakeOutbox{statuses: make(map[uuid.UUID]model.OutboxStatus)}
}

func (r *fakeOutbox) Create(_ context.Context, evt *model.OutboxEvent) error {
	evt.ID = uuid.New()
	r.statuses[evt.ID] = evt.Status
	r.created = append(r.created, evt)
	return nil
}

func (r *fakeOutbox) MarkProcessedIfPending(_ context.Context, id uuid.UUID) (bool, error) {
	if r.statuses[id] != model.OutboxStatusPending {
		return false, nil
	}
	r.statuses[id] = model.OutboxStatusProcessed
	return true, nil
}

func (r *fakeOutbox) UpdateStatus(_ context.Context, id uuid.UUID, status model.OutboxStatus, _ *string) error {
	r.statuses[id] = status
	return nil
}

type fakeBroker struct {
	published []string
	fail      bool
}

func (b *fakeBroker) Publish(_ context.Context, channel string, _ interface{}) error {
	if b.fail {
		return errors.New("broker unavailable")
	}
	b.published = append(b.published, channel)
	return nil
}

func (b *fakeBroker) Subscribe(context.Context, string) (<-chan []byte, error) { return nil, nil }

func (b *fakeBroker) Close() error { return nil }

func pendingEvent(t *testing.T, outbox *fakeOutbox) *model.OutboxEvent {
	t.Helper()
	evt := &model.OutboxEvent{
		EventType: model.EventOrderStatusChanged,
		Payload:   []byte(`{"ticket_number":"ORD-0001"}`),
		Status:    model.OutboxStatusPending,
	}
	require.NoError(t, outbox.Create(context.Background(), evt))
	return evt
}

func TestEmitPersistsEvent(t *testing.T) {
	outbox := newFakeOutbox()
	svc := NewService(outbox, nil)

	err := svc.Emit(context.Background(), model.EventOrderCancelled, map[string]string{"ticket_number": "ORD-0002"})
	require.NoError(t, err)

	require.Len(t, outbox.created, 1)
	assert.Equal(t, model.EventOrderCancelled, outbox.created[0].EventType)
	assert.Equal(t, model.OutboxStatusPending, outbox.statuses[outbox.created[0].ID])
}

func TestFastPathClaimsBeforePublishing(t *testing.T) {
	outbox := newFakeOutbox()
	broker := &fakeBroker{}
	svc := NewService(outbox, broker)
	evt := pendingEvent(t, outbox)

	svc.tryPublish(evt)

	assert.Equal(t, []string{model.EventOrderStatusChanged}, broker.published)
	assert.Equal(t, model.OutboxStatusProcessed, outbox.statuses[evt.ID])

	// A second delivery attempt loses the claim and stays silent.
	svc.tryPublish(evt)
	assert.Len(t, broker.published, 1)
}

func TestFastPathSkipsEventTakenByProcessor(t *testing.T) {
	outbox := newFakeOutbox()
	broker := &fakeBroker{}
	svc := NewService(outbox, broker)
	evt := pendingEvent(t, outbox)
	outbox.statuses[evt.ID] = model.OutboxStatusProcessed

	svc.tryPublish(evt)

	assert.Empty(t, broker.published)
}

func TestFastPathRequeuesOnBrokerFailure(t *testing.T) {
	outbox := newFakeOutbox()
	svc := NewService(outbox, &fakeBroker{fail: true})
	evt := pendingEvent(t, outbox)

	svc.tryPublish(evt)

	assert.Equal(t, model.OutboxStatusPending, outbox.statuses[evt.ID])
}
