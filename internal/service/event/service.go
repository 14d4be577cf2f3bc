package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hiloazul/tailor-api/internal/model"
	"github.com/hiloazul/tailor-api/internal/repository"
	"github.com/hiloazul/tailor-api/pkg/messaging"
)

// Service writes domain events to the transactional outbox. A background
// processor drains the outbox and publishes to the broker, so emitting
// never blocks a request on broker availability. Delivery is
// at-least-once: subscribers must tolerate a replayed event.
type Service struct {
	outboxRepo repository.OutboxRepository
	broker     messaging.Broker
}

func NewService(outboxRepo repository.OutboxRepository, broker messaging.Broker) *Service {
	return &Service{
		outboxRepo: outboxRepo,
		broker:     broker,
	}
}

// Prepare marshals a payload into an outbox event the caller can hand to
// a repository for insertion inside its own transaction.
func (s *Service) Prepare(eventType string, payload interface{}) (*model.OutboxEvent, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return &model.OutboxEvent{
		EventType: eventType,
		Payload:   payloadJSON,
		Status:    model.OutboxStatusPending,
	}, nil
}

// Publish runs the best-effort fast path for an already-persisted event.
// The outbox processor picks up anything the fast path loses.
func (s *Service) Publish(evt *model.OutboxEvent) {
	if s.broker == nil || evt == nil {
		return
	}
	go s.tryPublish(evt)
}

// Emit persists an event in its own statement and runs the fast path.
// Used on mutation paths whose state change has already committed; the
// caller must surface the error so a lost event is never silent.
func (s *Service) Emit(ctx context.Context, eventType string, payload interface{}) error {
	evt, err := s.Prepare(eventType, payload)
	if err != nil {
		return err
	}

	if err := s.outboxRepo.Create(ctx, evt); err != nil {
		return fmt.Errorf("failed to create outbox event: %w", err)
	}

	s.Publish(evt)
	return nil
}

// tryPublish claims the event before publishing so the fast path and the
// background processor do not both deliver it. Losing the claim means
// the processor already took the row.
func (s *Service) tryPublish(evt *model.OutboxEvent) {
	ctx := context.Background()
	claimed, err := s.outboxRepo.MarkProcessedIfPending(ctx, evt.ID)
	if err != nil {
		log.Warn().Err(err).Str("event_type", evt.EventType).Msg("failed to claim event, leaving it for the processor")
		return
	}
	if !claimed {
		return
	}
	if err := s.broker.Publish(ctx, evt.EventType, evt.Payload); err != nil {
		// Hand the row back so the processor retries it.
		log.Warn().Err(err).Str("event_type", evt.EventType).Msg("immediate publish failed, requeueing for the processor")
		if err := s.outboxRepo.UpdateStatus(ctx, evt.ID, model.OutboxStatusPending, nil); err != nil {
			log.Error().Err(err).Str("event_id", evt.ID.String()).Msg("failed to requeue event")
		}
	}
}
