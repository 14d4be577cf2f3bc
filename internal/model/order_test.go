package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	linear := []OrderStatus{
		OrderStatusPending,
		OrderStatusReceived,
		OrderStatusInProgress,
		OrderStatusReady,
		OrderStatusDelivered,
	}

	for i, from := range linear[:len(linear)-1] {
		next := linear[i+1]
		assert.True(t, from.CanTransitionTo(next), "%s -> %s", from, next)

		// Skipping ahead is never allowed.
		for _, target := range linear[i+2:] {
			assert.False(t, from.CanTransitionTo(target), "%s -> %s", from, target)
		}
		// Neither is going back.
		for _, target := range linear[:i+1] {
			assert.False(t, from.CanTransitionTo(target), "%s -> %s", from, target)
		}
	}
}

func TestOrderStatusCancellation(t *testing.T) {
	for _, from := range []OrderStatus{OrderStatusPending, OrderStatusReceived, OrderStatusInProgress, OrderStatusReady} {
		assert.True(t, from.CanTransitionTo(OrderStatusCancelled), "%s should be cancellable", from)
	}

	assert.False(t, OrderStatusDelivered.CanTransitionTo(OrderStatusCancelled))
	assert.False(t, OrderStatusCancelled.CanTransitionTo(OrderStatusPending))
	assert.False(t, OrderStatusCancelled.CanTransitionTo(OrderStatusCancelled))
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.True(t, OrderStatusDelivered.Terminal())
	assert.True(t, OrderStatusCancelled.Terminal())
	assert.False(t, OrderStatusPending.Terminal())
	assert.False(t, OrderStatusReady.Terminal())
}

func TestWorkStageValid(t *testing.T) {
	for _, s := range []WorkStage{WorkStageWaiting, WorkStageWashing, WorkStageIroning, WorkStageFinished} {
		assert.True(t, s.Valid())
	}
	assert.False(t, WorkStage("FOLDING").Valid())
}
