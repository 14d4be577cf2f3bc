package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func failing() error { return errBoom }
func passing() error { return nil }

func TestTripsAfterThreshold(t *testing.T) {
	cb := New(Settings{Name: "test", FailureThreshold: 3, CoolDown: time.Hour})

	for i := 0; i < 3; i++ {
		require.ErrorIs(t, cb.Execute(failing), errBoom)
	}
	assert.Equal(t, StateOpen, cb.State())

	err := cb.Execute(passing)
	require.ErrorIs(t, err, ErrOpen)
	assert.Contains(t, err.Error(), "test")
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb := New(Settings{FailureThreshold: 2, CoolDown: time.Hour})

	require.Error(t, cb.Execute(failing))
	require.NoError(t, cb.Execute(passing))
	require.Error(t, cb.Execute(failing))
	assert.Equal(t, StateClosed, cb.State())
}

func TestProbeAfterCoolDown(t *testing.T) {
	cb := New(Settings{FailureThreshold: 1, CoolDown: 10 * time.Millisecond})

	require.Error(t, cb.Execute(failing))
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(20 * time.Millisecond)

	t.Run("failed probe re-opens", func(t *testing.T) {
		require.ErrorIs(t, cb.Execute(failing), errBoom)
		assert.Equal(t, StateOpen, cb.State())
	})

	time.Sleep(20 * time.Millisecond)

	t.Run("successful probe closes", func(t *testing.T) {
		require.NoError(t, cb.Execute(passing))
		assert.Equal(t, StateClosed, cb.State())
	})
}

func TestZeroSettingsGetDefaults(t *testing.T) {
	cb := New(Settings{})
	assert.Equal(t, 5, cb.threshold)
	assert.Equal(t, 30*time.Second, cb.coolDown)
}
