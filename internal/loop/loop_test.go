package loop

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStopsWhenStepSignals(t *testing.T) {
	calls := 0
	err := Run(context.Background(), time.Millisecond, func(now time.Time) bool {
		calls++
		return calls < 5
	})
	require.NoError(t, err)
	assert.Equal(t, 5, calls)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, time.Millisecond, func(time.Time) bool { return true })
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop on cancellation")
	}
}

func TestRunPassesMonotonicTimestamps(t *testing.T) {
	var stamps []time.Time
	err := Run(context.Background(), time.Millisecond, func(now time.Time) bool {
		stamps = append(stamps, now)
		return len(stamps) < 3
	})
	require.NoError(t, err)

	for i := 1; i < len(stamps); i++ {
		assert.False(t, stamps[i].Before(stamps[i-1]))
	}
}
