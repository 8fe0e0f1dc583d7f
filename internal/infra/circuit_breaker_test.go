package infra

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errBoom = errors.New("boom")

func newTestBreaker(clock *time.Time) *CircuitBreaker {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "test",
		FailureThreshold: 2,
		SuccessThreshold: 1,
		OpenTimeout:      time.Minute,
	})
	cb.now = func() time.Time { return *clock }
	return cb
}

func TestCircuitBreakerTripsAndRecovers(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := newTestBreaker(&clock)

	assert.ErrorIs(t, cb.Execute(func() error { return errBoom }), errBoom)
	assert.Equal(t, CBClosed, cb.State())
	assert.ErrorIs(t, cb.Execute(func() error { return errBoom }), errBoom)
	assert.Equal(t, CBOpen, cb.State())

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)

	clock = clock.Add(time.Minute)
	assert.Equal(t, CBHalfOpen, cb.State())

	assert.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := newTestBreaker(&clock)

	_ = cb.Execute(func() error { return errBoom })
	_ = cb.Execute(func() error { return errBoom })
	clock = clock.Add(2 * time.Minute)
	assert.Equal(t, CBHalfOpen, cb.State())

	_ = cb.Execute(func() error { return errBoom })
	assert.Equal(t, CBOpen, cb.State())
}

func TestSuccessResetsFailureCount(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := newTestBreaker(&clock)

	_ = cb.Execute(func() error { return errBoom })
	_ = cb.Execute(func() error { return nil })
	_ = cb.Execute(func() error { return errBoom })
	assert.Equal(t, CBClosed, cb.State())
}

func TestNoopLocker(t *testing.T) {
	release, err := NewLocker(nil, time.Second).Acquire(context.Background(), "lock:unit:x")
	assert.NoError(t, err)
	assert.NotNil(t, release)
	release()
}
