package device

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readyAfter meldet ab dem n-ten Aufruf Bereitschaft
func readyAfter(n int, calls *int) Loader {
	return LoaderFunc(func() bool {
		*calls++
		return *calls >= n
	})
}

func TestInitFirstAttempt(t *testing.T) {
	var calls int
	attempts, err := Init(t.Context(), readyAfter(1, &calls), WithAttempts(5), WithDelay(0))
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, calls)
}

func TestInitSucceedsOnLastAttempt(t *testing.T) {
	var calls int
	attempts, err := Init(t.Context(), readyAfter(5, &calls), WithAttempts(5), WithDelay(0))
	require.NoError(t, err)
	assert.Equal(t, 5, attempts)
}

func TestInitExhausted(t *testing.T) {
	var calls int
	attempts, err := Init(t.Context(), readyAfter(100, &calls), WithAttempts(5), WithDelay(0))
	require.ErrorIs(t, err, ErrInitExhausted)
	assert.Equal(t, 5, attempts)
	assert.Equal(t, 5, calls, "attempts must never exceed the bound")
}

func TestInitZeroAttempts(t *testing.T) {
	var calls int
	attempts, err := Init(t.Context(), readyAfter(1, &calls), WithAttempts(0))
	require.ErrorIs(t, err, ErrInitExhausted)
	assert.Zero(t, attempts)
	assert.Zero(t, calls)
}

func TestInitConstantDelay(t *testing.T) {
	var calls int
	var stamps []time.Time
	loader := LoaderFunc(func() bool {
		calls++
		stamps = append(stamps, time.Now())
		return false
	})

	start := time.Now()
	_, err := Init(t.Context(), loader, WithAttempts(3), WithDelay(20*time.Millisecond))
	require.ErrorIs(t, err, ErrInitExhausted)

	// zwei Pausen, keine nach dem letzten Versuch
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
	require.Len(t, stamps, 3)
	assert.GreaterOrEqual(t, stamps[2].Sub(stamps[1]), 20*time.Millisecond)
}

func TestInitContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	var calls int
	loader := LoaderFunc(func() bool {
		calls++
		cancel()
		return false
	})

	_, err := Init(ctx, loader, WithAttempts(5), WithDelay(time.Hour))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, calls)
}

func TestInitDefaultsFromEnvironment(t *testing.T) {
	t.Setenv("KOMPUTE_VK_INIT_RETRIES", "2")
	t.Setenv("KOMPUTE_VK_INIT_DELAY", "1ms")

	o := DefaultInitOptions()
	assert.Equal(t, uint(2), o.Attempts)
	assert.Equal(t, time.Millisecond, o.Delay)

	var calls int
	attempts, err := Init(t.Context(), readyAfter(10, &calls))
	require.ErrorIs(t, err, ErrInitExhausted)
	assert.Equal(t, 2, attempts)
}
