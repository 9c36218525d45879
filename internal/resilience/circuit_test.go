package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_ClosedStatePassesThrough(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{})

	var calls int
	got, err := Execute(context.Background(), cb, func(_ context.Context) (int, error) {
		calls++
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if cb.State() != CircuitClosed {
		t.Errorf("expected closed state, got %s", cb.State())
	}
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 3,
		ResetTimeout:     time.Minute,
	})

	for i := 0; i < 3; i++ {
		_, _ = Execute(context.Background(), cb, func(_ context.Context) (struct{}, error) {
			return struct{}{}, errors.New("fail")
		})
	}

	if cb.State() != CircuitOpen {
		t.Errorf("expected open state after threshold, got %s", cb.State())
	}

	// Next call is rejected without invoking fn.
	_, err := Execute(context.Background(), cb, func(_ context.Context) (struct{}, error) {
		t.Error("should not be called when circuit is open")
		return struct{}{}, nil
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 3,
		ResetTimeout:     time.Minute,
	})

	for i := 0; i < 2; i++ {
		_, _ = Execute(context.Background(), cb, func(_ context.Context) (struct{}, error) {
			return struct{}{}, errors.New("fail")
		})
	}
	_, _ = Execute(context.Background(), cb, func(_ context.Context) (struct{}, error) {
		return struct{}{}, nil
	})

	// Two more failures should not trip the breaker after the reset.
	for i := 0; i < 2; i++ {
		_, _ = Execute(context.Background(), cb, func(_ context.Context) (struct{}, error) {
			return struct{}{}, errors.New("fail")
		})
	}
	if cb.State() != CircuitClosed {
		t.Errorf("expected closed state, got %s", cb.State())
	}
}

func TestCircuitBreaker_HalfOpenProbe(t *testing.T) {
	now := time.Now()
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 2,
		ResetTimeout:     100 * time.Millisecond,
	})
	cb.nowFunc = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		_, _ = Execute(context.Background(), cb, func(_ context.Context) (struct{}, error) {
			return struct{}{}, errors.New("fail")
		})
	}
	if cb.State() != CircuitOpen {
		t.Fatalf("expected open state, got %s", cb.State())
	}

	// After the reset timeout, a probe is allowed through.
	now = now.Add(200 * time.Millisecond)
	var calls int
	_, err := Execute(context.Background(), cb, func(_ context.Context) (struct{}, error) {
		calls++
		return struct{}{}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected probe to run, got %d calls", calls)
	}
	if cb.State() != CircuitClosed {
		t.Errorf("expected closed state after successful probe, got %s", cb.State())
	}
}

func TestCircuitBreaker_FailedProbeReopens(t *testing.T) {
	now := time.Now()
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 2,
		ResetTimeout:     100 * time.Millisecond,
	})
	cb.nowFunc = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		_, _ = Execute(context.Background(), cb, func(_ context.Context) (struct{}, error) {
			return struct{}{}, errors.New("fail")
		})
	}

	now = now.Add(200 * time.Millisecond)
	_, _ = Execute(context.Background(), cb, func(_ context.Context) (struct{}, error) {
		return struct{}{}, errors.New("still failing")
	})

	_, err := Execute(context.Background(), cb, func(_ context.Context) (struct{}, error) {
		t.Error("should not be called after failed probe")
		return struct{}{}, nil
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, ResetTimeout: time.Minute})

	_, _ = Execute(context.Background(), cb, func(_ context.Context) (struct{}, error) {
		return struct{}{}, errors.New("fail")
	})
	if cb.State() != CircuitOpen {
		t.Fatalf("expected open state, got %s", cb.State())
	}

	cb.Reset()
	if cb.State() != CircuitClosed {
		t.Errorf("expected closed state after reset, got %s", cb.State())
	}
}
