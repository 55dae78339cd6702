package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/fadilmartias/career-coach/internal/logger"
)

// ErrCircuitOpen is returned without calling the provider once too many
// calls in a row have failed.
var ErrCircuitOpen = errors.New("circuit breaker open")

// retrier runs provider calls with exponential backoff and a
// consecutive-failure circuit breaker. MaxRetries counts retries, so zero
// means a single attempt. An open circuit lets one trial call through
// after CircuitCooldown; its outcome closes or reopens the circuit.
type retrier struct {
	MaxRetries        int
	BaseDelay         time.Duration
	MaxDelay          time.Duration
	RequestTimeout    time.Duration
	CircuitCooldown   time.Duration
	circuitBreakerMax int

	mu                sync.Mutex
	consecutiveErrors int
	openedAt          time.Time
	trialInFlight     bool
	now               func() time.Time

	log *logger.Logger
}

func newRetrier(maxRetries int, timeout time.Duration, log *logger.Logger) *retrier {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &retrier{
		MaxRetries:        maxRetries,
		BaseDelay:         time.Second,
		MaxDelay:          30 * time.Second,
		RequestTimeout:    timeout,
		CircuitCooldown:   30 * time.Second,
		circuitBreakerMax: 5,
		now:               time.Now,
		log:               log,
	}
}

func (r *retrier) do(ctx context.Context, op string, call func(ctx context.Context) error, retryable func(error) bool) error {
	trial, ok := r.acquire()
	if !ok {
		n, _ := r.CircuitBreakerStatus()
		return fmt.Errorf("%w: too many consecutive errors (%d)", ErrCircuitOpen, n)
	}
	if trial {
		r.log.Info("circuit breaker half-open, sending trial call", "op", op)
	}
	settled := false
	defer func() {
		if trial && !settled {
			r.release()
		}
	}()

	timeoutCtx, cancel := context.WithTimeout(ctx, r.RequestTimeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt <= r.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := r.calculateBackoff(attempt)
			r.log.Warn("retrying provider call", "op", op, "attempt", attempt, "max_retries", r.MaxRetries, "delay", delay)

			select {
			case <-time.After(delay):
			case <-timeoutCtx.Done():
				settled = r.recordFailure(ctx)
				return fmt.Errorf("context timeout during retry: %w", timeoutCtx.Err())
			}
		}

		err := call(timeoutCtx)
		if err == nil {
			r.recordSuccess()
			settled = true
			return nil
		}
		lastErr = err

		if !retryable(err) {
			r.log.Error("non-retryable provider error", "op", op, "error", err)
			settled = r.recordFailure(ctx)
			return fmt.Errorf("%s failed: %w", op, err)
		}
		r.log.Warn("retryable provider error", "op", op, "attempt", attempt+1, "error", err)
	}

	settled = r.recordFailure(ctx)
	if r.MaxRetries == 0 {
		return fmt.Errorf("%s failed: %w", op, lastErr)
	}
	return fmt.Errorf("max retries (%d) exceeded for %s: %w", r.MaxRetries, op, lastErr)
}

func (r *retrier) calculateBackoff(attempt int) time.Duration {
	delay := r.BaseDelay * time.Duration(math.Pow(2, float64(attempt-1)))
	if delay > r.MaxDelay {
		delay = r.MaxDelay
	}
	return delay
}

// acquire reports whether a call may proceed and whether it is the single
// trial call of a half-open circuit.
func (r *retrier) acquire() (trial, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.consecutiveErrors < r.circuitBreakerMax {
		return false, true
	}
	if r.trialInFlight || r.now().Sub(r.openedAt) < r.CircuitCooldown {
		return false, false
	}
	r.trialInFlight = true
	return true, true
}

// release frees the trial slot when a call ended without a verdict on the
// provider, e.g. the caller went away.
func (r *retrier) release() {
	r.mu.Lock()
	r.trialInFlight = false
	r.mu.Unlock()
}

func (r *retrier) recordSuccess() {
	r.mu.Lock()
	r.consecutiveErrors = 0
	r.trialInFlight = false
	r.mu.Unlock()
}

// recordFailure counts a provider failure unless the caller's own context
// ended, which says nothing about the provider. It reports whether the
// failure was counted.
func (r *retrier) recordFailure(callerCtx context.Context) bool {
	if callerCtx.Err() != nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.consecutiveErrors++
	r.trialInFlight = false
	if r.consecutiveErrors >= r.circuitBreakerMax {
		r.openedAt = r.now()
	}
	return true
}

func (r *retrier) ResetCircuitBreaker() {
	r.mu.Lock()
	r.consecutiveErrors = 0
	r.trialInFlight = false
	r.mu.Unlock()
	r.log.Info("circuit breaker reset")
}

// CircuitBreakerStatus reports the failure streak and whether calls are
// currently refused.
func (r *retrier) CircuitBreakerStatus() (consecutiveErrors int, isOpen bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	open := r.consecutiveErrors >= r.circuitBreakerMax &&
		(r.trialInFlight || r.now().Sub(r.openedAt) < r.CircuitCooldown)
	return r.consecutiveErrors, open
}
