package shell

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"time"
)

const (
	defaultMaxAttempts  = 6
	defaultBaseDelay    = 200 * time.Millisecond
	defaultJitterFactor = 0.3

	// RetryAttemptsMetric counts failed attempts that are followed by another attempt.
	RetryAttemptsMetric = "retry_attempts_total"

	// RetryDelayMetric tracks the backoff delay before each retry.
	RetryDelayMetric = "retry_delay_seconds"

	// RetryMaxAttemptsReachedMetric counts operations that failed after exhausting all attempts.
	RetryMaxAttemptsReachedMetric = "retry_max_attempts_reached_total"

	logAttrRetryOperation = "operation"
	logAttrAttemptNumber  = "attempt_number"
)

var (
	// ErrNilMetricsCollector is returned when a nil metrics collector is provided to WithRetryMetrics.
	ErrNilMetricsCollector = errors.New("metrics collector must not be nil")

	// ErrEmptyOperation is returned when an empty operation name is provided to WithRetryMetrics.
	ErrEmptyOperation = errors.New("operation must not be empty")

	// ErrInvalidMaxAttempts is returned when max attempts are not positive.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrNegativeBaseDelay is returned when the base delay is negative.
	ErrNegativeBaseDelay = errors.New("base delay must not be negative")

	// ErrInvalidJitterFactor is returned when the jitter factor is not between 0.0 and 1.0.
	ErrInvalidJitterFactor = errors.New("jitter factor must be between 0.0 and 1.0")

	// ErrNilRetryablePredicate is returned when a nil predicate is provided to WithRetryable.
	ErrNilRetryablePredicate = errors.New("retryable predicate must not be nil")
)

// RetryableFunc represents a function that can be retried.
type RetryableFunc func(ctx context.Context) error

type retryConfig struct {
	maxAttempts      int
	baseDelay        time.Duration
	jitterFactor     float64
	retryable        func(error) bool
	metricsCollector MetricsCollector
	logger           ContextualLogger
	operation        string
}

// RetryWithExponentialBackoff runs fn until it succeeds, returns a non-retryable error,
// or maxAttempts is reached. It is used while waiting for infrastructure to come up, e.g. the
// database at startup. Request handling is never retried: callers decide whether to resubmit.
//
// Retry schedule (default): 0, 200 ms, 400 ms, 800 ms, 1.6 s, 3.2 s (plus up to 30% jitter).
//
// By default, every error except context cancellation and deadline is retryable.
func RetryWithExponentialBackoff(ctx context.Context, fn RetryableFunc, options ...RetryOption) error {
	config := &retryConfig{
		maxAttempts:  defaultMaxAttempts,
		baseDelay:    defaultBaseDelay,
		jitterFactor: defaultJitterFactor,
		retryable:    isRetryableByDefault,
		operation:    "unnamed",
	}

	for _, option := range options {
		if err := option(config); err != nil {
			return err
		}
	}

	var lastErr error

	for attempt := 0; attempt < config.maxAttempts; attempt++ {
		if attempt > 0 {
			// Exponential backoff: baseDelay * 2^(attempt-1)
			delay := config.baseDelay * time.Duration(1<<(attempt-1))
			jitter := rand.Float64() * float64(delay) * config.jitterFactor //nolint:gosec //math/rand is sufficient for jitter
			backoffDelay := delay + time.Duration(jitter)

			config.recordDelay(ctx, attempt, backoffDelay)

			timer := time.NewTimer(backoffDelay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if !config.retryable(lastErr) {
			return lastErr
		}

		if attempt < config.maxAttempts-1 {
			config.recordAttempt(ctx, attempt+1, lastErr)
		}
	}

	config.recordExhausted(ctx, lastErr)

	return lastErr
}

func isRetryableByDefault(err error) bool {
	return !IsCancellationError(err) && !IsTimeoutError(err)
}

func (c *retryConfig) recordDelay(ctx context.Context, attempt int, delay time.Duration) {
	if c.metricsCollector == nil {
		return
	}

	recordDuration(ctx, c.metricsCollector, RetryDelayMetric, delay, map[string]string{
		logAttrRetryOperation: c.operation,
		logAttrAttemptNumber:  strconv.Itoa(attempt),
	})
}

func (c *retryConfig) recordAttempt(ctx context.Context, attemptNumber int, err error) {
	if c.logger != nil {
		c.logger.WarnContext(ctx, "attempt failed, retrying",
			logAttrRetryOperation, c.operation,
			logAttrAttemptNumber, attemptNumber,
			LogAttrError, err.Error())
	}

	if c.metricsCollector == nil {
		return
	}

	incrementCounter(ctx, c.metricsCollector, RetryAttemptsMetric, map[string]string{
		logAttrRetryOperation: c.operation,
		logAttrAttemptNumber:  strconv.Itoa(attemptNumber),
	})
}

func (c *retryConfig) recordExhausted(ctx context.Context, err error) {
	if c.logger != nil {
		c.logger.ErrorContext(ctx, "all attempts failed",
			logAttrRetryOperation, c.operation,
			LogAttrError, err.Error())
	}

	if c.metricsCollector == nil {
		return
	}

	incrementCounter(ctx, c.metricsCollector, RetryMaxAttemptsReachedMetric, map[string]string{
		logAttrRetryOperation: c.operation,
	})
}

// RetryOption configures retry behavior using the functional options pattern.
type RetryOption func(*retryConfig) error

// WithMaxAttempts sets the maximum number of attempts, the first one included.
func WithMaxAttempts(attempts int) RetryOption {
	return func(config *retryConfig) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}

		config.maxAttempts = attempts

		return nil
	}
}

// WithBaseDelay sets the base delay for exponential backoff.
// Actual delays: baseDelay, baseDelay*2, baseDelay*4, baseDelay*8, etc.
func WithBaseDelay(delay time.Duration) RetryOption {
	return func(config *retryConfig) error {
		if delay < 0 {
			return ErrNegativeBaseDelay
		}

		config.baseDelay = delay

		return nil
	}
}

// WithJitterFactor sets the jitter as a fraction of the backoff delay, from 0.0 to 1.0.
func WithJitterFactor(factor float64) RetryOption {
	return func(config *retryConfig) error {
		if factor < 0.0 || factor > 1.0 {
			return ErrInvalidJitterFactor
		}

		config.jitterFactor = factor

		return nil
	}
}

// WithRetryable replaces the predicate deciding which errors are retried.
func WithRetryable(retryable func(error) bool) RetryOption {
	return func(config *retryConfig) error {
		if retryable == nil {
			return ErrNilRetryablePredicate
		}

		config.retryable = retryable

		return nil
	}
}

// WithRetryMetrics sets the metrics collector and the operation name used as label.
func WithRetryMetrics(collector MetricsCollector, operation string) RetryOption {
	return func(config *retryConfig) error {
		if collector == nil {
			return ErrNilMetricsCollector
		}

		if operation == "" {
			return ErrEmptyOperation
		}

		config.metricsCollector = collector
		config.operation = operation

		return nil
	}
}

// WithRetryLogging logs every failed attempt at warn level and exhaustion at error level.
func WithRetryLogging(logger ContextualLogger) RetryOption {
	return func(config *retryConfig) error {
		config.logger = logger

		return nil
	}
}
