package observable

import (
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
)

type config struct {
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// Option configures a CommandWrapper or QueryWrapper. Nil collectors and loggers disable
// the respective instrumentation.
type Option func(*config) error

// WithMetrics sets the metrics collector.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(c *config) error {
		c.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector.
func WithTracing(collector shell.TracingCollector) Option {
	return func(c *config) error {
		c.tracingCollector = collector
		return nil
	}
}

// WithContextualLogging sets the contextual logger. It wins over a basic logger.
func WithContextualLogging(logger shell.ContextualLogger) Option {
	return func(c *config) error {
		c.contextualLogger = logger
		return nil
	}
}

// WithLogging sets the basic logger.
func WithLogging(logger shell.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

func applyOptions(opts []Option) (config, error) {
	cfg := config{}

	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return config{}, err
		}
	}

	return cfg, nil
}
