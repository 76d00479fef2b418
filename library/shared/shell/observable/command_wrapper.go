package observable

import (
	"context"
	"time"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
)

// CommandWrapper provides observability instrumentation for any command handler.
// It wraps a core command handler and adds metrics, tracing and logging, delegating
// business logic to the wrapped handler.
type CommandWrapper[C shell.Command, R any] struct {
	coreHandler      shell.CommandHandler[C, R]
	commandType      string
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// NewCommandWrapper creates a new observable wrapper around the core command handler.
func NewCommandWrapper[C shell.Command, R any](
	coreHandler shell.CommandHandler[C, R],
	opts ...Option,
) (*CommandWrapper[C, R], error) {
	// Extract command type from a zero-value instance
	var zeroCommand C

	wrapper := &CommandWrapper[C, R]{
		coreHandler: coreHandler,
		commandType: zeroCommand.CommandType(),
	}

	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	wrapper.metricsCollector = cfg.metricsCollector
	wrapper.tracingCollector = cfg.tracingCollector
	wrapper.contextualLogger = cfg.contextualLogger
	wrapper.logger = cfg.logger

	return wrapper, nil
}

// Handle executes the wrapped handler and records its outcome.
func (w *CommandWrapper[C, R]) Handle(ctx context.Context, command C) (R, error) {
	commandStart := time.Now()
	ctx, span := shell.StartCommandSpan(ctx, w.tracingCollector, w.commandType)
	shell.LogStart(ctx, w.logger, w.contextualLogger, shell.LogMsgCommandStarted, shell.LogAttrCommandType, w.commandType)

	result, err := w.coreHandler.Handle(ctx, command)

	duration := time.Since(commandStart)
	status := shell.StatusOf(err)

	shell.RecordCommandMetrics(ctx, w.metricsCollector, w.commandType, status, duration, err)
	shell.FinishSpan(w.tracingCollector, span, status, duration, err)

	switch {
	case err == nil:
		shell.LogSuccess(ctx, w.logger, w.contextualLogger, shell.LogMsgCommandCompleted, shell.LogAttrCommandType, w.commandType, duration)
	case shell.IsBusinessRejection(err):
		shell.LogRejection(ctx, w.logger, w.contextualLogger, shell.LogMsgCommandRejected, shell.LogAttrCommandType, w.commandType, err)
	default:
		shell.LogError(ctx, w.logger, w.contextualLogger, shell.LogMsgCommandFailed, shell.LogAttrCommandType, w.commandType, err)
	}

	return result, err
}
