package observable

import (
	"context"
	"time"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
)

// QueryWrapper provides observability instrumentation for any query handler.
type QueryWrapper[Q shell.Query, R any] struct {
	coreHandler      shell.QueryHandler[Q, R]
	queryType        string
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// NewQueryWrapper creates a new observable wrapper around the core query handler.
func NewQueryWrapper[Q shell.Query, R any](
	coreHandler shell.QueryHandler[Q, R],
	opts ...Option,
) (*QueryWrapper[Q, R], error) {
	var zeroQuery Q

	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	return &QueryWrapper[Q, R]{
		coreHandler:      coreHandler,
		queryType:        zeroQuery.QueryType(),
		metricsCollector: cfg.metricsCollector,
		tracingCollector: cfg.tracingCollector,
		contextualLogger: cfg.contextualLogger,
		logger:           cfg.logger,
	}, nil
}

// Handle executes the wrapped handler and records its outcome.
func (w *QueryWrapper[Q, R]) Handle(ctx context.Context, query Q) (R, error) {
	queryStart := time.Now()
	ctx, span := shell.StartQuerySpan(ctx, w.tracingCollector, w.queryType)
	shell.LogStart(ctx, w.logger, w.contextualLogger, shell.LogMsgQueryStarted, shell.LogAttrQueryType, w.queryType)

	result, err := w.coreHandler.Handle(ctx, query)

	duration := time.Since(queryStart)
	status := shell.StatusOf(err)

	shell.RecordQueryMetrics(ctx, w.metricsCollector, w.queryType, status, duration)
	shell.FinishSpan(w.tracingCollector, span, status, duration, err)

	switch {
	case err == nil:
		shell.LogSuccess(ctx, w.logger, w.contextualLogger, shell.LogMsgQueryCompleted, shell.LogAttrQueryType, w.queryType, duration)
	case shell.IsBusinessRejection(err):
		shell.LogRejection(ctx, w.logger, w.contextualLogger, shell.LogMsgQueryRejected, shell.LogAttrQueryType, w.queryType, err)
	default:
		shell.LogError(ctx, w.logger, w.contextualLogger, shell.LogMsgQueryFailed, shell.LogAttrQueryType, w.queryType, err)
	}

	return result, err
}
