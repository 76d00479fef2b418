package sqlengine

import (
	"context"
	"math"
	"time"

	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

const (
	metricQueryDuration       = "librarystore_query_duration_seconds"
	metricExecDuration        = "librarystore_exec_duration_seconds"
	metricTransactionDuration = "librarystore_transaction_duration_seconds"
	metricTransactions        = "librarystore_transactions_total"
	metricDatabaseErrors      = "librarystore_database_errors_total"
	metricRowsReturned        = "librarystore_rows_returned"

	spanNameQuery       = "librarystore.query"
	spanNameExec        = "librarystore.exec"
	spanNameTransaction = "librarystore.transaction"

	spanAttrOperation = "operation"
	spanAttrDialect   = "db.system"
	spanAttrErrorType = "error_type"
	spanAttrRows      = "rows"

	statusSuccess    = "success"
	statusError      = "error"
	statusRolledBack = "rolled_back"

	errorTypeBuildQuery   = "build_query"
	errorTypeDatabase     = "database"
	errorTypeScan         = "scan"
	errorTypeRowsAffected = "rows_affected"
	errorTypeConstraint   = "constraint"
	errorTypeBeginTx      = "begin_transaction"
	errorTypeCommitTx     = "commit_transaction"
)

// observer bundles the optional observability collaborators of a Store.
// All methods are nil-safe so that a Store without any options logs and records nothing.
type observer struct {
	logger           librarystore.Logger
	contextualLogger librarystore.ContextualLogger
	metricsCollector librarystore.MetricsCollector
	tracingCollector librarystore.TracingCollector
}

// logQueryWithDuration logs SQL statements with execution time at debug level.
func (o *observer) logQueryWithDuration(ctx context.Context, sqlQuery string, operation string, duration time.Duration) {
	args := []any{logAttrOperation, operation, logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery}

	if o.logger != nil {
		o.logger.Debug(logMsgSQLExecuted+operation, args...)
	}

	if o.contextualLogger != nil {
		o.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+operation, args...)
	}
}

// logOperation logs operational information at info level.
func (o *observer) logOperation(ctx context.Context, operation string, args ...any) {
	if o.logger != nil {
		o.logger.Info(logMsgOperation+operation, args...)
	}

	if o.contextualLogger != nil {
		o.contextualLogger.InfoContext(ctx, logMsgOperation+operation, args...)
	}
}

// logWarn logs non-critical problems like cleanup failures.
func (o *observer) logWarn(ctx context.Context, message string, err error, args ...any) {
	allArgs := append([]any{logAttrError, err.Error()}, args...)

	if o.logger != nil {
		o.logger.Warn(message, allArgs...)
	}

	if o.contextualLogger != nil {
		o.contextualLogger.WarnContext(ctx, message, allArgs...)
	}
}

// logError logs failures at error level.
func (o *observer) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := append([]any{logAttrError, err.Error()}, args...)

	if o.logger != nil {
		o.logger.Error(message, allArgs...)
	}

	if o.contextualLogger != nil {
		o.contextualLogger.ErrorContext(ctx, message, allArgs...)
	}
}

// recordDuration records a duration metric, using the context-aware method if available.
func (o *observer) recordDuration(ctx context.Context, metricName string, duration time.Duration, operation, status string) {
	if o.metricsCollector == nil {
		return
	}

	labels := map[string]string{spanAttrOperation: operation, "status": status}

	if contextualCollector, ok := o.metricsCollector.(librarystore.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metricName, duration, labels)
		return
	}

	o.metricsCollector.RecordDuration(metricName, duration, labels)
}

// recordCounter increments a counter metric, using the context-aware method if available.
func (o *observer) recordCounter(ctx context.Context, metricName string, labels map[string]string) {
	if o.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := o.metricsCollector.(librarystore.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricName, labels)
		return
	}

	o.metricsCollector.IncrementCounter(metricName, labels)
}

// recordValue records a gauge value, using the context-aware method if available.
func (o *observer) recordValue(ctx context.Context, metricName string, value float64, operation string) {
	if o.metricsCollector == nil {
		return
	}

	labels := map[string]string{spanAttrOperation: operation}

	if contextualCollector, ok := o.metricsCollector.(librarystore.ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metricName, value, labels)
		return
	}

	o.metricsCollector.RecordValue(metricName, value, labels)
}

// recordError counts a failed database interaction.
func (o *observer) recordError(ctx context.Context, operation, errorType string) {
	o.recordCounter(ctx, metricDatabaseErrors, map[string]string{
		spanAttrOperation: operation,
		"status":          statusError,
		spanAttrErrorType: errorType,
	})
}

// startSpan starts a tracing span if a tracing collector is configured.
func (o *observer) startSpan(ctx context.Context, name string, operation string, dialect Dialect) (context.Context, librarystore.SpanContext) {
	if o.tracingCollector == nil {
		return ctx, nil
	}

	return o.tracingCollector.StartSpan(ctx, name, map[string]string{
		spanAttrOperation: operation,
		spanAttrDialect:   string(dialect),
	})
}

// finishSpan finishes a span started with startSpan. A nil span is ignored.
func (o *observer) finishSpan(span librarystore.SpanContext, status string, attrs map[string]string) {
	if o.tracingCollector == nil || span == nil {
		return
	}

	o.tracingCollector.FinishSpan(span, status, attrs)
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
