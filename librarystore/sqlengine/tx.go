package sqlengine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

const operationTransaction = "transaction"

// WithTransaction runs fn inside one database transaction. It commits if fn returns nil and rolls back
// otherwise, returning fn's error unchanged. A panic inside fn rolls back and is re-raised.
//
// On SQLite the connection should use _txlock=immediate so that concurrent writers serialize on BEGIN
// instead of failing on lock upgrade.
func (s Store) WithTransaction(ctx context.Context, fn librarystore.TxFunc) error {
	ctx, span := s.obs.startSpan(ctx, spanNameTransaction, operationTransaction, s.dialect)
	start := time.Now()

	dbTx, beginErr := s.db.BeginTx(ctx)
	if beginErr != nil {
		s.obs.logError(ctx, logMsgBeginTxFailed, beginErr)
		s.obs.recordError(ctx, operationTransaction, errorTypeBeginTx)
		s.obs.finishSpan(span, statusError, map[string]string{spanAttrErrorType: errorTypeBeginTx})

		return errors.Join(librarystore.ErrTransactionFailed, beginErr)
	}

	txExecutor := executor{runner: dbTx, dialect: s.dialect, obs: s.obs}

	defer func() {
		if recovered := recover(); recovered != nil {
			s.rollback(ctx, dbTx.Rollback)
			s.obs.finishSpan(span, statusRolledBack, nil)
			panic(recovered)
		}
	}()

	if fnErr := fn(txExecutor); fnErr != nil {
		s.rollback(ctx, dbTx.Rollback)
		s.recordTransaction(ctx, time.Since(start), statusRolledBack)
		s.obs.finishSpan(span, statusRolledBack, nil)

		return fnErr
	}

	if commitErr := dbTx.Commit(ctx); commitErr != nil {
		s.rollback(ctx, dbTx.Rollback)
		s.obs.logError(ctx, logMsgCommitTxFailed, commitErr)
		s.obs.recordError(ctx, operationTransaction, errorTypeCommitTx)
		s.recordTransaction(ctx, time.Since(start), statusError)
		s.obs.finishSpan(span, statusError, map[string]string{spanAttrErrorType: errorTypeCommitTx})

		if sentinel := classifyConstraintError(commitErr); sentinel != nil {
			return errors.Join(sentinel, commitErr)
		}

		return errors.Join(librarystore.ErrTransactionFailed, fmt.Errorf("commit: %w", commitErr))
	}

	duration := time.Since(start)
	s.recordTransaction(ctx, duration, statusSuccess)
	s.obs.finishSpan(span, statusSuccess, nil)
	s.obs.logOperation(ctx, logMsgTransactionDone, logAttrDurationMS, toMilliseconds(duration))

	return nil
}

func (s Store) rollback(ctx context.Context, rollback func(context.Context) error) {
	// The request context may already be canceled, the rollback must still reach the database.
	if rollbackErr := rollback(context.WithoutCancel(ctx)); rollbackErr != nil {
		s.obs.logWarn(ctx, logMsgRollbackTxFailed, rollbackErr)
	}
}

func (s Store) recordTransaction(ctx context.Context, duration time.Duration, status string) {
	s.obs.recordDuration(ctx, metricTransactionDuration, duration, operationTransaction, status)
	s.obs.recordCounter(ctx, metricTransactions, map[string]string{spanAttrOperation: operationTransaction, "status": status})
}
