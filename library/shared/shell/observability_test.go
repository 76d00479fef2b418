package shell_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/observability/testdoubles" //nolint:revive
)

func Test_StatusOf(t *testing.T) {
	testCases := []struct {
		description string
		err         error
		expected    string
	}{
		{"no error", nil, shell.StatusSuccess},
		{"canceled", fmt.Errorf("querying: %w", context.Canceled), shell.StatusCanceled},
		{"deadline", errors.Join(librarystore.ErrQueryingFailed, context.DeadlineExceeded), shell.StatusTimeout},
		{"lost compare-and-set", errors.Join(core.ErrBookChanged, librarystore.ErrConcurrencyConflict), shell.StatusConcurrencyConflict},
		{"business rejection", core.ErrNoCopiesAvailable, "conflict"},
		{"not found", core.ErrLoanNotFound, "not_found"},
		{"storage failure", librarystore.ErrQueryingFailed, shell.StatusError},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expected, shell.StatusOf(tc.err))
		})
	}
}

func Test_RecordCommandMetrics_CountsRejectionsByKind(t *testing.T) {
	// setup
	metrics := NewMetricsCollectorSpy(true)

	// act
	shell.RecordCommandMetrics(context.Background(), metrics, "BorrowBook", "conflict", time.Millisecond, core.ErrNoCopiesAvailable)

	// assert
	assert.True(t, metrics.HasDurationRecordForMetric(shell.CommandHandlerDurationMetric).WithStatus("conflict").Assert())
	assert.True(t, metrics.HasCounterRecordForMetric(shell.CommandHandlerRejectedMetric).
		WithLabel(shell.LogAttrCommandType, "BorrowBook").
		WithLabel(shell.LogAttrErrorKind, "conflict").
		Assert())
}

func Test_RecordCommandMetrics_WithNilCollector_DoesNothing(t *testing.T) {
	assert.NotPanics(t, func() {
		shell.RecordCommandMetrics(context.Background(), nil, "BorrowBook", shell.StatusSuccess, time.Millisecond, nil)
		shell.RecordQueryMetrics(context.Background(), nil, "SearchBooks", shell.StatusSuccess, time.Millisecond)
	})
}

func Test_Actor_MayActFor(t *testing.T) {
	owner := uuid.New()

	assert.True(t, shell.Actor{UserID: owner, Role: librarystore.RoleUser}.MayActFor(owner))
	assert.False(t, shell.Actor{UserID: uuid.New(), Role: librarystore.RoleUser}.MayActFor(owner))
	assert.True(t, shell.Actor{UserID: uuid.New(), Role: librarystore.RoleAdmin}.MayActFor(owner))
}

func Test_ActorFrom_ReturnsTheStoredActor(t *testing.T) {
	// arrange
	actor := shell.Actor{UserID: uuid.New(), Role: librarystore.RoleAdmin, Name: "Ada"}

	// act
	stored, ok := shell.ActorFrom(shell.WithActor(context.Background(), actor))
	_, missing := shell.ActorFrom(context.Background())

	// assert
	assert.True(t, ok)
	assert.Equal(t, actor, stored)
	assert.False(t, missing)
}
