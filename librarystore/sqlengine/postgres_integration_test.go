//go:build integration

package sqlengine_test

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/AntonStoeckl/library-circulation-go/librarystore"
	"github.com/AntonStoeckl/library-circulation-go/librarystore/sqlengine"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/sqlitestore"
)

// givenMigratedPostgres starts a throwaway Postgres container with the schema applied.
func givenMigratedPostgres(t *testing.T) string {
	t.Helper()

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("library"),
		postgres.WithUsername("library"),
		postgres.WithPassword("library"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "starting the postgres container failed")

	t.Cleanup(func() {
		if terminateErr := container.Terminate(ctx); terminateErr != nil {
			t.Logf("terminating the postgres container failed: %v", terminateErr)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, sqlengine.MigrateUp(sqlengine.DialectPostgres, dsn))

	return dsn
}

func Test_Postgres_AllAdapters(t *testing.T) {
	dsn := givenMigratedPostgres(t)

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	defer pool.Close()

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	defer func() { _ = sqlDB.Close() }()

	sqlxDB, err := sqlx.Open("postgres", dsn)
	require.NoError(t, err)
	defer func() { _ = sqlxDB.Close() }()

	pgxStore, err := sqlengine.NewStoreFromPGXPool(pool)
	require.NoError(t, err)

	sqlStore, err := sqlengine.NewStoreFromSQLDB(sqlDB)
	require.NoError(t, err)

	sqlxStore, err := sqlengine.NewStoreFromSQLX(sqlxDB)
	require.NoError(t, err)

	stores := map[string]sqlengine.Store{"pgx": pgxStore, "sql": sqlStore, "sqlx": sqlxStore}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, sqlengine.DialectPostgres, store.Dialect())

			t.Run("last copy is lent once", func(t *testing.T) {
				assertLastCopyIsLentOnce(t, store)
			})

			t.Run("search is literal and case-insensitive", func(t *testing.T) {
				assertSearchIsLiteral(t, store)
			})

			t.Run("constraint violations are mapped", func(t *testing.T) {
				assertConstraintViolationsAreMapped(t, store)
			})
		})
	}
}

func assertLastCopyIsLentOnce(t *testing.T, store sqlengine.Store) {
	ctx := t.Context()

	// arrange
	book := GivenBook(t, ctx, store, 1)

	const workers = 10
	users := make([]librarystore.User, workers)
	for i := range users {
		users[i] = GivenUser(t, ctx, store, librarystore.RoleUser)
	}

	// act
	var successes atomic.Int32
	wg := sync.WaitGroup{}

	for _, user := range users {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_ = store.WithTransaction(ctx, func(tx librarystore.Tx) error {
				taken, err := tx.TakeCopy(ctx, book.ID, FixedClock)
				if err != nil || !taken {
					return err
				}

				successes.Add(1)

				return tx.InsertLoan(ctx, librarystore.Loan{
					ID: uuid.New(), UserID: user.ID, BookID: book.ID,
					BorrowDate: FixedClock, DueDate: FixedClock.Add(14 * 24 * time.Hour),
					Status: librarystore.LoanStatusActive,
				})
			})
		}()
	}

	wg.Wait()

	// assert
	assert.Equal(t, int32(1), successes.Load())

	stored, err := store.BookByID(ctx, book.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, stored.AvailableCopies)
}

func assertSearchIsLiteral(t *testing.T, store sqlengine.Store) {
	ctx := t.Context()

	// arrange
	marker := uuid.NewString()[:8]
	match := GivenBook(t, ctx, store, 1, WithTitle("50% "+marker))
	GivenBook(t, ctx, store, 1, WithTitle("500 "+marker))

	filter := librarystore.BuildBookFilter().WithSearchTerm("0% " + marker).Finalize()

	// act
	books, total, err := store.SearchBooks(ctx, filter)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, books, 1)
	assert.Equal(t, match.ID, books[0].ID)
}

func assertConstraintViolationsAreMapped(t *testing.T, store sqlengine.Store) {
	ctx := t.Context()

	// arrange
	book := GivenBook(t, ctx, store, 2)
	user := GivenUser(t, ctx, store, librarystore.RoleUser)
	GivenActiveLoan(t, ctx, store, user, book, FixedClock)

	duplicate := user
	duplicate.ID = uuid.New()
	duplicate.UniversityID = "U-" + uuid.NewString()

	// act
	duplicateUserErr := store.InsertUser(ctx, duplicate)
	deleteErr := store.DeleteBook(ctx, book.ID)
	duplicateLoanErr := store.InsertLoan(ctx, librarystore.Loan{
		ID: uuid.New(), UserID: user.ID, BookID: book.ID,
		BorrowDate: FixedClock, DueDate: FixedClock.Add(14 * 24 * time.Hour),
		Status: librarystore.LoanStatusActive,
	})

	// assert
	assert.ErrorIs(t, duplicateUserErr, librarystore.ErrDuplicateEmail)
	assert.ErrorIs(t, deleteErr, librarystore.ErrForeignKeyViolation)
	assert.ErrorIs(t, duplicateLoanErr, librarystore.ErrDuplicateActiveLoan)
}
