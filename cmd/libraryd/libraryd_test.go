package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell/auth"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell/config"
)

const testSecret = "a-test-secret-that-is-long-enough-for-hs256"

func Test_ReadPassword_UsesFirstLineWithoutTerminal(t *testing.T) {
	// act
	password, err := readPassword(strings.NewReader("s3cret!\r\nignored\n"), &bytes.Buffer{})

	// assert
	require.NoError(t, err)
	assert.Equal(t, "s3cret!", password)
}

func Test_ReadPassword_AcceptsInputWithoutNewline(t *testing.T) {
	// act
	password, err := readPassword(strings.NewReader("s3cret!"), &bytes.Buffer{})

	// assert
	require.NoError(t, err)
	assert.Equal(t, "s3cret!", password)
}

func Test_Migrate_And_CreateAdmin_OnSQLite(t *testing.T) {
	// setup
	givenSQLiteEnvironment(t)

	// act
	migrateOut := givenExecuted(t, "", "migrate", "up")
	adminOut := givenExecuted(t, "admin-password\n",
		"create-admin", "--name", "Ada Admin", "--email", "ADA@example.org", "--university-id", "ADM-1")

	// assert
	assert.Contains(t, migrateOut, "schema is up to date")
	assert.Contains(t, adminOut, "created admin Ada Admin <ada@example.org>")
}

func Test_CreateAdmin_RejectsDuplicateEmail(t *testing.T) {
	// setup
	givenSQLiteEnvironment(t)

	// arrange
	givenExecuted(t, "admin-password\n",
		"create-admin", "--name", "First", "--email", "dup@example.org", "--university-id", "ADM-1")

	// act
	rootCmd.SetIn(strings.NewReader("admin-password\n"))
	rootCmd.SetArgs([]string{"create-admin", "--name", "Second", "--email", "dup@example.org", "--university-id", "ADM-2"})
	err := rootCmd.ExecuteContext(context.Background())

	// assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
}

func Test_Serve_FailsFastOnInvalidConfig(t *testing.T) {
	// setup
	t.Setenv(config.EnvJWTSecret, "short")

	// act
	rootCmd.SetArgs([]string{"serve"})
	err := rootCmd.ExecuteContext(context.Background())

	// assert
	assert.ErrorIs(t, err, auth.ErrSecretTooShort)
}

func givenSQLiteEnvironment(t *testing.T) {
	t.Helper()

	t.Setenv(config.EnvDBDriver, "sqlite")
	t.Setenv(config.EnvDBDSN, config.SQLiteDSN(filepath.Join(t.TempDir(), "library.db")))
	t.Setenv(config.EnvJWTSecret, testSecret)
	t.Setenv(config.EnvLogLevel, "error")
}

func givenExecuted(t *testing.T, stdin string, args ...string) string {
	t.Helper()

	var out bytes.Buffer

	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)

	require.NoError(t, rootCmd.ExecuteContext(context.Background()), "error in arranging test data")

	return out.String()
}
