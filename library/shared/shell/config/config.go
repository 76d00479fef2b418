package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell/auth"
	"github.com/AntonStoeckl/library-circulation-go/librarystore/sqlengine"
)

const (
	EnvHTTPAddr       = "LIBRARY_HTTP_ADDR"
	EnvDBDriver       = "LIBRARY_DB_DRIVER"
	EnvDBDSN          = "LIBRARY_DB_DSN"
	EnvDBReplicaDSN   = "LIBRARY_DB_REPLICA_DSN"
	EnvPGAdapter      = "LIBRARY_PG_ADAPTER"
	EnvJWTSecret      = "LIBRARY_JWT_SECRET"
	EnvTokenTTL       = "LIBRARY_TOKEN_TTL"
	EnvFinePerDay     = "LIBRARY_FINE_PER_DAY"
	EnvLogLevel       = "LIBRARY_LOG_LEVEL"
	EnvLogFormat      = "LIBRARY_LOG_FORMAT"
	EnvOTelEndpoint   = "LIBRARY_OTEL_ENDPOINT"
	EnvMigrateOnStart = "LIBRARY_MIGRATE_ON_START"
)

// Postgres adapters selectable with LIBRARY_PG_ADAPTER.
const (
	AdapterPGX  = "pgx"
	AdapterSQL  = "sql"
	AdapterSQLX = "sqlx"
)

const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

var (
	ErrMissingVariable = errors.New("required environment variable is not set")
	ErrInvalidVariable = errors.New("environment variable has an invalid value")
)

// Config is the complete runtime configuration of libraryd.
type Config struct {
	HTTPAddr       string
	Dialect        sqlengine.Dialect
	DSN            string
	ReplicaDSN     string
	PGAdapter      string
	JWTSecret      string
	TokenTTL       time.Duration
	FinePerDay     decimal.Decimal
	LogLevel       slog.Level
	LogFormat      string
	OTelEndpoint   string
	MigrateOnStart bool
}

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Load reads the optional .env file and then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("reading .env: %w", err)
	}

	return LoadFrom(os.LookupEnv)
}

// LoadFrom builds a Config from lookup, applying defaults and validating every value.
func LoadFrom(lookup LookupFunc) (Config, error) {
	env := reader{lookup: lookup}

	cfg := Config{
		HTTPAddr:       env.string(EnvHTTPAddr, ":8080"),
		ReplicaDSN:     env.string(EnvDBReplicaDSN, ""),
		PGAdapter:      strings.ToLower(env.string(EnvPGAdapter, AdapterPGX)),
		JWTSecret:      env.string(EnvJWTSecret, ""),
		TokenTTL:       env.duration(EnvTokenTTL, auth.DefaultTokenTTL),
		FinePerDay:     env.decimal(EnvFinePerDay, decimal.NewFromInt(5)),
		LogLevel:       env.level(EnvLogLevel, slog.LevelInfo),
		LogFormat:      strings.ToLower(env.string(EnvLogFormat, LogFormatJSON)),
		OTelEndpoint:   env.string(EnvOTelEndpoint, ""),
		MigrateOnStart: env.bool(EnvMigrateOnStart, true),
	}

	driver := env.string(EnvDBDriver, string(sqlengine.DialectSQLite))
	dialect, ok := sqlengine.ParseDialect(strings.ToLower(driver))
	if !ok {
		env.invalid(EnvDBDriver, driver)
	}
	cfg.Dialect = dialect

	switch dialect {
	case sqlengine.DialectSQLite:
		cfg.DSN = env.string(EnvDBDSN, SQLiteDSN("library.db"))
	case sqlengine.DialectPostgres:
		cfg.DSN = env.required(EnvDBDSN)
	}

	switch cfg.PGAdapter {
	case AdapterPGX, AdapterSQL, AdapterSQLX:
	default:
		env.invalid(EnvPGAdapter, cfg.PGAdapter)
	}

	if cfg.ReplicaDSN != "" && (dialect != sqlengine.DialectPostgres || cfg.PGAdapter != AdapterPGX) {
		env.errs = append(env.errs, fmt.Errorf("%w: %s needs the postgres driver with the pgx adapter",
			ErrInvalidVariable, EnvDBReplicaDSN))
	}

	switch cfg.LogFormat {
	case LogFormatJSON, LogFormatText:
	default:
		env.invalid(EnvLogFormat, cfg.LogFormat)
	}

	if cfg.JWTSecret == "" {
		env.errs = append(env.errs, fmt.Errorf("%w: %s", ErrMissingVariable, EnvJWTSecret))
	} else if len(cfg.JWTSecret) < auth.MinSecretLength {
		env.errs = append(env.errs, fmt.Errorf("%w: %s", auth.ErrSecretTooShort, EnvJWTSecret))
	}

	if len(env.errs) > 0 {
		return Config{}, errors.Join(env.errs...)
	}

	return cfg, nil
}

// reader collects every problem instead of stopping at the first one.
type reader struct {
	lookup LookupFunc
	errs   []error
}

func (r *reader) raw(key string) (string, bool) {
	value, ok := r.lookup(key)
	value = strings.TrimSpace(value)

	return value, ok && value != ""
}

func (r *reader) invalid(key, value string) {
	r.errs = append(r.errs, fmt.Errorf("%w: %s=%q", ErrInvalidVariable, key, value))
}

func (r *reader) string(key, fallback string) string {
	if value, ok := r.raw(key); ok {
		return value
	}

	return fallback
}

func (r *reader) required(key string) string {
	value, ok := r.raw(key)
	if !ok {
		r.errs = append(r.errs, fmt.Errorf("%w: %s", ErrMissingVariable, key))
	}

	return value
}

func (r *reader) duration(key string, fallback time.Duration) time.Duration {
	value, ok := r.raw(key)
	if !ok {
		return fallback
	}

	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		r.invalid(key, value)
		return fallback
	}

	return parsed
}

func (r *reader) decimal(key string, fallback decimal.Decimal) decimal.Decimal {
	value, ok := r.raw(key)
	if !ok {
		return fallback
	}

	parsed, err := decimal.NewFromString(value)
	if err != nil || parsed.IsNegative() {
		r.invalid(key, value)
		return fallback
	}

	return parsed
}

func (r *reader) level(key string, fallback slog.Level) slog.Level {
	value, ok := r.raw(key)
	if !ok {
		return fallback
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		r.invalid(key, value)
		return fallback
	}

	return level
}

func (r *reader) bool(key string, fallback bool) bool {
	value, ok := r.raw(key)
	if !ok {
		return fallback
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		r.invalid(key, value)
		return fallback
	}

	return parsed
}
