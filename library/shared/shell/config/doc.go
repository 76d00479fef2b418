// Package config loads the service configuration from the environment and builds the
// infrastructure it describes: database connections, the store, loggers and OpenTelemetry providers.
//
// An optional .env file in the working directory is read first. Variables already set in the
// environment win over the file.
package config
