// Package registeruser implements user registration.
//
// Self-registration always creates a "user"; admins are created from the command line with BuildAdminCommand.
// Email addresses are stored trimmed and lower-cased, passwords only as a bcrypt hash.
package registeruser
