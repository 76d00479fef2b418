// Package auth hashes user passwords with bcrypt and issues and verifies HS256 bearer tokens.
package auth
