// Package httpapi exposes the library's commands and queries as an HTTP+JSON API under /api.
//
// Requests authenticate with a bearer token issued by POST /api/users/login. Errors are answered as
// {"kind", "message", "field"} with a status derived from the kind. Admins can subscribe to recorded
// domain events on the /api/admin/notifications websocket.
package httpapi
