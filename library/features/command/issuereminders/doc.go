// Package issuereminders records a return reminder for every overdue loan and pushes it to live subscribers.
// Delivering reminders by e-mail is outside this service.
package issuereminders
