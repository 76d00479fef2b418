// Package loginuser implements login with email and password.
//
// Unknown email and wrong password produce the same error, and both paths run one bcrypt comparison.
package loginuser
