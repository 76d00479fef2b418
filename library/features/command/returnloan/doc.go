// Package returnloan implements the Return Loan use case.
//
// The borrower, or an admin on their behalf, returns an active loan. Closing the loan is a conditional
// update, so of two racing returns only one puts the copy back on the shelf.
package returnloan
