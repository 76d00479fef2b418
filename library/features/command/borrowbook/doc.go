// Package borrowbook implements the Borrow Book use case.
//
// A user borrows one copy of a book for the fixed loan period. The pure Decide function checks the
// preconditions against the state read inside the transaction; the CommandHandler then takes the copy
// with a conditional decrement and inserts the loan. Rejections are recorded as BorrowingBookFailed
// events in the activity log.
package borrowbook
