// Package updatebook implements the Update Book use case.
//
// An admin edits the descriptive fields and the number of copies of a book. The available copies follow
// the change of total copies and are clamped to [0, total], so removing copies while some are lent out
// shrinks the shelf by less than the delta. The write is a compare-and-set on the counters that were read.
package updatebook
