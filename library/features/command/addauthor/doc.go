// Package addauthor implements the Add Author use case. Author names are unique.
package addauthor
