package librarystore

import (
	"time"

	"github.com/google/uuid"
)

// BookStatus is the persisted availability state of a book.
type BookStatus = string

// LoanStatus is the persisted state of a loan. Only active and returned are ever written,
// overdue is derived when reading.
type LoanStatus = string

// Role is the authorization role of a user.
type Role = string

const (
	BookStatusAvailable   BookStatus = "available"
	BookStatusBorrowed    BookStatus = "borrowed"
	BookStatusMaintenance BookStatus = "maintenance"

	LoanStatusActive   LoanStatus = "active"
	LoanStatusReturned LoanStatus = "returned"

	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Book is a catalog entry together with its copy counters.
type Book struct {
	ID              uuid.UUID
	Title           string
	AuthorID        uuid.UUID
	CategoryID      uuid.UUID
	ISBN            string // empty means "no isbn", stored as NULL
	Publisher       string
	PublishedYear   int
	Summary         string
	Language        string
	CoverImage      string
	TotalCopies     int
	AvailableCopies int
	Status          BookStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BookView is a Book joined with the display fields of its author and category.
type BookView struct {
	Book
	AuthorName          string
	AuthorNationality   string
	AuthorBio           string
	CategoryName        string
	CategoryDescription string
}

// Author of one or more books.
type Author struct {
	ID          uuid.UUID
	Name        string
	Bio         string
	Nationality string
	BirthYear   *int
	DeathYear   *int
	CreatedAt   time.Time
}

// Category groups books.
type Category struct {
	ID          uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
}

// User is a registered library user. PasswordHash never leaves the service.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	UniversityID string
	Role         Role
	CreatedAt    time.Time
}

// Loan records one borrowed copy of a book.
type Loan struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	BookID     uuid.UUID
	BorrowDate time.Time
	DueDate    time.Time
	ReturnDate *time.Time
	Status     LoanStatus
	Notes      string
}

// LoanView is a Loan joined with the display fields of its user and book.
type LoanView struct {
	Loan
	UserName     string
	UserEmail    string
	UniversityID string
	BookTitle    string
	BookISBN     string
	AuthorName   string
}

// ActivityRecord is one entry of the append-only activity log.
type ActivityRecord struct {
	ID         uuid.UUID
	EventType  string
	OccurredAt time.Time
	Payload    []byte
}

// LibraryCounts are the aggregate counters shown on the admin dashboard.
type LibraryCounts struct {
	Books        int
	Users        int
	ActiveLoans  int
	OverdueLoans int
}
