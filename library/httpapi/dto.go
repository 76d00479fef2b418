package httpapi

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/features/command/resetcatalog"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/activitylog"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
)

type bookDTO struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	AuthorID        uuid.UUID `json:"authorId"`
	CategoryID      uuid.UUID `json:"categoryId"`
	ISBN            string    `json:"isbn,omitempty"`
	Publisher       string    `json:"publisher"`
	PublishedYear   int       `json:"publishedYear"`
	Summary         string    `json:"summary"`
	Language        string    `json:"language"`
	CoverImage      string    `json:"coverImage,omitempty"`
	TotalCopies     int       `json:"totalCopies"`
	AvailableCopies int       `json:"availableCopies"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func toBookDTO(book librarystore.Book) bookDTO {
	return bookDTO{
		ID:              book.ID,
		Title:           book.Title,
		AuthorID:        book.AuthorID,
		CategoryID:      book.CategoryID,
		ISBN:            book.ISBN,
		Publisher:       book.Publisher,
		PublishedYear:   book.PublishedYear,
		Summary:         book.Summary,
		Language:        book.Language,
		CoverImage:      book.CoverImage,
		TotalCopies:     book.TotalCopies,
		AvailableCopies: book.AvailableCopies,
		Status:          book.Status,
		CreatedAt:       book.CreatedAt,
		UpdatedAt:       book.UpdatedAt,
	}
}

type bookAuthorDTO struct {
	Name        string `json:"name"`
	Nationality string `json:"nationality,omitempty"`
	Bio         string `json:"bio,omitempty"`
}

type bookCategoryDTO struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// bookViewDTO is a book populated with its author and category.
type bookViewDTO struct {
	bookDTO
	Author   bookAuthorDTO   `json:"author"`
	Category bookCategoryDTO `json:"category"`
}

func toBookViewDTO(view librarystore.BookView) bookViewDTO {
	return bookViewDTO{
		bookDTO: toBookDTO(view.Book),
		Author: bookAuthorDTO{
			Name:        view.AuthorName,
			Nationality: view.AuthorNationality,
			Bio:         view.AuthorBio,
		},
		Category: bookCategoryDTO{
			Name:        view.CategoryName,
			Description: view.CategoryDescription,
		},
	}
}

func toBookViewDTOs(views []librarystore.BookView) []bookViewDTO {
	dtos := make([]bookViewDTO, 0, len(views))
	for _, view := range views {
		dtos = append(dtos, toBookViewDTO(view))
	}

	return dtos
}

type searchBooksDTO struct {
	Books       []bookViewDTO `json:"books"`
	Total       int           `json:"total"`
	CurrentPage int           `json:"currentPage"`
	TotalPages  int           `json:"totalPages"`
}

type authorDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Bio         string    `json:"bio,omitempty"`
	Nationality string    `json:"nationality,omitempty"`
	BirthYear   *int      `json:"birthYear,omitempty"`
	DeathYear   *int      `json:"deathYear,omitempty"`
}

func toAuthorDTO(author librarystore.Author) authorDTO {
	return authorDTO{
		ID:          author.ID,
		Name:        author.Name,
		Bio:         author.Bio,
		Nationality: author.Nationality,
		BirthYear:   author.BirthYear,
		DeathYear:   author.DeathYear,
	}
}

type categoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
}

// userDTO never carries the password hash.
type userDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	UniversityID string    `json:"universityId"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toUserDTO(user librarystore.User) userDTO {
	return userDTO{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		UniversityID: user.UniversityID,
		Role:         user.Role,
		CreatedAt:    user.CreatedAt,
	}
}

type loginDTO struct {
	User      userDTO   `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type loanDTO struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"userId"`
	BookID     uuid.UUID  `json:"bookId"`
	BorrowDate time.Time  `json:"borrowDate"`
	DueDate    time.Time  `json:"dueDate"`
	ReturnDate *time.Time `json:"returnDate,omitempty"`
	Status     string     `json:"status"`
	Notes      string     `json:"notes,omitempty"`
}

func toLoanDTO(loan librarystore.Loan) loanDTO {
	return loanDTO{
		ID:         loan.ID,
		UserID:     loan.UserID,
		BookID:     loan.BookID,
		BorrowDate: loan.BorrowDate,
		DueDate:    loan.DueDate,
		ReturnDate: loan.ReturnDate,
		Status:     loan.Status,
		Notes:      loan.Notes,
	}
}

// loanListingDTO is a loan with display fields and its derived overdue standing.
// Fine is a decimal string.
type loanListingDTO struct {
	loanDTO
	UserName     string `json:"userName"`
	UserEmail    string `json:"userEmail"`
	UniversityID string `json:"universityId"`
	BookTitle    string `json:"bookTitle"`
	BookISBN     string `json:"bookIsbn,omitempty"`
	AuthorName   string `json:"authorName"`
	IsOverdue    bool   `json:"isOverdue"`
	DaysOverdue  int    `json:"daysOverdue"`
	Fine         string `json:"fine"`
}

func toLoanListingDTOs(loans []shell.LoanWithStanding) []loanListingDTO {
	dtos := make([]loanListingDTO, 0, len(loans))

	for _, loan := range loans {
		dtos = append(dtos, loanListingDTO{
			loanDTO:      toLoanDTO(loan.Loan),
			UserName:     loan.UserName,
			UserEmail:    loan.UserEmail,
			UniversityID: loan.UniversityID,
			BookTitle:    loan.BookTitle,
			BookISBN:     loan.BookISBN,
			AuthorName:   loan.AuthorName,
			IsOverdue:    loan.IsOverdue,
			DaysOverdue:  loan.DaysOverdue,
			Fine:         loan.Fine.String(),
		})
	}

	return dtos
}

type loanListDTO struct {
	Loans []loanListingDTO `json:"loans"`
	Total int              `json:"total"`
}

type paginationDTO struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalLoans  int  `json:"totalLoans"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

type loanPageDTO struct {
	Loans      []loanListingDTO `json:"loans"`
	Pagination paginationDTO    `json:"pagination"`
}

type statsDTO struct {
	TotalBooks   int `json:"totalBooks"`
	TotalUsers   int `json:"totalUsers"`
	ActiveLoans  int `json:"activeLoans"`
	OverdueLoans int `json:"overdueLoans"`
}

type resetItemErrorDTO struct {
	BookID uuid.UUID `json:"book"`
	Error  string    `json:"error"`
}

type resetDTO struct {
	BooksReset   int                 `json:"booksReset"`
	LoansDeleted int64               `json:"loansDeleted"`
	Errors       []resetItemErrorDTO `json:"errors"`
}

func toResetDTO(result resetcatalog.Result) resetDTO {
	dto := resetDTO{
		BooksReset:   result.BooksReset,
		LoansDeleted: result.LoansDeleted,
		Errors:       make([]resetItemErrorDTO, 0, len(result.Errors)),
	}

	for _, itemErr := range result.Errors {
		dto.Errors = append(dto.Errors, resetItemErrorDTO{BookID: itemErr.BookID, Error: itemErr.Error})
	}

	return dto
}

type reminderDTO struct {
	LoanID      string    `json:"loanId"`
	UserName    string    `json:"userName"`
	UserEmail   string    `json:"userEmail"`
	BookTitle   string    `json:"bookTitle"`
	DueDate     time.Time `json:"dueDate"`
	DaysOverdue int       `json:"daysOverdue"`
	Fine        string    `json:"fine"`
}

type remindersDTO struct {
	Reminders []reminderDTO `json:"reminders"`
	Total     int           `json:"total"`
}

func toRemindersDTO(reminders []core.ReturnReminderIssued) remindersDTO {
	dto := remindersDTO{Reminders: make([]reminderDTO, 0, len(reminders)), Total: len(reminders)}

	for _, reminder := range reminders {
		dto.Reminders = append(dto.Reminders, reminderDTO{
			LoanID:      reminder.LoanID,
			UserName:    reminder.UserName,
			UserEmail:   reminder.UserEmail,
			BookTitle:   reminder.BookTitle,
			DueDate:     reminder.DueDate,
			DaysOverdue: reminder.DaysOverdue,
			Fine:        reminder.Fine.String(),
		})
	}

	return dto
}

type activityEntryDTO struct {
	EventType  string           `json:"eventType"`
	OccurredAt time.Time        `json:"occurredAt"`
	Payload    core.DomainEvent `json:"payload"`
}

func toActivityDTOs(entries []activitylog.Entry) []activityEntryDTO {
	dtos := make([]activityEntryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, activityEntryDTO{EventType: entry.EventType, OccurredAt: entry.OccurredAt, Payload: entry.Event})
	}

	return dtos
}
