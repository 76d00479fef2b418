package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/features/command/addauthor"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/addbook"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/removebook"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/updatebook"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/authors"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/bookdetails"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/categories"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/searchbooks"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
)

type bookDetailsRequest struct {
	Title         string `json:"title"`
	ISBN          string `json:"isbn"`
	Publisher     string `json:"publisher"`
	PublishedYear *int   `json:"publishedYear"`
	Summary       string `json:"summary"`
	Language      string `json:"language"`
	CoverImage    string `json:"coverImage"`
	TotalCopies   *int   `json:"totalCopies"`
}

func (r bookDetailsRequest) details() addbook.Details {
	return addbook.Details{
		Title:         r.Title,
		ISBN:          r.ISBN,
		Publisher:     r.Publisher,
		PublishedYear: r.PublishedYear,
		Summary:       r.Summary,
		Language:      r.Language,
		CoverImage:    r.CoverImage,
		TotalCopies:   r.TotalCopies,
	}
}

type addBookRequest struct {
	bookDetailsRequest
	AuthorID   string `json:"authorId"`
	CategoryID string `json:"categoryId"`
}

type autoCreateBookRequest struct {
	bookDetailsRequest
	AuthorName   string `json:"authorName"`
	CategoryName string `json:"categoryName"`
}

// updateBookRequest uses pointers so that omitted fields keep their stored values.
// AvailableCopies is only decoded to reject it.
type updateBookRequest struct {
	Title           string  `json:"title"`
	CategoryName    string  `json:"categoryName"`
	PublishedYear   *int    `json:"publishedYear"`
	Summary         *string `json:"summary"`
	TotalCopies     *int    `json:"totalCopies"`
	ISBN            *string `json:"isbn"`
	Publisher       *string `json:"publisher"`
	Language        *string `json:"language"`
	CoverImage      *string `json:"coverImage"`
	Maintenance     *bool   `json:"maintenance"`
	AvailableCopies *int    `json:"availableCopies"`
}

type addAuthorRequest struct {
	Name        string `json:"name"`
	Bio         string `json:"bio"`
	Nationality string `json:"nationality"`
	BirthYear   *int   `json:"birthYear"`
	DeathYear   *int   `json:"deathYear"`
}

func (a *api) searchBooks(c *fiber.Ctx, _ shell.Actor) error {
	authorID, err := optionalID("author", c.Query("author"))
	if err != nil {
		return err
	}

	categoryID, err := optionalID("category", c.Query("category"))
	if err != nil {
		return err
	}

	page, err := queryInt(c, "page")
	if err != nil {
		return err
	}

	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}

	query := searchbooks.BuildQuery(c.Query("search"), authorID, categoryID, page, limit)

	result, err := a.handlers.SearchBooks.Handle(c.UserContext(), query)
	if err != nil {
		return err
	}

	return c.JSON(searchBooksDTO{
		Books:       toBookViewDTOs(result.Books),
		Total:       result.Total,
		CurrentPage: result.CurrentPage,
		TotalPages:  result.TotalPages,
	})
}

func (a *api) bookDetails(c *fiber.Ctx, _ shell.Actor) error {
	bookID, err := pathID(c)
	if err != nil {
		return err
	}

	view, err := a.handlers.BookDetails.Handle(c.UserContext(), bookdetails.BuildQuery(bookID))
	if err != nil {
		return err
	}

	return c.JSON(toBookViewDTO(view))
}

func (a *api) addBook(c *fiber.Ctx, _ shell.Actor) error {
	var req addBookRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	authorID, err := optionalID("authorId", req.AuthorID)
	if err != nil {
		return err
	}

	categoryID, err := optionalID("categoryId", req.CategoryID)
	if err != nil {
		return err
	}

	command := addbook.BuildCommand(uuid.New(), authorID, categoryID, req.details(), a.now())

	book, err := a.handlers.AddBook.Handle(c.UserContext(), command)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(toBookDTO(book))
}

func (a *api) autoCreateBook(c *fiber.Ctx, _ shell.Actor) error {
	var req autoCreateBookRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	command := addbook.BuildAutoCreateCommand(uuid.New(), req.AuthorName, req.CategoryName, req.details(), a.now())

	book, err := a.handlers.AutoCreateBook.Handle(c.UserContext(), command)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(toBookDTO(book))
}

func (a *api) updateBook(c *fiber.Ctx, _ shell.Actor) error {
	bookID, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateBookRequest
	if err = decodeBody(c, &req); err != nil {
		return err
	}

	if req.AvailableCopies != nil {
		return core.ValidationError("availableCopies", "availableCopies is derived from totalCopies and loans")
	}

	command := updatebook.BuildCommand(bookID, req.Title, req.CategoryName, a.now())
	command.PublishedYear = req.PublishedYear
	command.Summary = req.Summary
	command.TotalCopies = req.TotalCopies
	command.ISBN = req.ISBN
	command.Publisher = req.Publisher
	command.Language = req.Language
	command.CoverImage = req.CoverImage
	command.Maintenance = req.Maintenance

	book, err := a.handlers.UpdateBook.Handle(c.UserContext(), command)
	if err != nil {
		return err
	}

	return c.JSON(toBookDTO(book))
}

func (a *api) removeBook(c *fiber.Ctx, _ shell.Actor) error {
	bookID, err := pathID(c)
	if err != nil {
		return err
	}

	if _, err = a.handlers.RemoveBook.Handle(c.UserContext(), removebook.BuildCommand(bookID, a.now())); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (a *api) listAuthors(c *fiber.Ctx, _ shell.Actor) error {
	list, err := a.handlers.Authors.Handle(c.UserContext(), authors.BuildQuery())
	if err != nil {
		return err
	}

	dtos := make([]authorDTO, 0, len(list))
	for _, author := range list {
		dtos = append(dtos, toAuthorDTO(author))
	}

	return c.JSON(fiber.Map{"authors": dtos})
}

func (a *api) addAuthor(c *fiber.Ctx, _ shell.Actor) error {
	var req addAuthorRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	command := addauthor.BuildCommand(uuid.New(), req.Name, req.Bio, req.Nationality, req.BirthYear, req.DeathYear, a.now())

	author, err := a.handlers.AddAuthor.Handle(c.UserContext(), command)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(toAuthorDTO(author))
}

func (a *api) listCategories(c *fiber.Ctx, _ shell.Actor) error {
	list, err := a.handlers.Categories.Handle(c.UserContext(), categories.BuildQuery())
	if err != nil {
		return err
	}

	dtos := make([]categoryDTO, 0, len(list))
	for _, category := range list {
		dtos = append(dtos, categoryDTO{ID: category.ID, Name: category.Name, Description: category.Description})
	}

	return c.JSON(fiber.Map{"categories": dtos})
}
