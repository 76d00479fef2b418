package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/features/command/borrowbook"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/returnloan"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/allloans"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/myloans"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
)

type borrowRequest struct {
	BookID string `json:"bookId"`
	Notes  string `json:"notes"`
}

// borrowBook lends a copy to the caller. The borrower is always the authenticated actor.
func (a *api) borrowBook(c *fiber.Ctx, actor shell.Actor) error {
	var req borrowRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	bookID, err := requiredID("bookId", req.BookID)
	if err != nil {
		return err
	}

	command := borrowbook.BuildCommand(uuid.New(), bookID, actor.UserID, req.Notes, a.now())

	loan, err := a.handlers.BorrowBook.Handle(c.UserContext(), command)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(toLoanDTO(loan))
}

func (a *api) returnLoan(c *fiber.Ctx, actor shell.Actor) error {
	loanID, err := pathID(c)
	if err != nil {
		return err
	}

	loan, err := a.handlers.ReturnLoan.Handle(c.UserContext(), returnloan.BuildCommand(loanID, actor, a.now()))
	if err != nil {
		return err
	}

	return c.JSON(toLoanDTO(loan))
}

func (a *api) myLoans(c *fiber.Ctx, actor shell.Actor) error {
	result, err := a.handlers.MyLoans.Handle(c.UserContext(), myloans.BuildQuery(actor.UserID, a.now()))
	if err != nil {
		return err
	}

	return c.JSON(loanListDTO{Loans: toLoanListingDTOs(result.Loans), Total: result.Total})
}

func (a *api) allLoans(c *fiber.Ctx, _ shell.Actor) error {
	result, err := a.handlers.AllLoans.Handle(c.UserContext(), allloans.BuildQuery(a.now()))
	if err != nil {
		return err
	}

	return c.JSON(loanListDTO{Loans: toLoanListingDTOs(result.Loans), Total: result.Total})
}
