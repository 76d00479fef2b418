package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AntonStoeckl/library-circulation-go/library/features/command/issuereminders"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/resetcatalog"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/activitylog"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/adminloans"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/librarystats"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/overdueloans"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
)

func (a *api) libraryStats(c *fiber.Ctx, _ shell.Actor) error {
	counts, err := a.handlers.LibraryStats.Handle(c.UserContext(), librarystats.BuildQuery(a.now()))
	if err != nil {
		return err
	}

	return c.JSON(statsDTO{
		TotalBooks:   counts.Books,
		TotalUsers:   counts.Users,
		ActiveLoans:  counts.ActiveLoans,
		OverdueLoans: counts.OverdueLoans,
	})
}

// resetCatalog answers 200 even when single books failed; they are listed in errors.
func (a *api) resetCatalog(c *fiber.Ctx, _ shell.Actor) error {
	result, err := a.handlers.ResetCatalog.Handle(c.UserContext(), resetcatalog.BuildCommand(a.now()))
	if err != nil {
		return err
	}

	return c.JSON(toResetDTO(result))
}

func (a *api) adminLoans(c *fiber.Ctx, _ shell.Actor) error {
	page, err := queryInt(c, "page")
	if err != nil {
		return err
	}

	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}

	result, err := a.handlers.AdminLoans.Handle(c.UserContext(), adminloans.BuildQuery(page, limit, a.now()))
	if err != nil {
		return err
	}

	return c.JSON(loanPageDTO{
		Loans: toLoanListingDTOs(result.Loans),
		Pagination: paginationDTO{
			CurrentPage: result.Pagination.CurrentPage,
			TotalPages:  result.Pagination.TotalPages,
			TotalLoans:  result.Pagination.TotalLoans,
			HasNext:     result.Pagination.HasNext,
			HasPrev:     result.Pagination.HasPrev,
		},
	})
}

func (a *api) overdueLoans(c *fiber.Ctx, _ shell.Actor) error {
	result, err := a.handlers.OverdueLoans.Handle(c.UserContext(), overdueloans.BuildQuery(a.now()))
	if err != nil {
		return err
	}

	return c.JSON(loanListDTO{Loans: toLoanListingDTOs(result.Loans), Total: result.Total})
}

func (a *api) issueReminders(c *fiber.Ctx, _ shell.Actor) error {
	reminders, err := a.handlers.IssueReminders.Handle(c.UserContext(), issuereminders.BuildCommand(a.now()))
	if err != nil {
		return err
	}

	return c.JSON(toRemindersDTO(reminders))
}

func (a *api) activityLog(c *fiber.Ctx, _ shell.Actor) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}

	entries, err := a.handlers.ActivityLog.Handle(c.UserContext(), activitylog.BuildQuery(limit))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"entries": toActivityDTOs(entries)})
}
