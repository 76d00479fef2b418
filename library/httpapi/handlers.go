package httpapi

import (
	"errors"

	"github.com/AntonStoeckl/library-circulation-go/library/features/command/addauthor"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/addbook"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/borrowbook"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/issuereminders"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/loginuser"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/registeruser"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/removebook"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/resetcatalog"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/returnloan"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/updatebook"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/activitylog"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/adminloans"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/allloans"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/authors"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/bookdetails"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/categories"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/librarystats"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/myloans"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/overdueloans"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/profile"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/searchbooks"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/users"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell/auth"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell/observable"
	"github.com/AntonStoeckl/library-circulation-go/librarystore"
	"github.com/AntonStoeckl/library-circulation-go/librarystore/sqlengine"
)

// Handlers holds one handler per use case. BuildHandlers returns them wrapped with observability.
type Handlers struct {
	AddBook        shell.CommandHandler[addbook.Command, librarystore.Book]
	AutoCreateBook shell.CommandHandler[addbook.AutoCreateCommand, librarystore.Book]
	UpdateBook     shell.CommandHandler[updatebook.Command, librarystore.Book]
	RemoveBook     shell.CommandHandler[removebook.Command, removebook.Result]
	AddAuthor      shell.CommandHandler[addauthor.Command, librarystore.Author]
	BorrowBook     shell.CommandHandler[borrowbook.Command, librarystore.Loan]
	ReturnLoan     shell.CommandHandler[returnloan.Command, librarystore.Loan]
	RegisterUser   shell.CommandHandler[registeruser.Command, librarystore.User]
	LoginUser      shell.CommandHandler[loginuser.Command, loginuser.Result]
	ResetCatalog   shell.CommandHandler[resetcatalog.Command, resetcatalog.Result]
	IssueReminders shell.CommandHandler[issuereminders.Command, []core.ReturnReminderIssued]

	SearchBooks  shell.QueryHandler[searchbooks.Query, searchbooks.Result]
	BookDetails  shell.QueryHandler[bookdetails.Query, librarystore.BookView]
	Authors      shell.QueryHandler[authors.Query, []librarystore.Author]
	Categories   shell.QueryHandler[categories.Query, []librarystore.Category]
	Users        shell.QueryHandler[users.Query, []librarystore.User]
	Profile      shell.QueryHandler[profile.Query, librarystore.User]
	MyLoans      shell.QueryHandler[myloans.Query, myloans.Result]
	AllLoans     shell.QueryHandler[allloans.Query, allloans.Result]
	AdminLoans   shell.QueryHandler[adminloans.Query, adminloans.Result]
	OverdueLoans shell.QueryHandler[overdueloans.Query, overdueloans.Result]
	LibraryStats shell.QueryHandler[librarystats.Query, librarystore.LibraryCounts]
	ActivityLog  shell.QueryHandler[activitylog.Query, []activitylog.Entry]
}

// Services are the collaborators the handlers need besides the store.
// A nil Publisher drops events, a nil Logger disables the reset's per-book failure log.
type Services struct {
	Hasher    auth.PasswordHasher
	Tokens    auth.Tokens
	Policy    core.LoanPolicy
	Publisher shell.EventPublisher
	Logger    shell.ContextualLogger
}

// BuildHandlers creates all handlers on store and wraps each one with the given observability options.
func BuildHandlers(store sqlengine.Store, services Services, opts ...observable.Option) (Handlers, error) {
	publisher := services.Publisher
	if publisher == nil {
		publisher = shell.NoopPublisher{}
	}

	resetOptions := []resetcatalog.Option{resetcatalog.WithPublisher(publisher)}
	if services.Logger != nil {
		resetOptions = append(resetOptions, resetcatalog.WithLogger(services.Logger))
	}

	w := &wrapping{opts: opts}

	handlers := Handlers{
		AddBook: wrapCommand[addbook.Command, librarystore.Book](w,
			addbook.NewCommandHandler(store, addbook.WithPublisher(publisher))),
		AutoCreateBook: wrapCommand[addbook.AutoCreateCommand, librarystore.Book](w,
			addbook.NewAutoCreateCommandHandler(store, addbook.WithPublisher(publisher))),
		UpdateBook: wrapCommand[updatebook.Command, librarystore.Book](w,
			updatebook.NewCommandHandler(store, updatebook.WithPublisher(publisher))),
		RemoveBook: wrapCommand[removebook.Command, removebook.Result](w,
			removebook.NewCommandHandler(store, removebook.WithPublisher(publisher))),
		AddAuthor: wrapCommand[addauthor.Command, librarystore.Author](w,
			addauthor.NewCommandHandler(store, addauthor.WithPublisher(publisher))),
		BorrowBook: wrapCommand[borrowbook.Command, librarystore.Loan](w,
			borrowbook.NewCommandHandler(store, borrowbook.WithPublisher(publisher))),
		ReturnLoan: wrapCommand[returnloan.Command, librarystore.Loan](w,
			returnloan.NewCommandHandler(store, returnloan.WithPublisher(publisher))),
		RegisterUser: wrapCommand[registeruser.Command, librarystore.User](w,
			registeruser.NewCommandHandler(store, services.Hasher, registeruser.WithPublisher(publisher))),
		LoginUser: wrapCommand[loginuser.Command, loginuser.Result](w,
			loginuser.NewCommandHandler(store, services.Hasher, services.Tokens)),
		ResetCatalog: wrapCommand[resetcatalog.Command, resetcatalog.Result](w,
			resetcatalog.NewCommandHandler(store, resetOptions...)),
		IssueReminders: wrapCommand[issuereminders.Command, []core.ReturnReminderIssued](w,
			issuereminders.NewCommandHandler(store, services.Policy, issuereminders.WithPublisher(publisher))),

		SearchBooks: wrapQuery[searchbooks.Query, searchbooks.Result](w,
			searchbooks.NewQueryHandler(store)),
		BookDetails: wrapQuery[bookdetails.Query, librarystore.BookView](w,
			bookdetails.NewQueryHandler(store)),
		Authors: wrapQuery[authors.Query, []librarystore.Author](w,
			authors.NewQueryHandler(store)),
		Categories: wrapQuery[categories.Query, []librarystore.Category](w,
			categories.NewQueryHandler(store)),
		Users: wrapQuery[users.Query, []librarystore.User](w,
			users.NewQueryHandler(store)),
		Profile: wrapQuery[profile.Query, librarystore.User](w,
			profile.NewQueryHandler(store)),
		MyLoans: wrapQuery[myloans.Query, myloans.Result](w,
			myloans.NewQueryHandler(store, services.Policy)),
		AllLoans: wrapQuery[allloans.Query, allloans.Result](w,
			allloans.NewQueryHandler(store, services.Policy)),
		AdminLoans: wrapQuery[adminloans.Query, adminloans.Result](w,
			adminloans.NewQueryHandler(store, services.Policy)),
		OverdueLoans: wrapQuery[overdueloans.Query, overdueloans.Result](w,
			overdueloans.NewQueryHandler(store, services.Policy)),
		LibraryStats: wrapQuery[librarystats.Query, librarystore.LibraryCounts](w,
			librarystats.NewQueryHandler(store)),
		ActivityLog: wrapQuery[activitylog.Query, []activitylog.Entry](w,
			activitylog.NewQueryHandler(store)),
	}

	if len(w.errs) > 0 {
		return Handlers{}, errors.Join(w.errs...)
	}

	return handlers, nil
}

// wrapping collects wrapper construction errors so BuildHandlers can report all of them at once.
type wrapping struct {
	opts []observable.Option
	errs []error
}

func wrapCommand[C shell.Command, R any](w *wrapping, handler shell.CommandHandler[C, R]) shell.CommandHandler[C, R] {
	wrapped, err := observable.NewCommandWrapper(handler, w.opts...)
	if err != nil {
		w.errs = append(w.errs, err)
		return handler
	}

	return wrapped
}

func wrapQuery[Q shell.Query, R any](w *wrapping, handler shell.QueryHandler[Q, R]) shell.QueryHandler[Q, R] {
	wrapped, err := observable.NewQueryWrapper(handler, w.opts...)
	if err != nil {
		w.errs = append(w.errs, err)
		return handler
	}

	return wrapped
}
