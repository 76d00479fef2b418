package httpapi

import (
	"context"
	"io"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
)

const (
	maxBodyBytes = 1 << 20

	accessLogFormat = `{"time":"${time}","level":"INFO","msg":"http request served",` +
		`"method":"${method}","path":"${path}","status":${status},"latency":"${latency}"}` + "\n"
)

// AppConfig holds what NewApp needs. Hub may be nil, which disables the notifications route.
// AccessLog receives one JSON line per request; nil disables the access log. Clock defaults to time.Now.
type AppConfig struct {
	Handlers  Handlers
	Tokens    TokenVerifier
	Hub       *Hub
	Logger    shell.ContextualLogger
	AccessLog io.Writer
	Clock     func() time.Time
}

type api struct {
	responder
	handlers Handlers
	tokens   TokenVerifier
	hub      *Hub
	now      func() time.Time
}

// NewApp returns the fiber application serving the complete HTTP surface of the service.
func NewApp(cfg AppConfig) *fiber.App {
	a := &api{
		responder: responder{logger: cfg.Logger},
		handlers:  cfg.Handlers,
		tokens:    cfg.Tokens,
		hub:       cfg.Hub,
		now:       cfg.Clock,
	}

	if a.now == nil {
		a.now = time.Now
	}

	app := fiber.New(fiber.Config{
		AppName:               "libraryd",
		BodyLimit:             maxBodyBytes,
		DisableStartupMessage: true,
		ErrorHandler:          a.handleError,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
	})

	if cfg.AccessLog != nil {
		app.Use(logger.New(logger.Config{
			Format:        accessLogFormat,
			TimeFormat:    time.RFC3339Nano,
			Output:        cfg.AccessLog,
			DisableColors: true,
		}))
	}

	app.Use(recover.New())

	app.Get("/healthz", a.healthz)

	routes := app.Group("/api", a.authenticate)

	routes.Get("/books", a.requireUser(a.searchBooks))
	routes.Post("/books", a.requireAdmin(a.addBook))
	routes.Post("/books/auto-create", a.requireAdmin(a.autoCreateBook))
	routes.Get("/books/:id", a.requireUser(a.bookDetails))
	routes.Put("/books/:id", a.requireAdmin(a.updateBook))
	routes.Delete("/books/:id", a.requireAdmin(a.removeBook))

	routes.Get("/authors", a.requireUser(a.listAuthors))
	routes.Post("/authors", a.requireAdmin(a.addAuthor))
	routes.Get("/categories", a.requireUser(a.listCategories))

	routes.Post("/loans", a.requireUser(a.borrowBook))
	routes.Put("/loans/:id/return", a.requireUser(a.returnLoan))
	routes.Get("/loans/my", a.requireUser(a.myLoans))
	routes.Get("/loans/all", a.requireAdmin(a.allLoans))

	routes.Post("/users/register", a.registerUser)
	routes.Post("/users/login", a.loginUser)
	routes.Get("/users/profile", a.requireUser(a.profile))
	routes.Get("/users", a.requireAdmin(a.listUsers))

	admin := routes.Group("/admin")
	admin.Get("/stats", a.requireAdmin(a.libraryStats))
	admin.Post("/reset-books", a.requireAdmin(a.resetCatalog))
	admin.Get("/loans", a.requireAdmin(a.adminLoans))
	admin.Get("/overdue-loans", a.requireAdmin(a.overdueLoans))
	admin.Post("/send-reminders", a.requireAdmin(a.issueReminders))
	admin.Get("/activity", a.requireAdmin(a.activityLog))

	if a.hub != nil {
		admin.Get("/notifications", a.requireAdmin(a.notifications()))
	}

	return app
}

func (a *api) healthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// notifications upgrades an admin's request and hands the connection to the hub.
// The actor travels through the locals because the websocket handler runs without a fiber.Ctx.
func (a *api) notifications() actorHandler {
	serve := websocket.New(func(conn *websocket.Conn) {
		actor, _ := conn.Locals(localsActor).(shell.Actor)

		if err := a.hub.Serve(conn, actor); err != nil {
			a.log(shell.WithActor(context.Background(), actor), logMsgSubscribeFailed, logAttrError, err.Error())
		}
	})

	return func(c *fiber.Ctx, actor shell.Actor) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		c.Locals(localsActor, actor)

		return serve(c)
	}
}
