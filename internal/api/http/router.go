package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Comments       *handlers.CommentsHandler
	Notifications  *handlers.NotificationsHandler
	Users          *handlers.UsersHandler
	Uploads        *handlers.UploadsHandler
	AuthMiddleware *auth.Middleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}
	app.Get("/uploads/:filename", cfg.Uploads.Serve)

	api := app.Group("/api", cfg.AuthMiddleware.Resolve)

	authGroup := api.Group("/auth")
	authGroup.Post("/sign-up", cfg.Auth.SignUp)
	authGroup.Post("/sign-in", cfg.Auth.SignIn)
	authGroup.Post("/sign-out", cfg.Auth.SignOut)
	authGroup.Get("/me", auth.RequireAuth(), cfg.Auth.Me)

	api.Post("/upload", cfg.Uploads.Upload)

	tickets := api.Group("/tickets")
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", auth.RequireAuth(), cfg.Tickets.ListTickets)
	tickets.Get("/:id", auth.RequireAuth(), cfg.Tickets.GetTicket)
	tickets.Patch("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Tickets.UpdateTicket)
	tickets.Put("/:id/status", auth.RequireRole(domain.RoleAdmin), cfg.Tickets.UpdateStatus)
	tickets.Put("/:id/priority", auth.RequireRole(domain.RoleAdmin), cfg.Tickets.UpdatePriority)
	tickets.Get("/:id/comments", auth.RequireAuth(), cfg.Comments.ListComments)
	tickets.Post("/:id/comments", auth.RequireAuth(), cfg.Comments.CreateComment)

	adminOnly := auth.RequireRole(domain.RoleAdmin)
	api.Get("/notifications", adminOnly, cfg.Notifications.List)
	api.Post("/notifications/read-all", adminOnly, cfg.Notifications.MarkAllRead)
	api.Get("/users", adminOnly, cfg.Users.List)
	api.Post("/users", adminOnly, cfg.Users.Create)
	api.Patch("/users/:id", adminOnly, cfg.Users.Update)
	api.Delete("/users/:id", adminOnly, cfg.Users.Delete)
}
