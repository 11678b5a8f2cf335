package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/service"
	"github.com/spec-kit/helpdesk/internal/storage"
)

// ServerDependencies is everything the HTTP surface needs.
type ServerDependencies struct {
	App          config.AppConfig
	Auth         config.AuthConfig
	Storage      config.StorageConfig
	Services     *service.Services
	Sessions     *auth.Sessions
	Blobs        *storage.BlobStore
	Dependencies map[string]handlers.Pinger
	Metrics      *observability.Metrics
	Logger       *zap.Logger
}

// NewServer builds the fiber app with middlewares and routes registered.
func NewServer(deps ServerDependencies) *fiber.App {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	bodyLimit := deps.App.BodyLimitMB
	if bodyLimit <= 0 {
		bodyLimit = 25
	}
	app := fiber.New(fiber.Config{
		AppName:               deps.App.Name,
		BodyLimit:             bodyLimit * 1024 * 1024,
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	})

	RegisterMiddlewares(app, deps.Logger, deps.Metrics, deps.App.RequestTimeout())

	svc := deps.Services
	RegisterRoutes(app, RouteConfig{
		Health: handlers.NewHealthHandler(deps.App.Name, deps.App.Version, deps.Dependencies),
		Auth: handlers.NewAuthHandler(svc.Auth, auth.CookieSettings{
			Name:   deps.Auth.CookieName,
			Secure: deps.App.IsProduction(),
			TTL:    deps.Sessions.TTL(),
		}),
		Tickets:        handlers.NewTicketsHandler(svc.Tickets),
		Comments:       handlers.NewCommentsHandler(svc.Comments),
		Notifications:  handlers.NewNotificationsHandler(svc.Notifications),
		Users:          handlers.NewUsersHandler(svc.Users, svc.Auth),
		Uploads:        handlers.NewUploadsHandler(deps.Blobs, int64(deps.Storage.MaxUploadMB)*1024*1024, deps.Logger),
		AuthMiddleware: auth.NewMiddleware(deps.Sessions, deps.Auth.CookieName),
		Metrics:        deps.Metrics,
	})
	return app
}
