package service

import (
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// Repositories is the storage backing the services, either Postgres or memstore.
type Repositories struct {
	Users         repository.UserRepository
	Tickets       repository.TicketRepository
	Messages      repository.MessageRepository
	Notifications repository.NotificationRepository
}

// Options carries the collaborators shared by every service.
type Options struct {
	Sessions   *auth.Sessions
	Authorizer *auth.Authorizer
	Dispatcher events.Dispatcher
	// Sink receives every ticket event after commit. Nil disables forwarding.
	Sink       events.EventHandler
	BcryptCost int
	Logger     *zap.Logger
}

// Services groups the application services.
type Services struct {
	Auth          *AuthService
	Users         *UserService
	Tickets       *TicketService
	Comments      *CommentService
	Notifications *NotificationService
}

// New builds every service and registers event handlers.
func New(repos Repositories, opts Options) *Services {
	logger := orNop(opts.Logger)
	notifications := NewNotificationService(NotificationDependencies{
		NotificationRepo: repos.Notifications,
		Authorizer:       opts.Authorizer,
		Dispatcher:       opts.Dispatcher,
		Sink:             opts.Sink,
		Logger:           logger.Named("notifications"),
	})
	notifications.RegisterHandlers()

	return &Services{
		Auth: NewAuthService(AuthDependencies{
			UserRepo:   repos.Users,
			Sessions:   opts.Sessions,
			Authorizer: opts.Authorizer,
			BcryptCost: opts.BcryptCost,
			Logger:     logger.Named("auth"),
		}),
		Users: NewUserService(repos.Users, opts.Authorizer, logger.Named("users")),
		Tickets: NewTicketService(TicketDependencies{
			TicketRepo: repos.Tickets,
			Authorizer: opts.Authorizer,
			Dispatcher: opts.Dispatcher,
			Logger:     logger.Named("tickets"),
		}),
		Comments: NewCommentService(CommentDependencies{
			TicketRepo:  repos.Tickets,
			MessageRepo: repos.Messages,
			Authorizer:  opts.Authorizer,
			Dispatcher:  opts.Dispatcher,
			Logger:      logger.Named("comments"),
		}),
		Notifications: notifications,
	}
}
