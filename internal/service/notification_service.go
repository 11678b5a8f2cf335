package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// NotificationFeedSize is how many notifications the dashboard shows.
const NotificationFeedSize = 10

// NotificationFeed is the admin dashboard view.
type NotificationFeed struct {
	Items       []domain.Notification
	UnreadCount int
}

// NotificationService serves admin notifications and forwards ticket events to outside sinks.
type NotificationService struct {
	notifications repository.NotificationRepository
	authz         *auth.Authorizer
	dispatcher    events.Dispatcher
	sink          events.EventHandler
	logger        *zap.Logger
}

// NotificationDependencies bundles collaborators. Sink may be nil.
type NotificationDependencies struct {
	NotificationRepo repository.NotificationRepository
	Authorizer       *auth.Authorizer
	Dispatcher       events.Dispatcher
	Sink             events.EventHandler
	Logger           *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	return &NotificationService{
		notifications: deps.NotificationRepo,
		authz:         deps.Authorizer,
		dispatcher:    deps.Dispatcher,
		sink:          deps.Sink,
		logger:        orNop(deps.Logger),
	}
}

// RegisterHandlers subscribes to ticket events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleEvent)
	n.dispatcher.Subscribe(events.EventTicketUpdated, n.handleEvent)
	n.dispatcher.Subscribe(events.EventCommentAdded, n.handleEvent)
}

func (n *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	n.logger.Info("ticket event",
		zap.String("event_type", string(event.Type)),
		zap.String("ticket_id", event.TicketID))
	if n.sink == nil {
		return nil
	}
	return n.sink(ctx, event)
}

// GetNotifications returns the latest notifications and the total unread count.
func (n *NotificationService) GetNotifications(ctx context.Context, actor *domain.Account) (*NotificationFeed, error) {
	if err := n.authorize(actor, auth.ActionReadAll); err != nil {
		return nil, err
	}
	items, err := n.notifications.ListLatest(ctx, NotificationFeedSize)
	if err != nil {
		return nil, storeError(n.logger, "list notifications", "notification", err)
	}
	unread, err := n.notifications.CountUnread(ctx)
	if err != nil {
		return nil, storeError(n.logger, "count notifications", "notification", err)
	}
	if items == nil {
		items = []domain.Notification{}
	}
	return &NotificationFeed{Items: items, UnreadCount: unread}, nil
}

// MarkAllAsRead flags every unread notification as read and returns how many changed.
func (n *NotificationService) MarkAllAsRead(ctx context.Context, actor *domain.Account) (int64, error) {
	if err := n.authorize(actor, auth.ActionUpdate); err != nil {
		return 0, err
	}
	affected, err := n.notifications.MarkAllRead(ctx)
	if err != nil {
		return 0, storeError(n.logger, "mark notifications read", "notification", err)
	}
	return affected, nil
}

func (n *NotificationService) authorize(actor *domain.Account, action string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !n.authz.Allows(actor, auth.ResourceNotification, action) {
		return apperrors.NewForbidden("only admins can access notifications")
	}
	return nil
}
