package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/repository/memstore"
)

type fixture struct {
	store         *memstore.Store
	authz         *auth.Authorizer
	dispatcher    events.Dispatcher
	published     []events.Event
	tickets       *TicketService
	comments      *CommentService
	notifications *NotificationService
	auth          *AuthService
	users         *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	authz, err := auth.NewAuthorizer()
	require.NoError(t, err)

	f := &fixture{store: store, authz: authz, dispatcher: events.NewInMemoryDispatcher(nil)}
	f.notifications = NewNotificationService(NotificationDependencies{
		NotificationRepo: store.Notifications(),
		Authorizer:       authz,
		Dispatcher:       f.dispatcher,
		Sink: func(_ context.Context, event events.Event) error {
			f.published = append(f.published, event)
			return nil
		},
	})
	f.notifications.RegisterHandlers()

	f.tickets = NewTicketService(TicketDependencies{
		TicketRepo: store.Tickets(),
		Authorizer: authz,
		Dispatcher: f.dispatcher,
	})
	f.comments = NewCommentService(CommentDependencies{
		TicketRepo:  store.Tickets(),
		MessageRepo: store.Messages(),
		Authorizer:  authz,
		Dispatcher:  f.dispatcher,
	})
	sessions := auth.NewSessions(auth.NewTokenManager("test-secret", time.Hour), nil, store.Users(), nil)
	f.auth = NewAuthService(AuthDependencies{
		UserRepo:   store.Users(),
		Sessions:   sessions,
		Authorizer: authz,
		BcryptCost: 4,
	})
	f.users = NewUserService(store.Users(), authz, nil)
	return f
}

func (f *fixture) account(t *testing.T, email, username string, role domain.Role) *domain.Account {
	t.Helper()
	input := SignUpInput{Email: email, Password: "secret123", FullName: username, Username: username}
	var (
		account *domain.Account
		err     error
	)
	if role == domain.RoleAdmin {
		account, err = f.auth.BootstrapAdmin(context.Background(), input)
	} else {
		account, err = f.auth.SignUp(context.Background(), nil, input)
	}
	require.NoError(t, err)
	return account
}

func (f *fixture) eventTypes() []events.EventType {
	types := make([]events.EventType, 0, len(f.published))
	for _, e := range f.published {
		types = append(types, e.Type)
	}
	return types
}

type mockTicketRepository struct {
	mock.Mock
}

func (m *mockTicketRepository) Create(ctx context.Context, ticket *domain.Ticket, notice *domain.Notification) error {
	return m.Called(ctx, ticket, notice).Error(0)
}

func (m *mockTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	args := m.Called(ctx, id)
	ticket, _ := args.Get(0).(*domain.Ticket)
	return ticket, args.Error(1)
}

func (m *mockTicketRepository) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	args := m.Called(ctx, filter)
	tickets, _ := args.Get(0).([]domain.Ticket)
	return tickets, args.Error(1)
}

func (m *mockTicketRepository) Update(ctx context.Context, id string, patch repository.TicketPatch) (*domain.Ticket, error) {
	args := m.Called(ctx, id, patch)
	ticket, _ := args.Get(0).(*domain.Ticket)
	return ticket, args.Error(1)
}
