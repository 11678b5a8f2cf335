package service

import (
	"context"
	"errors"
	"html"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

var (
	textPolicy = bluemonday.StrictPolicy()
	validate   = validator.New()
)

// plainText strips markup from user input and trims it.
func plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

// optionalText returns nil for blank input.
func optionalText(s *string) *string {
	if s == nil {
		return nil
	}
	clean := plainText(*s)
	if clean == "" {
		return nil
	}
	return &clean
}

func validEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

// storeError logs a persistence failure and converts it to the caller-facing error.
func storeError(logger *zap.Logger, op, resource string, err error) error {
	err = repository.TranslateError(err)
	switch {
	case errors.Is(err, repository.ErrInvalidID):
		return apperrors.NewNotFound(resource, nil)
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.NewNotFound(resource, nil)
	case errors.Is(err, repository.ErrConflict):
		return apperrors.NewConflict(resource+" already exists", nil)
	case errors.Is(err, repository.ErrInvalidReference):
		return apperrors.NewValidationError("referenced record does not exist", nil)
	}
	logger.Error("store operation failed", zap.String("op", op), zap.Error(err))
	return apperrors.NewInternalError(err)
}

func requireActor(actor *domain.Account) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	return nil
}

// authorizeTicketAccess allows admins (read_all on resource) and, for the read_own grant,
// the ticket's driver.
func authorizeTicketAccess(authz *auth.Authorizer, actor *domain.Account, resource string, ticket *domain.Ticket) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if authz.Allows(actor, resource, auth.ActionReadAll) {
		return nil
	}
	if authz.Allows(actor, resource, auth.ActionReadOwn) && ticket.OwnedBy(actor.ID) {
		return nil
	}
	return apperrors.NewForbidden("you do not have access to this ticket")
}

func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("failed to publish event", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func stringPreview(body string, max int) string {
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	return string(runes[:max]) + "..."
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
