package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

func TestSignUpThenSignIn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	account, err := f.auth.SignUp(ctx, nil, SignUpInput{
		Email:    "Ana@Example.com",
		Password: "secret123",
		FullName: "Ana Driver",
		Username: "ana",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, account.Role)
	assert.Equal(t, "ana@example.com", account.Email)

	session, err := f.auth.SignIn(ctx, "ana@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, account.ID, session.Account.ID)

	current := f.auth.CurrentUser(ctx, session.Token)
	require.NotNil(t, current)
	assert.Equal(t, "Ana Driver", current.FullName)
}

func TestSignIn_GenericFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.account(t, "ana@example.com", "ana", domain.RoleUser)

	_, wrongPassword := f.auth.SignIn(ctx, "ana@example.com", "not-it")
	_, unknownEmail := f.auth.SignIn(ctx, "nobody@example.com", "secret123")

	for _, err := range []error{wrongPassword, unknownEmail} {
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))
		assert.Equal(t, "invalid email or password", err.Error())
	}
}

func TestSignUp_RoleGate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.account(t, "admin@example.com", "admin", domain.RoleAdmin)
	user := f.account(t, "user@example.com", "user", domain.RoleUser)
	input := SignUpInput{Email: "new@example.com", Password: "secret123", FullName: "New", Username: "new", Role: "ADMIN"}

	_, err := f.auth.SignUp(ctx, nil, input)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	_, err = f.auth.SignUp(ctx, user, input)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	created, err := f.auth.SignUp(ctx, admin, input)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, created.Role)
}

func TestSignUp_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.account(t, "taken@example.com", "taken", domain.RoleUser)

	cases := map[string]struct {
		input SignUpInput
		code  string
	}{
		"bad email":      {SignUpInput{Email: "x", Password: "secret123", FullName: "a", Username: "a"}, "VALIDATION_FAILED"},
		"short password": {SignUpInput{Email: "a@example.com", Password: "123", FullName: "a", Username: "a"}, "VALIDATION_FAILED"},
		"missing name":   {SignUpInput{Email: "a@example.com", Password: "secret123", Username: "a"}, "VALIDATION_FAILED"},
		"unknown role":   {SignUpInput{Email: "a@example.com", Password: "secret123", FullName: "a", Username: "a", Role: "ROOT"}, "VALIDATION_FAILED"},
		"duplicate":      {SignUpInput{Email: "taken@example.com", Password: "secret123", FullName: "a", Username: "a"}, "CONFLICT"},
		"dup username":   {SignUpInput{Email: "b@example.com", Password: "secret123", FullName: "a", Username: "taken"}, "CONFLICT"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.auth.SignUp(ctx, nil, tc.input)
			assert.True(t, apperrors.IsCode(err, tc.code), err)
		})
	}
}

func TestCurrentUser_NilOnFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	assert.Nil(t, f.auth.CurrentUser(ctx, ""))
	assert.Nil(t, f.auth.CurrentUser(ctx, "garbage"))

	account := f.account(t, "gone@example.com", "gone", domain.RoleUser)
	session, err := f.auth.SignIn(ctx, "gone@example.com", "secret123")
	require.NoError(t, err)
	require.NoError(t, f.store.Users().Delete(ctx, account.ID))
	assert.Nil(t, f.auth.CurrentUser(ctx, session.Token))
}
