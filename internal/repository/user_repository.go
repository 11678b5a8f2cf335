package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// ProfilePatch lists the profile fields an admin may change. Nil fields are left untouched.
type ProfilePatch struct {
	FullName *string
	Role     *domain.Role
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.FullName == nil && p.Role == nil
}

// UserRepository persists credential records and their profiles.
type UserRepository interface {
	CreateWithProfile(ctx context.Context, user *domain.User, profile *domain.Profile) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	ListProfiles(ctx context.Context) ([]domain.Profile, error)
	UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (*domain.Profile, error)
	Delete(ctx context.Context, id string) error
}

type userRepository struct {
	db DB
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

// CreateWithProfile inserts the user and its profile atomically; a failure on either insert
// leaves neither row behind.
func (r *userRepository) CreateWithProfile(ctx context.Context, user *domain.User, profile *domain.Profile) error {
	const insertUser = `
        INSERT INTO users (email, password_hash)
        VALUES ($1, $2)
        RETURNING id, created_at`
	const insertProfile = `
        INSERT INTO profiles (id, full_name, username, role, updated_at)
        VALUES ($1, $2, $3, $4, NOW())
        RETURNING updated_at`

	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, insertUser, user.Email, user.PasswordHash).
			Scan(&user.ID, &user.CreatedAt); err != nil {
			return TranslateError(err)
		}
		profile.ID = user.ID
		if err := tx.QueryRow(ctx, insertProfile,
			profile.ID,
			profile.FullName,
			profile.Username,
			profile.Role,
		).Scan(&profile.UpdatedAt); err != nil {
			return TranslateError(err)
		}
		return nil
	})
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT id, email, password_hash, created_at
        FROM users WHERE email=$1`

	var user domain.User
	if err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	const query = `
        SELECT p.id, p.full_name, p.username, p.role, p.updated_at, u.email
        FROM profiles p JOIN users u ON p.id = u.id
        WHERE p.id=$1`

	var account domain.Account
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&account.ID,
		&account.FullName,
		&account.Username,
		&account.Role,
		&account.UpdatedAt,
		&account.Email,
	); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *userRepository) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	const query = `
        SELECT id, full_name, username, role, updated_at
        FROM profiles ORDER BY updated_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Profile
	for rows.Next() {
		var profile domain.Profile
		if err := rows.Scan(
			&profile.ID,
			&profile.FullName,
			&profile.Username,
			&profile.Role,
			&profile.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, profile)
	}
	return result, rows.Err()
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (*domain.Profile, error) {
	fields := []string{}
	args := []any{}
	if patch.FullName != nil {
		args = append(args, *patch.FullName)
		fields = append(fields, fmt.Sprintf("full_name=$%d", len(args)))
	}
	if patch.Role != nil {
		args = append(args, *patch.Role)
		fields = append(fields, fmt.Sprintf("role=$%d", len(args)))
	}
	fields = append(fields, "updated_at=NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE profiles SET %s WHERE id=$%d
        RETURNING id, full_name, username, role, updated_at`, strings.Join(fields, ", "), len(args))

	var profile domain.Profile
	if err := r.db.QueryRow(ctx, query, args...).Scan(
		&profile.ID,
		&profile.FullName,
		&profile.Username,
		&profile.Role,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Delete removes the profile and then the user in one transaction.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, `DELETE FROM profiles WHERE id=$1`, id)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id=$1`, id); err != nil {
			return err
		}
		return nil
	})
}
