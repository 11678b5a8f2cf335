package dto

import "time"

// SignUpRequest payload. Role is honored only for admin callers.
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required,max=120"`
	Username string `json:"username" validate:"required,max=60"`
	Role     string `json:"role" validate:"omitempty,oneof=ADMIN USER admin user"`
}

// SignInRequest payload.
type SignInRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest payload. Absent fields are left untouched.
type UpdateUserRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,max=120"`
	Role     *string `json:"role" validate:"omitempty,oneof=ADMIN USER admin user"`
}

// ProfileResponse is the public view of a profile.
type ProfileResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccountResponse adds the email to a profile.
type AccountResponse struct {
	ProfileResponse
	Email string `json:"email"`
}

// SessionResponse is returned on sign-in. The token is also set as a cookie.
type SessionResponse struct {
	User      AccountResponse `json:"user"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
}
