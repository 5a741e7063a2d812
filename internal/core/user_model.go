package core

import (
	"context"
	"errors"
)

// ErrInvalidCredentials is returned when authentication fails. The message
// never distinguishes an unknown email from a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// User is an authenticated operator of the system. APIToken holds the
// user's encrypted OpenAI key and is never serialized.
type User struct {
	ID             int     `json:"id"`
	Email          string  `json:"email"`
	FullName       *string `json:"full_name,omitempty"`
	IsActive       bool    `json:"is_active"`
	IsSuperuser    bool    `json:"is_superuser"`
	HashedPassword string  `json:"-"`
	APIToken       *string `json:"-"`
}

// UserInput carries the fields needed to create a user.
type UserInput struct {
	Email       string
	Password    string
	FullName    string
	IsActive    bool
	IsSuperuser bool
}

// UserUpdate carries a partial update; nil fields are left unchanged.
// A non-nil Password is re-hashed before storage.
type UserUpdate struct {
	Email       *string
	Password    *string
	FullName    *string
	IsActive    *bool
	IsSuperuser *bool
}

// UserService manages user accounts and password authentication.
type UserService interface {
	CreateUser(ctx context.Context, input UserInput) (*User, error)

	// GetUsers returns one page of users and the total user count. A
	// limit <= 0 falls back to the default page size.
	GetUsers(ctx context.Context, skip, limit int) ([]User, int, error)

	// GetUser returns a user by ID, or ErrNotFound.
	GetUser(ctx context.Context, id int) (*User, error)
	UpdateUser(ctx context.Context, id int, update UserUpdate) (*User, error)
	DeleteUser(ctx context.Context, id int) error

	// Authenticate checks an email and password pair against active users
	// and returns ErrInvalidCredentials on any mismatch.
	Authenticate(ctx context.Context, email, password string) (*User, error)

	// CheckPassword verifies a password against a user's stored hash,
	// returning ErrInvalidCredentials on mismatch. Used for the password
	// confirmation that guards password changes and API token writes.
	CheckPassword(ctx context.Context, userID int, password string) error

	// SetAPIToken stores the user's encrypted OpenAI key. An empty cipher
	// clears it.
	SetAPIToken(ctx context.Context, userID int, cipher string) error

	// APIToken returns the stored encrypted key, or nil when none is set.
	APIToken(ctx context.Context, userID int) (*string, error)
}
