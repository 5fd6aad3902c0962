// Package identity holds tenant accounts. Each user is a tenant: all
// clients, products and orders hang off the user that owns them.
package identity

import (
	"context"
	"strings"

	"github.com/fiado/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minUsernameLength = 3
	minPasswordLength = 6
	bcryptCost        = 12
)

// User is a tenant account. The password is stored only as a bcrypt hash
// and must never appear in logs or responses.
type User struct {
	shared.BaseEntity
	Username     string
	PasswordHash string
}

// NewUser creates a user with a hashed password.
func NewUser(username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if len(username) < minUsernameLength {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username must have at least 3 characters")
	}
	if len(password) < minPasswordLength {
		return nil, shared.NewDomainError("WEAK_PASSWORD", "Password must have at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}
	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Username:     username,
		PasswordHash: string(hash),
	}, nil
}

// VerifyPassword reports whether the given password matches the stored hash.
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// UserRepository stores tenant accounts.
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	// FindDefault returns the oldest account, used as the owning tenant
	// for public storefront orders.
	FindDefault(ctx context.Context) (*User, error)
}
