package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents a registered account of the marketplace.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Phone          *string   `json:"phone"`
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NormalizeEmail trims and lower-cases an address so that lookups and the
// unique index agree on a single spelling.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUser creates a new User with a fresh id and timestamps.
// The caller is responsible for hashing the password beforehand.
func NewUser(email, name string, phone *string, hashedPassword string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:             uuid.New(),
		Email:          NormalizeEmail(email),
		Name:           strings.TrimSpace(name),
		Phone:          normalizeOptional(phone),
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// Validate checks the invariants every stored user must satisfy.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("user id cannot be empty")
	}
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return NewValidationError("email is invalid")
	}
	if len(u.Email) > EmailMaxLen {
		return NewValidationError("email is too long")
	}
	if n := len([]rune(u.Name)); n < NameMinLen || n > NameMaxLen {
		return NewValidationError("name must be between 2 and 100 characters")
	}
	if u.HashedPassword == "" {
		return NewValidationError("hashed password cannot be empty")
	}
	return nil
}

func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
