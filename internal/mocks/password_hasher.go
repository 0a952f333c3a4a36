package mocks

import (
	"strings"

	"github.com/phrazzld/classifieds-api/internal/service/auth"
)

// MockPasswordHasher implements auth.PasswordHasher without the bcrypt cost.
// By default a hash is the password prefixed with "hashed:".
type MockPasswordHasher struct {
	HashFn    func(password string) (string, error)
	CompareFn func(hashedPassword, password string) error
}

var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

const mockHashPrefix = "hashed:"

// Hash implements auth.PasswordHasher
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return mockHashPrefix + password, nil
}

// Compare implements auth.PasswordHasher
func (m *MockPasswordHasher) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if strings.TrimPrefix(hashedPassword, mockHashPrefix) != password {
		return auth.ErrPasswordMismatch
	}
	return nil
}
