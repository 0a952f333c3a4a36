// Package mocks provides centralized mock implementations for testing.
//
// Every mock has function fields for each interface method. When a function
// field is nil the mock falls back to a small in-memory implementation, so
// most tests only override the behaviour they care about:
//
//	users := mocks.NewMockUserStore()
//	users.GetByEmailFn = func(ctx context.Context, email string) (*domain.User, error) {
//	    return nil, errors.New("connection refused")
//	}
//
// When adding a new mock to this package:
//  1. Create a new file named after the interface being mocked
//  2. Implement the mock struct with function fields for each interface method
//  3. Give it an in-memory default that honours the interface's documented errors
package mocks
