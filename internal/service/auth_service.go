package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/classifieds-api/internal/domain"
	"github.com/phrazzld/classifieds-api/internal/platform/logger"
	"github.com/phrazzld/classifieds-api/internal/service/auth"
	"github.com/phrazzld/classifieds-api/internal/store"
)

// RegisterInput holds the fields accepted when creating an account.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Phone    *string
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// Profile is the authenticated user together with every listing they own.
type Profile struct {
	*domain.User
	Listings []domain.Listing `json:"listings"`
}

// AuthService registers users, issues tokens and resolves the current user.
type AuthService interface {
	// Register creates an account and returns it with a fresh access token.
	// Returns ErrEmailTaken if the email is already registered.
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)

	// Login verifies the credentials and issues a fresh access token.
	// Returns ErrInvalidCredentials on any mismatch.
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// Me returns the profile of userID with their listings.
	// Returns ErrUserNotFound if the account no longer exists.
	Me(ctx context.Context, userID uuid.UUID) (*Profile, error)
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	userStore    store.UserStore
	listingStore store.ListingStore
	hasher       auth.PasswordHasher
	jwtService   auth.JWTService
	logger       *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	userStore store.UserStore,
	listingStore store.ListingStore,
	hasher auth.PasswordHasher,
	jwtService auth.JWTService,
	logger *slog.Logger,
) AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &authServiceImpl{
		userStore:    userStore,
		listingStore: listingStore,
		hasher:       hasher,
		jwtService:   jwtService,
		logger:       logger.With("component", "auth_service"),
	}
}

// Register implements AuthService.
func (s *authServiceImpl) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	email := domain.NormalizeEmail(input.Email)

	_, err := s.userStore.GetByEmail(ctx, email)
	switch {
	case err == nil:
		log.Debug("registration rejected: email already registered")
		return nil, ErrEmailTaken
	case !errors.Is(err, store.ErrUserNotFound):
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := domain.NewUser(email, input.Name, input.Phone, hashed)
	if err != nil {
		return nil, err
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration for the same address.
		if errors.Is(err, store.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.jwtService.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return &AuthResult{User: user, Token: token}, nil
}

// Login implements AuthService.
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login failed: unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			log.Debug("login failed: password mismatch", slog.String("user_id", user.ID.String()))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	token, err := s.jwtService.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Me implements AuthService.
func (s *authServiceImpl) Me(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	listings, err := s.listingStore.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user listings: %w", err)
	}
	if listings == nil {
		listings = []domain.Listing{}
	}

	return &Profile{User: user, Listings: listings}, nil
}
