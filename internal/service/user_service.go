package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/service/auth"
	"github.com/phrazzld/todo-api/internal/store"
)

// timingDummySecret is hashed once at construction so a login for an unknown
// email costs the same bcrypt comparison as a real one.
const timingDummySecret = "timing-equalization-placeholder"

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// UserService provides account operations.
type UserService interface {
	// Register creates an account. Returns store.ErrEmailExists if the email
	// is already registered.
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)

	// Authenticate checks credentials and returns the account on success.
	// Every failure returns ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// GetProfile returns the profile of userID if callerID owns it.
	GetProfile(ctx context.Context, callerID, userID uuid.UUID) (*domain.User, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	users        store.UserStore
	db           store.TxBeginner
	hasher       auth.PasswordHasher
	guard        Authorizer
	queryTimeout time.Duration
	dummyDigest  string
	logger       *slog.Logger
}

// NewUserService creates a new UserService.
// It returns an error if any of the required dependencies are nil or the
// hasher cannot produce a digest.
func NewUserService(
	users store.UserStore,
	db store.TxBeginner,
	hasher auth.PasswordHasher,
	guard Authorizer,
	queryTimeout time.Duration,
	logger *slog.Logger,
) (*UserServiceImpl, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil")
	}
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil")
	}
	if hasher == nil {
		return nil, domain.NewValidationError("hasher", "cannot be nil")
	}
	if guard == nil {
		return nil, domain.NewValidationError("guard", "cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	dummy, err := hasher.Hash(timingDummySecret)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy digest: %w", err)
	}

	return &UserServiceImpl{
		users:        users,
		db:           db,
		hasher:       hasher,
		guard:        guard,
		queryTimeout: queryTimeout,
		dummyDigest:  dummy,
		logger:       logger.With(slog.String("component", "user_service")),
	}, nil
}

var _ UserService = (*UserServiceImpl)(nil)

// Register implements UserService.Register.
// The password is hashed before the transaction opens so no connection is
// held during the slow bcrypt work.
func (s *UserServiceImpl) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(input.Email, input.Password, input.FirstName, input.LastName)
	if err != nil {
		log.Debug("rejected registration", slog.String("error", err.Error()))
		return nil, err
	}

	digest, err := s.hasher.Hash(input.Password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	user.HashedPassword = digest

	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.users.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("attempted to register an existing email")
		} else {
			log.Error("failed to save user to database", slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return user, nil
}

// Authenticate implements UserService.Authenticate.
func (s *UserServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	lookupCtx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	user, err := s.users.GetByEmail(lookupCtx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.hasher.Verify(password, s.dummyDigest)
			log.Debug("login for unknown email")
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to look up user for login", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	if !s.hasher.Verify(password, user.HashedPassword) {
		log.Debug("login with wrong password", slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		log.Info("login for inactive account", slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetProfile implements UserService.GetProfile.
func (s *UserServiceImpl) GetProfile(ctx context.Context, callerID, userID uuid.UUID) (*domain.User, error) {
	if err := s.guard.Authorize(ctx, callerID, userID); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to load profile",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return user, nil
}
