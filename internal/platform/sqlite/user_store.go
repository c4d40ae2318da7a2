package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/store"
)

// UserStore implements store.UserStore on SQLite.
type UserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewUserStore creates a SQLite UserStore. If logger is nil, a default
// logger will be used.
func NewUserStore(db store.DBTX, logger *slog.Logger) *UserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store"), slog.String("driver", DriverName)),
	}
}

var _ store.UserStore = (*UserStore)(nil)

const userColumns = `id, email, hashed_password, first_name, last_name, is_active, email_verified, created_at, updated_at`

// Create implements store.UserStore.Create.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID.String(),
		user.Email,
		user.HashedPassword,
		user.FirstName,
		user.LastName,
		user.IsActive,
		user.EmailVerified,
		toMicros(user.CreatedAt),
		toMicros(user.UpdatedAt),
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("attempt to create user with existing email",
				slog.String("user_id", user.ID.String()))
			return store.ErrEmailExists
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return store.NewStoreError("user", "create", "failed to insert user", MapError(err))
	}

	log.Debug("user created successfully", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id.String())
}

// GetByEmail implements store.UserStore.GetByEmail. The comparison is exact.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

// WithTx implements store.UserStore.WithTx.
func (s *UserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &UserStore{
		db:     tx,
		logger: s.logger,
	}
}

func (s *UserStore) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		u                    domain.User
		createdAt, updatedAt int64
	)
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Email,
		&u.HashedPassword,
		&u.FirstName,
		&u.LastName,
		&u.IsActive,
		&u.EmailVerified,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found")
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to query user", slog.String("error", err.Error()))
		return nil, store.NewStoreError("user", "get", "failed to query user", MapError(err))
	}

	u.CreatedAt = fromMicros(createdAt)
	u.UpdatedAt = fromMicros(updatedAt)
	return &u, nil
}
