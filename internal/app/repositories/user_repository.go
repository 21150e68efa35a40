package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/coursewish/internal/app/models"
	"github.com/yigit/coursewish/internal/db"
	"github.com/yigit/coursewish/internal/pkg/apperrors"
	"github.com/yigit/coursewish/internal/pkg/logger"
)

const (
	constraintUsersEmail       = "users_email_key"
	constraintUsersCredibility = "ck_users_credibility_range"
)

var userColumns = []string{
	"id", "email", "password_hash", "display_name", "guide_level", "credibility_score",
	"avatar_url", "total_reviews", "total_comments", "is_active", "created_at", "updated_at",
}

// UserRepository handles user database operations
type UserRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(q db.DBTX) *UserRepository {
	return &UserRepository{
		db: q,
		sb: statementBuilder(),
	}
}

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.GuideLevel,
		&user.CredibilityScore,
		&user.AvatarURL,
		&user.TotalReviews,
		&user.TotalComments,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

func userWriteError(err error) error {
	return translate(err,
		unique(constraintUsersEmail, apperrors.ErrEmailAlreadyExists),
		check(constraintUsersCredibility, apperrors.ErrCredibilityOutOfRange),
		outOfRange(apperrors.ErrCredibilityOutOfRange),
	)
}

// Create inserts user and fills in the generated id, counters and timestamps.
// A zero user.ID lets the database generate one.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	values := map[string]interface{}{
		"email":             user.Email,
		"password_hash":     user.PasswordHash,
		"display_name":      user.DisplayName,
		"guide_level":       user.GuideLevel,
		"credibility_score": user.CredibilityScore,
		"avatar_url":        user.AvatarURL,
		"is_active":         user.IsActive,
	}
	if user.ID != uuid.Nil {
		values["id"] = user.ID
	}

	sql, args, err := r.sb.Insert("users").
		SetMap(values).
		Suffix("RETURNING id, total_reviews, total_comments, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create user SQL")
		return fmt.Errorf("failed to build create user query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&user.ID,
		&user.TotalReviews,
		&user.TotalComments,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if mapped := userWriteError(err); mapped != nil {
			return mapped
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error executing create user query")
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns...).
		From("users").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get user SQL")
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Msg("Error scanning user row")
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

func (r *UserRepository) update(ctx context.Context, id uuid.UUID, values map[string]interface{}) error {
	sql, args, err := r.sb.Update("users").
		SetMap(values).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update user SQL")
		return fmt.Errorf("failed to build update user query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if mapped := userWriteError(err); mapped != nil {
			return mapped
		}
		logger.Error().Err(err).Str("userID", id.String()).Msg("Error executing update user query")
		return fmt.Errorf("error updating user: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdateCredibility stores a new credibility score; the database rejects values
// outside [0.1, 5.0]
func (r *UserRepository) UpdateCredibility(ctx context.Context, id uuid.UUID, score float64) error {
	return r.update(ctx, id, map[string]interface{}{"credibility_score": score})
}

// UpdateCounters stores the denormalized review and comment totals
func (r *UserRepository) UpdateCounters(ctx context.Context, id uuid.UUID, totalReviews, totalComments int) error {
	return r.update(ctx, id, map[string]interface{}{
		"total_reviews":  totalReviews,
		"total_comments": totalComments,
	})
}

// SetActive enables or disables a user account
func (r *UserRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.update(ctx, id, map[string]interface{}{"is_active": active})
}

// Delete removes a user; their wishes and votes are removed by the database
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := r.sb.Delete("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete user SQL")
		return fmt.Errorf("failed to build delete user query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("userID", id.String()).Msg("Error executing delete user query")
		return fmt.Errorf("error deleting user: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
