package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/coursewish/internal/app/models"
	"github.com/yigit/coursewish/internal/db"
	"github.com/yigit/coursewish/internal/pkg/apperrors"
	"github.com/yigit/coursewish/internal/pkg/helpers"
	"github.com/yigit/coursewish/internal/pkg/logger"
)

const (
	constraintWishesNameTeacher = "uq_wishes_name_teacher"
	constraintWishesCourse      = "wishes_course_id_fkey"
	constraintWishesCreatedBy   = "wishes_created_by_fkey"
)

// Listing limits for the wishing well
const (
	DefaultWishLimit = 20
	MaxWishLimit     = 100
)

var wishColumns = []string{"id", "course_id", "course_name", "teacher", "vote_count", "created_by", "created_at"}

// WishRepository handles wish database operations
type WishRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewWishRepository creates a new WishRepository
func NewWishRepository(q db.DBTX) *WishRepository {
	return &WishRepository{
		db: q,
		sb: statementBuilder(),
	}
}

func scanWish(row pgx.Row) (*models.Wish, error) {
	wish := &models.Wish{}
	err := row.Scan(
		&wish.ID,
		&wish.CourseID,
		&wish.CourseName,
		&wish.Teacher,
		&wish.VoteCount,
		&wish.CreatedBy,
		&wish.CreatedAt,
	)
	return wish, err
}

func wishWriteError(err error) error {
	return translate(err,
		unique(constraintWishesNameTeacher, apperrors.ErrWishAlreadyExists),
		foreignKey(constraintWishesCourse, apperrors.ErrReferenceNotFound),
		foreignKey(constraintWishesCreatedBy, apperrors.ErrReferenceNotFound),
	)
}

// Create inserts a wish with the given vote count (normally zero)
func (r *WishRepository) Create(ctx context.Context, wish *models.Wish) error {
	sql, args, err := r.sb.Insert("wishes").
		Columns("course_id", "course_name", "teacher", "vote_count", "created_by").
		Values(wish.CourseID, wish.CourseName, wish.Teacher, wish.VoteCount, wish.CreatedBy).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create wish SQL")
		return fmt.Errorf("failed to build create wish query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&wish.ID, &wish.CreatedAt)
	if err != nil {
		if mapped := wishWriteError(err); mapped != nil {
			return mapped
		}
		logger.Error().Err(err).Str("courseName", wish.CourseName).Msg("Error executing create wish query")
		return fmt.Errorf("error creating wish: %w", err)
	}

	return nil
}

// GetByID retrieves a wish by ID
func (r *WishRepository) GetByID(ctx context.Context, id int64) (*models.Wish, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByNameAndTeacher retrieves the wish for a course name and teacher pair
func (r *WishRepository) GetByNameAndTeacher(ctx context.Context, courseName, teacher string) (*models.Wish, error) {
	return r.getOne(ctx, squirrel.Eq{"course_name": courseName, "teacher": teacher})
}

func (r *WishRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.Wish, error) {
	sql, args, err := r.sb.Select(wishColumns...).
		From("wishes").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get wish SQL")
		return nil, fmt.Errorf("failed to build get wish query: %w", err)
	}

	wish, err := scanWish(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrWishNotFound
		}
		logger.Error().Err(err).Interface("where", where).Msg("Error scanning wish row")
		return nil, fmt.Errorf("error getting wish: %w", err)
	}

	return wish, nil
}

// GetTopVoted lists wishes by vote count, most wanted first
func (r *WishRepository) GetTopVoted(ctx context.Context, limit int) ([]*models.Wish, error) {
	return r.list(ctx, r.sb.Select(wishColumns...).
		From("wishes").
		OrderBy("vote_count DESC", "created_at ASC", "id ASC").
		Limit(uint64(helpers.Clamp(limit, DefaultWishLimit, MaxWishLimit))))
}

// GetByCourse lists the wishes linked to a course
func (r *WishRepository) GetByCourse(ctx context.Context, courseID int64) ([]*models.Wish, error) {
	return r.list(ctx, r.sb.Select(wishColumns...).
		From("wishes").
		Where(squirrel.Eq{"course_id": courseID}).
		OrderBy("vote_count DESC", "id ASC"))
}

func (r *WishRepository) list(ctx context.Context, qb squirrel.SelectBuilder) ([]*models.Wish, error) {
	sql, args, err := qb.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list wishes SQL")
		return nil, fmt.Errorf("failed to build list wishes query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list wishes query")
		return nil, fmt.Errorf("error querying wishes: %w", err)
	}
	defer rows.Close()

	wishes := []*models.Wish{}
	for rows.Next() {
		wish, err := scanWish(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning wish row")
			return nil, fmt.Errorf("error scanning wish row: %w", err)
		}
		wishes = append(wishes, wish)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating wish rows")
		return nil, fmt.Errorf("error iterating wish rows: %w", err)
	}

	return wishes, nil
}

func (r *WishRepository) update(ctx context.Context, id int64, column string, value interface{}) error {
	sql, args, err := r.sb.Update("wishes").
		Set(column, value).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update wish SQL")
		return fmt.Errorf("failed to build update wish query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if mapped := wishWriteError(err); mapped != nil {
			return mapped
		}
		logger.Error().Err(err).Int64("wishID", id).Str("column", column).Msg("Error executing update wish query")
		return fmt.Errorf("error updating wish: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrWishNotFound
	}
	return nil
}

// LinkCourse points a wish at an existing course, or unlinks it when courseID is nil
func (r *WishRepository) LinkCourse(ctx context.Context, id int64, courseID *int64) error {
	return r.update(ctx, id, "course_id", courseID)
}

// SetVoteCount stores the denormalized vote total
func (r *WishRepository) SetVoteCount(ctx context.Context, id int64, count int) error {
	return r.update(ctx, id, "vote_count", count)
}

// Delete removes a wish together with its votes
func (r *WishRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("wishes").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete wish SQL")
		return fmt.Errorf("failed to build delete wish query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("wishID", id).Msg("Error executing delete wish query")
		return fmt.Errorf("error deleting wish: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrWishNotFound
	}

	return nil
}
