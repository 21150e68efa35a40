package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/yigit/coursewish/internal/app/models"
	"github.com/yigit/coursewish/internal/db"
	"github.com/yigit/coursewish/internal/pkg/apperrors"
	"github.com/yigit/coursewish/internal/pkg/logger"
)

const (
	constraintWishVotesPK   = "wish_votes_pkey"
	constraintWishVotesUser = "wish_votes_user_id_fkey"
	constraintWishVotesWish = "wish_votes_wish_id_fkey"
)

// WishVoteRepository handles wish vote database operations. It does not touch
// wishes.vote_count; keeping that total in step is the caller's job.
type WishVoteRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewWishVoteRepository creates a new WishVoteRepository
func NewWishVoteRepository(q db.DBTX) *WishVoteRepository {
	return &WishVoteRepository{
		db: q,
		sb: statementBuilder(),
	}
}

// Create records a vote; a second vote by the same user fails with ErrAlreadyVoted
func (r *WishVoteRepository) Create(ctx context.Context, vote *models.WishVote) error {
	sql, args, err := r.sb.Insert("wish_votes").
		Columns("user_id", "wish_id").
		Values(vote.UserID, vote.WishID).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create wish vote SQL")
		return fmt.Errorf("failed to build create wish vote query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&vote.CreatedAt)
	if err != nil {
		if mapped := translate(err,
			unique(constraintWishVotesPK, apperrors.ErrAlreadyVoted),
			foreignKey(constraintWishVotesUser, apperrors.ErrReferenceNotFound),
			foreignKey(constraintWishVotesWish, apperrors.ErrReferenceNotFound),
		); mapped != nil {
			return mapped
		}
		logger.Error().Err(err).Int64("wishID", vote.WishID).Msg("Error executing create wish vote query")
		return fmt.Errorf("error creating wish vote: %w", err)
	}

	return nil
}

// Exists reports whether userID has voted for wishID
func (r *WishVoteRepository) Exists(ctx context.Context, userID uuid.UUID, wishID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("wish_votes").
		Where(squirrel.Eq{"user_id": userID, "wish_id": wishID}).
		Prefix("SELECT EXISTS (").Suffix(")").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building wish vote exists SQL")
		return false, fmt.Errorf("failed to build wish vote exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Int64("wishID", wishID).Msg("Error checking wish vote")
		return false, fmt.Errorf("error checking wish vote: %w", err)
	}
	return exists, nil
}

// CountByWish counts the stored votes of a wish
func (r *WishVoteRepository) CountByWish(ctx context.Context, wishID int64) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("wish_votes").
		Where(squirrel.Eq{"wish_id": wishID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count wish votes SQL")
		return 0, fmt.Errorf("failed to build count wish votes query: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Int64("wishID", wishID).Msg("Error counting wish votes")
		return 0, fmt.Errorf("error counting wish votes: %w", err)
	}
	return count, nil
}

// GetByWish lists the votes of a wish, oldest first
func (r *WishVoteRepository) GetByWish(ctx context.Context, wishID int64) ([]*models.WishVote, error) {
	sql, args, err := r.sb.Select("user_id", "wish_id", "created_at").
		From("wish_votes").
		Where(squirrel.Eq{"wish_id": wishID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get wish votes SQL")
		return nil, fmt.Errorf("failed to build get wish votes query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("wishID", wishID).Msg("Error executing get wish votes query")
		return nil, fmt.Errorf("error querying wish votes: %w", err)
	}
	defer rows.Close()

	votes := []*models.WishVote{}
	for rows.Next() {
		vote := &models.WishVote{}
		if err := rows.Scan(&vote.UserID, &vote.WishID, &vote.CreatedAt); err != nil {
			logger.Error().Err(err).Msg("Error scanning wish vote row")
			return nil, fmt.Errorf("error scanning wish vote row: %w", err)
		}
		votes = append(votes, vote)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating wish vote rows")
		return nil, fmt.Errorf("error iterating wish vote rows: %w", err)
	}

	return votes, nil
}

// Delete withdraws a vote
func (r *WishVoteRepository) Delete(ctx context.Context, userID uuid.UUID, wishID int64) error {
	sql, args, err := r.sb.Delete("wish_votes").
		Where(squirrel.Eq{"user_id": userID, "wish_id": wishID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete wish vote SQL")
		return fmt.Errorf("failed to build delete wish vote query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("wishID", wishID).Msg("Error executing delete wish vote query")
		return fmt.Errorf("error deleting wish vote: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrVoteNotFound
	}
	return nil
}
