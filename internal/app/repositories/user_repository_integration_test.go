//go:build integration

package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/yigit/coursewish/internal/app/models"
	"github.com/yigit/coursewish/internal/pkg/apperrors"
	"github.com/yigit/coursewish/internal/pkg/dberrors"
)

func TestUserCreateAppliesDefaults(t *testing.T) {
	ctx := context.Background()
	user := newUser(t)

	if user.ID == uuid.Nil {
		t.Fatal("database did not generate an id")
	}

	got, err := testRepo.UserRepository.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.CredibilityScore != models.DefaultCredibilityScore {
		t.Errorf("credibility = %v, want %v", got.CredibilityScore, models.DefaultCredibilityScore)
	}
	if got.GuideLevel != 0 || got.TotalReviews != 0 || got.TotalComments != 0 || !got.IsActive {
		t.Errorf("unexpected defaults: %+v", got)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}

	byEmail, err := testRepo.UserRepository.GetByEmail(ctx, user.Email)
	if err != nil || byEmail.ID != user.ID {
		t.Errorf("GetByEmail() = %v, %v", byEmail, err)
	}
}

func TestUserDuplicateEmailFails(t *testing.T) {
	ctx := context.Background()
	user := newUser(t)

	dup := models.NewUser(user.Email, "Someone Else")
	err := testRepo.UserRepository.Create(ctx, dup)
	if !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		t.Fatalf("Create() error = %v, want ErrEmailAlreadyExists", err)
	}
	if !dberrors.IsConstraintError(err, dberrors.CodeUniqueViolation, constraintUsersEmail) {
		t.Error("driver error is no longer reachable through the wrapped error")
	}
}

func TestUserCredibilityRange(t *testing.T) {
	tests := []struct {
		name    string
		score   float64
		wantErr bool
	}{
		{"zero", 0, true},
		{"below minimum", 0.09, true},
		{"minimum", 0.1, false},
		{"maximum", 5.0, false},
		{"above maximum", 5.1, true},
		{"numeric overflow", 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()

			user := models.NewUser(uniq("cred")+"@example.edu", "Cred")
			user.CredibilityScore = tt.score
			err := testRepo.UserRepository.Create(ctx, user)
			if tt.wantErr {
				if !errors.Is(err, apperrors.ErrCredibilityOutOfRange) {
					t.Errorf("Create(score=%v) error = %v, want ErrCredibilityOutOfRange", tt.score, err)
				}
			} else if err != nil {
				t.Errorf("Create(score=%v) error = %v", tt.score, err)
			}

			existing := newUser(t)
			err = testRepo.UserRepository.UpdateCredibility(ctx, existing.ID, tt.score)
			if tt.wantErr != (err != nil) {
				t.Errorf("UpdateCredibility(%v) error = %v, wantErr %v", tt.score, err, tt.wantErr)
			}
		})
	}
}

func TestUserFieldUpdates(t *testing.T) {
	ctx := context.Background()
	user := newUser(t)

	if err := testRepo.UserRepository.UpdateCounters(ctx, user.ID, 7, 3); err != nil {
		t.Fatalf("UpdateCounters() error = %v", err)
	}
	if err := testRepo.UserRepository.SetActive(ctx, user.ID, false); err != nil {
		t.Fatalf("SetActive() error = %v", err)
	}

	got, err := testRepo.UserRepository.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.TotalReviews != 7 || got.TotalComments != 3 || got.IsActive {
		t.Errorf("got %+v", got)
	}
	if got.UpdatedAt.Before(user.UpdatedAt) {
		t.Error("updated_at moved backwards")
	}

	if err := testRepo.UserRepository.SetActive(ctx, uuid.New(), true); !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("SetActive(unknown) error = %v, want ErrUserNotFound", err)
	}
}

func TestUserDeleteCascadesToWishesAndVotes(t *testing.T) {
	ctx := context.Background()
	author := newUser(t)
	voter := newUser(t)

	own := newWish(t, author.ID, nil)
	other := newWish(t, voter.ID, nil)
	if err := testRepo.WishVoteRepository.Create(ctx, &models.WishVote{UserID: author.ID, WishID: other.ID}); err != nil {
		t.Fatalf("vote: %v", err)
	}
	if err := testRepo.WishVoteRepository.Create(ctx, &models.WishVote{UserID: voter.ID, WishID: own.ID}); err != nil {
		t.Fatalf("vote: %v", err)
	}

	if err := testRepo.UserRepository.Delete(ctx, author.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := testRepo.WishRepository.GetByID(ctx, own.ID); !errors.Is(err, apperrors.ErrWishNotFound) {
		t.Errorf("wish of deleted user still present: %v", err)
	}
	if n, err := testRepo.WishVoteRepository.CountByWish(ctx, own.ID); err != nil || n != 0 {
		t.Errorf("votes on removed wish = %d, %v", n, err)
	}
	if voted, err := testRepo.WishVoteRepository.Exists(ctx, author.ID, other.ID); err != nil || voted {
		t.Errorf("vote of deleted user still present: %v, %v", voted, err)
	}
	if _, err := testRepo.WishRepository.GetByID(ctx, other.ID); err != nil {
		t.Errorf("unrelated wish removed: %v", err)
	}

	if err := testRepo.UserRepository.Delete(ctx, author.ID); !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("second Delete() error = %v, want ErrUserNotFound", err)
	}
}
