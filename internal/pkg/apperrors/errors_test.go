package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelsAreDistinct(t *testing.T) {
	all := []error{
		ErrReferenceNotFound,
		ErrUserNotFound, ErrEmailAlreadyExists, ErrCredibilityOutOfRange,
		ErrDepartmentNotFound, ErrDepartmentAlreadyExists, ErrDepartmentHasRelations,
		ErrTeacherNotFound, ErrTeacherAlreadyExists, ErrTeacherHasRelations,
		ErrCourseNotFound, ErrCourseAlreadyExists, ErrRatingOutOfRange,
		ErrWishNotFound, ErrWishAlreadyExists, ErrAlreadyVoted, ErrVoteNotFound,
	}

	messages := map[string]bool{}
	for i, err := range all {
		if messages[err.Error()] {
			t.Errorf("duplicate message %q", err)
		}
		messages[err.Error()] = true

		wrapped := fmt.Errorf("%w: %w", err, errors.New("driver error"))
		for j, other := range all {
			if got := errors.Is(wrapped, other); got != (i == j) {
				t.Errorf("errors.Is(%q, %q) = %v", wrapped, other, got)
			}
		}
	}
}
