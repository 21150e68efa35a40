package models

import (
	"time"

	"github.com/google/uuid"
)

// Wish is a request for a course that is not offered yet. CourseID optionally
// links it to an existing course and is cleared when that course is deleted.
type Wish struct {
	ID         int64     `json:"id" db:"id"`
	CourseID   *int64    `json:"courseId,omitempty" db:"course_id"`
	CourseName string    `json:"courseName" db:"course_name"`
	Teacher    string    `json:"teacher" db:"teacher"`
	VoteCount  int       `json:"voteCount" db:"vote_count"`
	CreatedBy  uuid.UUID `json:"createdBy" db:"created_by"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// WishVote records one user's vote for one wish
type WishVote struct {
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	WishID    int64     `json:"wishId" db:"wish_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
