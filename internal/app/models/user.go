package models

import (
	"time"

	"github.com/google/uuid"
)

// User defines the user model based on the 'users' table
type User struct {
	ID               uuid.UUID `json:"id" db:"id"`
	Email            string    `json:"email" db:"email"`
	PasswordHash     *string   `json:"-" db:"password_hash"`
	DisplayName      string    `json:"displayName" db:"display_name"`
	GuideLevel       int16     `json:"guideLevel" db:"guide_level"`
	CredibilityScore float64   `json:"credibilityScore" db:"credibility_score"`
	AvatarURL        *string   `json:"avatarUrl,omitempty" db:"avatar_url"`
	TotalReviews     int       `json:"totalReviews" db:"total_reviews"`
	TotalComments    int       `json:"totalComments" db:"total_comments"`
	IsActive         bool      `json:"isActive" db:"is_active"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
}

// NewUser returns a user carrying the column defaults of the users table
func NewUser(email, displayName string) *User {
	return &User{
		Email:            email,
		DisplayName:      displayName,
		CredibilityScore: DefaultCredibilityScore,
		IsActive:         true,
	}
}
