package models

// Credibility bounds enforced by ck_users_credibility_range
const (
	MinCredibilityScore     = 0.1
	MaxCredibilityScore     = 5.0
	DefaultCredibilityScore = 1.0
)

// CourseType classifies a course offering
type CourseType string

const (
	CourseTypeRequired CourseType = "REQUIRED"
	CourseTypeElective CourseType = "ELECTIVE"
	CourseTypeGeneral  CourseType = "GENERAL"
)
