package apperrors

import "errors"

// ErrReferenceNotFound is returned when a foreign key points at a missing row
var ErrReferenceNotFound = errors.New("referenced resource does not exist")

// User errors
var (
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrCredibilityOutOfRange = errors.New("credibility score must be between 0.1 and 5.0")
)

// Department errors
var (
	ErrDepartmentNotFound      = errors.New("department not found")
	ErrDepartmentAlreadyExists = errors.New("department with this name or code already exists")
	ErrDepartmentHasRelations  = errors.New("department has associated courses and cannot be deleted")
)

// Teacher errors
var (
	ErrTeacherNotFound      = errors.New("teacher not found")
	ErrTeacherAlreadyExists = errors.New("teacher with this name already exists in the department")
	ErrTeacherHasRelations  = errors.New("teacher has associated courses and cannot be deleted")
)

// Course errors
var (
	ErrCourseNotFound      = errors.New("course not found")
	ErrCourseAlreadyExists = errors.New("course with this code already exists for the teacher")
	ErrRatingOutOfRange    = errors.New("rating average out of range")
)

// Wish errors
var (
	ErrWishNotFound      = errors.New("wish not found")
	ErrWishAlreadyExists = errors.New("wish for this course and teacher already exists")
	ErrAlreadyVoted      = errors.New("user already voted for this wish")
	ErrVoteNotFound      = errors.New("vote not found")
)
