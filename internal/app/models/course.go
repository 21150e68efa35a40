package models

import "time"

// Ratings holds the per-dimension averages of a course, each a NUMERIC(3,2)
type Ratings struct {
	Reward       float64 `json:"reward" db:"avg_reward"`
	Score        float64 `json:"score" db:"avg_score"`
	Easiness     float64 `json:"easiness" db:"avg_easiness"`
	TeacherStyle float64 `json:"teacherStyle" db:"avg_teacher_style"`
	Overall      float64 `json:"overall" db:"avg_overall"`
}

// Course represents a course offered by a department and taught by one teacher.
type Course struct {
	ID                  int64      `json:"id" db:"id"`
	DepartmentID        int64      `json:"departmentId" db:"department_id"`
	TeacherID           int64      `json:"teacherId" db:"teacher_id"`
	CourseCode          string     `json:"courseCode" db:"course_code"`
	Name                string     `json:"name" db:"name"`
	Credits             int16      `json:"credits" db:"credits"`
	CourseType          CourseType `json:"courseType" db:"course_type"`
	Schedule            *string    `json:"schedule,omitempty" db:"schedule"`
	LastOfferedSemester *string    `json:"lastOfferedSemester,omitempty" db:"last_offered_semester"`
	Ratings             Ratings    `json:"ratings"`
	ReviewCount         int        `json:"reviewCount" db:"review_count"`
	CreatedAt           time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time  `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Department *Department `json:"department,omitempty"`
	Teacher    *Teacher    `json:"teacher,omitempty"`
}
