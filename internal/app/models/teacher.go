package models

// Teacher represents a lecturer; DepartmentID is cleared when the department is deleted
type Teacher struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	DepartmentID *int64 `json:"departmentId,omitempty" db:"department_id"`

	Department *Department `json:"department,omitempty"`
}
