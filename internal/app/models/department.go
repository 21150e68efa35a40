package models

// Department represents an academic department
type Department struct {
	ID   int64   `json:"id" db:"id"`
	Name string  `json:"name" db:"name"`
	Code *string `json:"code,omitempty" db:"code"`
}
