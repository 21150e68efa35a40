package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestAsPgError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: CodeUniqueViolation, ConstraintName: "users_email_key"}

	got, ok := AsPgError(fmt.Errorf("create user: %w", pgErr))
	if !ok || got != pgErr {
		t.Errorf("AsPgError(wrapped) = %v, %v", got, ok)
	}
	if _, ok := AsPgError(errors.New("boom")); ok {
		t.Error("AsPgError matched a plain error")
	}
	if _, ok := AsPgError(nil); ok {
		t.Error("AsPgError matched nil")
	}
}

func TestIsConstraintError(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: CodeUniqueViolation, ConstraintName: "uq_courses_code_teacher"})
	overflow := &pgconn.PgError{Code: CodeNumericOutOfRange}

	tests := []struct {
		name       string
		err        error
		code       string
		constraint string
		want       bool
	}{
		{"code and name", unique, CodeUniqueViolation, "uq_courses_code_teacher", true},
		{"other constraint", unique, CodeUniqueViolation, "uq_wishes_name_teacher", false},
		{"other code", unique, CodeCheckViolation, "uq_courses_code_teacher", false},
		{"no constraint name", overflow, CodeNumericOutOfRange, "", true},
		{"plain error", errors.New("boom"), CodeUniqueViolation, "", false},
		{"nil", nil, CodeForeignKeyViolation, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConstraintError(tt.err, tt.code, tt.constraint); got != tt.want {
				t.Errorf("IsConstraintError() = %v, want %v", got, tt.want)
			}
		})
	}
}
