package repositories

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/coursewish/internal/pkg/apperrors"
	"github.com/yigit/coursewish/internal/pkg/dberrors"
)

func TestTranslate(t *testing.T) {
	rules := []constraintRule{
		unique(constraintUsersEmail, apperrors.ErrEmailAlreadyExists),
		check(constraintUsersCredibility, apperrors.ErrCredibilityOutOfRange),
		outOfRange(apperrors.ErrCredibilityOutOfRange),
	}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "named unique violation",
			err:  &pgconn.PgError{Code: dberrors.CodeUniqueViolation, ConstraintName: constraintUsersEmail},
			want: apperrors.ErrEmailAlreadyExists,
		},
		{
			name: "wrapped check violation",
			err:  fmt.Errorf("insert: %w", &pgconn.PgError{Code: dberrors.CodeCheckViolation, ConstraintName: constraintUsersCredibility}),
			want: apperrors.ErrCredibilityOutOfRange,
		},
		{
			name: "numeric overflow has no constraint name",
			err:  &pgconn.PgError{Code: dberrors.CodeNumericOutOfRange},
			want: apperrors.ErrCredibilityOutOfRange,
		},
		{
			name: "other constraint",
			err:  &pgconn.PgError{Code: dberrors.CodeUniqueViolation, ConstraintName: "users_pkey"},
		},
		{
			name: "not a driver error",
			err:  errors.New("connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate(tt.err, rules...)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("translate() = %v, want nil", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Fatalf("translate() = %v, want %v", got, tt.want)
			}
			if _, ok := dberrors.AsPgError(got); !ok {
				t.Error("driver error lost after translation")
			}
		})
	}
}

func TestEscapeLike(t *testing.T) {
	if got, want := escapeLike(`50%_off\`), `50\%\_off\\`; got != want {
		t.Errorf("escapeLike() = %q, want %q", got, want)
	}
}

func TestSelectCoursesJoinsRelations(t *testing.T) {
	r := NewCourseRepository(nil)
	sql, args, err := r.selectCourses().
		Where("c.name ILIKE ?", "%x%").
		Limit(5).
		ToSql()
	if err != nil {
		t.Fatalf("ToSql() error = %v", err)
	}
	if len(args) != 1 {
		t.Errorf("args = %v", args)
	}
	want := "FROM courses c JOIN departments d ON d.id = c.department_id JOIN teachers t ON t.id = c.teacher_id WHERE c.name ILIKE $1 LIMIT 5"
	if !strings.HasSuffix(sql, want) {
		t.Errorf("sql = %q\nwant suffix %q", sql, want)
	}
}
