package repositories

import (
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/coursewish/internal/db"
	"github.com/yigit/coursewish/internal/pkg/dberrors"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	DepartmentRepository *DepartmentRepository
	TeacherRepository    *TeacherRepository
	CourseRepository     *CourseRepository
	WishRepository       *WishRepository
	WishVoteRepository   *WishVoteRepository
}

// NewRepositories initializes all repositories on q, which is either the pool
// or a transaction handed out by db.WithTransaction
func NewRepositories(q db.DBTX) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(q),
		DepartmentRepository: NewDepartmentRepository(q),
		TeacherRepository:    NewTeacherRepository(q),
		CourseRepository:     NewCourseRepository(q),
		WishRepository:       NewWishRepository(q),
		WishVoteRepository:   NewWishVoteRepository(q),
	}
}

func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// constraintRule maps one storage violation onto an application error.
// Numeric overflow rules carry no constraint name.
type constraintRule struct {
	code   string
	name   string
	target error
}

func unique(name string, target error) constraintRule {
	return constraintRule{code: dberrors.CodeUniqueViolation, name: name, target: target}
}

func foreignKey(name string, target error) constraintRule {
	return constraintRule{code: dberrors.CodeForeignKeyViolation, name: name, target: target}
}

func check(name string, target error) constraintRule {
	return constraintRule{code: dberrors.CodeCheckViolation, name: name, target: target}
}

func outOfRange(target error) constraintRule {
	return constraintRule{code: dberrors.CodeNumericOutOfRange, target: target}
}

// translate returns err wrapped with the first matching rule's target, keeping
// the *pgconn.PgError reachable through errors.As. It returns nil when no rule matches.
func translate(err error, rules ...constraintRule) error {
	for _, rule := range rules {
		if dberrors.IsConstraintError(err, rule.code, rule.name) {
			return fmt.Errorf("%w: %w", rule.target, err)
		}
	}
	return nil
}
