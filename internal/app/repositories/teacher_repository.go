package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/coursewish/internal/app/models"
	"github.com/yigit/coursewish/internal/db"
	"github.com/yigit/coursewish/internal/pkg/apperrors"
	"github.com/yigit/coursewish/internal/pkg/logger"
)

const (
	constraintTeachersNameDept   = "uq_teachers_name_dept"
	constraintTeachersDepartment = "teachers_department_id_fkey"
)

// TeacherRepository handles teacher database operations
type TeacherRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewTeacherRepository creates a new TeacherRepository
func NewTeacherRepository(q db.DBTX) *TeacherRepository {
	return &TeacherRepository{
		db: q,
		sb: statementBuilder(),
	}
}

// selectTeachers joins the department so callers get its name without a second query
func (r *TeacherRepository) selectTeachers() squirrel.SelectBuilder {
	return r.sb.Select("t.id", "t.name", "t.department_id", "d.name", "d.code").
		From("teachers t").
		LeftJoin("departments d ON d.id = t.department_id")
}

func scanTeacher(row pgx.Row) (*models.Teacher, error) {
	teacher := &models.Teacher{}
	var deptName, deptCode *string
	if err := row.Scan(&teacher.ID, &teacher.Name, &teacher.DepartmentID, &deptName, &deptCode); err != nil {
		return nil, err
	}
	if teacher.DepartmentID != nil && deptName != nil {
		teacher.Department = &models.Department{
			ID:   *teacher.DepartmentID,
			Name: *deptName,
			Code: deptCode,
		}
	}
	return teacher, nil
}

// Create creates a new teacher
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	sql, args, err := r.sb.Insert("teachers").
		Columns("name", "department_id").
		Values(teacher.Name, teacher.DepartmentID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create teacher SQL")
		return fmt.Errorf("failed to build create teacher query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&teacher.ID)
	if err != nil {
		if mapped := translate(err,
			unique(constraintTeachersNameDept, apperrors.ErrTeacherAlreadyExists),
			foreignKey(constraintTeachersDepartment, apperrors.ErrReferenceNotFound),
		); mapped != nil {
			return mapped
		}
		logger.Error().Err(err).Str("name", teacher.Name).Msg("Error executing create teacher query")
		return fmt.Errorf("error creating teacher: %w", err)
	}

	return nil
}

// GetByID retrieves a teacher by ID
func (r *TeacherRepository) GetByID(ctx context.Context, id int64) (*models.Teacher, error) {
	sql, args, err := r.selectTeachers().
		Where(squirrel.Eq{"t.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get teacher by ID SQL")
		return nil, fmt.Errorf("failed to build get teacher query: %w", err)
	}

	teacher, err := scanTeacher(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTeacherNotFound
		}
		logger.Error().Err(err).Int64("teacherID", id).Msg("Error scanning teacher row")
		return nil, fmt.Errorf("error getting teacher by ID: %w", err)
	}

	return teacher, nil
}

// GetByName lists every teacher with the given name; names repeat across departments
func (r *TeacherRepository) GetByName(ctx context.Context, name string) ([]*models.Teacher, error) {
	return r.list(ctx, squirrel.Eq{"t.name": name})
}

// GetByDepartment lists the teachers of a department
func (r *TeacherRepository) GetByDepartment(ctx context.Context, departmentID int64) ([]*models.Teacher, error) {
	return r.list(ctx, squirrel.Eq{"t.department_id": departmentID})
}

func (r *TeacherRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]*models.Teacher, error) {
	sql, args, err := r.selectTeachers().
		Where(where).
		OrderBy("t.name ASC", "t.id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list teachers SQL")
		return nil, fmt.Errorf("failed to build list teachers query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list teachers query")
		return nil, fmt.Errorf("error querying teachers: %w", err)
	}
	defer rows.Close()

	teachers := []*models.Teacher{}
	for rows.Next() {
		teacher, err := scanTeacher(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning teacher row")
			return nil, fmt.Errorf("error scanning teacher row: %w", err)
		}
		teachers = append(teachers, teacher)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating teacher rows")
		return nil, fmt.Errorf("error iterating teacher rows: %w", err)
	}

	return teachers, nil
}

// Delete removes a teacher that no course references
func (r *TeacherRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("teachers").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete teacher SQL")
		return fmt.Errorf("failed to build delete teacher query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if mapped := translate(err,
			foreignKey(constraintCoursesTeacher, apperrors.ErrTeacherHasRelations),
		); mapped != nil {
			return mapped
		}
		logger.Error().Err(err).Int64("teacherID", id).Msg("Error executing delete teacher query")
		return fmt.Errorf("error deleting teacher: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTeacherNotFound
	}

	return nil
}
