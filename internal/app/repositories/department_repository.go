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
	constraintDepartmentsName = "departments_name_key"
	constraintDepartmentsCode = "departments_code_key"
)

// DepartmentRepository handles database operations for departments
type DepartmentRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(q db.DBTX) *DepartmentRepository {
	return &DepartmentRepository{
		db: q,
		sb: statementBuilder(),
	}
}

// Create creates a new department
func (r *DepartmentRepository) Create(ctx context.Context, department *models.Department) error {
	sql, args, err := r.sb.Insert("departments").
		Columns("name", "code").
		Values(department.Name, department.Code).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create department SQL")
		return fmt.Errorf("failed to build create department query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&department.ID)
	if err != nil {
		if mapped := translate(err,
			unique(constraintDepartmentsName, apperrors.ErrDepartmentAlreadyExists),
			unique(constraintDepartmentsCode, apperrors.ErrDepartmentAlreadyExists),
		); mapped != nil {
			return mapped
		}
		logger.Error().Err(err).Str("name", department.Name).Msg("Error executing create department query")
		return fmt.Errorf("error creating department: %w", err)
	}

	return nil
}

func (r *DepartmentRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Department, error) {
	sql, args, err := r.sb.Select("id", "name", "code").
		From("departments").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get department SQL")
		return nil, fmt.Errorf("failed to build get department query: %w", err)
	}

	department := &models.Department{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&department.ID, &department.Name, &department.Code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDepartmentNotFound
		}
		logger.Error().Err(err).Msg("Error scanning department row")
		return nil, fmt.Errorf("error retrieving department: %w", err)
	}

	return department, nil
}

// GetByID retrieves a department by ID
func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (*models.Department, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByCode retrieves a department by its short code
func (r *DepartmentRepository) GetByCode(ctx context.Context, code string) (*models.Department, error) {
	return r.getOne(ctx, squirrel.Eq{"code": code})
}

// GetAll retrieves all departments ordered by name
func (r *DepartmentRepository) GetAll(ctx context.Context) ([]*models.Department, error) {
	sql, args, err := r.sb.Select("id", "name", "code").
		From("departments").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get all departments SQL")
		return nil, fmt.Errorf("failed to build get all departments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all departments query")
		return nil, fmt.Errorf("error querying departments: %w", err)
	}
	defer rows.Close()

	departments := []*models.Department{}
	for rows.Next() {
		department := &models.Department{}
		if err := rows.Scan(&department.ID, &department.Name, &department.Code); err != nil {
			logger.Error().Err(err).Msg("Error scanning department row during get all")
			return nil, fmt.Errorf("error scanning department row: %w", err)
		}
		departments = append(departments, department)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating department rows")
		return nil, fmt.Errorf("error iterating department rows: %w", err)
	}

	return departments, nil
}

// Delete removes a department. Teachers of the department are detached by the
// database; a department still offering courses cannot be deleted.
func (r *DepartmentRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("departments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete department SQL")
		return fmt.Errorf("failed to build delete department query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if mapped := translate(err,
			foreignKey(constraintCoursesDepartment, apperrors.ErrDepartmentHasRelations),
		); mapped != nil {
			return mapped
		}
		logger.Error().Err(err).Int64("departmentID", id).Msg("Error executing delete department query")
		return fmt.Errorf("error deleting department: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrDepartmentNotFound
	}

	return nil
}
