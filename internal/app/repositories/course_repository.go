package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/coursewish/internal/app/models"
	"github.com/yigit/coursewish/internal/db"
	"github.com/yigit/coursewish/internal/pkg/apperrors"
	"github.com/yigit/coursewish/internal/pkg/helpers"
	"github.com/yigit/coursewish/internal/pkg/logger"
)

const (
	constraintCoursesCodeTeacher = "uq_courses_code_teacher"
	constraintCoursesDepartment  = "courses_department_id_fkey"
	constraintCoursesTeacher     = "courses_teacher_id_fkey"
)

// Listing limits for course queries
const (
	DefaultCourseLimit = 20
	MaxCourseLimit     = 100
)

var courseColumns = []string{
	"c.id", "c.department_id", "c.teacher_id", "c.course_code", "c.name", "c.credits",
	"c.course_type", "c.schedule", "c.last_offered_semester",
	"c.avg_reward", "c.avg_score", "c.avg_easiness", "c.avg_teacher_style", "c.avg_overall",
	"c.review_count", "c.created_at", "c.updated_at",
	"d.name", "d.code", "t.name",
}

// CourseRepository handles course database operations
type CourseRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(q db.DBTX) *CourseRepository {
	return &CourseRepository{
		db: q,
		sb: statementBuilder(),
	}
}

func (r *CourseRepository) selectCourses() squirrel.SelectBuilder {
	return r.sb.Select(courseColumns...).
		From("courses c").
		Join("departments d ON d.id = c.department_id").
		Join("teachers t ON t.id = c.teacher_id")
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	course := &models.Course{}
	department := &models.Department{}
	teacher := &models.Teacher{}
	err := row.Scan(
		&course.ID,
		&course.DepartmentID,
		&course.TeacherID,
		&course.CourseCode,
		&course.Name,
		&course.Credits,
		&course.CourseType,
		&course.Schedule,
		&course.LastOfferedSemester,
		&course.Ratings.Reward,
		&course.Ratings.Score,
		&course.Ratings.Easiness,
		&course.Ratings.TeacherStyle,
		&course.Ratings.Overall,
		&course.ReviewCount,
		&course.CreatedAt,
		&course.UpdatedAt,
		&department.Name,
		&department.Code,
		&teacher.Name,
	)
	if err != nil {
		return nil, err
	}

	department.ID = course.DepartmentID
	teacher.ID = course.TeacherID
	course.Department = department
	course.Teacher = teacher
	return course, nil
}

// Create inserts a course; its rating averages and review count start at zero
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Insert("courses").
		Columns("department_id", "teacher_id", "course_code", "name", "credits",
			"course_type", "schedule", "last_offered_semester").
		Values(course.DepartmentID, course.TeacherID, course.CourseCode, course.Name, course.Credits,
			course.CourseType, course.Schedule, course.LastOfferedSemester).
		Suffix("RETURNING id, review_count, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create course SQL")
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&course.ID, &course.ReviewCount, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		if mapped := translate(err,
			unique(constraintCoursesCodeTeacher, apperrors.ErrCourseAlreadyExists),
			foreignKey(constraintCoursesDepartment, apperrors.ErrReferenceNotFound),
			foreignKey(constraintCoursesTeacher, apperrors.ErrReferenceNotFound),
		); mapped != nil {
			return mapped
		}
		logger.Error().Err(err).Str("courseCode", course.CourseCode).Msg("Error executing create course query")
		return fmt.Errorf("error creating course: %w", err)
	}

	course.Ratings = models.Ratings{}
	return nil
}

// GetByID retrieves a course with its department and teacher
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := r.selectCourses().
		Where(squirrel.Eq{"c.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get course by ID SQL")
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Int64("courseID", id).Msg("Error scanning course row")
		return nil, fmt.Errorf("error getting course by ID: %w", err)
	}

	return course, nil
}

// GetByDepartment lists the courses of a department ordered by code
func (r *CourseRepository) GetByDepartment(ctx context.Context, departmentID int64) ([]*models.Course, error) {
	return r.list(ctx, r.selectCourses().
		Where(squirrel.Eq{"c.department_id": departmentID}).
		OrderBy("c.course_code ASC", "c.id ASC"))
}

// GetByTeacher lists the courses taught by a teacher ordered by code
func (r *CourseRepository) GetByTeacher(ctx context.Context, teacherID int64) ([]*models.Course, error) {
	return r.list(ctx, r.selectCourses().
		Where(squirrel.Eq{"c.teacher_id": teacherID}).
		OrderBy("c.course_code ASC", "c.id ASC"))
}

// SearchByName finds courses whose name contains query, case-insensitively
func (r *CourseRepository) SearchByName(ctx context.Context, query string, limit int) ([]*models.Course, error) {
	pattern := "%" + escapeLike(strings.TrimSpace(query)) + "%"
	return r.list(ctx, r.selectCourses().
		Where(squirrel.ILike{"c.name": pattern}).
		OrderBy("c.name ASC", "c.id ASC").
		Limit(uint64(helpers.Clamp(limit, DefaultCourseLimit, MaxCourseLimit))))
}

// GetTopRated lists courses by overall rating, best first
func (r *CourseRepository) GetTopRated(ctx context.Context, limit int) ([]*models.Course, error) {
	return r.list(ctx, r.selectCourses().
		OrderBy("c.avg_overall DESC", "c.review_count DESC", "c.id ASC").
		Limit(uint64(helpers.Clamp(limit, DefaultCourseLimit, MaxCourseLimit))))
}

func (r *CourseRepository) list(ctx context.Context, qb squirrel.SelectBuilder) ([]*models.Course, error) {
	sql, args, err := qb.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list courses SQL")
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list courses query")
		return nil, fmt.Errorf("error querying courses: %w", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning course row")
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating course rows")
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}

	return courses, nil
}

// UpdateRatings stores externally computed rating averages and review count.
// Averages that do not fit NUMERIC(3,2) are rejected by the database.
func (r *CourseRepository) UpdateRatings(ctx context.Context, id int64, ratings models.Ratings, reviewCount int) error {
	sql, args, err := r.sb.Update("courses").
		Set("avg_reward", ratings.Reward).
		Set("avg_score", ratings.Score).
		Set("avg_easiness", ratings.Easiness).
		Set("avg_teacher_style", ratings.TeacherStyle).
		Set("avg_overall", ratings.Overall).
		Set("review_count", reviewCount).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update course ratings SQL")
		return fmt.Errorf("failed to build update course ratings query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if mapped := translate(err, outOfRange(apperrors.ErrRatingOutOfRange)); mapped != nil {
			return mapped
		}
		logger.Error().Err(err).Int64("courseID", id).Msg("Error executing update course ratings query")
		return fmt.Errorf("error updating course ratings: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// Delete removes a course; wishes linked to it are kept and unlinked by the database
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("courses").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete course SQL")
		return fmt.Errorf("failed to build delete course query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", id).Msg("Error executing delete course query")
		return fmt.Errorf("error deleting course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
