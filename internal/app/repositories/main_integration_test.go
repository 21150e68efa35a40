//go:build integration

package repositories

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/coursewish/internal/app/models"
	"github.com/yigit/coursewish/internal/db"
	"github.com/yigit/coursewish/internal/pkg/testdb"
)

var (
	testDB   *db.PostgresDB
	testRepo *Repositories
	seq      atomic.Int64
)

func TestMain(m *testing.M) {
	dsn, ok := testdb.DSN()
	if !ok {
		fmt.Println(testdb.EnvDatabaseURL + " not set, skipping repository integration tests")
		os.Exit(0)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	pg, err := testdb.Open(ctx, dsn, "test_repositories")
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "prepare test database: %v\n", err)
		os.Exit(1)
	}
	testDB = pg
	testRepo = NewRepositories(testDB.Pool)

	code := m.Run()
	testDB.Close()
	os.Exit(code)
}

// uniq returns a suffix that keeps fixtures from different tests apart
func uniq(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, seq.Add(1))
}

func newUser(t *testing.T) *models.User {
	t.Helper()
	user := models.NewUser(uniq("user")+"@example.edu", "Tester")
	if err := testRepo.UserRepository.Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func newDepartment(t *testing.T) *models.Department {
	t.Helper()
	code := uniq("D")
	dept := &models.Department{Name: uniq("Department"), Code: &code}
	if err := testRepo.DepartmentRepository.Create(context.Background(), dept); err != nil {
		t.Fatalf("create department: %v", err)
	}
	return dept
}

func newTeacher(t *testing.T, departmentID *int64) *models.Teacher {
	t.Helper()
	teacher := &models.Teacher{Name: uniq("Teacher"), DepartmentID: departmentID}
	if err := testRepo.TeacherRepository.Create(context.Background(), teacher); err != nil {
		t.Fatalf("create teacher: %v", err)
	}
	return teacher
}

func newCourse(t *testing.T, departmentID, teacherID int64, code string) *models.Course {
	t.Helper()
	course := &models.Course{
		DepartmentID: departmentID,
		TeacherID:    teacherID,
		CourseCode:   code,
		Name:         uniq("Algorithms"),
		Credits:      3,
		CourseType:   models.CourseTypeRequired,
	}
	if err := testRepo.CourseRepository.Create(context.Background(), course); err != nil {
		t.Fatalf("create course: %v", err)
	}
	return course
}

func newWish(t *testing.T, createdBy uuid.UUID, courseID *int64) *models.Wish {
	t.Helper()
	wish := &models.Wish{
		CourseID:   courseID,
		CourseName: uniq("Wish"),
		Teacher:    "Wang",
		CreatedBy:  createdBy,
	}
	if err := testRepo.WishRepository.Create(context.Background(), wish); err != nil {
		t.Fatalf("create wish: %v", err)
	}
	return wish
}
