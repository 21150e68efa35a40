package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	appModels "github.com/yigit/coursewish/internal/app/models"
	appRepos "github.com/yigit/coursewish/internal/app/repositories"
	"github.com/yigit/coursewish/internal/db"
	"github.com/yigit/coursewish/internal/pkg/apperrors"
	"github.com/yigit/coursewish/internal/pkg/auth"
)

// DemoEmail is the account that owns the demo wishes
const DemoEmail = "demo@coursewish.local"

type demoDepartment struct {
	Name string
	Code string
}

type demoTeacher struct {
	Name     string
	DeptCode string
}

type demoCourse struct {
	Code     string
	Name     string
	Teacher  string
	DeptCode string
	Credits  int16
	Type     appModels.CourseType
	Schedule string
}

type demoWish struct {
	CourseName string
	Teacher    string
}

var (
	demoDepartments = []demoDepartment{
		{Name: "資訊工程學系", Code: "CSIE"},
		{Name: "機械工程學系", Code: "ME"},
		{Name: "通識教育中心", Code: "GE"},
	}

	demoTeachers = []demoTeacher{
		{Name: "王大明", DeptCode: "CSIE"},
		{Name: "廖老大", DeptCode: "ME"},
		{Name: "蘇勃起", DeptCode: "GE"},
		{Name: "楊過", DeptCode: "GE"},
		{Name: "劉忙", DeptCode: "GE"},
	}

	// Only the first two wishes correspond to courses that exist
	demoCourses = []demoCourse{
		{Code: "CS3001", Name: "演算法", Teacher: "王大明", DeptCode: "CSIE", Credits: 3, Type: appModels.CourseTypeRequired, Schedule: "Tue 2-4"},
		{Code: "ME2002", Name: "動力學", Teacher: "廖老大", DeptCode: "ME", Credits: 3, Type: appModels.CourseTypeRequired, Schedule: "Thu 6-8"},
	}

	demoWishes = []demoWish{
		{CourseName: "演算法", Teacher: "王大明"},
		{CourseName: "動力學", Teacher: "廖老大"},
		{CourseName: "當代潮流與兩性探討", Teacher: "蘇勃起"},
		{CourseName: "神鵰培養概論", Teacher: "楊過"},
		{CourseName: "宮廟概論", Teacher: "劉忙"},
	}
)

// ErrMissingDemoPassword is returned when seeding is requested without a demo password
var ErrMissingDemoPassword = errors.New("seed: demo password is not configured")

// Run creates the demo data as one unit of work. When any step fails the
// transaction is rolled back and nothing is left behind.
func Run(ctx context.Context, b db.TxBeginner, demoPassword string, lgr zerolog.Logger) error {
	if demoPassword == "" {
		return ErrMissingDemoPassword
	}
	return db.RunInTx(ctx, b, lgr, func(ctx context.Context, tx pgx.Tx) error {
		return CreateDemoData(ctx, tx, demoPassword, lgr)
	})
}

// CreateDemoData creates the demo catalogue, a demo user and the wishing-well
// entries if they don't exist. Running it again changes nothing. It stops at the
// first failure, so q should be a transaction (see Run).
func CreateDemoData(ctx context.Context, q db.DBTX, demoPassword string, lgr zerolog.Logger) error {
	repos := appRepos.NewRepositories(q)

	lgr.Info().Msg("Checking/Creating demo data (departments/teachers/courses/wishes)...")

	deptIDs := make(map[string]int64, len(demoDepartments))
	for _, d := range demoDepartments {
		id, err := ensureDepartment(ctx, repos, d)
		if err != nil {
			return fmt.Errorf("demo department %s: %w", d.Code, err)
		}
		deptIDs[d.Code] = id
	}

	teacherIDs := make(map[string]int64, len(demoTeachers))
	for _, t := range demoTeachers {
		id, err := ensureTeacher(ctx, repos, t.Name, deptIDs[t.DeptCode])
		if err != nil {
			return fmt.Errorf("demo teacher %s: %w", t.Name, err)
		}
		teacherIDs[t.Name] = id
	}

	courseIDs := make(map[string]int64, len(demoCourses))
	for _, c := range demoCourses {
		id, err := ensureCourse(ctx, repos, c, deptIDs[c.DeptCode], teacherIDs[c.Teacher])
		if err != nil {
			return fmt.Errorf("demo course %s: %w", c.Code, err)
		}
		courseIDs[c.Name+"/"+c.Teacher] = id
	}

	user, err := ensureDemoUser(ctx, repos, demoPassword, lgr)
	if err != nil {
		return fmt.Errorf("demo user: %w", err)
	}

	for _, w := range demoWishes {
		wishID, err := ensureWish(ctx, repos, w, user, courseIDs, lgr)
		if err != nil {
			return fmt.Errorf("demo wish %s: %w", w.CourseName, err)
		}
		if err := castVote(ctx, repos, user, wishID); err != nil {
			return fmt.Errorf("vote for demo wish %s: %w", w.CourseName, err)
		}
	}

	lgr.Info().Msg("Demo data check/creation finished.")
	return nil
}

func ensureDepartment(ctx context.Context, repos *appRepos.Repositories, d demoDepartment) (int64, error) {
	existing, err := repos.DepartmentRepository.GetByCode(ctx, d.Code)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, apperrors.ErrDepartmentNotFound) {
		return 0, err
	}

	code := d.Code
	dept := &appModels.Department{Name: d.Name, Code: &code}
	if err := repos.DepartmentRepository.Create(ctx, dept); err != nil {
		return 0, err
	}
	return dept.ID, nil
}

func ensureTeacher(ctx context.Context, repos *appRepos.Repositories, name string, deptID int64) (int64, error) {
	teachers, err := repos.TeacherRepository.GetByDepartment(ctx, deptID)
	if err != nil {
		return 0, err
	}
	for _, t := range teachers {
		if t.Name == name {
			return t.ID, nil
		}
	}

	teacher := &appModels.Teacher{Name: name, DepartmentID: &deptID}
	if err := repos.TeacherRepository.Create(ctx, teacher); err != nil {
		return 0, err
	}
	return teacher.ID, nil
}

func ensureCourse(ctx context.Context, repos *appRepos.Repositories, c demoCourse, deptID, teacherID int64) (int64, error) {
	courses, err := repos.CourseRepository.GetByTeacher(ctx, teacherID)
	if err != nil {
		return 0, err
	}
	for _, existing := range courses {
		if existing.CourseCode == c.Code {
			return existing.ID, nil
		}
	}

	schedule := c.Schedule
	course := &appModels.Course{
		DepartmentID: deptID,
		TeacherID:    teacherID,
		CourseCode:   c.Code,
		Name:         c.Name,
		Credits:      c.Credits,
		CourseType:   c.Type,
		Schedule:     &schedule,
	}
	if err := repos.CourseRepository.Create(ctx, course); err != nil {
		return 0, err
	}
	return course.ID, nil
}

func ensureDemoUser(ctx context.Context, repos *appRepos.Repositories, password string, lgr zerolog.Logger) (*appModels.User, error) {
	existing, err := repos.UserRepository.GetByEmail(ctx, DemoEmail)
	if err == nil {
		if existing.PasswordHash == nil || !auth.CheckPassword(*existing.PasswordHash, password) {
			lgr.Warn().Str("email", DemoEmail).Msg("Demo user exists with a different password; leaving it unchanged")
		}
		lgr.Info().Msg("Demo user already exists, skipping creation")
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash demo password: %w", err)
	}

	user := appModels.NewUser(DemoEmail, "Demo Student")
	user.PasswordHash = &hashed
	if err := repos.UserRepository.Create(ctx, user); err != nil {
		return nil, err
	}
	lgr.Info().Str("userID", user.ID.String()).Msg("Demo user created successfully")
	return user, nil
}

func ensureWish(ctx context.Context, repos *appRepos.Repositories, w demoWish, user *appModels.User, courseIDs map[string]int64, lgr zerolog.Logger) (int64, error) {
	existing, err := repos.WishRepository.GetByNameAndTeacher(ctx, w.CourseName, w.Teacher)
	if err == nil {
		lgr.Debug().Str("wish", w.CourseName).Msg("Demo wish already exists, skipping")
		return existing.ID, nil
	}
	if !errors.Is(err, apperrors.ErrWishNotFound) {
		return 0, err
	}

	wish := &appModels.Wish{CourseName: w.CourseName, Teacher: w.Teacher, CreatedBy: user.ID}
	if id, ok := courseIDs[w.CourseName+"/"+w.Teacher]; ok {
		wish.CourseID = &id
	}
	if err := repos.WishRepository.Create(ctx, wish); err != nil {
		return 0, err
	}
	return wish.ID, nil
}

// castVote records the demo user's vote and stores the resulting total
func castVote(ctx context.Context, repos *appRepos.Repositories, user *appModels.User, wishID int64) error {
	voted, err := repos.WishVoteRepository.Exists(ctx, user.ID, wishID)
	if err != nil {
		return err
	}
	if !voted {
		if err := repos.WishVoteRepository.Create(ctx, &appModels.WishVote{UserID: user.ID, WishID: wishID}); err != nil {
			return err
		}
	}

	count, err := repos.WishVoteRepository.CountByWish(ctx, wishID)
	if err != nil {
		return err
	}
	return repos.WishRepository.SetVoteCount(ctx, wishID, count)
}
