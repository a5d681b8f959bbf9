package service

import (
	"campus_lms_backend/internal/model"
	"campus_lms_backend/internal/repository"
	"campus_lms_backend/pkg/database"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB 每个测试一个独立的内存库，表结构与生产迁移一致
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库绑定单连接，避免连接池各见各的库
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

type testEnv struct {
	db          *gorm.DB
	users       *repository.UserRepository
	courses     *repository.CourseRepository
	enrollments *repository.EnrollmentRepository
	resources   *repository.ResourceRepository
}

func newTestEnv(t *testing.T) *testEnv {
	db := setupTestDB(t)
	return &testEnv{
		db:          db,
		users:       repository.NewUserRepository(db),
		courses:     repository.NewCourseRepository(db),
		enrollments: repository.NewEnrollmentRepository(db),
		resources:   repository.NewResourceRepository(db),
	}
}

// createUser 插入账号+档案并返回
func (e *testEnv) createUser(t *testing.T, email string, role model.UserRole) *model.User {
	t.Helper()

	person := &model.Person{FirstName: "Test", LastName: "User", Email: email}
	user := &model.User{Password: "x", Role: role}
	require.NoError(t, e.users.CreateWithPerson(user, person))
	user.Person = *person
	return user
}

func (e *testEnv) createCourse(t *testing.T, code string, instructorID *uint) *model.Course {
	t.Helper()

	course := &model.Course{
		Code:               code,
		Title:              "Course " + code,
		Status:             model.CourseActive,
		EnrollmentCapacity: model.DefaultEnrollmentCapacity,
		InstructorID:       instructorID,
	}
	require.NoError(t, e.courses.Create(course))
	return course
}

func callerFor(user *model.User) *model.Caller {
	return &model.Caller{ID: user.ID, Role: user.Role}
}
