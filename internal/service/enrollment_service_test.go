package service

import (
	"campus_lms_backend/internal/model"
	"campus_lms_backend/internal/util"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnrollmentService(env *testEnv) *EnrollmentService {
	return NewEnrollmentService(env.enrollments, env.courses, env.users, env.db)
}

func TestEnrollIdempotent(t *testing.T) {
	env := newTestEnv(t)
	svc := newEnrollmentService(env)
	student := env.createUser(t, "stu@test.com", model.Student)
	env.createCourse(t, "CS101", nil)

	first, err := svc.Enroll(student.ID, "CS101", callerFor(student))
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentActive, first.Status)
	assert.Zero(t, first.Progress)

	// 重复选课返回同一条记录，不报错不新增
	second, err := svc.Enroll(student.ID, "CS101", callerFor(student))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	count, err := env.enrollments.CountByCourse(first.CourseID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	course, err := env.courses.FindByCode("CS101")
	require.NoError(t, err)
	occurrences := 0
	for _, id := range course.EnrolledStudents {
		if id == student.ID {
			occurrences++
		}
	}
	assert.Equal(t, 1, occurrences, "student must appear in the cache exactly once")
}

func TestEnrollAuthorization(t *testing.T) {
	env := newTestEnv(t)
	svc := newEnrollmentService(env)
	student := env.createUser(t, "stu@test.com", model.Student)
	other := env.createUser(t, "other@test.com", model.Student)
	instructor := env.createUser(t, "prof@test.com", model.Instructor)
	admin := env.createUser(t, "admin@test.com", model.Admin)
	env.createCourse(t, "CS101", &instructor.ID)

	_, err := svc.Enroll(student.ID, "CS101", nil)
	assert.Equal(t, util.CategoryUnauthenticated, util.CategoryOf(err))

	// 只有本人或管理员；授课教师也不能替学生选课
	_, err = svc.Enroll(student.ID, "CS101", callerFor(other))
	assert.Equal(t, util.CategoryForbidden, util.CategoryOf(err))
	_, err = svc.Enroll(student.ID, "CS101", callerFor(instructor))
	assert.Equal(t, util.CategoryForbidden, util.CategoryOf(err))

	_, err = svc.Enroll(student.ID, "CS101", callerFor(admin))
	assert.NoError(t, err)

	_, err = svc.Enroll(student.ID, "NOPE", callerFor(student))
	assert.Equal(t, util.CategoryNotFound, util.CategoryOf(err))

	_, err = svc.Enroll(99999, "CS101", callerFor(admin))
	assert.Equal(t, util.CategoryNotFound, util.CategoryOf(err))
}

func TestEnrollIgnoresCapacity(t *testing.T) {
	env := newTestEnv(t)
	svc := newEnrollmentService(env)
	admin := env.createUser(t, "admin@test.com", model.Admin)

	course := env.createCourse(t, "CS102", nil)
	course.EnrollmentCapacity = 2
	require.NoError(t, env.courses.Save(course))

	// 容量只是展示字段，不做准入限制
	for i := 0; i < 3; i++ {
		stu := env.createUser(t, fmt.Sprintf("stu%d@test.com", i), model.Student)
		_, err := svc.Enroll(stu.ID, "CS102", callerFor(admin))
		require.NoError(t, err)
	}

	count, err := env.enrollments.CountByCourse(course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestEnrollAgainstStaleCache(t *testing.T) {
	env := newTestEnv(t)
	svc := newEnrollmentService(env)
	student := env.createUser(t, "stu@test.com", model.Student)
	other := env.createUser(t, "other@test.com", model.Student)
	course := env.createCourse(t, "CS109", nil)

	// 另一个写入方改动了缓存：选课必须基于行锁下重读的课程，
	// 既不覆盖别人的条目，也不重复自己的
	course.EnrolledStudents = append(course.EnrolledStudents, other.ID, student.ID)
	require.NoError(t, env.courses.Save(course))

	_, err := svc.Enroll(student.ID, "CS109", callerFor(student))
	require.NoError(t, err)

	fresh, err := env.courses.FindByCode("CS109")
	require.NoError(t, err)
	assert.Contains(t, []uint(fresh.EnrolledStudents), other.ID)
	occurrences := 0
	for _, id := range fresh.EnrolledStudents {
		if id == student.ID {
			occurrences++
		}
	}
	assert.Equal(t, 1, occurrences)
}

func TestUnenroll(t *testing.T) {
	env := newTestEnv(t)
	svc := newEnrollmentService(env)
	student := env.createUser(t, "stu@test.com", model.Student)
	other := env.createUser(t, "other@test.com", model.Student)
	env.createCourse(t, "CS103", nil)

	_, err := svc.Enroll(student.ID, "CS103", callerFor(student))
	require.NoError(t, err)
	_, err = svc.Enroll(other.ID, "CS103", callerFor(other))
	require.NoError(t, err)

	require.NoError(t, svc.Unenroll(student.ID, "CS103", callerFor(student)))

	course, err := env.courses.FindByCode("CS103")
	require.NoError(t, err)
	assert.NotContains(t, []uint(course.EnrolledStudents), student.ID)
	assert.Contains(t, []uint(course.EnrolledStudents), other.ID)

	count, err := env.enrollments.CountByCourse(course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// 退课后可以再次选课
	_, err = svc.Enroll(student.ID, "CS103", callerFor(student))
	assert.NoError(t, err)
}

func TestUnenrollNotEnrolled(t *testing.T) {
	env := newTestEnv(t)
	svc := newEnrollmentService(env)
	student := env.createUser(t, "stu@test.com", model.Student)
	course := env.createCourse(t, "CS104", nil)

	// 未选课时退课：not_enrolled，与课程不存在区分开
	err := svc.Unenroll(student.ID, "CS104", callerFor(student))
	assert.Equal(t, util.CategoryNotEnrolled, util.CategoryOf(err))

	err = svc.Unenroll(student.ID, "NOPE", callerFor(student))
	assert.Equal(t, util.CategoryNotFound, util.CategoryOf(err))

	// 失败的退课不留任何痕迹
	count, err := env.enrollments.CountByCourse(course.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestListForCourse(t *testing.T) {
	env := newTestEnv(t)
	svc := newEnrollmentService(env)
	instructor := env.createUser(t, "prof@test.com", model.Instructor)
	other := env.createUser(t, "other@test.com", model.Instructor)
	admin := env.createUser(t, "admin@test.com", model.Admin)
	student := env.createUser(t, "stu@test.com", model.Student)
	env.createCourse(t, "CS105", &instructor.ID)

	_, err := svc.Enroll(student.ID, "CS105", callerFor(student))
	require.NoError(t, err)

	_, err = svc.ListForCourse("CS105", callerFor(other))
	assert.Equal(t, util.CategoryForbidden, util.CategoryOf(err))
	_, err = svc.ListForCourse("CS105", callerFor(student))
	assert.Equal(t, util.CategoryForbidden, util.CategoryOf(err))

	for _, caller := range []*model.Caller{callerFor(instructor), callerFor(admin)} {
		list, err := svc.ListForCourse("CS105", caller)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, student.ID, list[0].UserID)
		// 学生档案随记录一起返回
		assert.Equal(t, "stu@test.com", list[0].User.Person.Email)
	}

	_, err = svc.ListForCourse("NOPE", callerFor(admin))
	assert.Equal(t, util.CategoryNotFound, util.CategoryOf(err))
}

func TestListForStudent(t *testing.T) {
	env := newTestEnv(t)
	svc := newEnrollmentService(env)
	student := env.createUser(t, "stu@test.com", model.Student)
	admin := env.createUser(t, "admin@test.com", model.Admin)
	env.createCourse(t, "CS106", nil)
	env.createCourse(t, "CS107", nil)

	_, err := svc.Enroll(student.ID, "CS106", callerFor(student))
	require.NoError(t, err)
	_, err = svc.Enroll(student.ID, "CS107", callerFor(student))
	require.NoError(t, err)

	list, err := svc.ListForStudent(student.ID, callerFor(student))
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, ce := range list {
		assert.NotEmpty(t, ce.Course.Code)
		assert.Equal(t, student.ID, ce.Enrollment.UserID)
	}

	// 自己的列表只有本人可看，管理员也不例外
	_, err = svc.ListForStudent(student.ID, callerFor(admin))
	assert.Equal(t, util.CategoryForbidden, util.CategoryOf(err))

	empty, err := svc.ListForStudent(admin.ID, callerFor(admin))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestUpdateProgress(t *testing.T) {
	env := newTestEnv(t)
	svc := newEnrollmentService(env)
	instructor := env.createUser(t, "prof@test.com", model.Instructor)
	student := env.createUser(t, "stu@test.com", model.Student)
	env.createCourse(t, "CS108", &instructor.ID)

	_, err := svc.Enroll(student.ID, "CS108", callerFor(student))
	require.NoError(t, err)

	progress := 60
	status := string(model.EnrollmentCompleted)
	updated, err := svc.UpdateProgress(student.ID, "CS108", &progress, &status, callerFor(instructor))
	require.NoError(t, err)
	assert.Equal(t, 60, updated.Progress)
	assert.Equal(t, model.EnrollmentCompleted, updated.Status)

	bad := 101
	_, err = svc.UpdateProgress(student.ID, "CS108", &bad, nil, callerFor(instructor))
	assert.Equal(t, util.CategoryValidation, util.CategoryOf(err))

	// 枚举之外的状态拒绝入库
	badStatus := "archived"
	_, err = svc.UpdateProgress(student.ID, "CS108", nil, &badStatus, callerFor(instructor))
	assert.Equal(t, util.CategoryValidation, util.CategoryOf(err))

	course, err := env.courses.FindByCode("CS108")
	require.NoError(t, err)
	stored, err := env.enrollments.FindByUserAndCourse(student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentCompleted, stored.Status, "rejected status must not persist")

	_, err = svc.UpdateProgress(student.ID, "CS108", &progress, nil, callerFor(student))
	assert.Equal(t, util.CategoryForbidden, util.CategoryOf(err))

	_, err = svc.UpdateProgress(instructor.ID, "CS108", &progress, nil, callerFor(instructor))
	assert.Equal(t, util.CategoryNotEnrolled, util.CategoryOf(err))
}
