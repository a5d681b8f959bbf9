package service

import (
	"campus_lms_backend/internal/model"
	"campus_lms_backend/internal/util"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserListAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users)
	admin := env.createUser(t, "admin@test.com", model.Admin)
	student := env.createUser(t, "stu@test.com", model.Student)

	for i := 0; i < 12; i++ {
		env.createUser(t, fmt.Sprintf("bulk%d@test.com", i), model.Student)
	}

	_, err := svc.List("", "", 1, 10, callerFor(student))
	assert.Equal(t, util.CategoryForbidden, util.CategoryOf(err))

	list, err := svc.List("", "", 1, 10, callerFor(admin))
	require.NoError(t, err)
	assert.Equal(t, int64(14), list.Total)
	assert.Len(t, list.Items, 10)
	assert.Equal(t, 2, list.Pages)

	byRole, err := svc.List(string(model.Admin), "", 1, 10, callerFor(admin))
	require.NoError(t, err)
	assert.Equal(t, int64(1), byRole.Total)

	found, err := svc.List("", "bulk3", 1, 10, callerFor(admin))
	require.NoError(t, err)
	assert.Equal(t, int64(1), found.Total)
}

func TestUserGetByID(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users)
	admin := env.createUser(t, "admin@test.com", model.Admin)
	student := env.createUser(t, "stu@test.com", model.Student)
	other := env.createUser(t, "other@test.com", model.Student)

	got, err := svc.GetByID(student.ID, callerFor(student))
	require.NoError(t, err)
	assert.Equal(t, "stu@test.com", got.Person.Email)

	_, err = svc.GetByID(student.ID, callerFor(other))
	assert.Equal(t, util.CategoryForbidden, util.CategoryOf(err))

	_, err = svc.GetByID(student.ID, callerFor(admin))
	assert.NoError(t, err)

	_, err = svc.GetByID(99999, callerFor(admin))
	assert.Equal(t, util.CategoryNotFound, util.CategoryOf(err))
}

func TestUserUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users)
	student := env.createUser(t, "stu@test.com", model.Student)
	other := env.createUser(t, "other@test.com", model.Student)

	first := "Grace"
	phone := "555-0001"
	updated, err := svc.UpdateProfile(student.ID, ProfilePatch{FirstName: &first, PhoneNumber: &phone}, callerFor(student))
	require.NoError(t, err)
	assert.Equal(t, "Grace", updated.Person.FirstName)
	assert.Equal(t, "555-0001", updated.Person.PhoneNumber)
	// 未出现在 patch 里的字段保持原样
	assert.Equal(t, "User", updated.Person.LastName)

	_, err = svc.UpdateProfile(student.ID, ProfilePatch{FirstName: &first}, callerFor(other))
	assert.Equal(t, util.CategoryForbidden, util.CategoryOf(err))
}

func TestAssignRole(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users)
	admin := env.createUser(t, "admin@test.com", model.Admin)
	student := env.createUser(t, "stu@test.com", model.Student)

	err := svc.AssignRole(student.ID, model.Instructor, callerFor(student))
	assert.Equal(t, util.CategoryForbidden, util.CategoryOf(err))

	require.NoError(t, svc.AssignRole(student.ID, model.Instructor, callerFor(admin)))
	fresh, err := env.users.FindByID(student.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Instructor, fresh.Role)

	err = svc.AssignRole(student.ID, model.UserRole("superuser"), callerFor(admin))
	assert.Equal(t, util.CategoryValidation, util.CategoryOf(err))

	err = svc.AssignRole(99999, model.Student, callerFor(admin))
	assert.Equal(t, util.CategoryNotFound, util.CategoryOf(err))
}

func TestUserDelete(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users)
	admin := env.createUser(t, "admin@test.com", model.Admin)
	student := env.createUser(t, "stu@test.com", model.Student)

	err := svc.Delete(admin.ID, callerFor(student))
	assert.Equal(t, util.CategoryForbidden, util.CategoryOf(err))

	personID := student.PersonID
	require.NoError(t, svc.Delete(student.ID, callerFor(admin)))

	_, err = env.users.FindByID(student.ID)
	assert.Error(t, err)
	var people int64
	require.NoError(t, env.db.Model(&model.Person{}).Where("id = ?", personID).Count(&people).Error)
	assert.Zero(t, people, "person record goes with its account")

	// 硬删除后同一邮箱可重新注册
	env.createUser(t, "stu@test.com", model.Student)
}
