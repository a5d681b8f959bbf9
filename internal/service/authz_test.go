package service

import (
	"campus_lms_backend/internal/model"
	"campus_lms_backend/internal/util"
	"testing"
)

func TestRequireRole(t *testing.T) {
	admin := &model.Caller{ID: 1, Role: model.Admin}
	student := &model.Caller{ID: 2, Role: model.Student}

	tests := []struct {
		name   string
		caller *model.Caller
		roles  []model.UserRole
		want   util.ErrorCategory
	}{
		{name: "no caller", caller: nil, roles: []model.UserRole{model.Admin}, want: util.CategoryUnauthenticated},
		{name: "role match", caller: admin, roles: []model.UserRole{model.Admin}},
		{name: "role in set", caller: admin, roles: []model.UserRole{model.Instructor, model.Admin}},
		{name: "role mismatch", caller: student, roles: []model.UserRole{model.Instructor, model.Admin}, want: util.CategoryForbidden},
		{name: "empty set", caller: student, roles: nil, want: util.CategoryForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireRole(tt.caller, tt.roles...)
			checkCategory(t, err, tt.want)
		})
	}
}

func TestRequireSelfOrRole(t *testing.T) {
	admin := &model.Caller{ID: 1, Role: model.Admin}
	student := &model.Caller{ID: 2, Role: model.Student}

	tests := []struct {
		name   string
		caller *model.Caller
		target uint
		roles  []model.UserRole
		want   util.ErrorCategory
	}{
		{name: "no caller", caller: nil, target: 2, want: util.CategoryUnauthenticated},
		{name: "self", caller: student, target: 2},
		{name: "not self no role", caller: student, target: 3, roles: []model.UserRole{model.Admin}, want: util.CategoryForbidden},
		{name: "not self but admin", caller: admin, target: 3, roles: []model.UserRole{model.Admin}},
		{name: "self only policy rejects others", caller: admin, target: 3, want: util.CategoryForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireSelfOrRole(tt.caller, tt.target, tt.roles...)
			checkCategory(t, err, tt.want)
		})
	}
}

func TestRequireCourseOwnerOrRole(t *testing.T) {
	ownerID := uint(7)
	owned := &model.Course{InstructorID: &ownerID}
	unassigned := &model.Course{}

	owner := &model.Caller{ID: 7, Role: model.Instructor}
	other := &model.Caller{ID: 8, Role: model.Instructor}
	admin := &model.Caller{ID: 9, Role: model.Admin}

	tests := []struct {
		name   string
		caller *model.Caller
		course *model.Course
		roles  []model.UserRole
		want   util.ErrorCategory
	}{
		{name: "no caller", caller: nil, course: owned, want: util.CategoryUnauthenticated},
		{name: "owner", caller: owner, course: owned},
		{name: "other instructor", caller: other, course: owned, roles: []model.UserRole{model.Admin}, want: util.CategoryForbidden},
		{name: "admin on owned", caller: admin, course: owned, roles: []model.UserRole{model.Admin}},
		// 未指派教师的课程没有隐式所有者
		{name: "owner id zero does not match unassigned", caller: &model.Caller{ID: 0, Role: model.Instructor}, course: unassigned, roles: []model.UserRole{model.Admin}, want: util.CategoryForbidden},
		{name: "admin on unassigned", caller: admin, course: unassigned, roles: []model.UserRole{model.Admin}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireCourseOwnerOrRole(tt.caller, tt.course, tt.roles...)
			checkCategory(t, err, tt.want)
		})
	}
}

func checkCategory(t *testing.T, err error, want util.ErrorCategory) {
	t.Helper()
	if want == "" {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return
	}
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := util.CategoryOf(err); got != want {
		t.Fatalf("category = %s, want %s", got, want)
	}
}
