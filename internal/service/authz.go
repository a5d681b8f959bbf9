package service

import (
	"campus_lms_backend/internal/model"
	"campus_lms_backend/internal/util"
)

// 授权检查统一入口。所有服务方法在产生任何副作用之前调用这里的
// 策略函数；调用者缺失（token 无效/未携带）一律先判定为未认证。

func RequireAuthenticated(caller *model.Caller) error {
	if caller == nil {
		return util.Unauthenticated("authentication required")
	}
	return nil
}

// RequireRole caller 角色必须在给定集合中
func RequireRole(caller *model.Caller, roles ...model.UserRole) error {
	if err := RequireAuthenticated(caller); err != nil {
		return err
	}
	for _, role := range roles {
		if caller.Role == role {
			return nil
		}
	}
	return util.Forbidden("insufficient role")
}

// RequireSelfOrRole caller 是目标用户本人，或角色在给定集合中
func RequireSelfOrRole(caller *model.Caller, targetID uint, roles ...model.UserRole) error {
	if err := RequireAuthenticated(caller); err != nil {
		return err
	}
	if caller.ID == targetID {
		return nil
	}
	for _, role := range roles {
		if caller.Role == role {
			return nil
		}
	}
	return util.Forbidden("not the target user")
}

// RequireCourseOwnerOrRole caller 是课程的授课教师，或角色在给定集合中。
// 未指派教师的课程不存在隐式所有者，只有角色匹配的调用者可以通过。
func RequireCourseOwnerOrRole(caller *model.Caller, course *model.Course, roles ...model.UserRole) error {
	if err := RequireAuthenticated(caller); err != nil {
		return err
	}
	if course.InstructorID != nil && *course.InstructorID == caller.ID {
		return nil
	}
	for _, role := range roles {
		if caller.Role == role {
			return nil
		}
	}
	return util.Forbidden("not the course instructor")
}
