package service

import (
	"campus_lms_backend/internal/model"
	"campus_lms_backend/internal/repository"
	"campus_lms_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

// UserService 账号管理
type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

// UserList 分页查询结果
type UserList struct {
	Items []model.User
	Total int64
	Page  int
	Limit int
	Pages int
}

// List 管理员查看用户列表
func (s *UserService) List(role, search string, page, limit int, caller *model.Caller) (*UserList, error) {
	if err := RequireRole(caller, model.Admin); err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	users, total, err := s.UserRepo.FindWithPagination(role, search, (page-1)*limit, limit)
	if err != nil {
		return nil, util.WrapStorage("list users", err)
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	return &UserList{Items: users, Total: total, Page: page, Limit: limit, Pages: pages}, nil
}

// GetByID 本人或管理员可查看
func (s *UserService) GetByID(id uint, caller *model.Caller) (*model.User, error) {
	if err := RequireSelfOrRole(caller, id, model.Admin); err != nil {
		return nil, err
	}
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("user not found")
		}
		return nil, util.WrapStorage("find user", err)
	}
	return user, nil
}

// ProfilePatch 档案更新字段（邮箱不在此处改）
type ProfilePatch struct {
	FirstName      *string `json:"firstName"`
	LastName       *string `json:"lastName"`
	PhoneNumber    *string `json:"phoneNumber"`
	ProfilePicture *string `json:"profilePicture"`
}

// UpdateProfile 本人或管理员更新档案
func (s *UserService) UpdateProfile(targetID uint, patch ProfilePatch, caller *model.Caller) (*model.User, error) {
	if err := RequireSelfOrRole(caller, targetID, model.Admin); err != nil {
		return nil, err
	}

	user, err := s.UserRepo.FindByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("user not found")
		}
		return nil, util.WrapStorage("find user", err)
	}

	if patch.FirstName != nil {
		user.Person.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.Person.LastName = *patch.LastName
	}
	if patch.PhoneNumber != nil {
		user.Person.PhoneNumber = *patch.PhoneNumber
	}
	if patch.ProfilePicture != nil {
		user.Person.ProfilePicture = *patch.ProfilePicture
	}

	if err := s.UserRepo.UpdatePerson(&user.Person); err != nil {
		return nil, util.WrapStorage("update person", err)
	}
	return user, nil
}

// AssignRole 仅管理员可指派角色
func (s *UserService) AssignRole(targetID uint, role model.UserRole, caller *model.Caller) error {
	if err := RequireRole(caller, model.Admin); err != nil {
		return err
	}

	switch role {
	case model.Student, model.Instructor, model.Admin:
	default:
		return util.Invalid("unknown role")
	}

	if _, err := s.UserRepo.FindByID(targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.NotFound("user not found")
		}
		return util.WrapStorage("find user", err)
	}

	if err := s.UserRepo.UpdateRole(targetID, role); err != nil {
		return util.WrapStorage("update role", err)
	}
	return nil
}

// Delete 仅管理员；User 独占其 Person，一并删除
func (s *UserService) Delete(targetID uint, caller *model.Caller) error {
	if err := RequireRole(caller, model.Admin); err != nil {
		return err
	}

	user, err := s.UserRepo.FindByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.NotFound("user not found")
		}
		return util.WrapStorage("find user", err)
	}

	if err := s.UserRepo.DeleteWithPerson(user); err != nil {
		return util.WrapStorage("delete user", err)
	}
	return nil
}
