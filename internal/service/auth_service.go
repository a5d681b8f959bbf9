package service

import (
	"campus_lms_backend/internal/config"
	"campus_lms_backend/internal/model"
	"campus_lms_backend/internal/repository"
	"campus_lms_backend/internal/util"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
	}
}

// RegisterInput 注册字段
// swagger:model RegisterInput
type RegisterInput struct {
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	PhoneNumber string `json:"phoneNumber"`
}

// Register 创建 Person + User（同一事务）。邮箱统一小写存储；
// 新账号固定 student 角色，角色只能由管理员事后指派。
func (s *AuthService) Register(input RegisterInput) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if _, err := s.UserRepo.FindByEmail(email); err == nil {
		return nil, util.Conflict("email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.WrapStorage("find user", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, util.WrapStorage("hash password", err)
	}

	person := &model.Person{
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       email,
		PhoneNumber: input.PhoneNumber,
	}
	user := &model.User{
		Password: string(hashedPassword),
		Role:     model.Student,
	}

	if err := s.UserRepo.CreateWithPerson(user, person); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.Conflict("email is already registered")
		}
		return nil, util.WrapStorage("create user", err)
	}

	user.Person = *person
	return user, nil
}

// Login 校验凭证并签发 JWT，成功后刷新 LastLogin
func (s *AuthService) Login(email, password string) (string, *model.User, error) {
	user, err := s.UserRepo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, util.Unauthenticated("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.Unauthenticated("invalid credentials")
	}

	if err := s.UserRepo.UpdateLastLogin(user.PersonID); err != nil {
		return "", nil, util.WrapStorage("update last login", err)
	}

	token, err := util.GenerateJWT(user, user.Person.Email, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, util.WrapStorage("sign token", err)
	}

	return token, user, nil
}

// GetCurrentUser 按 token 中的用户 id 取账号（含档案）
func (s *AuthService) GetCurrentUser(caller *model.Caller) (*model.User, error) {
	if err := RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	user, err := s.UserRepo.FindByID(caller.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("user not found")
		}
		return nil, util.WrapStorage("find user", err)
	}
	return user, nil
}
