package repository

import (
	"campus_lms_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// CreateWithPerson 同一事务内创建 Person 与引用它的 User
func (r *UserRepository) CreateWithPerson(user *model.User, person *model.Person) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(person).Error; err != nil {
			return err
		}
		user.PersonID = person.ID
		return tx.Create(user).Error
	})
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.Preload("Person").First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Preload("Person").
		Joins("JOIN persons ON persons.id = users.person_id").
		Where("persons.email = ?", email).
		First(&user).Error
	return &user, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) UpdatePerson(person *model.Person) error {
	return r.DB.Save(person).Error
}

func (r *UserRepository) UpdateRole(userID uint, role model.UserRole) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("role", role).
		Error
}

func (r *UserRepository) UpdateLastLogin(personID uint) error {
	return r.DB.Model(&model.Person{}).
		Where("id = ?", personID).
		Update("last_login", time.Now()).
		Error
}

// DeleteWithPerson 删除 User 并级联删除其独占的 Person
func (r *UserRepository) DeleteWithPerson(user *model.User) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		// 物理删除：email 唯一索引不能被软删除残留占用
		if err := tx.Unscoped().Delete(&model.User{}, user.ID).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.Person{}, user.PersonID).Error
	})
}

// FindWithPagination 分页获取用户，支持角色过滤和姓名/邮箱搜索
func (r *UserRepository) FindWithPagination(role string, search string, offset, limit int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	query := r.DB.Model(&model.User{}).
		Joins("JOIN persons ON persons.id = users.person_id")

	if role != "" {
		query = query.Where("users.role = ?", role)
	}

	if search != "" {
		term := "%" + search + "%"
		query = query.Where("persons.first_name LIKE ? OR persons.last_name LIKE ? OR persons.email LIKE ?", term, term, term)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("users.created_at DESC").
		Offset(offset).Limit(limit).
		Preload("Person").
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}
