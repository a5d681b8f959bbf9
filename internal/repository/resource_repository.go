package repository

import (
	"campus_lms_backend/internal/model"

	"gorm.io/gorm"
)

type ResourceRepository struct {
	DB *gorm.DB
}

func NewResourceRepository(db *gorm.DB) *ResourceRepository {
	return &ResourceRepository{DB: db}
}

func (r *ResourceRepository) Create(resource *model.Resource) error {
	return r.DB.Create(resource).Error
}

func (r *ResourceRepository) FindByID(id uint) (*model.Resource, error) {
	var resource model.Resource
	err := r.DB.First(&resource, id).Error
	return &resource, err
}

func (r *ResourceRepository) Save(resource *model.Resource) error {
	return r.DB.Save(resource).Error
}

func (r *ResourceRepository) Delete(id uint) error {
	return r.DB.Unscoped().Delete(&model.Resource{}, id).Error
}

func (r *ResourceRepository) FindByCourse(courseID uint) ([]model.Resource, error) {
	var resources []model.Resource
	err := r.DB.Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&resources).Error
	return resources, err
}

func (r *ResourceRepository) FindByCourseAndType(courseID uint, fileType model.ResourceType) ([]model.Resource, error) {
	var resources []model.Resource
	err := r.DB.Where("course_id = ? AND file_type = ?", courseID, fileType).
		Order("created_at DESC").
		Find(&resources).Error
	return resources, err
}

// SearchInCourse 在课程内按标题/描述做不区分大小写的子串匹配
func (r *ResourceRepository) SearchInCourse(courseID uint, term string) ([]model.Resource, error) {
	var resources []model.Resource
	pattern := "%" + term + "%"
	err := r.DB.Where("course_id = ? AND (title LIKE ? OR description LIKE ?)", courseID, pattern, pattern).
		Order("created_at DESC").
		Find(&resources).Error
	return resources, err
}
