package repository

import (
	"campus_lms_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByCode(code string) (*model.Course, error) {
	var course model.Course
	err := r.DB.Where("code = ?", code).First(&course).Error
	return &course, err
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) Save(course *model.Course) error {
	return r.DB.Save(course).Error
}

// DeleteWithEnrollments 删除课程及其全部选课记录，单个事务，不留孤儿记录
func (r *CourseRepository) DeleteWithEnrollments(course *model.Course) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		// 物理删除：code 唯一索引不能被软删除残留占用
		if err := tx.Unscoped().Where("course_id = ?", course.ID).Delete(&model.Enrollment{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.Course{}, course.ID).Error
	})
}

// CourseFilter 课程列表筛选条件
type CourseFilter struct {
	Status       string
	InstructorID uint
	Search       string
}

// FindWithPagination 分页获取课程。search 在 title/description/code 三个
// 字段上做不区分大小写的子串匹配（OR），与其余条件 AND
func (r *CourseRepository) FindWithPagination(filter CourseFilter, offset, limit int) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	query := r.DB.Model(&model.Course{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if filter.InstructorID > 0 {
		query = query.Where("instructor_id = ?", filter.InstructorID)
	}

	if filter.Search != "" {
		term := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ? OR code LIKE ?", term, term, term)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&courses).Error
	if err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}
