package service

import (
	"campus_lms_backend/internal/model"
	"campus_lms_backend/internal/repository"
	"campus_lms_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
)

// CourseService 课程生命周期。enrolledStudents 冗余缓存不在这里写，
// 只有 EnrollmentService 允许改动它。
type CourseService struct {
	CourseRepo *repository.CourseRepository
}

func NewCourseService(courseRepo *repository.CourseRepository) *CourseService {
	return &CourseService{CourseRepo: courseRepo}
}

func validCourseStatus(s string) bool {
	switch model.CourseStatus(s) {
	case model.CourseActive, model.CourseInactive, model.CourseUpcoming:
		return true
	}
	return false
}

// CreateCourseInput 创建课程的字段
// swagger:model CreateCourseInput
type CreateCourseInput struct {
	Code               string     `json:"code" binding:"required"`
	Title              string     `json:"title" binding:"required"`
	Description        string     `json:"description"`
	Status             string     `json:"status"`
	EnrollmentCapacity int        `json:"enrollmentCapacity"`
	StartDate          *time.Time `json:"startDate"`
	EndDate            *time.Time `json:"endDate"`
	InstructorID       *uint      `json:"instructorId"`
}

// Create 创建课程。code 重复返回 conflict；状态/容量/开课时间按需填默认值。
// 角色校验已由这里完成，instructorId 缺省时取 instructor 身份的创建者自己。
func (s *CourseService) Create(input CreateCourseInput, caller *model.Caller) (*model.Course, error) {
	if err := RequireRole(caller, model.Instructor, model.Admin); err != nil {
		return nil, err
	}

	if input.Code == "" || input.Title == "" {
		return nil, util.Invalid("code and title are required")
	}

	// 预检查重复 code；唯一索引兜底并发场景
	if _, err := s.CourseRepo.FindByCode(input.Code); err == nil {
		return nil, util.Conflict("course code already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.WrapStorage("find course", err)
	}

	course := &model.Course{
		Code:               input.Code,
		Title:              input.Title,
		Description:        input.Description,
		Status:             model.CourseUpcoming,
		EnrollmentCapacity: model.DefaultEnrollmentCapacity,
		StartDate:          time.Now(),
		EndDate:            input.EndDate,
		InstructorID:       input.InstructorID,
	}

	if input.Status != "" {
		if !validCourseStatus(input.Status) {
			return nil, util.Invalid("unknown course status")
		}
		course.Status = model.CourseStatus(input.Status)
	}
	if input.EnrollmentCapacity > 0 {
		course.EnrollmentCapacity = input.EnrollmentCapacity
	}
	if input.StartDate != nil {
		course.StartDate = *input.StartDate
	}
	if course.InstructorID == nil && caller.Role == model.Instructor {
		id := caller.ID
		course.InstructorID = &id
	}

	if err := s.CourseRepo.Create(course); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.Conflict("course code already exists")
		}
		return nil, util.WrapStorage("create course", err)
	}

	return course, nil
}

// GetByCode 按 code 查课程，无副作用
func (s *CourseService) GetByCode(code string) (*model.Course, error) {
	course, err := s.CourseRepo.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("course not found")
		}
		return nil, util.WrapStorage("find course", err)
	}
	return course, nil
}

// UpdateCoursePatch 部分更新字段。InstructorID 传空字符串表示显式取消指派
// swagger:model UpdateCoursePatch
type UpdateCoursePatch struct {
	Title              *string    `json:"title"`
	Description        *string    `json:"description"`
	Status             *string    `json:"status"`
	EnrollmentCapacity *int       `json:"enrollmentCapacity"`
	StartDate          *time.Time `json:"startDate"`
	EndDate            *time.Time `json:"endDate"`
	InstructorID       *string    `json:"instructorId"`
}

// Update 更新课程（code 不可变）。授课教师本人或管理员可操作
func (s *CourseService) Update(code string, patch UpdateCoursePatch, caller *model.Caller) (*model.Course, error) {
	course, err := s.GetByCode(code)
	if err != nil {
		return nil, err
	}

	if err := RequireCourseOwnerOrRole(caller, course, model.Admin); err != nil {
		return nil, err
	}

	if patch.Title != nil {
		course.Title = *patch.Title
	}
	if patch.Description != nil {
		course.Description = *patch.Description
	}
	if patch.Status != nil {
		if !validCourseStatus(*patch.Status) {
			return nil, util.Invalid("unknown course status")
		}
		course.Status = model.CourseStatus(*patch.Status)
	}
	if patch.EnrollmentCapacity != nil {
		course.EnrollmentCapacity = *patch.EnrollmentCapacity
	}
	if patch.StartDate != nil {
		course.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		course.EndDate = patch.EndDate
	}
	if patch.InstructorID != nil {
		if *patch.InstructorID == "" {
			// 空字符串规范化为 NULL，而不是报错
			course.InstructorID = nil
		} else {
			id := util.ParseUintOrZero(*patch.InstructorID)
			if id == 0 {
				return nil, util.Invalid("invalid instructorId")
			}
			course.InstructorID = &id
		}
	}

	if err := s.CourseRepo.Save(course); err != nil {
		return nil, util.WrapStorage("update course", err)
	}

	return course, nil
}

// Delete 删除课程，同一事务内清掉其全部选课记录
func (s *CourseService) Delete(code string, caller *model.Caller) error {
	course, err := s.GetByCode(code)
	if err != nil {
		return err
	}

	if err := RequireCourseOwnerOrRole(caller, course, model.Admin); err != nil {
		return err
	}

	if err := s.CourseRepo.DeleteWithEnrollments(course); err != nil {
		return util.WrapStorage("delete course", err)
	}

	return nil
}

// CourseList 分页查询结果
type CourseList struct {
	Items []model.Course
	Total int64
	Page  int
	Limit int
	Pages int
}

// List 分页获取课程，默认 page=1 limit=10，按创建时间倒序
func (s *CourseService) List(filter repository.CourseFilter, page, limit int) (*CourseList, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	courses, total, err := s.CourseRepo.FindWithPagination(filter, (page-1)*limit, limit)
	if err != nil {
		return nil, util.WrapStorage("list courses", err)
	}

	pages := int((total + int64(limit) - 1) / int64(limit))

	return &CourseList{
		Items: courses,
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: pages,
	}, nil
}
