package service

import (
	"campus_lms_backend/internal/model"
	"campus_lms_backend/internal/repository"
	"campus_lms_backend/internal/util"
	"campus_lms_backend/pkg/monitoring"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EnrollmentService 选课状态机 {未选} → enroll → {active} → unenroll → {未选}。
// Enrollment 行和 Course.EnrolledStudents 缓存只在这里一起写，两个写入
// 始终处于同一个数据库事务。
type EnrollmentService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
	UserRepo       *repository.UserRepository
	DB             *gorm.DB
}

func NewEnrollmentService(
	enrollmentRepo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
	userRepo *repository.UserRepository,
	db *gorm.DB,
) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
		UserRepo:       userRepo,
		DB:             db,
	}
}

// Enroll 学生本人或管理员为 userID 选入 courseCode。已有选课记录时幂等
// 返回原记录，不报错不重复。容量已满不拦截（沿用现网行为）。
func (s *EnrollmentService) Enroll(userID uint, courseCode string, caller *model.Caller) (*model.Enrollment, error) {
	if err := RequireSelfOrRole(caller, userID, model.Admin); err != nil {
		return nil, err
	}

	course, err := s.CourseRepo.FindByCode(courseCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("course not found")
		}
		return nil, util.WrapStorage("find course", err)
	}

	if _, err := s.UserRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("student not found")
		}
		return nil, util.WrapStorage("find student", err)
	}

	// 幂等：已有记录直接返回，避免重复提交变成错误
	existing, err := s.EnrollmentRepo.FindByUserAndCourse(userID, course.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.WrapStorage("find enrollment", err)
	}

	enrollment := &model.Enrollment{
		UserID:         userID,
		CourseID:       course.ID,
		EnrollmentDate: time.Now(),
		Progress:       0,
		Status:         model.EnrollmentActive,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(enrollment).Error; err != nil {
			return err
		}
		// 行锁下重读课程再改缓存，并发选课不会互相覆盖 enrolled_students
		var locked model.Course
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&locked, course.ID).Error; err != nil {
			return err
		}
		if !locked.HasEnrolled(userID) {
			locked.EnrolledStudents = append(locked.EnrolledStudents, userID)
		}
		return tx.Save(&locked).Error
	})
	if err != nil {
		// 唯一索引兜住并发的重复提交，按幂等语义返回已有记录
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			monitoring.EnrollmentOps.WithLabelValues("enroll", "idempotent").Inc()
			existing, ferr := s.EnrollmentRepo.FindByUserAndCourse(userID, course.ID)
			if ferr != nil {
				return nil, util.WrapStorage("find enrollment", ferr)
			}
			return existing, nil
		}
		monitoring.EnrollmentOps.WithLabelValues("enroll", "error").Inc()
		return nil, util.WrapStorage("enroll", err)
	}

	monitoring.EnrollmentOps.WithLabelValues("enroll", "ok").Inc()
	return enrollment, nil
}

// Unenroll 硬删除选课记录并同步冗余缓存。没有记录时返回 not_enrolled，
// 与课程不存在的 not_found 区分开；缓存里本就没有该学生时移除是空操作。
func (s *EnrollmentService) Unenroll(userID uint, courseCode string, caller *model.Caller) error {
	if err := RequireSelfOrRole(caller, userID, model.Admin); err != nil {
		return err
	}

	course, err := s.CourseRepo.FindByCode(courseCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.NotFound("course not found")
		}
		return util.WrapStorage("find course", err)
	}

	enrollment, err := s.EnrollmentRepo.FindByUserAndCourse(userID, course.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.NotEnrolled("user is not enrolled in this course")
		}
		return util.WrapStorage("find enrollment", err)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Delete(&model.Enrollment{}, enrollment.ID).Error; err != nil {
			return err
		}
		var locked model.Course
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&locked, course.ID).Error; err != nil {
			return err
		}
		kept := locked.EnrolledStudents[:0]
		for _, id := range locked.EnrolledStudents {
			if id != userID {
				kept = append(kept, id)
			}
		}
		locked.EnrolledStudents = kept
		return tx.Save(&locked).Error
	})
	if err != nil {
		monitoring.EnrollmentOps.WithLabelValues("unenroll", "error").Inc()
		return util.WrapStorage("unenroll", err)
	}

	monitoring.EnrollmentOps.WithLabelValues("unenroll", "ok").Inc()
	return nil
}

// ListForCourse 课程全部选课记录（含学生档案），授课教师或管理员可看
func (s *EnrollmentService) ListForCourse(courseCode string, caller *model.Caller) ([]model.Enrollment, error) {
	course, err := s.CourseRepo.FindByCode(courseCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("course not found")
		}
		return nil, util.WrapStorage("find course", err)
	}

	if err := RequireCourseOwnerOrRole(caller, course, model.Admin); err != nil {
		return nil, err
	}

	enrollments, err := s.EnrollmentRepo.FindByCourse(course.ID)
	if err != nil {
		return nil, util.WrapStorage("list enrollments", err)
	}
	return enrollments, nil
}

// ListForStudent 学生自己的选课列表，每门课程附带本人的选课记录
func (s *EnrollmentService) ListForStudent(userID uint, caller *model.Caller) ([]model.CourseEnrollment, error) {
	if err := RequireSelfOrRole(caller, userID); err != nil {
		return nil, err
	}

	enrollments, err := s.EnrollmentRepo.FindByUser(userID)
	if err != nil {
		return nil, util.WrapStorage("list enrollments", err)
	}

	result := make([]model.CourseEnrollment, 0, len(enrollments))
	for _, e := range enrollments {
		course := e.Course
		e.Course = model.Course{}
		result = append(result, model.CourseEnrollment{Course: course, Enrollment: e})
	}
	return result, nil
}

// UpdateProgress 管理性的进度/状态更新，不属于 enroll/unenroll 状态机
func (s *EnrollmentService) UpdateProgress(userID uint, courseCode string, progress *int, status *string, caller *model.Caller) (*model.Enrollment, error) {
	course, err := s.CourseRepo.FindByCode(courseCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("course not found")
		}
		return nil, util.WrapStorage("find course", err)
	}

	if err := RequireCourseOwnerOrRole(caller, course, model.Admin); err != nil {
		return nil, err
	}

	enrollment, err := s.EnrollmentRepo.FindByUserAndCourse(userID, course.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotEnrolled("user is not enrolled in this course")
		}
		return nil, util.WrapStorage("find enrollment", err)
	}

	if progress != nil {
		if *progress < 0 || *progress > 100 {
			return nil, util.Invalid("progress must be between 0 and 100")
		}
		enrollment.Progress = *progress
	}
	if status != nil {
		switch model.EnrollmentStatus(*status) {
		case model.EnrollmentActive, model.EnrollmentCompleted, model.EnrollmentDropped:
		default:
			return nil, util.Invalid("unknown enrollment status")
		}
		enrollment.Status = model.EnrollmentStatus(*status)
	}

	if err := s.EnrollmentRepo.Update(enrollment); err != nil {
		return nil, util.WrapStorage("update enrollment", err)
	}
	return enrollment, nil
}
