package model

import "time"

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentDropped   EnrollmentStatus = "dropped"
)

// Enrollment 学生与课程的关联记录，(user_id, course_id) 全局唯一
// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	UserID         uint             `gorm:"uniqueIndex:idx_user_course;not null" json:"userId"`
	CourseID       uint             `gorm:"uniqueIndex:idx_user_course;index;not null" json:"courseId"`
	User           User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Course         Course           `gorm:"foreignKey:CourseID" json:"-"`
	EnrollmentDate time.Time        `json:"enrollmentDate"`
	Progress       int              `gorm:"default:0" json:"progress"`
	Status         EnrollmentStatus `gorm:"size:20;not null;default:'active'" json:"status"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// CourseEnrollment 学生视角的选课列表项：课程加上本人的选课记录
// swagger:model CourseEnrollment
type CourseEnrollment struct {
	Course     Course     `json:"course"`
	Enrollment Enrollment `json:"enrollment"`
}
