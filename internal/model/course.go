package model

import (
	"time"

	"gorm.io/datatypes"
)

type CourseStatus string

const (
	CourseActive   CourseStatus = "active"
	CourseInactive CourseStatus = "inactive"
	CourseUpcoming CourseStatus = "upcoming"
)

const DefaultEnrollmentCapacity = 30

// Course 课程。Code 创建后不可变；EnrolledStudents 是 active 选课记录的
// 冗余缓存，只允许 EnrollmentService 写入。
// swagger:model Course
type Course struct {
	BaseModel
	Code               string                    `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Title              string                    `gorm:"size:255;not null" json:"title"`
	Description        string                    `gorm:"type:text" json:"description"`
	Status             CourseStatus              `gorm:"size:20;not null;default:'upcoming'" json:"status"`
	EnrollmentCapacity int                       `gorm:"default:30" json:"enrollmentCapacity"`
	StartDate          time.Time                 `json:"startDate"`
	EndDate            *time.Time                `json:"endDate,omitempty"`
	InstructorID       *uint                     `gorm:"index" json:"instructorId"`
	EnrolledStudents   datatypes.JSONSlice[uint] `json:"enrolledStudents"`
}

func (Course) TableName() string {
	return "courses"
}

// HasEnrolled 判断冗余缓存中是否已包含该学生
func (c *Course) HasEnrolled(userID uint) bool {
	for _, id := range c.EnrolledStudents {
		if id == userID {
			return true
		}
	}
	return false
}
