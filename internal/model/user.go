package model

import (
	"time"
)

type UserRole string

const (
	Student    UserRole = "student"
	Instructor UserRole = "instructor"
	Admin      UserRole = "admin"
)

// Person 用户的身份档案，由所属 User 独占（1:1）
// swagger:model Person
type Person struct {
	BaseModel
	FirstName      string    `gorm:"size:100;not null" json:"firstName"`
	LastName       string    `gorm:"size:100;not null" json:"lastName"`
	Email          string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PhoneNumber    string    `gorm:"size:30" json:"phoneNumber"`
	ProfilePicture string    `gorm:"size:255" json:"profilePicture"`
	LastLogin      time.Time `json:"lastLogin"`
}

func (Person) TableName() string {
	return "persons"
}

// User 账号，引用一个 Person；删除 User 时级联删除其 Person
// swagger:model User
type User struct {
	BaseModel
	PersonID uint     `gorm:"uniqueIndex;not null" json:"personId"`
	Person   Person   `gorm:"foreignKey:PersonID" json:"person"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"size:20;not null;default:'student'" json:"role"`
}

func (User) TableName() string {
	return "users"
}

// Caller 从请求凭证解析出的调用者身份，授权检查的输入
type Caller struct {
	ID   uint
	Role UserRole
}
