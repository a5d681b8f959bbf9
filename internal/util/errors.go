package util

import (
	"errors"
	"fmt"
)

// ErrorCategory 稳定的错误分类，响应层据此映射 HTTP 状态码
type ErrorCategory string

const (
	CategoryUnauthenticated ErrorCategory = "unauthenticated"
	CategoryForbidden       ErrorCategory = "forbidden"
	CategoryNotFound        ErrorCategory = "not_found"
	CategoryConflict        ErrorCategory = "conflict"
	CategoryNotEnrolled     ErrorCategory = "not_enrolled"
	CategoryValidation      ErrorCategory = "validation"
	CategoryStorage         ErrorCategory = "storage"
	CategoryInternal        ErrorCategory = "internal"
)

// AppError 携带分类和可读信息的业务错误，可包装底层错误
type AppError struct {
	Category ErrorCategory
	Message  string
	Err      error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Unauthenticated(message string) *AppError {
	return &AppError{Category: CategoryUnauthenticated, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Category: CategoryForbidden, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Category: CategoryNotFound, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Category: CategoryConflict, Message: message}
}

func NotEnrolled(message string) *AppError {
	return &AppError{Category: CategoryNotEnrolled, Message: message}
}

func Invalid(message string) *AppError {
	return &AppError{Category: CategoryValidation, Message: message}
}

// WrapStorage 包装持久层/存储层错误，带上正在执行的操作上下文。
// 驱动原始错误不直接暴露给调用方。
func WrapStorage(op string, err error) *AppError {
	return &AppError{Category: CategoryStorage, Message: op + " failed", Err: err}
}

// CategoryOf 提取错误分类，未分类错误归为 internal
func CategoryOf(err error) ErrorCategory {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Category
	}
	return CategoryInternal
}

// MessageOf 提取面向用户的错误信息，不泄露内部细节
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
