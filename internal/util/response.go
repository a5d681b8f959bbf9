package util

import (
	"campus_lms_backend/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
	Pages int         `json:"pages"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// statusOf 错误分类到 HTTP 状态码的映射
func statusOf(category ErrorCategory) int {
	switch category {
	case CategoryUnauthenticated:
		return http.StatusUnauthorized
	case CategoryForbidden:
		return http.StatusForbidden
	case CategoryNotFound, CategoryNotEnrolled:
		return http.StatusNotFound
	case CategoryConflict:
		return http.StatusConflict
	case CategoryValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Fail 将业务错误翻译为统一响应；internal/storage 级别的错误记日志并隐藏细节
func Fail(c *gin.Context, err error) {
	category := CategoryOf(err)
	if category == CategoryInternal || category == CategoryStorage {
		logger.Log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	Error(c, statusOf(category), MessageOf(err))
}
