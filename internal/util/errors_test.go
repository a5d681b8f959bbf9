package util

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, CategoryNotFound, CategoryOf(NotFound("x")))
	assert.Equal(t, CategoryNotEnrolled, CategoryOf(NotEnrolled("x")))
	assert.Equal(t, CategoryStorage, CategoryOf(WrapStorage("save", errors.New("disk full"))))

	// 经过 fmt.Errorf 包装后仍可识别
	wrapped := fmt.Errorf("handler: %w", Conflict("dup"))
	assert.Equal(t, CategoryConflict, CategoryOf(wrapped))

	// 未分类错误归为 internal
	assert.Equal(t, CategoryInternal, CategoryOf(errors.New("boom")))
}

func TestMessageOfHidesInternals(t *testing.T) {
	err := WrapStorage("create resource", errors.New("Error 1213: Deadlock found"))
	// Error() 带底层细节供日志，MessageOf 只给面向用户的信息
	assert.Contains(t, err.Error(), "Deadlock")
	assert.Equal(t, "create resource failed", MessageOf(err))

	assert.Equal(t, "internal server error", MessageOf(errors.New("boom")))
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := WrapStorage("enroll", cause)
	assert.True(t, errors.Is(err, cause))
}
