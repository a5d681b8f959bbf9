package service

import (
	"campus_lms_backend/internal/config"
	"campus_lms_backend/internal/model"
	"campus_lms_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(env *testEnv) *AuthService {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-for-auth-service-tests"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(env.users, cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(env)

	user, err := svc.Register(RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "Ada.Lovelace@Example.COM",
		Password:  "s3cret123",
	})
	require.NoError(t, err)
	// 邮箱统一小写存储
	assert.Equal(t, "ada.lovelace@example.com", user.Person.Email)
	// 新账号固定 student，密码不落明文
	assert.Equal(t, model.Student, user.Role)
	assert.NotEqual(t, "s3cret123", user.Password)

	token, logged, err := svc.Login("ada.lovelace@example.com", "s3cret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, logged.ID)

	// 登录时邮箱大小写不敏感
	_, _, err = svc.Login("ADA.LOVELACE@example.com", "s3cret123")
	assert.NoError(t, err)

	// 签出的 token 可以解回同一用户
	claims, err := util.ParseJWT(token, "test-secret-for-auth-service-tests")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.Student, claims.Role)

	// 成功登录刷新 LastLogin
	fresh, err := env.users.FindByID(user.ID)
	require.NoError(t, err)
	assert.False(t, fresh.Person.LastLogin.IsZero())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(env)

	input := RegisterInput{FirstName: "A", LastName: "B", Email: "dup@test.com", Password: "s3cret123"}
	_, err := svc.Register(input)
	require.NoError(t, err)

	_, err = svc.Register(input)
	assert.Equal(t, util.CategoryConflict, util.CategoryOf(err))

	// 大小写变体也算重复
	input.Email = "DUP@test.com"
	_, err = svc.Register(input)
	assert.Equal(t, util.CategoryConflict, util.CategoryOf(err))
}

func TestLoginBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(env)

	_, err := svc.Register(RegisterInput{FirstName: "A", LastName: "B", Email: "a@test.com", Password: "s3cret123"})
	require.NoError(t, err)

	// 账号不存在和密码错误返回同一类错误，不泄露哪一半错了
	_, _, err = svc.Login("a@test.com", "wrong-password")
	assert.Equal(t, util.CategoryUnauthenticated, util.CategoryOf(err))

	_, _, err = svc.Login("nobody@test.com", "s3cret123")
	assert.Equal(t, util.CategoryUnauthenticated, util.CategoryOf(err))
}

func TestGetCurrentUser(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(env)
	user := env.createUser(t, "me@test.com", model.Student)

	got, err := svc.GetCurrentUser(callerFor(user))
	require.NoError(t, err)
	assert.Equal(t, "me@test.com", got.Person.Email)

	_, err = svc.GetCurrentUser(nil)
	assert.Equal(t, util.CategoryUnauthenticated, util.CategoryOf(err))

	_, err = svc.GetCurrentUser(&model.Caller{ID: 99999, Role: model.Student})
	assert.Equal(t, util.CategoryNotFound, util.CategoryOf(err))
}
