package controller

import (
	"campus_lms_backend/internal/service"
	"campus_lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// Register godoc
// @Summary Register a new account
// @Description Creates a person profile and a student account for it
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.RegisterInput true "Registration fields"
// @Success 201 {object} util.Response{data=model.User} "Created"
// @Failure 400 {object} util.Response "Bad Request"
// @Failure 409 {object} util.Response "Conflict"
// @Router /api/register [post]
func (ctl *AuthController) Register(c *gin.Context) {
	var input service.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	user, err := ctl.AuthService.Register(input)
	if err != nil {
		util.Fail(c, err)
		return
	}

	util.Created(c, user)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "Credentials"
// @Success 200 {object} util.Response "token and user"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/login [post]
func (ctl *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	token, user, err := ctl.AuthService.Login(req.Email, req.Password)
	if err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, gin.H{"token": token, "user": user})
}

// GetProfile godoc
// @Summary Current account profile
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/profile [get]
func (ctl *AuthController) GetProfile(c *gin.Context) {
	user, err := ctl.AuthService.GetCurrentUser(util.CallerFromContext(c))
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, user)
}
