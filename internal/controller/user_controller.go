package controller

import (
	"campus_lms_backend/internal/model"
	"campus_lms_backend/internal/service"
	"campus_lms_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// List godoc
// @Summary List users (admin)
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param role query string false "Role filter" Enums(student, instructor, admin)
// @Param search query string false "Name/email search"
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 10)"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/users [get]
func (ctl *UserController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	list, err := ctl.UserService.List(c.Query("role"), c.Query("search"), page, limit, util.CallerFromContext(c))
	if err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, util.PageResponse{
		List:  list.Items,
		Total: list.Total,
		Page:  list.Page,
		Limit: list.Limit,
		Pages: list.Pages,
	})
}

// Get godoc
// @Summary Get a user (self/admin)
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "User id"
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/users/{id} [get]
func (ctl *UserController) Get(c *gin.Context) {
	user, err := ctl.UserService.GetByID(util.ParseUintOrZero(c.Param("id")), util.CallerFromContext(c))
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, user)
}

// UpdateProfile godoc
// @Summary Update a user's profile (self/admin)
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "User id"
// @Param body body service.ProfilePatch true "Profile fields"
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/users/{id} [put]
func (ctl *UserController) UpdateProfile(c *gin.Context) {
	var patch service.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	user, err := ctl.UserService.UpdateProfile(util.ParseUintOrZero(c.Param("id")), patch, util.CallerFromContext(c))
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, user)
}

type assignRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// AssignRole godoc
// @Summary Assign a role to a user (admin)
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "User id"
// @Param body body assignRoleRequest true "Role"
// @Success 200 {object} util.Response
// @Router /api/admin/users/{id}/role [put]
func (ctl *UserController) AssignRole(c *gin.Context) {
	var req assignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	if err := ctl.UserService.AssignRole(util.ParseUintOrZero(c.Param("id")), model.UserRole(req.Role), util.CallerFromContext(c)); err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, nil)
}

// Delete godoc
// @Summary Delete a user and its person profile (admin)
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "User id"
// @Success 200 {object} util.Response
// @Router /api/admin/users/{id} [delete]
func (ctl *UserController) Delete(c *gin.Context) {
	if err := ctl.UserService.Delete(util.ParseUintOrZero(c.Param("id")), util.CallerFromContext(c)); err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, nil)
}
