package controller

import (
	"campus_lms_backend/internal/model"
	"campus_lms_backend/internal/service"
	"campus_lms_backend/internal/util"
	"fmt"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

type ResourceController struct {
	ResourceService *service.ResourceService
}

func NewResourceController(resourceService *service.ResourceService) *ResourceController {
	return &ResourceController{ResourceService: resourceService}
}

// UploadResourceRequest 上传表单字段
// swagger:model UploadResourceRequest
type UploadResourceRequest struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description"`
	CourseID    uint   `form:"courseId" binding:"required"`
}

// Upload godoc
// @Summary Upload a course resource (instructor/admin)
// @Description Max 10MB; extension must be on the allowlist. File type is derived from the extension.
// @Tags resources
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param title formData string true "Resource title"
// @Param description formData string false "Resource description"
// @Param courseId formData int true "Course id"
// @Param file formData file true "Resource file"
// @Success 201 {object} util.Response{data=model.Resource}
// @Failure 400 {object} util.Response "Bad Request"
// @Failure 404 {object} util.Response "Course not found"
// @Router /api/resources [post]
func (ctl *ResourceController) Upload(c *gin.Context) {
	var req UploadResourceRequest
	if err := c.ShouldBind(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		util.BadRequest(c, "File is required")
		return
	}

	meta := service.ResourceMeta{
		Title:       req.Title,
		Description: req.Description,
		CourseID:    req.CourseID,
	}

	resource, token, err := ctl.ResourceService.Upload(c.Request.Context(), file, meta, util.CallerFromContext(c))
	if err != nil {
		util.Fail(c, err)
		return
	}

	util.Created(c, gin.H{"resource": resource, "uploadToken": token})
}

// UploadProgress godoc
// @Summary Check the state of an upload
// @Tags resources
// @Produce json
// @Security ApiKeyAuth
// @Param token path string true "Upload token"
// @Success 200 {object} util.Response
// @Router /api/resources/uploads/{token} [get]
func (ctl *ResourceController) UploadProgress(c *gin.Context) {
	state, err := ctl.ResourceService.UploadProgress(c.Request.Context(), c.Param("token"))
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, gin.H{"state": state})
}

// ListByCourse godoc
// @Summary Resources of a course, newest first
// @Tags resources
// @Produce json
// @Security ApiKeyAuth
// @Param courseId query int true "Course id"
// @Param type query string false "Filter by file type" Enums(image, video, audio, pdf, office, document)
// @Param search query string false "Substring search over title and description"
// @Success 200 {object} util.Response{data=[]model.Resource}
// @Router /api/resources [get]
func (ctl *ResourceController) ListByCourse(c *gin.Context) {
	courseID := util.ParseUintOrZero(c.Query("courseId"))
	if courseID == 0 {
		util.BadRequest(c, "courseId parameter is required")
		return
	}

	var resources []model.Resource
	var err error

	switch {
	case c.Query("search") != "":
		resources, err = ctl.ResourceService.Search(courseID, c.Query("search"))
	case c.Query("type") != "":
		resources, err = ctl.ResourceService.ListByType(courseID, model.ResourceType(c.Query("type")))
	default:
		resources, err = ctl.ResourceService.ListByCourse(courseID)
	}

	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, resources)
}

// Get godoc
// @Summary Resource metadata
// @Tags resources
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Resource id"
// @Success 200 {object} util.Response{data=model.Resource}
// @Router /api/resources/{id} [get]
func (ctl *ResourceController) Get(c *gin.Context) {
	resource, err := ctl.ResourceService.GetByID(util.ParseUintOrZero(c.Param("id")))
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, resource)
}

// Update godoc
// @Summary Update resource metadata (uploader/admin)
// @Tags resources
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Resource id"
// @Param body body service.ResourcePatch true "Fields to change"
// @Success 200 {object} util.Response{data=model.Resource}
// @Router /api/resources/{id} [put]
func (ctl *ResourceController) Update(c *gin.Context) {
	var patch service.ResourcePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	resource, err := ctl.ResourceService.Update(util.ParseUintOrZero(c.Param("id")), patch, util.CallerFromContext(c))
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, resource)
}

// Delete godoc
// @Summary Delete a resource and its file (uploader/admin)
// @Tags resources
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Resource id"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "Forbidden"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/resources/{id} [delete]
func (ctl *ResourceController) Delete(c *gin.Context) {
	if err := ctl.ResourceService.Delete(c.Request.Context(), util.ParseUintOrZero(c.Param("id")), util.CallerFromContext(c)); err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, nil)
}

// Download godoc
// @Summary Download the file behind a resource
// @Tags resources
// @Produce octet-stream
// @Security ApiKeyAuth
// @Param id path int true "Resource id"
// @Success 200 {file} binary
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/resources/{id}/download [get]
func (ctl *ResourceController) Download(c *gin.Context) {
	resource, reader, err := ctl.ResourceService.Download(c.Request.Context(), util.ParseUintOrZero(c.Param("id")))
	if err != nil {
		util.Fail(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(resource.FileURL)))
	c.DataFromReader(200, resource.Size, "application/octet-stream", reader, nil)
}
