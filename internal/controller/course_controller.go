package controller

import (
	"campus_lms_backend/internal/repository"
	"campus_lms_backend/internal/service"
	"campus_lms_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService     *service.CourseService
	EnrollmentService *service.EnrollmentService
}

func NewCourseController(courseService *service.CourseService, enrollmentService *service.EnrollmentService) *CourseController {
	return &CourseController{
		CourseService:     courseService,
		EnrollmentService: enrollmentService,
	}
}

// ListCourses godoc
// @Summary List courses
// @Description Paged course list, filterable by status/instructor and a substring search over title, description and code
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Param status query string false "Course status" Enums(active, inactive, upcoming)
// @Param instructorId query int false "Instructor user id"
// @Param search query string false "Substring search"
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 10)"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/courses [get]
func (ctl *CourseController) ListCourses(c *gin.Context) {
	filter := repository.CourseFilter{
		Status:       c.Query("status"),
		InstructorID: util.ParseUintOrZero(c.Query("instructorId")),
		Search:       c.Query("search"),
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	list, err := ctl.CourseService.List(filter, page, limit)
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

// GetCourse godoc
// @Summary Get a course by code
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Param code path string true "Course code"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/courses/{code} [get]
func (ctl *CourseController) GetCourse(c *gin.Context) {
	course, err := ctl.CourseService.GetByCode(c.Param("code"))
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, course)
}

// CreateCourse godoc
// @Summary Create a course (instructor/admin)
// @Tags courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateCourseInput true "Course fields"
// @Success 201 {object} util.Response{data=model.Course}
// @Failure 409 {object} util.Response "Conflict"
// @Router /api/courses [post]
func (ctl *CourseController) CreateCourse(c *gin.Context) {
	var input service.CreateCourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	course, err := ctl.CourseService.Create(input, util.CallerFromContext(c))
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Created(c, course)
}

// UpdateCourse godoc
// @Summary Update a course (owner/admin)
// @Description Partial update; instructorId set to "" unassigns the instructor
// @Tags courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param code path string true "Course code"
// @Param body body service.UpdateCoursePatch true "Fields to change"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 403 {object} util.Response "Forbidden"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/courses/{code} [put]
func (ctl *CourseController) UpdateCourse(c *gin.Context) {
	var patch service.UpdateCoursePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	course, err := ctl.CourseService.Update(c.Param("code"), patch, util.CallerFromContext(c))
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, course)
}

// DeleteCourse godoc
// @Summary Delete a course and all its enrollments (owner/admin)
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Param code path string true "Course code"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/courses/{code} [delete]
func (ctl *CourseController) DeleteCourse(c *gin.Context) {
	if err := ctl.CourseService.Delete(c.Param("code"), util.CallerFromContext(c)); err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, nil)
}

// Enroll godoc
// @Summary Enroll the calling student into a course
// @Description Idempotent: enrolling twice returns the existing record
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Param code path string true "Course code"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/courses/{code}/enroll [post]
func (ctl *CourseController) Enroll(c *gin.Context) {
	caller := util.CallerFromContext(c)
	if caller == nil {
		util.Unauthorized(c)
		return
	}

	enrollment, err := ctl.EnrollmentService.Enroll(caller.ID, c.Param("code"), caller)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, enrollment)
}

// AdminEnroll godoc
// @Summary Enroll a given student into a course (admin)
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Param code path string true "Course code"
// @Param studentId path int true "Student user id"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Router /api/admin/courses/{code}/enroll/{studentId} [post]
func (ctl *CourseController) AdminEnroll(c *gin.Context) {
	studentID := util.ParseUintOrZero(c.Param("studentId"))
	if studentID == 0 {
		util.BadRequest(c, "invalid studentId")
		return
	}

	enrollment, err := ctl.EnrollmentService.Enroll(studentID, c.Param("code"), util.CallerFromContext(c))
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, enrollment)
}

// Unenroll godoc
// @Summary Unenroll the calling student from a course
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Param code path string true "Course code"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "Not Found / not enrolled"
// @Router /api/courses/{code}/enroll [delete]
func (ctl *CourseController) Unenroll(c *gin.Context) {
	caller := util.CallerFromContext(c)
	if caller == nil {
		util.Unauthorized(c)
		return
	}

	if err := ctl.EnrollmentService.Unenroll(caller.ID, c.Param("code"), caller); err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, nil)
}

// AdminUnenroll godoc
// @Summary Unenroll a given student from a course (admin)
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Param code path string true "Course code"
// @Param studentId path int true "Student user id"
// @Success 200 {object} util.Response
// @Router /api/admin/courses/{code}/enroll/{studentId} [delete]
func (ctl *CourseController) AdminUnenroll(c *gin.Context) {
	studentID := util.ParseUintOrZero(c.Param("studentId"))
	if studentID == 0 {
		util.BadRequest(c, "invalid studentId")
		return
	}

	if err := ctl.EnrollmentService.Unenroll(studentID, c.Param("code"), util.CallerFromContext(c)); err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, nil)
}

// ListEnrolled godoc
// @Summary List enrollments of a course (owner/admin)
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Param code path string true "Course code"
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /api/courses/{code}/enrollments [get]
func (ctl *CourseController) ListEnrolled(c *gin.Context) {
	enrollments, err := ctl.EnrollmentService.ListForCourse(c.Param("code"), util.CallerFromContext(c))
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, enrollments)
}

// ListMyCourses godoc
// @Summary Courses the calling student is enrolled in
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.CourseEnrollment}
// @Router /api/my-courses [get]
func (ctl *CourseController) ListMyCourses(c *gin.Context) {
	caller := util.CallerFromContext(c)
	if caller == nil {
		util.Unauthorized(c)
		return
	}

	courses, err := ctl.EnrollmentService.ListForStudent(caller.ID, caller)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, courses)
}

type progressRequest struct {
	Progress *int    `json:"progress"`
	Status   *string `json:"status"`
}

// UpdateEnrollment godoc
// @Summary Update a student's progress/status in a course (owner/admin)
// @Tags courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param code path string true "Course code"
// @Param studentId path int true "Student user id"
// @Param body body progressRequest true "Fields to change"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Router /api/courses/{code}/enrollments/{studentId} [patch]
func (ctl *CourseController) UpdateEnrollment(c *gin.Context) {
	studentID := util.ParseUintOrZero(c.Param("studentId"))
	if studentID == 0 {
		util.BadRequest(c, "invalid studentId")
		return
	}

	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	enrollment, err := ctl.EnrollmentService.UpdateProgress(studentID, c.Param("code"), req.Progress, req.Status, util.CallerFromContext(c))
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, enrollment)
}
