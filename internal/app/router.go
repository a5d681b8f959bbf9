package app

import (
	"campus_lms_backend/docs"
	"campus_lms_backend/internal/config"
	"campus_lms_backend/internal/middleware"
	"campus_lms_backend/internal/model"
	"campus_lms_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.GetProfile)

		// 课程
		authGroup.GET("/courses", c.course.ListCourses)
		authGroup.GET("/courses/:code", c.course.GetCourse)
		authGroup.GET("/my-courses", c.course.ListMyCourses)

		// 选课：学生本人
		authGroup.POST("/courses/:code/enroll", c.course.Enroll)
		authGroup.DELETE("/courses/:code/enroll", c.course.Unenroll)

		// 用户
		authGroup.GET("/users/:id", c.user.Get)
		authGroup.PUT("/users/:id", c.user.UpdateProfile)

		// 教师/管理员路由组（服务层的授权检查才是权威判定）
		staff := authGroup.Group("")
		staff.Use(middleware.RoleMiddleware(model.Instructor))
		{
			staff.POST("/courses", c.course.CreateCourse)
			staff.PUT("/courses/:code", c.course.UpdateCourse)
			staff.DELETE("/courses/:code", c.course.DeleteCourse)
			staff.GET("/courses/:code/enrollments", c.course.ListEnrolled)
			staff.PATCH("/courses/:code/enrollments/:studentId", c.course.UpdateEnrollment)

			staff.POST("/resources", c.resource.Upload)
			staff.GET("/resources/uploads/:token", c.resource.UploadProgress)
		}

		// 资源读取对所有登录用户开放
		authGroup.GET("/resources", c.resource.ListByCourse)
		authGroup.GET("/resources/:id", c.resource.Get)
		authGroup.GET("/resources/:id/download", c.resource.Download)
		authGroup.PUT("/resources/:id", c.resource.Update)
		authGroup.DELETE("/resources/:id", c.resource.Delete)
	}

	// 管理员相关接口
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/users", c.user.List)
		admin.PUT("/users/:id/role", c.user.AssignRole)
		admin.DELETE("/users/:id", c.user.Delete)

		admin.POST("/courses/:code/enroll/:studentId", c.course.AdminEnroll)
		admin.DELETE("/courses/:code/enroll/:studentId", c.course.AdminUnenroll)
	}
}
