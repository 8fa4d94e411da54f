package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gradebook/config"
	"gradebook/internal/api/handler"
	"gradebook/internal/api/middleware"
	"gradebook/internal/model"
	"gradebook/pkg/jwt"
	"gradebook/pkg/redis"
)

const (
	maxBodyBytes     = 10 << 20 // user import spreadsheets
	submitRateLimit  = 60
	submitRateWindow = time.Minute
)

// Setup builds the Gin engine. rdb may be nil.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	const (
		admin      = model.RoleAdmin
		instructor = model.RoleInstructor
	)

	// ── Global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ── API v1 (all routes need a bearer token) ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr))
	{
		// grades
		grades := v1.Group("/grades")
		{
			grades.GET("", h.Grade.ListGrades)
			grades.POST("", middleware.RoleAuth(admin, instructor), middleware.RateLimit(rdb, submitRateLimit, submitRateWindow), h.Grade.SubmitGrades)
			grades.GET("/:id", h.Grade.GetGrade)
			grades.GET("/:id/final", middleware.RoleAuth(admin, instructor), h.Grade.ComputeFinalGrade)
			grades.PUT("/:id/state", middleware.RoleAuth(admin, instructor), h.Grade.ToggleState)
		}

		// courses
		courses := v1.Group("/courses")
		{
			courses.GET("", h.Catalog.ListCourses)
			courses.GET("/:id", h.Catalog.GetCourse)
			courses.POST("", middleware.RoleAuth(admin), h.Catalog.CreateCourse)
			courses.PUT("/:id", middleware.RoleAuth(admin), h.Catalog.UpdateCourse)
			courses.PUT("/:id/cycle", middleware.RoleAuth(admin), h.Catalog.AssignCycle)
			courses.POST("/:id/recalculate", middleware.RoleAuth(admin, instructor), h.Grade.RecalculateCourse)
			courses.GET("/:id/students", middleware.RoleAuth(admin, instructor), h.Enrollment.ListCourseEnrollments)
			courses.DELETE("/:id/students/:student_id", middleware.RoleAuth(admin), h.Enrollment.RemoveCourseEnrollment)
		}

		// cycles
		cycles := v1.Group("/cycles")
		{
			cycles.GET("", h.Catalog.ListCycles)
			cycles.GET("/:id", h.Catalog.GetCycle)
			cycles.POST("", middleware.RoleAuth(admin), h.Catalog.CreateCycle)
			cycles.PUT("/:id", middleware.RoleAuth(admin), h.Catalog.UpdateCycle)
			cycles.POST("/:id/duplicate", middleware.RoleAuth(admin), h.Catalog.DuplicateCycle)
		}

		// instructor assignments
		assignments := v1.Group("/assignments")
		{
			assignments.GET("", middleware.RoleAuth(admin, instructor), h.Catalog.ListAssignments)
			assignments.POST("", middleware.RoleAuth(admin), h.Catalog.AssignInstructor)
		}

		// users
		users := v1.Group("/users")
		{
			users.GET("", middleware.RoleAuth(admin), h.Catalog.ListUsers)
			users.GET("/:id", middleware.RoleAuth(admin, instructor), h.Catalog.GetUser)
			users.POST("", middleware.RoleAuth(admin), h.Catalog.CreateUser)
			users.PUT("/:id", middleware.RoleAuth(admin), h.Catalog.UpdateUser)
			users.POST("/import", middleware.RoleAuth(admin), h.Catalog.ImportUsers)
		}

		// enrollments
		enrollments := v1.Group("/enrollments")
		enrollments.Use(middleware.RoleAuth(admin))
		{
			enrollments.GET("", h.Enrollment.ListCycleEnrollments)
			enrollments.POST("", h.Enrollment.CreateCycleEnrollment)
			enrollments.PUT("/reassign", h.Enrollment.Reassign)
			enrollments.POST("/sync", h.Enrollment.SyncCourseEnrollments)
		}
		v1.POST("/course-enrollments", middleware.RoleAuth(admin), h.Enrollment.EnrollInCourse)
		v1.PUT("/students/:id/enrollment/suspend", middleware.RoleAuth(admin), h.Enrollment.SuspendCycleEnrollment)
		v1.PUT("/students/:id/enrollment/complete", middleware.RoleAuth(admin), h.Enrollment.CompleteCycleEnrollment)

		// guarded delete / (de)activation
		entities := v1.Group("/entities")
		entities.Use(middleware.RoleAuth(admin))
		{
			entities.GET("/:kind/:id/dependents", h.Guard.Dependents)
			entities.DELETE("/:kind/:id", h.Guard.DeleteEntity)
			entities.PUT("/:kind/:id/active", h.Guard.ToggleActive)
		}

		// reports
		reports := v1.Group("/reports")
		{
			reports.GET("/me", h.Report.MyTranscript)
			reports.GET("/dashboard", middleware.RoleAuth(admin), h.Report.Dashboard)
			reports.GET("/courses/:id", middleware.RoleAuth(admin, instructor), h.Report.CourseSummary)
			reports.GET("/instructors/:id", middleware.RoleAuth(admin, instructor), h.Report.InstructorStats)
			reports.GET("/students/:id", h.Report.StudentTranscript)
		}

		// export
		v1.GET("/export/grades", middleware.RoleAuth(admin, instructor), h.Export.ExportGrades)
	}

	return r
}
