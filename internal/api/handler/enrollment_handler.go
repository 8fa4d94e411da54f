package handler

import (
	"github.com/gin-gonic/gin"

	"gradebook/internal/dto"
	"gradebook/internal/service"
	"gradebook/pkg/response"
)

// EnrollmentHandler cycle and course enrollments
type EnrollmentHandler struct {
	enrollmentSvc service.EnrollmentService
}

// NewEnrollmentHandler creates an EnrollmentHandler
func NewEnrollmentHandler(enrollmentSvc service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentSvc: enrollmentSvc}
}

// CreateCycleEnrollment
// POST /api/v1/enrollments
func (h *EnrollmentHandler) CreateCycleEnrollment(c *gin.Context) {
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	var req dto.CycleEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.enrollmentSvc.CreateCycleEnrollment(c.Request.Context(), &req, actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, result)
}

// Reassign moves a student to another cycle
// PUT /api/v1/enrollments/reassign
func (h *EnrollmentHandler) Reassign(c *gin.Context) {
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	var req dto.CycleEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.enrollmentSvc.Reassign(c.Request.Context(), &req, actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// SuspendCycleEnrollment
// PUT /api/v1/students/:id/enrollment/suspend
func (h *EnrollmentHandler) SuspendCycleEnrollment(c *gin.Context) {
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	result, err := h.enrollmentSvc.SuspendCycleEnrollment(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// CompleteCycleEnrollment
// PUT /api/v1/students/:id/enrollment/complete
func (h *EnrollmentHandler) CompleteCycleEnrollment(c *gin.Context) {
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	result, err := h.enrollmentSvc.CompleteCycleEnrollment(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// ListCycleEnrollments
// GET /api/v1/enrollments
func (h *EnrollmentHandler) ListCycleEnrollments(c *gin.Context) {
	var req dto.CycleEnrollmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	list, err := h.enrollmentSvc.ListCycleEnrollments(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// SyncCourseEnrollments creates missing course enrollments for every active cycle enrollment
// POST /api/v1/enrollments/sync
func (h *EnrollmentHandler) SyncCourseEnrollments(c *gin.Context) {
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	result, err := h.enrollmentSvc.SyncCourseEnrollments(c.Request.Context(), actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// EnrollInCourse
// POST /api/v1/course-enrollments
func (h *EnrollmentHandler) EnrollInCourse(c *gin.Context) {
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	var req dto.CourseEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.enrollmentSvc.EnrollInCourse(c.Request.Context(), &req, actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, result)
}

// RemoveCourseEnrollment
// DELETE /api/v1/courses/:id/students/:student_id
func (h *EnrollmentHandler) RemoveCourseEnrollment(c *gin.Context) {
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	if err := h.enrollmentSvc.RemoveCourseEnrollment(c.Request.Context(), c.Param("id"), c.Param("student_id"), actor); err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListCourseEnrollments
// GET /api/v1/courses/:id/students
func (h *EnrollmentHandler) ListCourseEnrollments(c *gin.Context) {
	list, err := h.enrollmentSvc.ListCourseEnrollments(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}
