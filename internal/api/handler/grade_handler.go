package handler

import (
	"github.com/gin-gonic/gin"

	"gradebook/internal/dto"
	"gradebook/internal/service"
	"gradebook/pkg/response"
)

// GradeHandler grade submission and lookup
type GradeHandler struct {
	gradeSvc service.GradeService
}

// NewGradeHandler creates a GradeHandler
func NewGradeHandler(gradeSvc service.GradeService) *GradeHandler {
	return &GradeHandler{gradeSvc: gradeSvc}
}

// SubmitGrades writes a full category snapshot for one student in one course
// POST /api/v1/grades
func (h *GradeHandler) SubmitGrades(c *gin.Context) {
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	var req dto.SubmitGradesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	grade, err := h.gradeSvc.SubmitGrades(c.Request.Context(), &req, actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, grade)
}

// ListGrades
// GET /api/v1/grades
func (h *GradeHandler) ListGrades(c *gin.Context) {
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	var req dto.GradeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	list, total, err := h.gradeSvc.ListGrades(c.Request.Context(), &req, actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetGrade
// GET /api/v1/grades/:id
func (h *GradeHandler) GetGrade(c *gin.Context) {
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	grade, err := h.gradeSvc.GetGrade(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, grade)
}

// ComputeFinalGrade recomputes the final average without writing
// GET /api/v1/grades/:id/final
func (h *GradeHandler) ComputeFinalGrade(c *gin.Context) {
	result, err := h.gradeSvc.ComputeFinalGrade(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// ToggleState flips draft/published
// PUT /api/v1/grades/:id/state
func (h *GradeHandler) ToggleState(c *gin.Context) {
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	grade, err := h.gradeSvc.ToggleState(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, grade)
}

// RecalculateCourse refreshes every stored average of a course
// POST /api/v1/courses/:id/recalculate
func (h *GradeHandler) RecalculateCourse(c *gin.Context) {
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	result, err := h.gradeSvc.RecalculateCourse(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}
