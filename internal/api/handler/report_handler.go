package handler

import (
	"github.com/gin-gonic/gin"

	"gradebook/internal/service"
	"gradebook/pkg/response"
)

// ReportHandler read-only reports
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler creates a ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// Dashboard
// GET /api/v1/reports/dashboard
func (h *ReportHandler) Dashboard(c *gin.Context) {
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	result, err := h.reportSvc.Dashboard(c.Request.Context(), actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// CourseSummary
// GET /api/v1/reports/courses/:id
func (h *ReportHandler) CourseSummary(c *gin.Context) {
	result, err := h.reportSvc.CourseSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// InstructorStats
// GET /api/v1/reports/instructors/:id
func (h *ReportHandler) InstructorStats(c *gin.Context) {
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	result, err := h.reportSvc.InstructorStats(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// StudentTranscript
// GET /api/v1/reports/students/:id
func (h *ReportHandler) StudentTranscript(c *gin.Context) {
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	result, err := h.reportSvc.StudentTranscript(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// MyTranscript the caller's own transcript
// GET /api/v1/reports/me
func (h *ReportHandler) MyTranscript(c *gin.Context) {
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	result, err := h.reportSvc.StudentTranscript(c.Request.Context(), actor.UserID, actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}
