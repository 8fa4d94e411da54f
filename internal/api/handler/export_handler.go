package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"gradebook/internal/dto"
	"gradebook/internal/service"
)

const xlsxMime = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler spreadsheet export
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates an ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportGrades downloads the filtered grade list as XLSX
// GET /api/v1/export/grades?cycle_id=&course_id=&student_id=&instructor_id=&state=
func (h *ExportHandler) ExportGrades(c *gin.Context) {
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	var req dto.GradeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	buf, filename, err := h.exportSvc.ExportGrades(c.Request.Context(), &req, actor)
	if err != nil {
		handleError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Header("Content-Type", xlsxMime)
	c.Data(http.StatusOK, xlsxMime, buf.Bytes())
}
