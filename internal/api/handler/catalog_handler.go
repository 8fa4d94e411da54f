package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"gradebook/internal/dto"
	"gradebook/internal/service"
	"gradebook/pkg/response"
)

// CatalogHandler courses, cycles, assignments and users
type CatalogHandler struct {
	catalogSvc service.CatalogService
}

// NewCatalogHandler creates a CatalogHandler
func NewCatalogHandler(catalogSvc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// ── Courses ──

// ListCourses
// GET /api/v1/courses?cycle_id=&active_only=
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.Query("active_only"))
	list, err := h.catalogSvc.ListCourses(c.Request.Context(), c.Query("cycle_id"), activeOnly)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// GetCourse
// GET /api/v1/courses/:id
func (h *CatalogHandler) GetCourse(c *gin.Context) {
	course, err := h.catalogSvc.GetCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, course)
}

// CreateCourse
// POST /api/v1/courses
func (h *CatalogHandler) CreateCourse(c *gin.Context) {
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	course, err := h.catalogSvc.CreateCourse(c.Request.Context(), &req, actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, course)
}

// UpdateCourse
// PUT /api/v1/courses/:id
func (h *CatalogHandler) UpdateCourse(c *gin.Context) {
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	course, err := h.catalogSvc.UpdateCourse(c.Request.Context(), c.Param("id"), &req, actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, course)
}

// AssignCycle sets or clears the cycle of a course
// PUT /api/v1/courses/:id/cycle
func (h *CatalogHandler) AssignCycle(c *gin.Context) {
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	var req dto.AssignCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	course, err := h.catalogSvc.AssignCycle(c.Request.Context(), c.Param("id"), &req, actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, course)
}

// ── Cycles ──

// ListCycles
// GET /api/v1/cycles
func (h *CatalogHandler) ListCycles(c *gin.Context) {
	list, err := h.catalogSvc.ListCycles(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// GetCycle
// GET /api/v1/cycles/:id
func (h *CatalogHandler) GetCycle(c *gin.Context) {
	cycle, err := h.catalogSvc.GetCycle(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, cycle)
}

// CreateCycle
// POST /api/v1/cycles
func (h *CatalogHandler) CreateCycle(c *gin.Context) {
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	var req dto.CreateCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	cycle, err := h.catalogSvc.CreateCycle(c.Request.Context(), &req, actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, cycle)
}

// UpdateCycle
// PUT /api/v1/cycles/:id
func (h *CatalogHandler) UpdateCycle(c *gin.Context) {
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	cycle, err := h.catalogSvc.UpdateCycle(c.Request.Context(), c.Param("id"), &req, actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, cycle)
}

// DuplicateCycle
// POST /api/v1/cycles/:id/duplicate
func (h *CatalogHandler) DuplicateCycle(c *gin.Context) {
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	cycle, err := h.catalogSvc.DuplicateCycle(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, cycle)
}

// ── Assignments ──

// ListAssignments
// GET /api/v1/assignments?course_id=&instructor_id=
func (h *CatalogHandler) ListAssignments(c *gin.Context) {
	list, err := h.catalogSvc.ListAssignments(c.Request.Context(), c.Query("course_id"), c.Query("instructor_id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// AssignInstructor
// POST /api/v1/assignments
func (h *CatalogHandler) AssignInstructor(c *gin.Context) {
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	var req dto.AssignInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	assignment, err := h.catalogSvc.AssignInstructor(c.Request.Context(), &req, actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, assignment)
}

// ── Users ──

// ListUsers
// GET /api/v1/users
func (h *CatalogHandler) ListUsers(c *gin.Context) {
	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	list, total, err := h.catalogSvc.ListUsers(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetUser
// GET /api/v1/users/:id
func (h *CatalogHandler) GetUser(c *gin.Context) {
	user, err := h.catalogSvc.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, user)
}

// CreateUser
// POST /api/v1/users
func (h *CatalogHandler) CreateUser(c *gin.Context) {
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.catalogSvc.CreateUser(c.Request.Context(), &req, actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, user)
}

// UpdateUser
// PUT /api/v1/users/:id
func (h *CatalogHandler) UpdateUser(c *gin.Context) {
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.catalogSvc.UpdateUser(c.Request.Context(), c.Param("id"), &req, actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, user)
}

// ImportUsers registers users from an uploaded XLSX (multipart field "file")
// POST /api/v1/users/import
func (h *CatalogHandler) ImportUsers(c *gin.Context) {
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "upload an .xlsx file in the \"file\" field")
		return
	}
	defer file.Close()

	rows, err := service.ParseImportFile(file)
	if err != nil {
		handleError(c, err)
		return
	}

	result, err := h.catalogSvc.ImportUsers(c.Request.Context(), rows, actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}
