package handler

import (
	"github.com/gin-gonic/gin"

	"gradebook/internal/service"
	"gradebook/pkg/response"
)

// GuardHandler guarded delete and (de)activation of any catalog entity
type GuardHandler struct {
	guardSvc service.GuardService
}

// NewGuardHandler creates a GuardHandler
func NewGuardHandler(guardSvc service.GuardService) *GuardHandler {
	return &GuardHandler{guardSvc: guardSvc}
}

// Dependents counts the rows that block a delete
// GET /api/v1/entities/:kind/:id/dependents
func (h *GuardHandler) Dependents(c *gin.Context) {
	kind, err := service.ParseEntityKind(c.Param("kind"))
	if err != nil {
		handleError(c, err)
		return
	}

	result, err := h.guardSvc.Dependents(c.Request.Context(), kind, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteEntity
// DELETE /api/v1/entities/:kind/:id
func (h *GuardHandler) DeleteEntity(c *gin.Context) {
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	kind, err := service.ParseEntityKind(c.Param("kind"))
	if err != nil {
		handleError(c, err)
		return
	}

	if err := h.guardSvc.DeleteEntity(c.Request.Context(), kind, c.Param("id"), actor); err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, nil)
}

// ToggleActive
// PUT /api/v1/entities/:kind/:id/active
func (h *GuardHandler) ToggleActive(c *gin.Context) {
	actor, ok := mustGetActor(c)
	if !ok {
		return
	}

	kind, err := service.ParseEntityKind(c.Param("kind"))
	if err != nil {
		handleError(c, err)
		return
	}

	result, err := h.guardSvc.ToggleActive(c.Request.Context(), kind, c.Param("id"), actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}
