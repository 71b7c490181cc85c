package handler

import (
	"github.com/Unchana19/songsarn-api/internal/oms/service"
	"github.com/gin-gonic/gin"
)

// MaterialHandler material catalog endpoints
type MaterialHandler struct {
	svc *service.MaterialService
}

func NewMaterialHandler(svc *service.MaterialService) *MaterialHandler {
	return &MaterialHandler{svc: svc}
}

// Create POST /materials
func (h *MaterialHandler) Create(c *gin.Context) {
	var req service.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	m, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, m)
}

// List GET /materials
func (h *MaterialHandler) List(c *gin.Context) {
	items, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, items)
}

// Get GET /materials/:id
func (h *MaterialHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Material ID is required")
		return
	}

	m, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, m)
}

// Update PUT /materials/:id
func (h *MaterialHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Material ID is required")
		return
	}

	var req service.UpdateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	m, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, m)
}

// Delete DELETE /materials/:id
func (h *MaterialHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Material ID is required")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, nil)
}

// ListLowStock GET /materials/low-stock
func (h *MaterialHandler) ListLowStock(c *gin.Context) {
	items, err := h.svc.ListLowStock(c.Request.Context())
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, items)
}
