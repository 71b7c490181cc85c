package handler

import (
	"github.com/Unchana19/songsarn-api/internal/oms/service"
	"github.com/gin-gonic/gin"
)

// MPOHandler material purchase order endpoints
type MPOHandler struct {
	svc *service.MPOService
}

func NewMPOHandler(svc *service.MPOService) *MPOHandler {
	return &MPOHandler{svc: svc}
}

// Create POST /mpos
func (h *MPOHandler) Create(c *gin.Context) {
	var req service.CreateMPORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	mpo, err := h.svc.CreateMPO(c.Request.Context(), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, mpo)
}

// List GET /mpos
func (h *MPOHandler) List(c *gin.Context) {
	mpos, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, mpos)
}

// Get GET /mpos/:id
func (h *MPOHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Purchase order ID is required")
		return
	}

	mpo, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, mpo)
}

// Receive POST /mpos/:id/receive
func (h *MPOHandler) Receive(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Purchase order ID is required")
		return
	}

	mpo, err := h.svc.ReceiveMPO(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, mpo)
}

// Cancel POST /mpos/:id/cancel
func (h *MPOHandler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Purchase order ID is required")
		return
	}

	mpo, err := h.svc.CancelMPO(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, mpo)
}

type setLinePriceRequest struct {
	Price float64 `json:"price" binding:"gte=0"`
}

// SetLinePrice PATCH /mpos/lines/:lineId/price
func (h *MPOHandler) SetLinePrice(c *gin.Context) {
	lineID := c.Param("lineId")
	if lineID == "" {
		BadRequest(c, "Line ID is required")
		return
	}

	var req setLinePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	mpo, err := h.svc.SetLinePrice(c.Request.Context(), lineID, req.Price)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, mpo)
}

// Export GET /mpos/:id/export
func (h *MPOHandler) Export(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Purchase order ID is required")
		return
	}

	f, err := h.svc.ExportMPO(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\"mpo-"+id+".xlsx\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write excel: "+err.Error())
	}
}
