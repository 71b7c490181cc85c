package handler

import (
	"github.com/Unchana19/songsarn-api/internal/oms/entity"
	"github.com/Unchana19/songsarn-api/internal/oms/service"
	"github.com/gin-gonic/gin"
)

// OrderHandler customer order lifecycle endpoints
type OrderHandler struct {
	svc *service.OrderService
}

func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// Checkout POST /orders
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if uid := GetUserID(c); uid != "" {
		req.UserID = uid
	}

	cpo, err := h.svc.Checkout(c.Request.Context(), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, cpo)
}

// MarkPaid POST /orders/:id/pay
func (h *OrderHandler) MarkPaid(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Order ID is required")
		return
	}

	var req service.MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	shortages, err := h.svc.MarkPaid(c.Request.Context(), id, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"shortages": shortages})
}

// StartProcessing POST /orders/:id/process
func (h *OrderHandler) StartProcessing(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Order ID is required")
		return
	}

	deducted, err := h.svc.StartProcessing(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"deducted": deducted})
}

// FinishProcessing POST /orders/:id/finish-process
func (h *OrderHandler) FinishProcessing(c *gin.Context) {
	h.advance(c, entity.CPOStatusFinishedProcess)
}

// StartDelivery POST /orders/:id/deliver
func (h *OrderHandler) StartDelivery(c *gin.Context) {
	h.advance(c, entity.CPOStatusOnDelivery)
}

// Complete POST /orders/:id/complete
func (h *OrderHandler) Complete(c *gin.Context) {
	h.advance(c, entity.CPOStatusCompleted)
}

func (h *OrderHandler) advance(c *gin.Context, status string) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Order ID is required")
		return
	}

	if err := h.svc.Advance(c.Request.Context(), id, status); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"status": status})
}

// Get GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Order ID is required")
		return
	}

	cpo, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, cpo)
}

// ListMine GET /orders, the calling customer's orders
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID := GetUserID(c)
	if userID == "" {
		userID = c.Query("user_id")
	}
	if userID == "" {
		BadRequest(c, "User ID is required")
		return
	}

	orders, err := h.svc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, orders)
}

// ListAll GET /manager/orders
func (h *OrderHandler) ListAll(c *gin.Context) {
	orders, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, orders)
}

// History GET /orders/:id/history
func (h *OrderHandler) History(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Order ID is required")
		return
	}

	rows, err := h.svc.GetHistory(c.Request.Context(), id)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, rows)
}

// RunSweep POST /manager/orders/sweep, manual trigger for the expiry sweep
func (h *OrderHandler) RunSweep(c *gin.Context) {
	result, err := h.svc.RunExpirySweep(c.Request.Context())
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, result)
}
