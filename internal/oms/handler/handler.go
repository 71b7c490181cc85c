package handler

import (
	"errors"
	"strconv"

	"github.com/Unchana19/songsarn-api/internal/oms/repository"
	"github.com/Unchana19/songsarn-api/internal/oms/service"
	"github.com/gin-gonic/gin"
)

// Handlers HTTP handler set
type Handlers struct {
	Material    *MaterialHandler
	Order       *OrderHandler
	Requisition *RequisitionHandler
	MPO         *MPOHandler
	Dashboard   *DashboardHandler
}

func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Material:    NewMaterialHandler(svc.Material),
		Order:       NewOrderHandler(svc.Order),
		Requisition: NewRequisitionHandler(svc.Requisition),
		MPO:         NewMPOHandler(svc.MPO),
		Dashboard:   NewDashboardHandler(svc.Dashboard),
	}
}

// Response envelope shared by every endpoint
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error writes a business-code response; the HTTP status is the code's
// leading three digits.
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// RespondError maps service sentinel errors onto response codes.
func RespondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, service.ErrEmptyItems):
		BadRequest(c, err.Error())
	case errors.Is(err, service.ErrNotPaid),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrAlreadyExists),
		errors.Is(err, service.ErrMaterialReferenced):
		Conflict(c, err.Error())
	default:
		InternalError(c, err.Error())
	}
}

// GetUserID user id set by the auth middleware
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// GetLimit bounded ?limit query parameter
func GetLimit(c *gin.Context, def, max int) int {
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= max {
			return v
		}
	}
	return def
}
