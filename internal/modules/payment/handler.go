package payment

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"koskita/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	loggerf func(format string, args ...interface{})
}

func NewHandler(service *Service, loggerf func(format string, args ...interface{})) *Handler {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Handler{service: service, loggerf: loggerf}
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/snap/init", h.CreateTransaction)
	rg.GET("/bookings/:id/payments", h.ListByBooking)
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/snap/notify", h.Notification)
}

func (h *Handler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	resp, err := h.service.CreateTransaction(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp)
}

func (h *Handler) ListByBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}
	payments, err := h.service.ListByBooking(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, payments)
}

// Notification is the gateway-facing webhook. The gateway retries anything
// that is not a 2xx, so handled-and-discarded callbacks still answer 200.
func (h *Handler) Notification(c *gin.Context) {
	rawBody, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(strings.NewReader(string(rawBody)))

	var n NotificationPayload
	if err := c.ShouldBindJSON(&n); err != nil {
		h.loggerf("level=error msg=malformed gateway notification err=%v raw_body=%s", err, string(rawBody))
		c.JSON(http.StatusBadRequest, gin.H{"status": "bad request"})
		return
	}

	err := h.service.HandleNotification(c.Request.Context(), n, string(rawBody))
	if err != nil {
		h.loggerf("level=error msg=gateway notification failed order_id=%s err=%v", n.OrderID, err)
		if errors.Is(err, ErrInvalidSignature) || errors.Is(err, ErrAmountMismatch) {
			c.JSON(http.StatusForbidden, gin.H{"status": "forbidden"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrBookingNotPayable):
		response.Error(c, http.StatusConflict, "BOOKING_NOT_PAYABLE", err.Error())
	case errors.Is(err, ErrOverpayment):
		response.Error(c, http.StatusConflict, "OVERPAYMENT", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
