package reconcile

import (
	"net/http"

	"koskita/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/reconcile", h.Check)
	rg.POST("/reconcile/initialize", h.Initialize)
}

func (h *Handler) Check(c *gin.Context) {
	report, err := h.service.Check(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}
	response.Success(c, http.StatusOK, report)
}

func (h *Handler) Initialize(c *gin.Context) {
	result, err := h.service.Initialize(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}
	response.Success(c, http.StatusOK, result)
}
