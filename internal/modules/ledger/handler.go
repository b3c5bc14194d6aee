package ledger

import (
	"errors"
	"net/http"
	"strconv"

	"koskita/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the ledger endpoints. The group is expected to carry
// auth and staff-role middleware already.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/ledger/accounts", h.CreateAccount)
	rg.GET("/ledger/accounts", h.ListAccounts)
	rg.POST("/ledger/accounts/:id/archive", h.Archive)
	rg.POST("/ledger/accounts/:id/unarchive", h.Unarchive)

	rg.POST("/ledger/entries", h.PostEntry)
	rg.GET("/ledger/entries", h.ListEntries)
	rg.PATCH("/ledger/entries/:id", h.UpdateEntry)
	rg.DELETE("/ledger/entries/:id", h.DeleteEntry)

	rg.GET("/ledger/summary", h.Summary)
	rg.GET("/ledger/breakdown", h.Breakdown)

	rg.POST("/ledger/payouts", h.RecordPayout)
}

func (h *Handler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	account, err := h.service.CreateAccount(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, account)
}

func (h *Handler) ListAccounts(c *gin.Context) {
	includeArchived := c.Query("include_archived") == "true"
	accounts, err := h.service.ListAccounts(c.Request.Context(), includeArchived)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, accounts)
}

func (h *Handler) Archive(c *gin.Context)   { h.setArchived(c, true) }
func (h *Handler) Unarchive(c *gin.Context) { h.setArchived(c, false) }

func (h *Handler) setArchived(c *gin.Context, archived bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid account ID")
		return
	}
	account, err := h.service.SetArchived(c.Request.Context(), id, archived)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, account)
}

func (h *Handler) PostEntry(c *gin.Context) {
	var req PostEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	entry, err := h.service.PostManualEntry(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, entry)
}

func (h *Handler) UpdateEntry(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid entry ID")
		return
	}
	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	entry, err := h.service.UpdateEntry(c.Request.Context(), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, entry)
}

func (h *Handler) DeleteEntry(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid entry ID")
		return
	}
	if err := h.service.DeleteEntry(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) ListEntries(c *gin.Context) {
	var q EntryFilterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	entries, err := h.service.ListEntries(c.Request.Context(), q)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, entries)
}

func (h *Handler) Summary(c *gin.Context) {
	var q EntryFilterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	summary, err := h.service.Summarize(c.Request.Context(), q)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary)
}

func (h *Handler) Breakdown(c *gin.Context) {
	var q EntryFilterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	by := c.DefaultQuery("by", "account")
	var (
		rows interface{}
		err  error
	)
	switch by {
	case "account":
		rows, err = h.service.BreakdownByAccount(c.Request.Context(), q)
	case "ref_type":
		rows, err = h.service.BreakdownByRefType(c.Request.Context(), q)
	default:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "by must be 'account' or 'ref_type'")
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}

func (h *Handler) RecordPayout(c *gin.Context) {
	var req RecordPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	entry, err := h.service.RecordPayout(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, entry)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrInvalidEntry):
		response.Error(c, http.StatusBadRequest, "INVALID_ENTRY", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrDuplicateAccount):
		response.Error(c, http.StatusConflict, "DUPLICATE_ACCOUNT", err.Error())
	case errors.Is(err, ErrAccountUnavailable):
		response.Error(c, http.StatusConflict, "ACCOUNT_UNAVAILABLE", err.Error())
	case errors.Is(err, ErrSystemAccount):
		response.Error(c, http.StatusConflict, "SYSTEM_ACCOUNT", err.Error())
	case errors.Is(err, ErrImmutableEntry):
		response.Error(c, http.StatusConflict, "IMMUTABLE_ENTRY", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
