package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/patentdesk/backend/internal/http/response"
	"github.com/patentdesk/backend/internal/pkg/logger"
	"github.com/patentdesk/backend/internal/services"
)

type PatentsHandler struct {
	search services.PatentSearchService
	log    *logger.Logger
}

func NewPatentsHandler(search services.PatentSearchService, log *logger.Logger) *PatentsHandler {
	return &PatentsHandler{search: search, log: log.With("handler", "PatentsHandler")}
}

// Search handles POST /api/patents/search.
func (h *PatentsHandler) Search(c *gin.Context) {
	var req struct {
		Query string `json:"query"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_BODY", err)
		return
	}
	results, err := h.search.QuickSearch(c.Request.Context(), req.Query)
	if err != nil {
		status, code := statusFor(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, results)
}

// List handles GET /api/patents.
func (h *PatentsHandler) List(c *gin.Context) {
	results, err := h.search.ListAll(c.Request.Context())
	if err != nil {
		status, code := statusFor(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, results)
}

// ListByStatus handles GET /api/patents/status/:status.
func (h *PatentsHandler) ListByStatus(c *gin.Context) {
	results, err := h.search.ListByStatus(c.Request.Context(), c.Param("status"))
	if err != nil {
		status, code := statusFor(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, results)
}
