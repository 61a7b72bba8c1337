package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/patentdesk/backend/internal/domain"
	"github.com/patentdesk/backend/internal/http/response"
	pkgerrors "github.com/patentdesk/backend/internal/pkg/errors"
	"github.com/patentdesk/backend/internal/pkg/logger"
	"github.com/patentdesk/backend/internal/services"
)

type FilingHandler struct {
	filings services.FilingService
	log     *logger.Logger
}

func NewFilingHandler(filings services.FilingService, log *logger.Logger) *FilingHandler {
	return &FilingHandler{filings: filings, log: log.With("handler", "FilingHandler")}
}

// Submit handles POST /api/patent-filing/submit.
func (h *FilingHandler) Submit(c *gin.Context) {
	var filing domain.PatentFiling
	if err := c.ShouldBindJSON(&filing); err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_BODY", err)
		return
	}
	created, err := h.filings.Submit(c.Request.Context(), &filing)
	if err != nil {
		status, code := statusFor(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondCreated(c, created)
}

// Get handles GET /api/patent-filing/:id.
func (h *FilingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_ID", pkgerrors.ErrInvalidArgument)
		return
	}
	filing, err := h.filings.GetByID(c.Request.Context(), id)
	if err != nil {
		status, code := statusFor(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, filing)
}

// List handles GET /api/patent-filing/all.
func (h *FilingHandler) List(c *gin.Context) {
	filings, err := h.filings.ListAll(c.Request.Context())
	if err != nil {
		status, code := statusFor(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, filings)
}

// ListByUser handles GET /api/patent-filing/user/:userId.
func (h *FilingHandler) ListByUser(c *gin.Context) {
	filings, err := h.filings.ListForUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		status, code := statusFor(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, filings)
}

// ListByStatus handles GET /api/patent-filing/status/:status.
func (h *FilingHandler) ListByStatus(c *gin.Context) {
	filings, err := h.filings.ListByStatus(c.Request.Context(), c.Param("status"))
	if err != nil {
		status, code := statusFor(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, filings)
}

// ListGrantedRejected handles GET /api/patent-filing/search/granted-rejected.
func (h *FilingHandler) ListGrantedRejected(c *gin.Context) {
	filings, err := h.filings.ListGrantedOrRejected(c.Request.Context())
	if err != nil {
		status, code := statusFor(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, filings)
}

// Count handles GET /api/patent-filing/count.
func (h *FilingHandler) Count(c *gin.Context) {
	n, err := h.filings.CountAll(c.Request.Context())
	if err != nil {
		status, code := statusFor(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, gin.H{"count": n})
}

// CountByState handles GET /api/patent-filing/count-by-state.
func (h *FilingHandler) CountByState(c *gin.Context) {
	counts, err := h.filings.CountByState(c.Request.Context())
	if err != nil {
		status, code := statusFor(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, counts)
}

// CitiesByState handles GET /api/patent-filing/cities-by-state?state=...
func (h *FilingHandler) CitiesByState(c *gin.Context) {
	cities, err := h.filings.CitiesByState(c.Request.Context(), c.Query("state"))
	if err != nil {
		status, code := statusFor(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, gin.H{"state": c.Query("state"), "cities": cities})
}

// StatusCounts handles GET /api/patent-filing/status-distribution.
func (h *FilingHandler) StatusCounts(c *gin.Context) {
	counts, err := h.filings.StatusCounts(c.Request.Context())
	if err != nil {
		status, code := statusFor(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, counts)
}

// UpdateStages handles PUT /api/patent-filing/:id/stages. The body carries
// only the stage flags being changed; omitted flags keep their stored value.
func (h *FilingHandler) UpdateStages(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_ID", pkgerrors.ErrInvalidArgument)
		return
	}
	var upd services.StageUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_BODY", err)
		return
	}
	result, err := h.filings.UpdateStages(c.Request.Context(), id, upd)
	if err != nil {
		status, code := statusFor(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, gin.H{
		"filing":            result.Filing,
		"status":            result.Status,
		"allStagesComplete": result.AllStagesComplete,
		"emailSent":         result.EmailSent,
	})
}

// SetStatus handles PUT /api/patent-filing/:id/status.
func (h *FilingHandler) SetStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_ID", pkgerrors.ErrInvalidArgument)
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_BODY", err)
		return
	}
	filing, err := h.filings.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		status, code := statusFor(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, filing)
}

// Reject handles PUT /api/patent-filing/:id/reject.
func (h *FilingHandler) Reject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_ID", pkgerrors.ErrInvalidArgument)
		return
	}
	var req services.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_BODY", err)
		return
	}
	result, err := h.filings.Reject(c.Request.Context(), id, req)
	if err != nil {
		status, code := statusFor(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, gin.H{
		"filing":    result.Filing,
		"emailSent": result.EmailSent,
	})
}

// SetMessage handles PUT /api/patent-filing/:id/message. The body names the
// slot as a field key, "m1" through "m5".
func (h *FilingHandler) SetMessage(c *gin.Context) {
	var req struct {
		MessageField   string `json:"messageField"`
		MessageContent string `json:"messageContent"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_BODY", err)
		return
	}
	h.setSlot(c, req.MessageField, "m", req.MessageContent, h.filings.SetMessage)
}

// SetReply handles PUT /api/patent-filing/:id/reply. The body names the slot
// as a field key, "r1" through "r4".
func (h *FilingHandler) SetReply(c *gin.Context) {
	var req struct {
		ReplyField   string `json:"replyField"`
		ReplyContent string `json:"replyContent"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_BODY", err)
		return
	}
	h.setSlot(c, req.ReplyField, "r", req.ReplyContent, h.filings.SetReply)
}

func (h *FilingHandler) setSlot(c *gin.Context, key, prefix, text string, set func(ctx context.Context, id uuid.UUID, slot int, text string) (*domain.PatentFiling, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_ID", pkgerrors.ErrInvalidArgument)
		return
	}
	slot, ok := parseSlotKey(key, prefix)
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "INVALID_FIELD", pkgerrors.ErrInvalidArgument)
		return
	}
	filing, err := set(c.Request.Context(), id, slot, text)
	if err != nil {
		status, code := statusFor(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, filing)
}

// parseSlotKey turns a field key like "m3" or "R2" into its slot number.
func parseSlotKey(key, prefix string) (int, bool) {
	k := strings.ToLower(strings.TrimSpace(key))
	if !strings.HasPrefix(k, prefix) {
		return 0, false
	}
	slot, err := strconv.Atoi(strings.TrimPrefix(k, prefix))
	if err != nil {
		return 0, false
	}
	return slot, true
}

// Activate handles PUT /api/patent-filing/:id/activate.
func (h *FilingHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

// Deactivate handles PUT /api/patent-filing/:id/deactivate.
func (h *FilingHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *FilingHandler) setActive(c *gin.Context, active bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_ID", pkgerrors.ErrInvalidArgument)
		return
	}
	filing, err := h.filings.SetActive(c.Request.Context(), id, active)
	if err != nil {
		status, code := statusFor(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, filing)
}
