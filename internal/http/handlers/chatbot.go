package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/patentdesk/backend/internal/http/response"
	"github.com/patentdesk/backend/internal/pkg/logger"
	"github.com/patentdesk/backend/internal/services"
)

type ChatbotHandler struct {
	chatbot services.ChatbotService
	log     *logger.Logger
}

func NewChatbotHandler(chatbot services.ChatbotService, log *logger.Logger) *ChatbotHandler {
	return &ChatbotHandler{chatbot: chatbot, log: log.With("handler", "ChatbotHandler")}
}

// Chat handles POST /api/chatbot/chat. The chatbot contract is that this
// endpoint always answers 200 with a message; even a malformed body yields
// a readable reply rather than an error envelope.
func (h *ChatbotHandler) Chat(c *gin.Context) {
	var req services.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Malformed chatbot request", "error", err)
		req = services.ChatRequest{}
	}
	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
	}
	resp := h.chatbot.ProcessMessage(c.Request.Context(), req)
	c.JSON(http.StatusOK, resp)
}

// History handles GET /api/chatbot/history/:userId.
func (h *ChatbotHandler) History(c *gin.Context) {
	rows, err := h.chatbot.ConversationHistory(c.Request.Context(), c.Param("userId"))
	if err != nil {
		status, code := statusFor(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, rows)
}

// Session handles GET /api/chatbot/session/:sessionId.
func (h *ChatbotHandler) Session(c *gin.Context) {
	rows, err := h.chatbot.SessionHistory(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		status, code := statusFor(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, rows)
}

// Health handles GET /api/chatbot/health.
func (h *ChatbotHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "chatbot"})
}
