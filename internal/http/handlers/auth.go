package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/patentdesk/backend/internal/http/response"
	pkgerrors "github.com/patentdesk/backend/internal/pkg/errors"
	"github.com/patentdesk/backend/internal/pkg/logger"
	"github.com/patentdesk/backend/internal/services"
)

type AuthHandler struct {
	auth services.AuthService
	log  *logger.Logger
}

func NewAuthHandler(auth services.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log.With("handler", "AuthHandler")}
}

// AdminLogin handles POST /api/auth/admin/login.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_BODY", err)
		return
	}
	token, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", pkgerrors.ErrUnauthorized)
		return
	}
	response.RespondOK(c, gin.H{"token": token})
}
