package app

import (
	"github.com/gin-gonic/gin"

	internalhttp "github.com/patentdesk/backend/internal/http"
	httpH "github.com/patentdesk/backend/internal/http/handlers"
	httpMW "github.com/patentdesk/backend/internal/http/middleware"
	"github.com/patentdesk/backend/internal/pkg/logger"
)

type Handlers struct {
	Health    *httpH.HealthHandler
	Auth      *httpH.AuthHandler
	Filing    *httpH.FilingHandler
	Chatbot   *httpH.ChatbotHandler
	Patents   *httpH.PatentsHandler
	Analytics *httpH.AnalyticsHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    httpH.NewHealthHandler(),
		Auth:      httpH.NewAuthHandler(serviceset.Auth, log),
		Filing:    httpH.NewFilingHandler(serviceset.Filing, log),
		Chatbot:   httpH.NewChatbotHandler(serviceset.Chatbot, log),
		Patents:   httpH.NewPatentsHandler(serviceset.PatentSearch, log),
		Analytics: httpH.NewAnalyticsHandler(serviceset.Analytics, log),
	}
}

func wireRouter(log *logger.Logger, cfg Config, handlerset Handlers, requireAdmin gin.HandlerFunc) *gin.Engine {
	return internalhttp.NewRouter(internalhttp.RouterConfig{
		Log:         log,
		ServiceName: "patentdesk-backend",
		CORSOrigins: cfg.CORSOrigins,

		HealthHandler:    handlerset.Health,
		AuthHandler:      handlerset.Auth,
		FilingHandler:    handlerset.Filing,
		ChatbotHandler:   handlerset.Chatbot,
		PatentsHandler:   handlerset.Patents,
		AnalyticsHandler: handlerset.Analytics,

		RequireAdmin: requireAdmin,
	})
}

func wireMiddleware(serviceset Services) gin.HandlerFunc {
	return httpMW.RequireAdmin(serviceset.Auth)
}
