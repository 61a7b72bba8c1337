package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/patentdesk/backend/internal/http/handlers"
	httpMW "github.com/patentdesk/backend/internal/http/middleware"
	"github.com/patentdesk/backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins string

	HealthHandler    *httpH.HealthHandler
	AuthHandler      *httpH.AuthHandler
	FilingHandler    *httpH.FilingHandler
	ChatbotHandler   *httpH.ChatbotHandler
	PatentsHandler   *httpH.PatentsHandler
	AnalyticsHandler *httpH.AnalyticsHandler

	RequireAdmin gin.HandlerFunc
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")

	if cfg.AuthHandler != nil {
		api.POST("/auth/admin/login", cfg.AuthHandler.AdminLogin)
	}

	if cfg.FilingHandler != nil {
		filings := api.Group("/patent-filing")
		{
			filings.POST("/submit", cfg.FilingHandler.Submit)
			filings.GET("/count", cfg.FilingHandler.Count)
			filings.GET("/count-by-state", cfg.FilingHandler.CountByState)
			filings.GET("/cities-by-state", cfg.FilingHandler.CitiesByState)
			filings.GET("/status-distribution", cfg.FilingHandler.StatusCounts)
			filings.GET("/search/granted-rejected", cfg.FilingHandler.ListGrantedRejected)
			filings.GET("/user/:userId", cfg.FilingHandler.ListByUser)
			filings.GET("/status/:status", cfg.FilingHandler.ListByStatus)
			filings.GET("/:id", cfg.FilingHandler.Get)
			filings.PUT("/:id/message", cfg.FilingHandler.SetMessage)
		}
		// Review console operations.
		admin := api.Group("/patent-filing")
		if cfg.RequireAdmin != nil {
			admin.Use(cfg.RequireAdmin)
		}
		{
			admin.GET("/all", cfg.FilingHandler.List)
			admin.PUT("/:id/status", cfg.FilingHandler.SetStatus)
			admin.PUT("/:id/stages", cfg.FilingHandler.UpdateStages)
			admin.PUT("/:id/reject", cfg.FilingHandler.Reject)
			admin.PUT("/:id/reply", cfg.FilingHandler.SetReply)
			admin.PUT("/:id/activate", cfg.FilingHandler.Activate)
			admin.PUT("/:id/deactivate", cfg.FilingHandler.Deactivate)
		}
	}

	if cfg.ChatbotHandler != nil {
		chatbot := api.Group("/chatbot")
		{
			chatbot.POST("/chat", cfg.ChatbotHandler.Chat)
			chatbot.GET("/history/:userId", cfg.ChatbotHandler.History)
			chatbot.GET("/session/:sessionId", cfg.ChatbotHandler.Session)
			chatbot.GET("/health", cfg.ChatbotHandler.Health)
		}
	}

	if cfg.PatentsHandler != nil {
		patents := api.Group("/patents")
		{
			patents.POST("/search", cfg.PatentsHandler.Search)
			patents.GET("", cfg.PatentsHandler.List)
			patents.GET("/status/:status", cfg.PatentsHandler.ListByStatus)
		}
	}

	if cfg.AnalyticsHandler != nil {
		analytics := api.Group("/analytics")
		{
			analytics.GET("/growth-trend", cfg.AnalyticsHandler.GrowthTrend)
			analytics.POST("/sync", cfg.AnalyticsHandler.Sync)
			if cfg.RequireAdmin != nil {
				analytics.PUT("/today", cfg.RequireAdmin, cfg.AnalyticsHandler.UpdateToday)
			} else {
				analytics.PUT("/today", cfg.AnalyticsHandler.UpdateToday)
			}
		}
	}

	return r
}
