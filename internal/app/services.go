package app

import (
	"gorm.io/gorm"

	"github.com/patentdesk/backend/internal/clients/identity"
	"github.com/patentdesk/backend/internal/clients/patentsearch"
	"github.com/patentdesk/backend/internal/pkg/logger"
	"github.com/patentdesk/backend/internal/platform/cache"
	"github.com/patentdesk/backend/internal/platform/mailer"
	"github.com/patentdesk/backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	Filing       services.FilingService
	Chatbot      services.ChatbotService
	Analytics    services.AnalyticsService
	PatentSearch services.PatentSearchService
}

func wireServices(db *gorm.DB, log *logger.Logger, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	mailClient, err := mailer.NewFromEnv(log)
	if err != nil {
		log.Warn("Mailer unavailable, decision emails disabled", "error", err)
		mailClient = nil
	}
	notifier := services.NewFilingNotifier(mailClient, log)

	identityClient := identity.NewHTTPClient(log)
	searchClient := patentsearch.NewHTTPClient(log)
	cacheClient := cache.New(log)

	return Services{
		Auth:    services.NewAuthService(log),
		Filing:  services.NewFilingService(db, reposet.Filings, notifier, log),
		Chatbot: services.NewChatbotService(reposet.Knowledge, reposet.Conversations, reposet.Filings, identityClient, log),
		Analytics: services.NewAnalyticsService(
			db, reposet.Analytics, reposet.Filings, reposet.PatentCache, identityClient, cacheClient, log),
		PatentSearch: services.NewPatentSearchService(reposet.PatentCache, searchClient, log),
	}, nil
}
