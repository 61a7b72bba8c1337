package app

import (
	"gorm.io/gorm"

	"github.com/patentdesk/backend/internal/data/repos"
	"github.com/patentdesk/backend/internal/pkg/logger"
)

type Repos struct {
	Filings       repos.FilingRepo
	Conversations repos.ConversationRepo
	Knowledge     repos.KnowledgeRepo
	Analytics     repos.AnalyticsRepo
	PatentCache   repos.PatentCacheRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Filings:       repos.NewFilingRepo(db, log),
		Conversations: repos.NewConversationRepo(db, log),
		Knowledge:     repos.NewKnowledgeRepo(db, log),
		Analytics:     repos.NewAnalyticsRepo(db, log),
		PatentCache:   repos.NewPatentCacheRepo(db, log),
	}
}
