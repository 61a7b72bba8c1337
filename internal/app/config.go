package app

import (
	"github.com/patentdesk/backend/internal/pkg/logger"
	"github.com/patentdesk/backend/internal/utils"
)

type Config struct {
	Addr         string
	Environment  string
	Version      string
	CORSOrigins  string
	SeedFilePath string
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Addr:         ":" + utils.GetEnv("PORT", "8080", log),
		Environment:  utils.GetEnv("ENVIRONMENT", "development", log),
		Version:      utils.GetEnv("SERVICE_VERSION", "dev", log),
		CORSOrigins:  utils.GetEnv("CORS_ORIGINS", "", log),
		SeedFilePath: utils.GetEnv("KNOWLEDGE_SEED_PATH", "config/knowledge_seed.yaml", log),
	}
}
