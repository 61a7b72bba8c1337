package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/patentdesk/backend/internal/domain"
	"github.com/patentdesk/backend/internal/pkg/logger"
	"github.com/patentdesk/backend/internal/utils"
)

// Service owns the GORM handle. DB_DRIVER selects the backend: "postgres"
// (default) for normal deployments, "sqlite" for single-node installs and
// local development without a database server.
type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewService(log *logger.Logger) (*Service, error) {
	serviceLog := log.With("service", "DBService")

	driver := strings.ToLower(utils.GetEnv("DB_DRIVER", "postgres", log))

	var (
		gdb *gorm.DB
		err error
	)
	switch driver {
	case "sqlite":
		path := utils.GetEnv("SQLITE_PATH", "patentdesk.db", log)
		serviceLog.Info("Opening sqlite database", "path", path)
		gdb, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	case "postgres":
		host := utils.GetEnv("POSTGRES_HOST", "localhost", log)
		port := utils.GetEnv("POSTGRES_PORT", "5432", log)
		user := utils.GetEnv("POSTGRES_USER", "postgres", log)
		password := utils.GetEnv("POSTGRES_PASSWORD", "", log)
		name := utils.GetEnv("POSTGRES_NAME", "patentdesk", log)
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)
		serviceLog.Info("Connecting to Postgres", "host", host, "db", name)
		gdb, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
		})
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", driver)
	}
	if err != nil {
		serviceLog.Error("Failed to open database", "driver", driver, "error", err)
		return nil, fmt.Errorf("open database (%s): %w", driver, err)
	}

	return &Service{db: gdb, log: serviceLog}, nil
}

func (s *Service) DB() *gorm.DB { return s.db }

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	err := s.db.AutoMigrate(
		&domain.PatentFiling{},
		&domain.ChatbotConversation{},
		&domain.ChatbotKnowledgeBase{},
		&domain.DailyAnalytics{},
		&domain.CachedPatent{},
	)
	if err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	s.log.Info("Auto migration complete")
	return nil
}
