package app

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	"github.com/patentdesk/backend/internal/data/repos"
	"github.com/patentdesk/backend/internal/domain"
	"github.com/patentdesk/backend/internal/pkg/dbctx"
	"github.com/patentdesk/backend/internal/pkg/logger"
)

type seedEntry struct {
	Category string   `yaml:"category"`
	Question string   `yaml:"question"`
	Answer   string   `yaml:"answer"`
	Keywords []string `yaml:"keywords"`
	Priority int      `yaml:"priority"`
}

type seedFile struct {
	Entries []seedEntry `yaml:"entries"`
}

// seedKnowledgeBase loads the curated Q&A entries on first boot. A populated
// table is left alone so admin edits survive restarts.
func seedKnowledgeBase(ctx context.Context, knowledge repos.KnowledgeRepo, path string, log *logger.Logger) error {
	dbc := dbctx.Context{Ctx: ctx}

	n, err := knowledge.Count(dbc)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Info("Knowledge base already seeded", "entries", n)
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn("Knowledge seed file missing, chatbot knowledge base starts empty", "path", path, "error", err)
		return nil
	}
	var parsed seedFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return err
	}

	active := true
	now := time.Now().UTC()
	rows := make([]*domain.ChatbotKnowledgeBase, 0, len(parsed.Entries))
	for _, e := range parsed.Entries {
		if e.Question == "" || e.Answer == "" {
			continue
		}
		var kw datatypes.JSON
		if len(e.Keywords) > 0 {
			if b, err := json.Marshal(e.Keywords); err == nil {
				kw = datatypes.JSON(b)
			}
		}
		rows = append(rows, &domain.ChatbotKnowledgeBase{
			ID:        uuid.New(),
			Category:  e.Category,
			Question:  e.Question,
			Answer:    e.Answer,
			Keywords:  kw,
			Priority:  e.Priority,
			IsActive:  &active,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	if err := knowledge.Create(dbc, rows); err != nil {
		return err
	}
	log.Info("Knowledge base seeded", "entries", len(rows), "path", path)
	return nil
}
