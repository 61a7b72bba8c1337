package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ChatbotConversation is one processed chatbot exchange. Rows are append-only;
// the core never mutates or deletes them.
type ChatbotConversation struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string         `gorm:"column:user_id;size:255;index" json:"userId,omitempty"`
	SessionID   string         `gorm:"column:session_id;size:255;not null;index" json:"sessionId"`
	UserMessage string         `gorm:"column:user_message;type:text;not null" json:"userMessage"`
	BotResponse string         `gorm:"column:bot_response;type:text;not null" json:"botResponse"`
	QueryType   string         `gorm:"column:query_type;size:100" json:"queryType,omitempty"`
	Metadata    datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;index" json:"createdAt"`
}

func (ChatbotConversation) TableName() string { return "chatbot_conversations" }

// ChatbotKnowledgeBase is an admin-curated Q&A entry the matcher scores
// free-text messages against. The core only reads these rows.
type ChatbotKnowledgeBase struct {
	ID       uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Category string         `gorm:"column:category;size:100;not null" json:"category"`
	Question string         `gorm:"column:question;size:500;not null" json:"question"`
	Answer   string         `gorm:"column:answer;type:text;not null" json:"answer"`
	Keywords datatypes.JSON `gorm:"column:keywords" json:"keywords,omitempty"`
	Priority int            `gorm:"column:priority;default:0;index" json:"priority"`
	IsActive *bool          `gorm:"column:is_active" json:"isActive,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (ChatbotKnowledgeBase) TableName() string { return "chatbot_knowledge_base" }

// KeywordList decodes the stored keywords column. A malformed or empty
// column yields an empty list rather than an error.
func (kb *ChatbotKnowledgeBase) KeywordList() []string {
	if len(kb.Keywords) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(kb.Keywords, &out); err != nil {
		return nil
	}
	return out
}
