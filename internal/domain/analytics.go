package domain

import (
	"time"

	"github.com/google/uuid"
)

// DailyAnalytics is one day's rollup of platform-wide totals, written by the
// analytics service and trimmed by the retention worker.
type DailyAnalytics struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MetricDate    time.Time `gorm:"column:metric_date;not null;uniqueIndex" json:"metricDate"`
	TotalUsers    int       `gorm:"column:total_users" json:"totalUsers"`
	TotalPatents  int       `gorm:"column:total_patents" json:"totalPatents"`
	TotalFilings  int       `gorm:"column:total_filings" json:"totalFilings"`
	CreatedAt     time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"not null" json:"updatedAt"`
}

func (DailyAnalytics) TableName() string { return "daily_analytics" }

// CachedPatent is an external search result persisted locally so repeat
// lookups skip the upstream API.
type CachedPatent struct {
	ID           string     `gorm:"primaryKey;size:100" json:"id"`
	Title        string     `gorm:"column:title;size:500" json:"title"`
	AbstractText string     `gorm:"column:abstract_text;type:text" json:"abstractText,omitempty"`
	Assignee     string     `gorm:"column:assignee;size:300" json:"assignee,omitempty"`
	Inventor     string     `gorm:"column:inventor;size:300" json:"inventor,omitempty"`
	Jurisdiction string     `gorm:"column:jurisdiction;size:100" json:"jurisdiction,omitempty"`
	AssetNumber  string     `gorm:"column:asset_number;size:100" json:"assetNumber,omitempty"`
	Status       string     `gorm:"column:status;size:50;index" json:"status,omitempty"`
	FilingDate   *time.Time `gorm:"column:filing_date" json:"filingDate,omitempty"`
	SearchQuery  string     `gorm:"column:search_query;size:500;index" json:"searchQuery,omitempty"`
	CreatedAt    time.Time  `gorm:"not null" json:"createdAt"`
}

func (CachedPatent) TableName() string { return "cached_patents" }
