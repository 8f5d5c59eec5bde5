package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// PortfolioItem is one indexed row of the portfolio dataset.
type PortfolioItem struct {
	ID        string          `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Skill     string          `gorm:"column:skill;type:text" json:"skill"`
	Link      string          `gorm:"column:link;type:text" json:"link"`
	Tags      pq.StringArray  `gorm:"column:tags;type:text[]" json:"tags"`
	Metadata  datatypes.JSON  `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	Embedding pgvector.Vector `gorm:"column:embedding;type:vector" json:"-"`
	CreatedAt time.Time       `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (PortfolioItem) TableName() string { return "portfolio_items" }

// PortfolioMatch is a lookup hit; lower distance is closer.
type PortfolioMatch struct {
	Skill    string  `json:"skill"`
	Link     string  `json:"link"`
	Distance float64 `json:"distance"`
}
