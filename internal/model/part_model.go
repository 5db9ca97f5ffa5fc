package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Part is a node of the compatibility graph.
type Part struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Category       string         `gorm:"type:varchar(32);not null;uniqueIndex:idx_parts_category_name,priority:1;index:idx_parts_category_price,priority:1"`
	Name           string         `gorm:"type:varchar(255);not null;uniqueIndex:idx_parts_category_name,priority:2"`
	Price          int64          `gorm:"not null;default:0;index:idx_parts_category_price,priority:2"`
	BenchmarkScore float64        `gorm:"not null;default:0"`
	SalesVolume    int64          `gorm:"not null;default:0"`
	Chipset        string         `gorm:"type:varchar(255)"`
	Specs          datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
}

func (Part) TableName() string {
	return "parts"
}

// CompatibilityEdge is a directed relation between two parts, addressed by
// (category, name) on both ends.
type CompatibilityEdge struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	Relation     string `gorm:"type:varchar(50);not null;uniqueIndex:idx_edges_pair,priority:1"`
	FromCategory string `gorm:"type:varchar(32);not null;uniqueIndex:idx_edges_pair,priority:2"`
	FromName     string `gorm:"type:varchar(255);not null;uniqueIndex:idx_edges_pair,priority:3"`
	ToCategory   string `gorm:"type:varchar(32);not null;uniqueIndex:idx_edges_pair,priority:4"`
	ToName       string `gorm:"type:varchar(255);not null;uniqueIndex:idx_edges_pair,priority:5"`
	CreatedAt    time.Time
}

func (CompatibilityEdge) TableName() string {
	return "compatibility_edges"
}
