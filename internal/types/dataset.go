package types

import (
	"time"

	"github.com/google/uuid"
)

type Dataset struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;column:user_id;not null;index" json:"user_id"`
	Name         string    `gorm:"column:name;not null" json:"name"`
	Description  *string   `gorm:"column:description" json:"description,omitempty"`
	Format       *string   `gorm:"column:format" json:"format,omitempty"`
	SizeBytes    *int64    `gorm:"column:size_bytes" json:"size_bytes,omitempty"`
	QualityScore *int      `gorm:"column:quality_score" json:"quality_score,omitempty"`
	FileURL      *string   `gorm:"column:file_url" json:"file_url,omitempty"`
	Version      *string   `gorm:"column:version" json:"version,omitempty"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Dataset) TableName() string { return "datasets" }
