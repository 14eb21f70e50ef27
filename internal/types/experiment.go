package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ExperimentStatus string

const (
	ExperimentStatusRunning   ExperimentStatus = "running"
	ExperimentStatusCompleted ExperimentStatus = "completed"
	ExperimentStatusFailed    ExperimentStatus = "failed"
)

func ParseExperimentStatus(s string) (ExperimentStatus, error) {
	switch ExperimentStatus(s) {
	case ExperimentStatusRunning, ExperimentStatusCompleted, ExperimentStatusFailed:
		return ExperimentStatus(s), nil
	}
	return "", fmt.Errorf("unknown experiment status %q", s)
}

type Experiment struct {
	ID              uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID          uuid.UUID         `gorm:"type:uuid;column:user_id;not null;index" json:"user_id"`
	Name            string            `gorm:"column:name;not null" json:"name"`
	DatasetID       *uuid.UUID        `gorm:"type:uuid;column:dataset_id;index" json:"dataset_id,omitempty"`
	ModelID         *uuid.UUID        `gorm:"type:uuid;column:model_id;index" json:"model_id,omitempty"`
	Accuracy        *float64          `gorm:"column:accuracy" json:"accuracy,omitempty"`
	F1Score         *float64          `gorm:"column:f1_score" json:"f1_score,omitempty"`
	DurationSeconds *int              `gorm:"column:duration_seconds" json:"duration_seconds,omitempty"`
	Status          ExperimentStatus  `gorm:"column:status" json:"status,omitempty"`
	Hyperparameters datatypes.JSONMap `gorm:"column:hyperparameters;type:jsonb" json:"hyperparameters,omitempty"`
	CreatedAt       time.Time         `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"not null;default:now()" json:"updated_at"`
}

func (Experiment) TableName() string { return "experiments" }
