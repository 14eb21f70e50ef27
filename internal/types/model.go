package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ModelStatus is a closed enumeration; unrecognized values are rejected at
// the entity boundary instead of being rendered blindly.
type ModelStatus string

const (
	ModelStatusTraining ModelStatus = "training"
	ModelStatusReady    ModelStatus = "ready"
	ModelStatusDeployed ModelStatus = "deployed"
	ModelStatusRetired  ModelStatus = "retired"
)

func ParseModelStatus(s string) (ModelStatus, error) {
	switch ModelStatus(s) {
	case ModelStatusTraining, ModelStatusReady, ModelStatusDeployed, ModelStatusRetired:
		return ModelStatus(s), nil
	}
	return "", fmt.Errorf("unknown model status %q", s)
}

type Model struct {
	ID        uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID   `gorm:"type:uuid;column:user_id;not null;index" json:"user_id"`
	Name      string      `gorm:"column:name;not null" json:"name"`
	Type      *string     `gorm:"column:type" json:"type,omitempty"`
	Accuracy  *float64    `gorm:"column:accuracy" json:"accuracy,omitempty"`
	F1Score   *float64    `gorm:"column:f1_score" json:"f1_score,omitempty"`
	ROCAUC    *float64    `gorm:"column:roc_auc" json:"roc_auc,omitempty"`
	Status    ModelStatus `gorm:"column:status" json:"status,omitempty"`
	TrainTime *string     `gorm:"column:train_time" json:"train_time,omitempty"`
	CreatedAt time.Time   `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time   `gorm:"not null;default:now()" json:"updated_at"`
}

func (Model) TableName() string { return "models" }
