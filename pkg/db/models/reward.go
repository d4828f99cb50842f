package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/andrefarias/pedefacil-backend/pkg/enums"
)

// Reward is a loyalty catalog entry customers exchange points for.
type Reward struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string           `gorm:"column:name;not null"`
	Description    string           `gorm:"column:description;not null;default:''"`
	PointsRequired int              `gorm:"column:points_required;not null"`
	RewardType     enums.RewardType `gorm:"column:reward_type;type:text;not null"`
	IsActive       bool             `gorm:"column:is_active;not null;default:true"`
	ImageURL       *string          `gorm:"column:image_url"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
