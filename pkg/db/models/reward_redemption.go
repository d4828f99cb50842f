package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/andrefarias/pedefacil-backend/pkg/enums"
)

// RewardRedemption records a customer's exchange of points for a reward. It is
// created pending and flips to used exactly once, when a checkout that
// selected it is confirmed.
type RewardRedemption struct {
	ID          uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID  uuid.UUID              `gorm:"column:customer_id;type:uuid;not null;index"`
	RewardID    uuid.UUID              `gorm:"column:reward_id;type:uuid;not null"`
	PointsSpent int                    `gorm:"column:points_spent;not null"`
	Status      enums.RedemptionStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	Reward      *Reward                `gorm:"foreignKey:RewardID"`
	CreatedAt   time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
