package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/andrefarias/pedefacil-backend/pkg/enums"
)

// Coupon is an admin-issued discount code. Codes are stored upper-cased and
// trimmed; UsedBy holds the digits-only phone numbers that already redeemed
// the coupon (set semantics, one entry per phone).
type Coupon struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code      string           `gorm:"column:code;not null;uniqueIndex"`
	Type      enums.CouponType `gorm:"column:type;type:text;not null"`
	Value     decimal.Decimal  `gorm:"column:value;type:numeric(12,2);not null;default:0"`
	IsActive  bool             `gorm:"column:is_active;not null;default:true"`
	ExpiresAt *time.Time       `gorm:"column:expires_at"`
	UsedBy    pq.StringArray   `gorm:"column:used_by;type:text[]"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
