package models

import (
	"time"

	"github.com/google/uuid"
)

// LoyaltyPoint is one signed entry in the customer's point ledger. Positive
// entries are awarded per completed order; negative entries debit a reward
// redemption. The balance is the sum of all entries.
type LoyaltyPoint struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID  uuid.UUID  `gorm:"column:customer_id;type:uuid;not null;index"`
	OrderID     *uuid.UUID `gorm:"column:order_id;type:uuid"`
	Points      int        `gorm:"column:points;not null"`
	Description string     `gorm:"column:description;not null;default:''"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
}
