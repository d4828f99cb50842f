package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerOrderItem snapshots one cart line inside an order. Extras is the
// flattened, comma-joined description of add-ons ("Batata, Coca-Cola,
// 2x Bacon") the kitchen printout and the WhatsApp message consume.
type CustomerOrderItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductName string          `gorm:"column:product_name;not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Extras      *string         `gorm:"column:extras"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}
