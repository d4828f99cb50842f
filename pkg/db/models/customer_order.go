package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andrefarias/pedefacil-backend/pkg/enums"
)

// CustomerOrder is the persisted order header. CustomerID is nil for guest
// checkouts. Money invariant: Total = Subtotal - Discount + DeliveryFee, with
// Discount capped at Subtotal.
type CustomerOrder struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber    int                 `gorm:"column:order_number;not null"`
	CustomerID     *uuid.UUID          `gorm:"column:customer_id;type:uuid;index"`
	CustomerName   string              `gorm:"column:customer_name;not null"`
	CustomerPhone  string              `gorm:"column:customer_phone;not null"`
	DeliveryType   enums.DeliveryType  `gorm:"column:delivery_type;type:text;not null"`
	Address        *string             `gorm:"column:address"`
	ReferencePoint *string             `gorm:"column:reference_point"`
	Neighborhood   *string             `gorm:"column:neighborhood"`
	DeliveryFee    decimal.Decimal     `gorm:"column:delivery_fee;type:numeric(12,2);not null;default:0"`
	Subtotal       decimal.Decimal     `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Discount       decimal.Decimal     `gorm:"column:discount;type:numeric(12,2);not null;default:0"`
	CouponCode     *string             `gorm:"column:coupon_code"`
	Total          decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null"`
	PaymentMethod  enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	Observation    *string             `gorm:"column:observation"`
	Status         enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'sent';index"`
	ItemCount      int                 `gorm:"column:item_count;not null"`
	Items          []CustomerOrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
