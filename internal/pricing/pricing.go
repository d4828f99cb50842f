package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/andrefarias/pedefacil-backend/pkg/enums"
)

// Input carries everything the quote needs. Coupon and reward fields are
// optional; zero values mean "not applied".
type Input struct {
	Subtotal     decimal.Decimal
	DeliveryType enums.DeliveryType
	Neighborhood string

	CouponType  enums.CouponType
	CouponValue decimal.Decimal
	HasCoupon   bool

	RewardType enums.RewardType
	HasReward  bool
}

// Quote is the fully priced breakdown of a cart.
type Quote struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DeliveryFee    decimal.Decimal `json:"delivery_fee"`
	RewardDiscount decimal.Decimal `json:"reward_discount"`
	CouponDiscount decimal.Decimal `json:"coupon_discount"`

	// StackedDiscount is reward + coupon before clamping. Discount is the
	// value actually charged off, never above Subtotal.
	StackedDiscount decimal.Decimal `json:"stacked_discount"`
	Discount        decimal.Decimal `json:"discount"`

	Total        decimal.Decimal `json:"total"`
	FreeDelivery bool            `json:"free_delivery"`
}

// Compute prices a cart. Free-delivery sources (coupon or reward) zero the fee
// regardless of neighborhood. Percentage discounts round half-up to cents.
func Compute(in Input) Quote {
	q := Quote{
		Subtotal:       in.Subtotal,
		DeliveryFee:    decimal.Zero,
		RewardDiscount: decimal.Zero,
		CouponDiscount: decimal.Zero,
	}

	q.FreeDelivery = (in.HasCoupon && in.CouponType == enums.CouponTypeFreeDelivery) ||
		(in.HasReward && in.RewardType == enums.RewardTypeFreeDelivery)

	if in.DeliveryType == enums.DeliveryTypeDelivery && !q.FreeDelivery {
		if fee, ok := FeeFor(in.Neighborhood); ok {
			q.DeliveryFee = fee
		}
	}

	if in.HasReward {
		if pct := in.RewardType.DiscountPercent(); pct > 0 {
			q.RewardDiscount = percentOf(in.Subtotal, decimal.NewFromInt(int64(pct)))
		}
	}

	if in.HasCoupon {
		switch in.CouponType {
		case enums.CouponTypePercentage:
			q.CouponDiscount = percentOf(in.Subtotal, in.CouponValue)
		case enums.CouponTypeFixed:
			q.CouponDiscount = decimal.Min(in.CouponValue, in.Subtotal)
		}
	}

	q.StackedDiscount = q.RewardDiscount.Add(q.CouponDiscount)
	q.Discount = decimal.Min(q.StackedDiscount, in.Subtotal)
	q.Total = in.Subtotal.Sub(q.Discount).Add(q.DeliveryFee)
	return q
}

// MeetsMinimum reports whether the cart subtotal reaches the store minimum.
func MeetsMinimum(subtotal, minimum decimal.Decimal) bool {
	return subtotal.GreaterThanOrEqual(minimum)
}

func percentOf(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Div(decimal.NewFromInt(100)).Round(2)
}
