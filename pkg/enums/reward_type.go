package enums

import "fmt"

// RewardType classifies what a loyalty reward grants at checkout.
type RewardType string

const (
	RewardTypeFreeDelivery RewardType = "free_delivery"
	RewardTypeFreeItem     RewardType = "free_item"
	RewardTypeDiscount10   RewardType = "discount_10"
	RewardTypeDiscount20   RewardType = "discount_20"
	RewardTypeDiscount50   RewardType = "discount_50"
	RewardTypeCustom       RewardType = "custom"
)

var validRewardTypes = []RewardType{
	RewardTypeFreeDelivery,
	RewardTypeFreeItem,
	RewardTypeDiscount10,
	RewardTypeDiscount20,
	RewardTypeDiscount50,
	RewardTypeCustom,
}

// String implements fmt.Stringer.
func (r RewardType) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RewardType.
func (r RewardType) IsValid() bool {
	for _, candidate := range validRewardTypes {
		if candidate == r {
			return true
		}
	}
	return false
}

// DiscountPercent returns the subtotal percentage the reward grants.
// Non-discount rewards (free delivery, free item, custom) return zero.
func (r RewardType) DiscountPercent() int {
	switch r {
	case RewardTypeDiscount10:
		return 10
	case RewardTypeDiscount20:
		return 20
	case RewardTypeDiscount50:
		return 50
	}
	return 0
}

// ParseRewardType converts raw input into a RewardType.
func ParseRewardType(value string) (RewardType, error) {
	for _, candidate := range validRewardTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid reward type %q", value)
}
