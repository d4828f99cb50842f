package enums

import "fmt"

// OrderStatus tracks the lifecycle of a customer order. Statuses only move
// forward one step at a time; cancelled is reachable from any non-terminal
// state.
type OrderStatus string

const (
	OrderStatusSent       OrderStatus = "sent"
	OrderStatusPreparing  OrderStatus = "preparing"
	OrderStatusDelivering OrderStatus = "delivering"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var orderStatusFlow = []OrderStatus{
	OrderStatusSent,
	OrderStatusPreparing,
	OrderStatusDelivering,
	OrderStatusDelivered,
	OrderStatusCompleted,
}

var validOrderStatuses = append(orderStatusFlow, OrderStatusCancelled)

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the order can no longer change status.
func (o OrderStatus) IsTerminal() bool {
	return o == OrderStatusCompleted || o == OrderStatusCancelled
}

// Next returns the following status in the forward progression. The second
// return is false when the status is terminal or unknown.
func (o OrderStatus) Next() (OrderStatus, bool) {
	for i, candidate := range orderStatusFlow {
		if candidate == o && i < len(orderStatusFlow)-1 {
			return orderStatusFlow[i+1], true
		}
	}
	return "", false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
