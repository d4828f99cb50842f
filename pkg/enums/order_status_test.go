package enums

import "testing"

func TestOrderStatusNext(t *testing.T) {
	t.Parallel()

	steps := map[OrderStatus]OrderStatus{
		OrderStatusSent:       OrderStatusPreparing,
		OrderStatusPreparing:  OrderStatusDelivering,
		OrderStatusDelivering: OrderStatusDelivered,
		OrderStatusDelivered:  OrderStatusCompleted,
	}
	for from, want := range steps {
		next, ok := from.Next()
		if !ok || next != want {
			t.Fatalf("Next(%s) = %s, %v; want %s", from, next, ok, want)
		}
	}

	if _, ok := OrderStatusCompleted.Next(); ok {
		t.Fatal("completed must not advance")
	}
	if _, ok := OrderStatusCancelled.Next(); ok {
		t.Fatal("cancelled must not advance")
	}
}

func TestOrderStatusIsTerminal(t *testing.T) {
	t.Parallel()

	for _, status := range []OrderStatus{OrderStatusSent, OrderStatusPreparing, OrderStatusDelivering, OrderStatusDelivered} {
		if status.IsTerminal() {
			t.Fatalf("%s should not be terminal", status)
		}
	}
	if !OrderStatusCompleted.IsTerminal() || !OrderStatusCancelled.IsTerminal() {
		t.Fatal("completed and cancelled are terminal")
	}
}
