package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records storefront checkout outcomes.
type CheckoutMetrics struct {
	ordersPlaced    *prometheus.CounterVec
	checkoutFailed  *prometheus.CounterVec
	couponsRedeemed prometheus.Counter
	orderTotal      prometheus.Histogram
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	ordersPlaced := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders successfully placed, by delivery type.",
	}, []string{"delivery_type"})
	checkoutFailed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failed_total",
		Help: "Checkout attempts rejected, by error code.",
	}, []string{"code"})
	couponsRedeemed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coupons_redeemed_total",
		Help: "Coupons consumed by confirmed checkouts.",
	})
	orderTotal := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_total_brl",
		Help:    "Final order totals in BRL.",
		Buckets: []float64{25, 40, 60, 80, 100, 150, 250},
	})
	reg.MustRegister(ordersPlaced, checkoutFailed, couponsRedeemed, orderTotal)
	return &CheckoutMetrics{
		ordersPlaced:    ordersPlaced,
		checkoutFailed:  checkoutFailed,
		couponsRedeemed: couponsRedeemed,
		orderTotal:      orderTotal,
	}
}

// ObserveOrder records a placed order and its final total.
func (c *CheckoutMetrics) ObserveOrder(deliveryType string, total float64) {
	if c == nil || c.ordersPlaced == nil {
		return
	}
	c.ordersPlaced.WithLabelValues(normalizeLabel(deliveryType)).Inc()
	c.orderTotal.Observe(total)
}

// IncFailure increments the failure counter for the given error code.
func (c *CheckoutMetrics) IncFailure(code string) {
	if c == nil || c.checkoutFailed == nil {
		return
	}
	c.checkoutFailed.WithLabelValues(normalizeLabel(code)).Inc()
}

// IncCouponRedeemed counts a coupon consumed at checkout.
func (c *CheckoutMetrics) IncCouponRedeemed() {
	if c == nil || c.couponsRedeemed == nil {
		return
	}
	c.couponsRedeemed.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
