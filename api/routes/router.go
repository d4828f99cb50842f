package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andrefarias/pedefacil-backend/api/controllers"
	"github.com/andrefarias/pedefacil-backend/api/middleware"
	checkoutsvc "github.com/andrefarias/pedefacil-backend/internal/checkout"
	couponsvc "github.com/andrefarias/pedefacil-backend/internal/coupons"
	loyaltysvc "github.com/andrefarias/pedefacil-backend/internal/loyalty"
	ordersvc "github.com/andrefarias/pedefacil-backend/internal/orders"
	"github.com/andrefarias/pedefacil-backend/pkg/config"
	"github.com/andrefarias/pedefacil-backend/pkg/logger"
	pkgredis "github.com/andrefarias/pedefacil-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger controllers.Pinger,
	redisClient *pkgredis.Client,
	couponService couponsvc.Service,
	loyaltyService loyaltysvc.Service,
	checkoutService checkoutsvc.Service,
	orderService ordersvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	var idemStore pkgredis.IdempotencyStore
	var cachePinger controllers.Pinger
	if redisClient != nil {
		idemStore = redisClient
		cachePinger = redisClient
	}
	r.Use(middleware.Idempotency(idemStore, logg))

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbPinger, cachePinger))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/neighborhoods", controllers.Neighborhoods())

		r.Post("/coupons/validate", controllers.ValidateCoupon(couponService, logg))

		r.Get("/rewards", controllers.ListRewards(loyaltyService, logg))
		r.Post("/loyalty/redeem", controllers.RedeemReward(loyaltyService, logg))
		r.Route("/loyalty/{customerID}", func(r chi.Router) {
			r.Get("/balance", controllers.LoyaltyBalance(loyaltyService, logg))
			r.Get("/history", controllers.LoyaltyHistory(loyaltyService, logg))
			r.Get("/redemptions", controllers.ListPendingRedemptions(loyaltyService, logg))
		})

		r.Post("/checkout", controllers.Checkout(checkoutService, logg))

		r.Get("/orders/{orderID}", controllers.GetOrder(orderService, logg))
		r.Get("/customers/{customerID}/orders", controllers.ListCustomerOrders(orderService, logg))

		r.Route("/admin", func(r chi.Router) {
			r.Route("/coupons", func(r chi.Router) {
				r.Get("/", controllers.AdminListCoupons(couponService, logg))
				r.Post("/", controllers.AdminCreateCoupon(couponService, logg))
				r.Patch("/{couponID}", controllers.AdminUpdateCoupon(couponService, logg))
				r.Delete("/{couponID}", controllers.AdminDeleteCoupon(couponService, logg))
			})

			r.Route("/rewards", func(r chi.Router) {
				r.Get("/", controllers.AdminListRewards(loyaltyService, logg))
				r.Post("/", controllers.AdminCreateReward(loyaltyService, logg))
				r.Put("/{rewardID}", controllers.AdminUpdateReward(loyaltyService, logg))
				r.Delete("/{rewardID}", controllers.AdminDeleteReward(loyaltyService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminListOrders(orderService, logg))
				r.Post("/{orderID}/advance", controllers.AdminAdvanceOrder(orderService, logg))
				r.Post("/{orderID}/cancel", controllers.AdminCancelOrder(orderService, logg))
			})
		})
	})

	return r
}
