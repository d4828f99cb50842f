package checkout

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/andrefarias/pedefacil-backend/internal/coupons"
	"github.com/andrefarias/pedefacil-backend/internal/notify"
	"github.com/andrefarias/pedefacil-backend/internal/orders"
	"github.com/andrefarias/pedefacil-backend/internal/pricing"
	"github.com/andrefarias/pedefacil-backend/pkg/config"
	"github.com/andrefarias/pedefacil-backend/pkg/db/models"
	"github.com/andrefarias/pedefacil-backend/pkg/enums"
	pkgerrors "github.com/andrefarias/pedefacil-backend/pkg/errors"
	"github.com/andrefarias/pedefacil-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// couponGate validates and burns coupon codes.
type couponGate interface {
	Validate(ctx context.Context, code, phone string) (*models.Coupon, error)
	MarkUsed(ctx context.Context, tx *gorm.DB, code, phone string) error
}

// redemptionConsumer flips a pending reward redemption to used.
type redemptionConsumer interface {
	Consume(ctx context.Context, tx *gorm.DB, redemptionID, customerID uuid.UUID) (*models.RewardRedemption, error)
}

// AddonInput is a paid extra attached to one order line. Quantity is per unit
// of the parent item.
type AddonInput struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// ItemInput is one cart line. UnitPrice is the base per-unit price; addons are
// priced separately and never folded into it.
type ItemInput struct {
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	AddFries    bool
	Drink       string
	Addons      []AddonInput
}

// Input is the confirmed cart as submitted by the storefront.
type Input struct {
	CustomerID     *uuid.UUID
	CustomerName   string
	CustomerPhone  string
	DeliveryType   enums.DeliveryType
	Address        string
	ReferencePoint string
	Neighborhood   string
	PaymentMethod  enums.PaymentMethod
	Observation    string
	CouponCode     string
	RedemptionID   *uuid.UUID
	Items          []ItemInput
}

// Receipt is what the storefront renders after a successful checkout.
type Receipt struct {
	Order        *models.CustomerOrder
	Quote        pricing.Quote
	Message      string
	WhatsAppLink string
}

// Service confirms carts into persisted orders.
type Service interface {
	Execute(ctx context.Context, input Input) (*Receipt, error)
}

type service struct {
	tx         txRunner
	orderRepo  orders.Repository
	coupons    couponGate
	redemption redemptionConsumer
	store      config.StoreConfig
	metrics    *metrics.CheckoutMetrics
	orderNum   func() int
}

// NewService builds the checkout service. metrics may be nil in tests.
func NewService(
	tx txRunner,
	orderRepo orders.Repository,
	couponSvc couponGate,
	redemption redemptionConsumer,
	store config.StoreConfig,
	checkoutMetrics *metrics.CheckoutMetrics,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("order repository is required")
	}
	if couponSvc == nil {
		return nil, fmt.Errorf("coupon service is required")
	}
	if redemption == nil {
		return nil, fmt.Errorf("redemption consumer is required")
	}
	return &service{
		tx:         tx,
		orderRepo:  orderRepo,
		coupons:    couponSvc,
		redemption: redemption,
		store:      store,
		metrics:    checkoutMetrics,
		orderNum:   randomOrderNumber,
	}, nil
}

// Execute validates the cart, prices it, and persists the order. The coupon
// burn, the redemption consumption, and the order insert share one
// transaction: either the whole checkout lands or none of it does.
func (s *service) Execute(ctx context.Context, input Input) (*Receipt, error) {
	receipt, err := s.execute(ctx, input)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncFailure(string(pkgerrors.As(err).Code()))
		}
		return nil, err
	}
	if s.metrics != nil {
		total, _ := receipt.Quote.Total.Float64()
		s.metrics.ObserveOrder(input.DeliveryType.String(), total)
		if input.CouponCode != "" {
			s.metrics.IncCouponRedeemed()
		}
	}
	return receipt, nil
}

func (s *service) execute(ctx context.Context, input Input) (*Receipt, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	itemCount := 0
	for _, item := range input.Items {
		subtotal = subtotal.Add(lineTotal(item))
		itemCount += item.Quantity
	}

	minimum := s.store.MinimumOrderAmount()
	if !pricing.MeetsMinimum(subtotal, minimum) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order below the store minimum").
			WithDetails(map[string]any{"subtotal": subtotal, "minimum": minimum})
	}

	var coupon *models.Coupon
	if input.CouponCode != "" {
		var err error
		coupon, err = s.coupons.Validate(ctx, input.CouponCode, input.CustomerPhone)
		if err != nil {
			return nil, err
		}
	}

	var (
		receipt Receipt
		order   *models.CustomerOrder
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var redemption *models.RewardRedemption
		if input.RedemptionID != nil {
			var err error
			redemption, err = s.redemption.Consume(ctx, tx, *input.RedemptionID, *input.CustomerID)
			if err != nil {
				return err
			}
		}

		quoteInput := pricing.Input{
			Subtotal:     subtotal,
			DeliveryType: input.DeliveryType,
			Neighborhood: input.Neighborhood,
		}
		if coupon != nil {
			quoteInput.HasCoupon = true
			quoteInput.CouponType = coupon.Type
			quoteInput.CouponValue = coupon.Value
		}
		if redemption != nil && redemption.Reward != nil {
			quoteInput.HasReward = true
			quoteInput.RewardType = redemption.Reward.RewardType
		}
		quote := pricing.Compute(quoteInput)

		if coupon != nil {
			if err := s.coupons.MarkUsed(ctx, tx, coupon.Code, input.CustomerPhone); err != nil {
				return err
			}
		}

		order = buildOrder(input, quote, itemCount, s.orderNum())
		if coupon != nil {
			order.CouponCode = &coupon.Code
		}
		if _, err := s.orderRepo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persisting order")
		}

		receipt.Quote = quote
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "confirming checkout")
	}

	receipt.Order = order
	receipt.Message = notify.ComposeOrderMessage(messageOrder(input, order, receipt.Quote))
	receipt.WhatsAppLink = notify.Link(s.store.WhatsAppNumber, receipt.Message)
	return &receipt, nil
}

func validateInput(input Input) error {
	if strings.TrimSpace(input.CustomerName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if len(coupons.NormalizePhone(input.CustomerPhone)) != 11 {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone must have 11 digits (DDD + number)")
	}
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	for _, item := range input.Items {
		if strings.TrimSpace(item.ProductName) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
		}
		if item.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		if item.UnitPrice.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "item price cannot be negative")
		}
		for _, addon := range item.Addons {
			if strings.TrimSpace(addon.Name) == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "addon name is required")
			}
			if addon.Quantity <= 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "addon quantity must be positive")
			}
			if addon.UnitPrice.IsNegative() {
				return pkgerrors.New(pkgerrors.CodeValidation, "addon price cannot be negative")
			}
		}
	}
	if !input.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}
	if !input.DeliveryType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown delivery type")
	}
	if input.DeliveryType == enums.DeliveryTypeDelivery {
		if strings.TrimSpace(input.Address) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "delivery requires an address")
		}
		if _, ok := pricing.FeeFor(input.Neighborhood); !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown delivery neighborhood")
		}
	}
	if input.RedemptionID != nil && input.CustomerID == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "reward redemption requires a signed-in customer")
	}
	return nil
}

func buildOrder(input Input, quote pricing.Quote, itemCount, orderNumber int) *models.CustomerOrder {
	order := &models.CustomerOrder{
		OrderNumber:   orderNumber,
		CustomerID:    input.CustomerID,
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerPhone: coupons.NormalizePhone(input.CustomerPhone),
		DeliveryType:  input.DeliveryType,
		DeliveryFee:   quote.DeliveryFee,
		Subtotal:      quote.Subtotal,
		Discount:      quote.Discount,
		Total:         quote.Total,
		PaymentMethod: input.PaymentMethod,
		Status:        enums.OrderStatusSent,
		ItemCount:     itemCount,
	}
	if input.DeliveryType == enums.DeliveryTypeDelivery {
		order.Address = optional(input.Address)
		order.ReferencePoint = optional(input.ReferencePoint)
		order.Neighborhood = optional(input.Neighborhood)
	}
	order.Observation = optional(input.Observation)

	for _, item := range input.Items {
		line := models.CustomerOrderItem{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
		if extras := flattenExtras(item); extras != "" {
			line.Extras = &extras
		}
		order.Items = append(order.Items, line)
	}
	return order
}

// lineTotal prices one cart line server-side: the base unit price plus the
// per-unit addon cost, times the line quantity. The persisted unit_price stays
// the base price, so row price * quantity intentionally excludes addons.
func lineTotal(item ItemInput) decimal.Decimal {
	perUnit := item.UnitPrice
	for _, addon := range item.Addons {
		perUnit = perUnit.Add(addon.UnitPrice.Mul(decimal.NewFromInt(int64(addon.Quantity))))
	}
	return perUnit.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// flattenExtras keeps the storefront's legacy comma-joined extras column:
// fries, then the drink, then "Nx Addon" for each paid addon.
func flattenExtras(item ItemInput) string {
	var parts []string
	if item.AddFries {
		parts = append(parts, "Batata")
	}
	if item.Drink != "" {
		parts = append(parts, item.Drink)
	}
	for _, addon := range item.Addons {
		parts = append(parts, fmt.Sprintf("%dx %s", addon.Quantity, addon.Name))
	}
	return strings.Join(parts, ", ")
}

func messageOrder(input Input, order *models.CustomerOrder, quote pricing.Quote) notify.Order {
	msg := notify.Order{
		Number:         order.OrderNumber,
		CustomerName:   order.CustomerName,
		CustomerPhone:  order.CustomerPhone,
		PaymentMethod:  order.PaymentMethod,
		CouponDiscount: quote.CouponDiscount,
		DeliveryType:   order.DeliveryType,
		DeliveryFee:    order.DeliveryFee,
		Address:        input.Address,
		ReferencePoint: input.ReferencePoint,
		Observation:    input.Observation,
		Total:          order.Total,
	}
	if order.CouponCode != nil {
		msg.CouponCode = *order.CouponCode
	}
	for _, item := range input.Items {
		line := notify.Item{Name: item.ProductName, Quantity: item.Quantity}
		if item.AddFries {
			line.Extras = append(line.Extras, "🍟 Batata")
		}
		if item.Drink != "" {
			line.Extras = append(line.Extras, "🥤 "+item.Drink)
		}
		for _, addon := range item.Addons {
			line.Addons = append(line.Addons, fmt.Sprintf("%dx %s", addon.Quantity, addon.Name))
		}
		msg.Items = append(msg.Items, line)
	}
	return msg
}

// randomOrderNumber yields the 5-digit human-facing order number.
func randomOrderNumber() int {
	return rand.Intn(90000) + 10000
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
