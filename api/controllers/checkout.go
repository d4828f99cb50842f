package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andrefarias/pedefacil-backend/api/responses"
	"github.com/andrefarias/pedefacil-backend/api/validators"
	checkoutsvc "github.com/andrefarias/pedefacil-backend/internal/checkout"
	"github.com/andrefarias/pedefacil-backend/pkg/enums"
	pkgerrors "github.com/andrefarias/pedefacil-backend/pkg/errors"
	"github.com/andrefarias/pedefacil-backend/pkg/logger"
)

type checkoutAddonRequest struct {
	Name      string          `json:"name" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type checkoutItemRequest struct {
	ProductName string                 `json:"product_name" validate:"required"`
	Quantity    int                    `json:"quantity" validate:"required,gt=0"`
	UnitPrice   decimal.Decimal        `json:"unit_price" validate:"required"`
	AddFries    bool                   `json:"add_fries"`
	Drink       string                 `json:"drink,omitempty"`
	Addons      []checkoutAddonRequest `json:"addons,omitempty" validate:"dive"`
}

type checkoutRequest struct {
	CustomerID     *uuid.UUID            `json:"customer_id,omitempty"`
	CustomerName   string                `json:"customer_name" validate:"required"`
	CustomerPhone  string                `json:"customer_phone" validate:"required"`
	DeliveryType   string                `json:"delivery_type" validate:"required,oneof=delivery pickup"`
	Address        string                `json:"address,omitempty"`
	ReferencePoint string                `json:"reference_point,omitempty"`
	Neighborhood   string                `json:"neighborhood,omitempty"`
	PaymentMethod  string                `json:"payment_method" validate:"required,oneof=cartao dinheiro pix"`
	Observation    string                `json:"observation,omitempty"`
	CouponCode     string                `json:"coupon_code,omitempty"`
	RedemptionID   *uuid.UUID            `json:"redemption_id,omitempty"`
	Items          []checkoutItemRequest `json:"items" validate:"required,min=1,dive"`
}

type checkoutResponse struct {
	OrderID      string          `json:"order_id"`
	OrderNumber  int             `json:"order_number"`
	Status       string          `json:"status"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	DeliveryFee  decimal.Decimal `json:"delivery_fee"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
	FreeDelivery bool            `json:"free_delivery"`
	Message      string          `json:"message"`
	WhatsAppLink string          `json:"whatsapp_link"`
}

// Checkout confirms the submitted cart into a persisted order and returns the
// WhatsApp hand-off.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deliveryType, err := enums.ParseDeliveryType(payload.DeliveryType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown delivery type"))
			return
		}
		paymentMethod, err := enums.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown payment method"))
			return
		}

		input := checkoutsvc.Input{
			CustomerID:     payload.CustomerID,
			CustomerName:   payload.CustomerName,
			CustomerPhone:  payload.CustomerPhone,
			DeliveryType:   deliveryType,
			Address:        payload.Address,
			ReferencePoint: payload.ReferencePoint,
			Neighborhood:   payload.Neighborhood,
			PaymentMethod:  paymentMethod,
			Observation:    payload.Observation,
			CouponCode:     payload.CouponCode,
			RedemptionID:   payload.RedemptionID,
		}
		for _, item := range payload.Items {
			line := checkoutsvc.ItemInput{
				ProductName: item.ProductName,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				AddFries:    item.AddFries,
				Drink:       item.Drink,
			}
			for _, addon := range item.Addons {
				line.Addons = append(line.Addons, checkoutsvc.AddonInput{
					Name:      addon.Name,
					Quantity:  addon.Quantity,
					UnitPrice: addon.UnitPrice,
				})
			}
			input.Items = append(input.Items, line)
		}

		receipt, err := svc.Execute(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutResponse{
			OrderID:      receipt.Order.ID.String(),
			OrderNumber:  receipt.Order.OrderNumber,
			Status:       receipt.Order.Status.String(),
			Subtotal:     receipt.Order.Subtotal,
			DeliveryFee:  receipt.Order.DeliveryFee,
			Discount:     receipt.Order.Discount,
			Total:        receipt.Order.Total,
			FreeDelivery: receipt.Quote.FreeDelivery,
			Message:      receipt.Message,
			WhatsAppLink: receipt.WhatsAppLink,
		})
	}
}
