package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/andrefarias/pedefacil-backend/api/responses"
	"github.com/andrefarias/pedefacil-backend/api/validators"
	ordersvc "github.com/andrefarias/pedefacil-backend/internal/orders"
	"github.com/andrefarias/pedefacil-backend/pkg/db/models"
	"github.com/andrefarias/pedefacil-backend/pkg/enums"
	pkgerrors "github.com/andrefarias/pedefacil-backend/pkg/errors"
	"github.com/andrefarias/pedefacil-backend/pkg/logger"
	"github.com/andrefarias/pedefacil-backend/pkg/pagination"
)

type orderItemResponse struct {
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Extras      *string         `json:"extras,omitempty"`
}

type orderResponse struct {
	ID             string              `json:"id"`
	OrderNumber    int                 `json:"order_number"`
	CustomerName   string              `json:"customer_name"`
	CustomerPhone  string              `json:"customer_phone"`
	DeliveryType   string              `json:"delivery_type"`
	Address        *string             `json:"address,omitempty"`
	ReferencePoint *string             `json:"reference_point,omitempty"`
	Neighborhood   *string             `json:"neighborhood,omitempty"`
	DeliveryFee    decimal.Decimal     `json:"delivery_fee"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	Discount       decimal.Decimal     `json:"discount"`
	CouponCode     *string             `json:"coupon_code,omitempty"`
	Total          decimal.Decimal     `json:"total"`
	PaymentMethod  string              `json:"payment_method"`
	Observation    *string             `json:"observation,omitempty"`
	Status         string              `json:"status"`
	ItemCount      int                 `json:"item_count"`
	Items          []orderItemResponse `json:"items"`
	CreatedAt      time.Time           `json:"created_at"`
}

type orderListResponse struct {
	Orders     []orderResponse `json:"orders"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

func newOrderResponse(order *models.CustomerOrder) orderResponse {
	out := orderResponse{
		ID:             order.ID.String(),
		OrderNumber:    order.OrderNumber,
		CustomerName:   order.CustomerName,
		CustomerPhone:  order.CustomerPhone,
		DeliveryType:   order.DeliveryType.String(),
		Address:        order.Address,
		ReferencePoint: order.ReferencePoint,
		Neighborhood:   order.Neighborhood,
		DeliveryFee:    order.DeliveryFee,
		Subtotal:       order.Subtotal,
		Discount:       order.Discount,
		CouponCode:     order.CouponCode,
		Total:          order.Total,
		PaymentMethod:  order.PaymentMethod.String(),
		Observation:    order.Observation,
		Status:         order.Status.String(),
		ItemCount:      order.ItemCount,
		CreatedAt:      order.CreatedAt,
	}
	for _, item := range order.Items {
		out.Items = append(out.Items, orderItemResponse{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Extras:      item.Extras,
		})
	}
	return out
}

func newOrderListResponse(orders []models.CustomerOrder, next string) orderListResponse {
	out := orderListResponse{Orders: make([]orderResponse, 0, len(orders)), NextCursor: next}
	for i := range orders {
		out.Orders = append(out.Orders, newOrderResponse(&orders[i]))
	}
	return out
}

// GetOrder returns one order with its lines.
func GetOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

// ListCustomerOrders pages through a customer's order history.
func ListCustomerOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := validators.ParsePathUUID(chi.URLParam(r, "customerID"), "customerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orders, next, err := svc.ListByCustomer(r.Context(), customerID, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderListResponse(orders, next))
	}
}

// AdminListOrders pages through all orders, optionally filtered by status.
func AdminListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var status enums.OrderStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err = enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown order status"))
				return
			}
		}

		orders, next, err := svc.ListByStatus(r.Context(), status, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderListResponse(orders, next))
	}
}

// AdminAdvanceOrder moves the order one lifecycle step forward.
func AdminAdvanceOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Advance(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

// AdminCancelOrder aborts a non-terminal order.
func AdminCancelOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Cancel(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}
