package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/andrefarias/pedefacil-backend/api/responses"
	"github.com/andrefarias/pedefacil-backend/api/validators"
	couponsvc "github.com/andrefarias/pedefacil-backend/internal/coupons"
	"github.com/andrefarias/pedefacil-backend/pkg/db/models"
	"github.com/andrefarias/pedefacil-backend/pkg/enums"
	pkgerrors "github.com/andrefarias/pedefacil-backend/pkg/errors"
	"github.com/andrefarias/pedefacil-backend/pkg/logger"
)

type validateCouponRequest struct {
	Code  string `json:"code" validate:"required"`
	Phone string `json:"phone" validate:"required"`
}

type couponResponse struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"`
	Type      string          `json:"type"`
	Value     decimal.Decimal `json:"value"`
	IsActive  bool            `json:"is_active"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
}

func newCouponResponse(coupon *models.Coupon) couponResponse {
	return couponResponse{
		ID:        coupon.ID.String(),
		Code:      coupon.Code,
		Type:      coupon.Type.String(),
		Value:     coupon.Value,
		IsActive:  coupon.IsActive,
		ExpiresAt: coupon.ExpiresAt,
	}
}

// ValidateCoupon checks a code for a phone without burning it.
func ValidateCoupon(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload validateCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		coupon, err := svc.Validate(r.Context(), payload.Code, payload.Phone)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCouponResponse(coupon))
	}
}

type createCouponRequest struct {
	Code      string          `json:"code" validate:"required"`
	Type      string          `json:"type" validate:"required,oneof=percentage fixed free_delivery"`
	Value     decimal.Decimal `json:"value"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
}

// AdminCreateCoupon issues a new coupon.
func AdminCreateCoupon(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		couponType, err := enums.ParseCouponType(payload.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown coupon type"))
			return
		}

		coupon, err := svc.Create(r.Context(), couponsvc.CreateInput{
			Code:      payload.Code,
			Type:      couponType,
			Value:     payload.Value,
			ExpiresAt: payload.ExpiresAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCouponResponse(coupon))
	}
}

// AdminListCoupons returns every coupon, newest first.
func AdminListCoupons(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]couponResponse, 0, len(list))
		for i := range list {
			out = append(out, newCouponResponse(&list[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

type updateCouponRequest struct {
	Value     *decimal.Decimal `json:"value,omitempty"`
	IsActive  *bool            `json:"is_active,omitempty"`
	ExpiresAt *time.Time       `json:"expires_at,omitempty"`
}

// AdminUpdateCoupon patches value, activation, or expiry.
func AdminUpdateCoupon(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "couponID"), "couponID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		coupon, err := svc.Update(r.Context(), id, couponsvc.UpdateInput{
			Value:     payload.Value,
			IsActive:  payload.IsActive,
			ExpiresAt: payload.ExpiresAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCouponResponse(coupon))
	}
}

// AdminDeleteCoupon removes a coupon.
func AdminDeleteCoupon(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "couponID"), "couponID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
