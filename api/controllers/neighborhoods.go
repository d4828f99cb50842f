package controllers

import (
	"net/http"

	"github.com/andrefarias/pedefacil-backend/api/responses"
	"github.com/andrefarias/pedefacil-backend/internal/pricing"
)

// Neighborhoods lists the delivery zones with their fees so the storefront
// can populate the checkout selector.
func Neighborhoods() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, pricing.Neighborhoods())
	}
}
