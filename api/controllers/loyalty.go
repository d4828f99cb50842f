package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/andrefarias/pedefacil-backend/api/responses"
	"github.com/andrefarias/pedefacil-backend/api/validators"
	loyaltysvc "github.com/andrefarias/pedefacil-backend/internal/loyalty"
	"github.com/andrefarias/pedefacil-backend/pkg/db/models"
	"github.com/andrefarias/pedefacil-backend/pkg/enums"
	pkgerrors "github.com/andrefarias/pedefacil-backend/pkg/errors"
	"github.com/andrefarias/pedefacil-backend/pkg/logger"
)

type rewardResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	PointsRequired int     `json:"points_required"`
	RewardType     string  `json:"reward_type"`
	IsActive       bool    `json:"is_active"`
	ImageURL       *string `json:"image_url,omitempty"`
}

func newRewardResponse(reward *models.Reward) rewardResponse {
	return rewardResponse{
		ID:             reward.ID.String(),
		Name:           reward.Name,
		Description:    reward.Description,
		PointsRequired: reward.PointsRequired,
		RewardType:     reward.RewardType.String(),
		IsActive:       reward.IsActive,
		ImageURL:       reward.ImageURL,
	}
}

type redemptionResponse struct {
	ID          string          `json:"id"`
	CustomerID  string          `json:"customer_id"`
	PointsSpent int             `json:"points_spent"`
	Status      string          `json:"status"`
	Reward      *rewardResponse `json:"reward,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func newRedemptionResponse(redemption *models.RewardRedemption) redemptionResponse {
	out := redemptionResponse{
		ID:          redemption.ID.String(),
		CustomerID:  redemption.CustomerID.String(),
		PointsSpent: redemption.PointsSpent,
		Status:      redemption.Status.String(),
		CreatedAt:   redemption.CreatedAt,
	}
	if redemption.Reward != nil {
		reward := newRewardResponse(redemption.Reward)
		out.Reward = &reward
	}
	return out
}

type ledgerEntryResponse struct {
	ID          string     `json:"id"`
	OrderID     *uuid.UUID `json:"order_id,omitempty"`
	Points      int        `json:"points"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
}

// LoyaltyBalance returns the customer's current point balance.
func LoyaltyBalance(svc loyaltysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := validators.ParsePathUUID(chi.URLParam(r, "customerID"), "customerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		balance, err := svc.Balance(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"balance": balance})
	}
}

// LoyaltyHistory lists the customer's signed ledger entries, newest first.
func LoyaltyHistory(svc loyaltysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := validators.ParsePathUUID(chi.URLParam(r, "customerID"), "customerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.History(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]ledgerEntryResponse, 0, len(entries))
		for _, entry := range entries {
			out = append(out, ledgerEntryResponse{
				ID:          entry.ID.String(),
				OrderID:     entry.OrderID,
				Points:      entry.Points,
				Description: entry.Description,
				CreatedAt:   entry.CreatedAt,
			})
		}
		responses.WriteSuccess(w, out)
	}
}

// ListRewards returns the active reward catalog.
func ListRewards(svc loyaltysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rewards, err := svc.ListRewards(r.Context(), true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]rewardResponse, 0, len(rewards))
		for i := range rewards {
			out = append(out, newRewardResponse(&rewards[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

type redeemRequest struct {
	CustomerID uuid.UUID `json:"customer_id" validate:"required"`
	RewardID   uuid.UUID `json:"reward_id" validate:"required"`
}

// RedeemReward exchanges points for a pending redemption.
func RedeemReward(svc loyaltysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload redeemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		redemption, err := svc.Redeem(r.Context(), payload.CustomerID, payload.RewardID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newRedemptionResponse(redemption))
	}
}

// ListPendingRedemptions returns redemptions the customer can still apply at
// checkout.
func ListPendingRedemptions(svc loyaltysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := validators.ParsePathUUID(chi.URLParam(r, "customerID"), "customerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pending, err := svc.ListPending(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]redemptionResponse, 0, len(pending))
		for i := range pending {
			out = append(out, newRedemptionResponse(&pending[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

type rewardRequest struct {
	Name           string  `json:"name" validate:"required"`
	Description    string  `json:"description"`
	PointsRequired int     `json:"points_required" validate:"required,gt=0"`
	RewardType     string  `json:"reward_type" validate:"required"`
	IsActive       bool    `json:"is_active"`
	ImageURL       *string `json:"image_url,omitempty"`
}

func (p rewardRequest) toInput() (loyaltysvc.RewardInput, error) {
	rewardType, err := enums.ParseRewardType(p.RewardType)
	if err != nil {
		return loyaltysvc.RewardInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown reward type")
	}
	return loyaltysvc.RewardInput{
		Name:           p.Name,
		Description:    p.Description,
		PointsRequired: p.PointsRequired,
		RewardType:     rewardType,
		IsActive:       p.IsActive,
		ImageURL:       p.ImageURL,
	}, nil
}

// AdminListRewards returns the whole catalog, inactive entries included.
func AdminListRewards(svc loyaltysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rewards, err := svc.ListRewards(r.Context(), false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]rewardResponse, 0, len(rewards))
		for i := range rewards {
			out = append(out, newRewardResponse(&rewards[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// AdminCreateReward adds a catalog entry.
func AdminCreateReward(svc loyaltysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload rewardRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reward, err := svc.CreateReward(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newRewardResponse(reward))
	}
}

// AdminUpdateReward replaces a catalog entry's fields.
func AdminUpdateReward(svc loyaltysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "rewardID"), "rewardID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload rewardRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reward, err := svc.UpdateReward(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newRewardResponse(reward))
	}
}

// AdminDeleteReward removes a catalog entry.
func AdminDeleteReward(svc loyaltysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "rewardID"), "rewardID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteReward(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
