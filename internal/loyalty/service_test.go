package loyalty

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/andrefarias/pedefacil-backend/pkg/db/models"
	"github.com/andrefarias/pedefacil-backend/pkg/enums"
	pkgerrors "github.com/andrefarias/pedefacil-backend/pkg/errors"
)

type stubLoyaltyRepo struct {
	entries     []*models.LoyaltyPoint
	rewards     map[uuid.UUID]*models.Reward
	redemptions map[uuid.UUID]*models.RewardRedemption
}

func newStubLoyaltyRepo() *stubLoyaltyRepo {
	return &stubLoyaltyRepo{
		rewards:     map[uuid.UUID]*models.Reward{},
		redemptions: map[uuid.UUID]*models.RewardRedemption{},
	}
}

func (r *stubLoyaltyRepo) addReward(reward *models.Reward) *models.Reward {
	if reward.ID == uuid.Nil {
		reward.ID = uuid.New()
	}
	r.rewards[reward.ID] = reward
	return reward
}

func (r *stubLoyaltyRepo) CreateEntry(_ context.Context, entry *models.LoyaltyPoint) (*models.LoyaltyPoint, error) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	r.entries = append(r.entries, entry)
	return entry, nil
}

func (r *stubLoyaltyRepo) SumPoints(_ context.Context, customerID uuid.UUID) (int, error) {
	total := 0
	for _, e := range r.entries {
		if e.CustomerID == customerID {
			total += e.Points
		}
	}
	return total, nil
}

func (r *stubLoyaltyRepo) ListEntries(_ context.Context, customerID uuid.UUID) ([]models.LoyaltyPoint, error) {
	var out []models.LoyaltyPoint
	for _, e := range r.entries {
		if e.CustomerID == customerID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *stubLoyaltyRepo) HasAwardForOrder(_ context.Context, orderID uuid.UUID) (bool, error) {
	for _, e := range r.entries {
		if e.OrderID != nil && *e.OrderID == orderID && e.Points > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubLoyaltyRepo) CreateReward(_ context.Context, reward *models.Reward) (*models.Reward, error) {
	return r.addReward(reward), nil
}

func (r *stubLoyaltyRepo) UpdateReward(_ context.Context, reward *models.Reward) (*models.Reward, error) {
	r.rewards[reward.ID] = reward
	return reward, nil
}

func (r *stubLoyaltyRepo) DeleteReward(_ context.Context, id uuid.UUID) error {
	delete(r.rewards, id)
	return nil
}

func (r *stubLoyaltyRepo) FindReward(_ context.Context, id uuid.UUID) (*models.Reward, error) {
	if reward, ok := r.rewards[id]; ok {
		return reward, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubLoyaltyRepo) ListRewards(_ context.Context, activeOnly bool) ([]models.Reward, error) {
	var out []models.Reward
	for _, reward := range r.rewards {
		if activeOnly && !reward.IsActive {
			continue
		}
		out = append(out, *reward)
	}
	return out, nil
}

func (r *stubLoyaltyRepo) CreateRedemption(_ context.Context, redemption *models.RewardRedemption) (*models.RewardRedemption, error) {
	if redemption.ID == uuid.Nil {
		redemption.ID = uuid.New()
	}
	r.redemptions[redemption.ID] = redemption
	return redemption, nil
}

func (r *stubLoyaltyRepo) UpdateRedemption(_ context.Context, redemption *models.RewardRedemption) (*models.RewardRedemption, error) {
	r.redemptions[redemption.ID] = redemption
	return redemption, nil
}

func (r *stubLoyaltyRepo) FindRedemption(_ context.Context, id uuid.UUID) (*models.RewardRedemption, error) {
	if redemption, ok := r.redemptions[id]; ok {
		return redemption, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubLoyaltyRepo) ListPendingRedemptions(_ context.Context, customerID uuid.UUID) ([]models.RewardRedemption, error) {
	var out []models.RewardRedemption
	for _, redemption := range r.redemptions {
		if redemption.CustomerID == customerID && redemption.Status == enums.RedemptionStatusPending {
			out = append(out, *redemption)
		}
	}
	return out, nil
}

func (r *stubLoyaltyRepo) WithTx(_ *gorm.DB) Repository { return r }

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func mustLoyaltyService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{}, 1)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestBalanceSumsSignedEntries(t *testing.T) {
	t.Parallel()

	repo := newStubLoyaltyRepo()
	customerID := uuid.New()
	repo.entries = []*models.LoyaltyPoint{
		{CustomerID: customerID, Points: 5},
		{CustomerID: customerID, Points: -3},
		{CustomerID: uuid.New(), Points: 10},
	}
	svc := mustLoyaltyService(t, repo)

	balance, err := svc.Balance(context.Background(), customerID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 2 {
		t.Fatalf("balance mismatch: %d", balance)
	}
}

func TestRedeemInsufficientPoints(t *testing.T) {
	t.Parallel()

	repo := newStubLoyaltyRepo()
	reward := repo.addReward(&models.Reward{
		Name:           "Entrega grátis",
		PointsRequired: 10,
		RewardType:     enums.RewardTypeFreeDelivery,
		IsActive:       true,
	})
	customerID := uuid.New()
	repo.entries = []*models.LoyaltyPoint{{CustomerID: customerID, Points: 4}}
	svc := mustLoyaltyService(t, repo)

	_, err := svc.Redeem(context.Background(), customerID, reward.ID)
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeInsufficientPoints {
		t.Fatalf("expected INSUFFICIENT_POINTS, got %v", err)
	}
	if len(repo.redemptions) != 0 {
		t.Fatalf("no redemption should be written")
	}
}

func TestRedeemDebitsAndCreatesPending(t *testing.T) {
	t.Parallel()

	repo := newStubLoyaltyRepo()
	reward := repo.addReward(&models.Reward{
		Name:           "Entrega grátis",
		PointsRequired: 10,
		RewardType:     enums.RewardTypeFreeDelivery,
		IsActive:       true,
	})
	customerID := uuid.New()
	repo.entries = []*models.LoyaltyPoint{{CustomerID: customerID, Points: 12}}
	svc := mustLoyaltyService(t, repo)

	redemption, err := svc.Redeem(context.Background(), customerID, reward.ID)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if redemption.Status != enums.RedemptionStatusPending {
		t.Fatalf("redemption should start pending: %s", redemption.Status)
	}
	if redemption.PointsSpent != 10 {
		t.Fatalf("points spent mismatch: %d", redemption.PointsSpent)
	}

	balance, _ := svc.Balance(context.Background(), customerID)
	if balance != 2 {
		t.Fatalf("balance after redeem mismatch: %d", balance)
	}
}

func TestRedeemInactiveRewardNotFound(t *testing.T) {
	t.Parallel()

	repo := newStubLoyaltyRepo()
	reward := repo.addReward(&models.Reward{
		Name:           "Aposentado",
		PointsRequired: 5,
		RewardType:     enums.RewardTypeFreeItem,
		IsActive:       false,
	})
	customerID := uuid.New()
	repo.entries = []*models.LoyaltyPoint{{CustomerID: customerID, Points: 50}}
	svc := mustLoyaltyService(t, repo)

	_, err := svc.Redeem(context.Background(), customerID, reward.ID)
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for inactive reward, got %v", err)
	}
}

func TestConsumeFlipsPendingOnce(t *testing.T) {
	t.Parallel()

	repo := newStubLoyaltyRepo()
	customerID := uuid.New()
	redemption := &models.RewardRedemption{
		ID:          uuid.New(),
		CustomerID:  customerID,
		RewardID:    uuid.New(),
		PointsSpent: 10,
		Status:      enums.RedemptionStatusPending,
	}
	repo.redemptions[redemption.ID] = redemption
	svc := mustLoyaltyService(t, repo)

	used, err := svc.Consume(context.Background(), nil, redemption.ID, customerID)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if used.Status != enums.RedemptionStatusUsed {
		t.Fatalf("status mismatch: %s", used.Status)
	}

	_, err = svc.Consume(context.Background(), nil, redemption.ID, customerID)
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("second consume should report STATE_CONFLICT, got %v", err)
	}
}

func TestConsumeRejectsForeignRedemption(t *testing.T) {
	t.Parallel()

	repo := newStubLoyaltyRepo()
	owner := uuid.New()
	redemption := &models.RewardRedemption{
		ID:         uuid.New(),
		CustomerID: owner,
		RewardID:   uuid.New(),
		Status:     enums.RedemptionStatusPending,
	}
	repo.redemptions[redemption.ID] = redemption
	svc := mustLoyaltyService(t, repo)

	_, err := svc.Consume(context.Background(), nil, redemption.ID, uuid.New())
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("foreign redemption must look like NOT_FOUND, got %v", err)
	}
}

func TestAwardOncePerOrder(t *testing.T) {
	t.Parallel()

	repo := newStubLoyaltyRepo()
	svc := mustLoyaltyService(t, repo)
	customerID := uuid.New()
	orderID := uuid.New()

	if err := svc.Award(context.Background(), nil, customerID, orderID, 3); err != nil {
		t.Fatalf("award: %v", err)
	}
	if err := svc.Award(context.Background(), nil, customerID, orderID, 3); err != nil {
		t.Fatalf("second award: %v", err)
	}

	balance, _ := svc.Balance(context.Background(), customerID)
	if balance != 3 {
		t.Fatalf("award must credit exactly once, balance %d", balance)
	}
	if repo.entries[0].Description != "+3 pontos - Pedido" {
		t.Fatalf("description mismatch: %q", repo.entries[0].Description)
	}
}

func TestAwardSingularDescription(t *testing.T) {
	t.Parallel()

	repo := newStubLoyaltyRepo()
	svc := mustLoyaltyService(t, repo)

	if err := svc.Award(context.Background(), nil, uuid.New(), uuid.New(), 1); err != nil {
		t.Fatalf("award: %v", err)
	}
	if repo.entries[0].Description != "+1 ponto - Pedido" {
		t.Fatalf("description mismatch: %q", repo.entries[0].Description)
	}
}
