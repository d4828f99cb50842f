package loyalty

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/andrefarias/pedefacil-backend/pkg/db/models"
	"github.com/andrefarias/pedefacil-backend/pkg/enums"
	pkgerrors "github.com/andrefarias/pedefacil-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the point ledger, the reward catalog, and redemptions.
type Service interface {
	Balance(ctx context.Context, customerID uuid.UUID) (int, error)
	History(ctx context.Context, customerID uuid.UUID) ([]models.LoyaltyPoint, error)
	Award(ctx context.Context, tx *gorm.DB, customerID, orderID uuid.UUID, itemCount int) error

	ListRewards(ctx context.Context, activeOnly bool) ([]models.Reward, error)
	CreateReward(ctx context.Context, input RewardInput) (*models.Reward, error)
	UpdateReward(ctx context.Context, id uuid.UUID, input RewardInput) (*models.Reward, error)
	DeleteReward(ctx context.Context, id uuid.UUID) error

	Redeem(ctx context.Context, customerID, rewardID uuid.UUID) (*models.RewardRedemption, error)
	ListPending(ctx context.Context, customerID uuid.UUID) ([]models.RewardRedemption, error)
	Consume(ctx context.Context, tx *gorm.DB, redemptionID, customerID uuid.UUID) (*models.RewardRedemption, error)
}

// RewardInput carries the admin-facing fields of a catalog entry.
type RewardInput struct {
	Name           string
	Description    string
	PointsRequired int
	RewardType     enums.RewardType
	IsActive       bool
	ImageURL       *string
}

type service struct {
	repo          Repository
	tx            txRunner
	pointsPerItem int
}

// NewService builds the loyalty service. pointsPerItem scales how many points
// each ordered item awards.
func NewService(repo Repository, tx txRunner, pointsPerItem int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("loyalty repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if pointsPerItem <= 0 {
		pointsPerItem = 1
	}
	return &service{repo: repo, tx: tx, pointsPerItem: pointsPerItem}, nil
}

func (s *service) Balance(ctx context.Context, customerID uuid.UUID) (int, error) {
	total, err := s.repo.SumPoints(ctx, customerID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "summing points")
	}
	return total, nil
}

func (s *service) History(ctx context.Context, customerID uuid.UUID) ([]models.LoyaltyPoint, error) {
	entries, err := s.repo.ListEntries(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing ledger entries")
	}
	return entries, nil
}

// Award credits itemCount*pointsPerItem to the customer for a completed
// order. It is a no-op when the order was already awarded, so replays of the
// completing transition cannot double-credit.
func (s *service) Award(ctx context.Context, tx *gorm.DB, customerID, orderID uuid.UUID, itemCount int) error {
	if itemCount <= 0 {
		return nil
	}
	repo := s.repo
	if tx != nil {
		repo = repo.WithTx(tx)
	}

	awarded, err := repo.HasAwardForOrder(ctx, orderID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking prior award")
	}
	if awarded {
		return nil
	}

	points := itemCount * s.pointsPerItem
	entry := &models.LoyaltyPoint{
		CustomerID:  customerID,
		OrderID:     &orderID,
		Points:      points,
		Description: awardDescription(points),
	}
	if _, err := repo.CreateEntry(ctx, entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "crediting points")
	}
	return nil
}

func (s *service) ListRewards(ctx context.Context, activeOnly bool) ([]models.Reward, error) {
	rewards, err := s.repo.ListRewards(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing rewards")
	}
	return rewards, nil
}

func (s *service) CreateReward(ctx context.Context, input RewardInput) (*models.Reward, error) {
	if err := validateRewardInput(input); err != nil {
		return nil, err
	}
	reward := &models.Reward{
		Name:           input.Name,
		Description:    input.Description,
		PointsRequired: input.PointsRequired,
		RewardType:     input.RewardType,
		IsActive:       input.IsActive,
		ImageURL:       input.ImageURL,
	}
	created, err := s.repo.CreateReward(ctx, reward)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating reward")
	}
	return created, nil
}

func (s *service) UpdateReward(ctx context.Context, id uuid.UUID, input RewardInput) (*models.Reward, error) {
	if err := validateRewardInput(input); err != nil {
		return nil, err
	}
	reward, err := s.repo.FindReward(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reward not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading reward")
	}

	reward.Name = input.Name
	reward.Description = input.Description
	reward.PointsRequired = input.PointsRequired
	reward.RewardType = input.RewardType
	reward.IsActive = input.IsActive
	reward.ImageURL = input.ImageURL

	updated, err := s.repo.UpdateReward(ctx, reward)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating reward")
	}
	return updated, nil
}

func (s *service) DeleteReward(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteReward(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting reward")
	}
	return nil
}

// Redeem exchanges points for a reward. The ledger debit and the pending
// redemption land in one transaction, so a crash cannot leave points spent
// without a redemption to show for them.
func (s *service) Redeem(ctx context.Context, customerID, rewardID uuid.UUID) (*models.RewardRedemption, error) {
	reward, err := s.repo.FindReward(ctx, rewardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reward not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading reward")
	}
	if !reward.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reward not found")
	}

	balance, err := s.repo.SumPoints(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "summing points")
	}
	if balance < reward.PointsRequired {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientPoints, "not enough points").
			WithDetails(map[string]any{"balance": balance, "required": reward.PointsRequired})
	}

	var redemption *models.RewardRedemption
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		debit := &models.LoyaltyPoint{
			CustomerID:  customerID,
			Points:      -reward.PointsRequired,
			Description: fmt.Sprintf("Resgate: %s", reward.Name),
		}
		if _, err := repo.CreateEntry(ctx, debit); err != nil {
			return err
		}

		redemption = &models.RewardRedemption{
			CustomerID:  customerID,
			RewardID:    reward.ID,
			PointsSpent: reward.PointsRequired,
			Status:      enums.RedemptionStatusPending,
		}
		_, err := repo.CreateRedemption(ctx, redemption)
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "redeeming reward")
	}
	redemption.Reward = reward
	return redemption, nil
}

func (s *service) ListPending(ctx context.Context, customerID uuid.UUID) ([]models.RewardRedemption, error) {
	out, err := s.repo.ListPendingRedemptions(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing pending redemptions")
	}
	return out, nil
}

// Consume flips a pending redemption to used. Consuming twice, or consuming
// someone else's redemption, fails.
func (s *service) Consume(ctx context.Context, tx *gorm.DB, redemptionID, customerID uuid.UUID) (*models.RewardRedemption, error) {
	repo := s.repo
	if tx != nil {
		repo = repo.WithTx(tx)
	}

	redemption, err := repo.FindRedemption(ctx, redemptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "redemption not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading redemption")
	}
	if redemption.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "redemption not found")
	}
	if redemption.Status != enums.RedemptionStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "redemption already used").
			WithDetails(map[string]any{"status": redemption.Status})
	}

	redemption.Status = enums.RedemptionStatusUsed
	updated, err := repo.UpdateRedemption(ctx, redemption)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "consuming redemption")
	}
	return updated, nil
}

func validateRewardInput(input RewardInput) error {
	if input.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "reward name is required")
	}
	if input.PointsRequired <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "points required must be positive")
	}
	if !input.RewardType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown reward type")
	}
	return nil
}

func awardDescription(points int) string {
	if points == 1 {
		return "+1 ponto - Pedido"
	}
	return fmt.Sprintf("+%d pontos - Pedido", points)
}
