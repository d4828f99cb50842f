package loyalty

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/andrefarias/pedefacil-backend/pkg/db/models"
	"github.com/andrefarias/pedefacil-backend/pkg/enums"
)

// Repository defines persistence for the point ledger, the reward catalog,
// and redemptions.
type Repository interface {
	CreateEntry(ctx context.Context, entry *models.LoyaltyPoint) (*models.LoyaltyPoint, error)
	SumPoints(ctx context.Context, customerID uuid.UUID) (int, error)
	ListEntries(ctx context.Context, customerID uuid.UUID) ([]models.LoyaltyPoint, error)
	HasAwardForOrder(ctx context.Context, orderID uuid.UUID) (bool, error)

	CreateReward(ctx context.Context, reward *models.Reward) (*models.Reward, error)
	UpdateReward(ctx context.Context, reward *models.Reward) (*models.Reward, error)
	DeleteReward(ctx context.Context, id uuid.UUID) error
	FindReward(ctx context.Context, id uuid.UUID) (*models.Reward, error)
	ListRewards(ctx context.Context, activeOnly bool) ([]models.Reward, error)

	CreateRedemption(ctx context.Context, redemption *models.RewardRedemption) (*models.RewardRedemption, error)
	UpdateRedemption(ctx context.Context, redemption *models.RewardRedemption) (*models.RewardRedemption, error)
	FindRedemption(ctx context.Context, id uuid.UUID) (*models.RewardRedemption, error)
	ListPendingRedemptions(ctx context.Context, customerID uuid.UUID) ([]models.RewardRedemption, error)

	WithTx(tx *gorm.DB) Repository
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) CreateEntry(ctx context.Context, entry *models.LoyaltyPoint) (*models.LoyaltyPoint, error) {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *repository) SumPoints(ctx context.Context, customerID uuid.UUID) (int, error) {
	var total *int
	err := r.db.WithContext(ctx).
		Model(&models.LoyaltyPoint{}).
		Where("customer_id = ?", customerID).
		Select("SUM(points)").
		Scan(&total).
		Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (r *repository) ListEntries(ctx context.Context, customerID uuid.UUID) ([]models.LoyaltyPoint, error) {
	var out []models.LoyaltyPoint
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&out).
		Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) HasAwardForOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.LoyaltyPoint{}).
		Where("order_id = ? AND points > 0", orderID).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) CreateReward(ctx context.Context, reward *models.Reward) (*models.Reward, error) {
	if err := r.db.WithContext(ctx).Create(reward).Error; err != nil {
		return nil, err
	}
	return reward, nil
}

func (r *repository) UpdateReward(ctx context.Context, reward *models.Reward) (*models.Reward, error) {
	if err := r.db.WithContext(ctx).Save(reward).Error; err != nil {
		return nil, err
	}
	return reward, nil
}

func (r *repository) DeleteReward(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Reward{}).Error
}

func (r *repository) FindReward(ctx context.Context, id uuid.UUID) (*models.Reward, error) {
	var reward models.Reward
	if err := r.db.WithContext(ctx).First(&reward, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &reward, nil
}

func (r *repository) ListRewards(ctx context.Context, activeOnly bool) ([]models.Reward, error) {
	query := r.db.WithContext(ctx).Order("points_required ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var out []models.Reward
	if err := query.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) CreateRedemption(ctx context.Context, redemption *models.RewardRedemption) (*models.RewardRedemption, error) {
	if err := r.db.WithContext(ctx).Create(redemption).Error; err != nil {
		return nil, err
	}
	return redemption, nil
}

func (r *repository) UpdateRedemption(ctx context.Context, redemption *models.RewardRedemption) (*models.RewardRedemption, error) {
	if err := r.db.WithContext(ctx).Save(redemption).Error; err != nil {
		return nil, err
	}
	return redemption, nil
}

func (r *repository) FindRedemption(ctx context.Context, id uuid.UUID) (*models.RewardRedemption, error) {
	var redemption models.RewardRedemption
	err := r.db.WithContext(ctx).
		Preload("Reward").
		First(&redemption, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &redemption, nil
}

func (r *repository) ListPendingRedemptions(ctx context.Context, customerID uuid.UUID) ([]models.RewardRedemption, error) {
	var out []models.RewardRedemption
	err := r.db.WithContext(ctx).
		Preload("Reward").
		Where("customer_id = ? AND status = ?", customerID, enums.RedemptionStatusPending).
		Order("created_at DESC").
		Find(&out).
		Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
