package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/andrefarias/pedefacil-backend/pkg/db/models"
	"github.com/andrefarias/pedefacil-backend/pkg/enums"
	"github.com/andrefarias/pedefacil-backend/pkg/pagination"
)

// Repository defines order persistence.
type Repository interface {
	Create(ctx context.Context, order *models.CustomerOrder) (*models.CustomerOrder, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.CustomerOrder, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.CustomerOrder, string, error)
	ListByStatus(ctx context.Context, status enums.OrderStatus, params pagination.Params) ([]models.CustomerOrder, string, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
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

func (r *repository) Create(ctx context.Context, order *models.CustomerOrder) (*models.CustomerOrder, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CustomerOrder, error) {
	var order models.CustomerOrder
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.CustomerOrder, string, error) {
	query := r.db.WithContext(ctx).Where("customer_id = ?", customerID)
	return r.page(ctx, query, params)
}

func (r *repository) ListByStatus(ctx context.Context, status enums.OrderStatus, params pagination.Params) ([]models.CustomerOrder, string, error) {
	query := r.db.WithContext(ctx)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	return r.page(ctx, query, params)
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.CustomerOrder{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}

// page runs the keyset query: newest first, (created_at, id) as the cursor.
func (r *repository) page(ctx context.Context, query *gorm.DB, params pagination.Params) ([]models.CustomerOrder, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	limit := pagination.NormalizeLimit(params.Limit)
	var rows []models.CustomerOrder
	err = query.
		Preload("Items").
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).
		Error
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, next, nil
}
