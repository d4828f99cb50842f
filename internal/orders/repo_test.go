package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/andrefarias/pedefacil-backend/pkg/db/models"
	"github.com/andrefarias/pedefacil-backend/pkg/enums"
	"github.com/andrefarias/pedefacil-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	customerOrders := `
CREATE TABLE IF NOT EXISTS customer_orders (
  id TEXT PRIMARY KEY,
  order_number INTEGER NOT NULL,
  customer_id TEXT,
  customer_name TEXT NOT NULL,
  customer_phone TEXT NOT NULL,
  delivery_type TEXT NOT NULL,
  address TEXT,
  reference_point TEXT,
  neighborhood TEXT,
  delivery_fee TEXT NOT NULL DEFAULT '0',
  subtotal TEXT NOT NULL,
  discount TEXT NOT NULL DEFAULT '0',
  coupon_code TEXT,
  total TEXT NOT NULL,
  payment_method TEXT NOT NULL,
  observation TEXT,
  status TEXT NOT NULL DEFAULT 'sent',
  item_count INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	customerOrderItems := `
CREATE TABLE IF NOT EXISTS customer_order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price TEXT NOT NULL,
  extras TEXT,
  created_at DATETIME
);`

	require.NoError(t, db.Exec(customerOrders).Error)
	require.NoError(t, db.Exec(customerOrderItems).Error)
	return db
}

func seedOrder(t *testing.T, repo Repository, status enums.OrderStatus, createdAt time.Time, number int) *models.CustomerOrder {
	t.Helper()

	order := &models.CustomerOrder{
		ID:            uuid.New(),
		OrderNumber:   number,
		CustomerName:  "Maria Souza",
		CustomerPhone: "84988001122",
		DeliveryType:  enums.DeliveryTypePickup,
		Subtotal:      decimal.NewFromInt(30),
		Total:         decimal.NewFromInt(30),
		PaymentMethod: enums.PaymentMethodPix,
		Status:        status,
		ItemCount:     1,
		Items: []models.CustomerOrderItem{
			{
				ID:          uuid.New(),
				ProductName: "X-Burger",
				Quantity:    1,
				UnitPrice:   decimal.NewFromInt(30),
			},
		},
		CreatedAt: createdAt,
	}
	_, err := repo.Create(context.Background(), order)
	require.NoError(t, err)
	return order
}

func TestRepositoryCreateAndFind(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))

	seeded := seedOrder(t, repo, enums.OrderStatusSent, time.Now(), 12345)

	found, err := repo.FindByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, 12345, found.OrderNumber)
	assert.Equal(t, enums.OrderStatusSent, found.Status)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "X-Burger", found.Items[0].ProductName)
	assert.True(t, found.Total.Equal(decimal.NewFromInt(30)))
}

func TestRepositoryUpdateStatus(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))

	seeded := seedOrder(t, repo, enums.OrderStatusSent, time.Now(), 11111)
	require.NoError(t, repo.UpdateStatus(context.Background(), seeded.ID, enums.OrderStatusPreparing))

	found, err := repo.FindByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPreparing, found.Status)
}

func TestRepositoryListByStatusPaginates(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		seedOrder(t, repo, enums.OrderStatusSent, base.Add(time.Duration(i)*time.Minute), 20000+i)
	}
	seedOrder(t, repo, enums.OrderStatusCancelled, base, 30000)

	firstPage, next, err := repo.ListByStatus(context.Background(), enums.OrderStatusSent, pagination.Params{Limit: 3})
	require.NoError(t, err)
	require.Len(t, firstPage, 3)
	require.NotEmpty(t, next)

	// Newest first.
	assert.Equal(t, 20004, firstPage[0].OrderNumber)
	assert.Equal(t, 20002, firstPage[2].OrderNumber)

	secondPage, next, err := repo.ListByStatus(context.Background(), enums.OrderStatusSent, pagination.Params{Limit: 3, Cursor: next})
	require.NoError(t, err)
	require.Len(t, secondPage, 2)
	assert.Empty(t, next)
	assert.Equal(t, 20001, secondPage[0].OrderNumber)
	assert.Equal(t, 20000, secondPage[1].OrderNumber)

	for _, order := range append(firstPage, secondPage...) {
		assert.Equal(t, enums.OrderStatusSent, order.Status, fmt.Sprintf("order %d", order.OrderNumber))
	}
}

func TestRepositoryListByCustomer(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))

	customerID := uuid.New()
	mine := seedOrder(t, repo, enums.OrderStatusSent, time.Now(), 40000)
	err := repo.(*repository).db.
		Model(&models.CustomerOrder{}).
		Where("id = ?", mine.ID).
		Update("customer_id", customerID).
		Error
	require.NoError(t, err)
	seedOrder(t, repo, enums.OrderStatusSent, time.Now(), 40001)

	rows, next, err := repo.ListByCustomer(context.Background(), customerID, pagination.Params{})
	require.NoError(t, err)
	assert.Empty(t, next)
	require.Len(t, rows, 1)
	assert.Equal(t, 40000, rows[0].OrderNumber)
}
