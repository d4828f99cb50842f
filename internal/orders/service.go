package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/andrefarias/pedefacil-backend/pkg/db/models"
	"github.com/andrefarias/pedefacil-backend/pkg/enums"
	pkgerrors "github.com/andrefarias/pedefacil-backend/pkg/errors"
	"github.com/andrefarias/pedefacil-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// pointAwarder credits loyalty points when an order completes.
type pointAwarder interface {
	Award(ctx context.Context, tx *gorm.DB, customerID, orderID uuid.UUID, itemCount int) error
}

// Service exposes order reads and the admin status lifecycle.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*models.CustomerOrder, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.CustomerOrder, string, error)
	ListByStatus(ctx context.Context, status enums.OrderStatus, params pagination.Params) ([]models.CustomerOrder, string, error)
	Advance(ctx context.Context, id uuid.UUID) (*models.CustomerOrder, error)
	Cancel(ctx context.Context, id uuid.UUID) (*models.CustomerOrder, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	loyalty pointAwarder
}

// NewService builds the order service.
func NewService(repo Repository, tx txRunner, loyalty pointAwarder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if loyalty == nil {
		return nil, fmt.Errorf("point awarder is required")
	}
	return &service{repo: repo, tx: tx, loyalty: loyalty}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.CustomerOrder, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return order, nil
}

func (s *service) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.CustomerOrder, string, error) {
	rows, next, err := s.repo.ListByCustomer(ctx, customerID, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return rows, next, nil
}

func (s *service) ListByStatus(ctx context.Context, status enums.OrderStatus, params pagination.Params) ([]models.CustomerOrder, string, error) {
	if status != "" && !status.IsValid() {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}
	rows, next, err := s.repo.ListByStatus(ctx, status, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return rows, next, nil
}

// Advance moves the order one step forward in the lifecycle. Reaching
// completed credits loyalty points to the customer, in the same transaction
// as the status flip. Guest orders complete without an award.
func (s *service) Advance(ctx context.Context, id uuid.UUID) (*models.CustomerOrder, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next, ok := order.Status.Next()
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order cannot advance").
			WithDetails(map[string]any{"status": order.Status})
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).UpdateStatus(ctx, order.ID, next); err != nil {
			return err
		}
		if next == enums.OrderStatusCompleted && order.CustomerID != nil {
			return s.loyalty.Award(ctx, tx, *order.CustomerID, order.ID, order.ItemCount)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "advancing order")
	}

	order.Status = next
	return order, nil
}

// Cancel aborts a non-terminal order.
func (s *service) Cancel(ctx context.Context, id uuid.UUID) (*models.CustomerOrder, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order cannot be cancelled").
			WithDetails(map[string]any{"status": order.Status})
	}

	if err := s.repo.UpdateStatus(ctx, order.ID, enums.OrderStatusCancelled); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancelling order")
	}
	order.Status = enums.OrderStatusCancelled
	return order, nil
}
