package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/andrefarias/pedefacil-backend/pkg/db/models"
	"github.com/andrefarias/pedefacil-backend/pkg/enums"
	pkgerrors "github.com/andrefarias/pedefacil-backend/pkg/errors"
	"github.com/andrefarias/pedefacil-backend/pkg/pagination"
)

type stubOrderRepo struct {
	orders map[uuid.UUID]*models.CustomerOrder
}

func newStubOrderRepo(orders ...*models.CustomerOrder) *stubOrderRepo {
	repo := &stubOrderRepo{orders: map[uuid.UUID]*models.CustomerOrder{}}
	for _, o := range orders {
		if o.ID == uuid.Nil {
			o.ID = uuid.New()
		}
		repo.orders[o.ID] = o
	}
	return repo
}

func (r *stubOrderRepo) Create(_ context.Context, order *models.CustomerOrder) (*models.CustomerOrder, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	r.orders[order.ID] = order
	return order, nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*models.CustomerOrder, error) {
	if o, ok := r.orders[id]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubOrderRepo) ListByCustomer(_ context.Context, customerID uuid.UUID, _ pagination.Params) ([]models.CustomerOrder, string, error) {
	var out []models.CustomerOrder
	for _, o := range r.orders {
		if o.CustomerID != nil && *o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, "", nil
}

func (r *stubOrderRepo) ListByStatus(_ context.Context, status enums.OrderStatus, _ pagination.Params) ([]models.CustomerOrder, string, error) {
	var out []models.CustomerOrder
	for _, o := range r.orders {
		if status == "" || o.Status == status {
			out = append(out, *o)
		}
	}
	return out, "", nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status enums.OrderStatus) error {
	if o, ok := r.orders[id]; ok {
		o.Status = status
	}
	return nil
}

func (r *stubOrderRepo) WithTx(_ *gorm.DB) Repository { return r }

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubAwarder struct {
	calls []struct {
		customerID uuid.UUID
		orderID    uuid.UUID
		itemCount  int
	}
}

func (a *stubAwarder) Award(_ context.Context, _ *gorm.DB, customerID, orderID uuid.UUID, itemCount int) error {
	a.calls = append(a.calls, struct {
		customerID uuid.UUID
		orderID    uuid.UUID
		itemCount  int
	}{customerID, orderID, itemCount})
	return nil
}

func mustOrderService(t *testing.T, repo Repository, awarder *stubAwarder) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{}, awarder)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestAdvanceStepsForwardOneAtATime(t *testing.T) {
	t.Parallel()

	order := &models.CustomerOrder{Status: enums.OrderStatusSent}
	repo := newStubOrderRepo(order)
	svc := mustOrderService(t, repo, &stubAwarder{})

	updated, err := svc.Advance(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if updated.Status != enums.OrderStatusPreparing {
		t.Fatalf("status mismatch: %s", updated.Status)
	}
}

func TestAdvanceCompletedAwardsPoints(t *testing.T) {
	t.Parallel()

	customerID := uuid.New()
	order := &models.CustomerOrder{
		CustomerID: &customerID,
		Status:     enums.OrderStatusDelivered,
		ItemCount:  4,
	}
	repo := newStubOrderRepo(order)
	awarder := &stubAwarder{}
	svc := mustOrderService(t, repo, awarder)

	updated, err := svc.Advance(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if updated.Status != enums.OrderStatusCompleted {
		t.Fatalf("status mismatch: %s", updated.Status)
	}
	if len(awarder.calls) != 1 {
		t.Fatalf("expected one award, got %d", len(awarder.calls))
	}
	call := awarder.calls[0]
	if call.customerID != customerID || call.orderID != order.ID || call.itemCount != 4 {
		t.Fatalf("award call mismatch: %+v", call)
	}
}

func TestAdvanceGuestOrderSkipsAward(t *testing.T) {
	t.Parallel()

	order := &models.CustomerOrder{Status: enums.OrderStatusDelivered, ItemCount: 2}
	repo := newStubOrderRepo(order)
	awarder := &stubAwarder{}
	svc := mustOrderService(t, repo, awarder)

	if _, err := svc.Advance(context.Background(), order.ID); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if len(awarder.calls) != 0 {
		t.Fatalf("guest orders must not award points")
	}
}

func TestAdvanceIntermediateStepDoesNotAward(t *testing.T) {
	t.Parallel()

	customerID := uuid.New()
	order := &models.CustomerOrder{
		CustomerID: &customerID,
		Status:     enums.OrderStatusPreparing,
		ItemCount:  2,
	}
	repo := newStubOrderRepo(order)
	awarder := &stubAwarder{}
	svc := mustOrderService(t, repo, awarder)

	if _, err := svc.Advance(context.Background(), order.ID); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if len(awarder.calls) != 0 {
		t.Fatalf("only the completing transition awards points")
	}
}

func TestAdvanceTerminalConflicts(t *testing.T) {
	t.Parallel()

	for _, status := range []enums.OrderStatus{enums.OrderStatusCompleted, enums.OrderStatusCancelled} {
		order := &models.CustomerOrder{Status: status}
		repo := newStubOrderRepo(order)
		svc := mustOrderService(t, repo, &stubAwarder{})

		_, err := svc.Advance(context.Background(), order.ID)
		if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeStateConflict {
			t.Fatalf("%s: expected STATE_CONFLICT, got %v", status, err)
		}
	}
}

func TestCancelFromNonTerminal(t *testing.T) {
	t.Parallel()

	order := &models.CustomerOrder{Status: enums.OrderStatusDelivering}
	repo := newStubOrderRepo(order)
	svc := mustOrderService(t, repo, &stubAwarder{})

	cancelled, err := svc.Cancel(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != enums.OrderStatusCancelled {
		t.Fatalf("status mismatch: %s", cancelled.Status)
	}
}

func TestCancelTerminalConflicts(t *testing.T) {
	t.Parallel()

	order := &models.CustomerOrder{Status: enums.OrderStatusCompleted}
	repo := newStubOrderRepo(order)
	svc := mustOrderService(t, repo, &stubAwarder{})

	_, err := svc.Cancel(context.Background(), order.ID)
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected STATE_CONFLICT, got %v", err)
	}
}

func TestGetUnknownOrder(t *testing.T) {
	t.Parallel()

	svc := mustOrderService(t, newStubOrderRepo(), &stubAwarder{})
	_, err := svc.Get(context.Background(), uuid.New())
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
