package coupons

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/andrefarias/pedefacil-backend/pkg/db/models"
	"github.com/andrefarias/pedefacil-backend/pkg/enums"
	pkgerrors "github.com/andrefarias/pedefacil-backend/pkg/errors"
)

type stubCouponRepo struct {
	byCode  map[string]*models.Coupon
	byID    map[uuid.UUID]*models.Coupon
	updated *models.Coupon
	created *models.Coupon
}

func newStubCouponRepo(coupons ...*models.Coupon) *stubCouponRepo {
	repo := &stubCouponRepo{
		byCode: map[string]*models.Coupon{},
		byID:   map[uuid.UUID]*models.Coupon{},
	}
	for _, c := range coupons {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		repo.byCode[c.Code] = c
		repo.byID[c.ID] = c
	}
	return repo
}

func (r *stubCouponRepo) Create(_ context.Context, coupon *models.Coupon) (*models.Coupon, error) {
	r.created = coupon
	return coupon, nil
}

func (r *stubCouponRepo) Update(_ context.Context, coupon *models.Coupon) (*models.Coupon, error) {
	r.updated = coupon
	return coupon, nil
}

func (r *stubCouponRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.byID, id)
	return nil
}

func (r *stubCouponRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Coupon, error) {
	if c, ok := r.byID[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCouponRepo) FindByCode(_ context.Context, code string) (*models.Coupon, error) {
	if c, ok := r.byCode[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCouponRepo) List(_ context.Context) ([]models.Coupon, error) {
	out := make([]models.Coupon, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCouponRepo) WithTx(_ *gorm.DB) Repository { return r }

func mustService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestValidateUnknownCode(t *testing.T) {
	t.Parallel()

	svc := mustService(t, newStubCouponRepo())
	_, err := svc.Validate(context.Background(), "NADA", "84988001122")
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestValidateInactiveReportsNotFound(t *testing.T) {
	t.Parallel()

	svc := mustService(t, newStubCouponRepo(&models.Coupon{
		Code:     "DESATIVADO",
		Type:     enums.CouponTypeFixed,
		Value:    decimal.NewFromInt(5),
		IsActive: false,
	}))
	_, err := svc.Validate(context.Background(), "desativado", "84988001122")
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for inactive coupon, got %v", err)
	}
}

func TestValidateExpired(t *testing.T) {
	t.Parallel()

	past := time.Now().Add(-time.Hour)
	svc := mustService(t, newStubCouponRepo(&models.Coupon{
		Code:      "VENCIDO",
		Type:      enums.CouponTypePercentage,
		Value:     decimal.NewFromInt(10),
		IsActive:  true,
		ExpiresAt: &past,
	}))
	_, err := svc.Validate(context.Background(), "VENCIDO", "84988001122")
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeExpired {
		t.Fatalf("expected EXPIRED, got %v", err)
	}
}

func TestValidateAlreadyUsedComparesDigitsOnly(t *testing.T) {
	t.Parallel()

	svc := mustService(t, newStubCouponRepo(&models.Coupon{
		Code:     "USADO",
		Type:     enums.CouponTypeFixed,
		Value:    decimal.NewFromInt(5),
		IsActive: true,
		UsedBy:   []string{"84988001122"},
	}))
	_, err := svc.Validate(context.Background(), "USADO", "(84) 98800-1122")
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeAlreadyUsed {
		t.Fatalf("expected ALREADY_USED, got %v", err)
	}
}

func TestValidateHappyPathNormalizesCode(t *testing.T) {
	t.Parallel()

	svc := mustService(t, newStubCouponRepo(&models.Coupon{
		Code:     "PROMO10",
		Type:     enums.CouponTypePercentage,
		Value:    decimal.NewFromInt(10),
		IsActive: true,
	}))
	coupon, err := svc.Validate(context.Background(), "  promo10 ", "84988001122")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if coupon.Code != "PROMO10" {
		t.Fatalf("unexpected coupon: %s", coupon.Code)
	}
}

func TestMarkUsedAppendsNormalizedPhone(t *testing.T) {
	t.Parallel()

	repo := newStubCouponRepo(&models.Coupon{
		Code:     "PROMO10",
		Type:     enums.CouponTypePercentage,
		Value:    decimal.NewFromInt(10),
		IsActive: true,
	})
	svc := mustService(t, repo)

	if err := svc.MarkUsed(context.Background(), nil, "PROMO10", "(84) 98800-1122"); err != nil {
		t.Fatalf("mark used: %v", err)
	}
	if repo.updated == nil {
		t.Fatalf("expected an update")
	}
	if len(repo.updated.UsedBy) != 1 || repo.updated.UsedBy[0] != "84988001122" {
		t.Fatalf("phone not normalized: %v", repo.updated.UsedBy)
	}
}

func TestMarkUsedIsIdempotent(t *testing.T) {
	t.Parallel()

	repo := newStubCouponRepo(&models.Coupon{
		Code:     "PROMO10",
		Type:     enums.CouponTypePercentage,
		Value:    decimal.NewFromInt(10),
		IsActive: true,
		UsedBy:   []string{"84988001122"},
	})
	svc := mustService(t, repo)

	if err := svc.MarkUsed(context.Background(), nil, "PROMO10", "84988001122"); err != nil {
		t.Fatalf("mark used: %v", err)
	}
	if repo.updated != nil {
		t.Fatalf("repeat redemption should not write, got %v", repo.updated.UsedBy)
	}
}

func TestCreateValidatesPercentageRange(t *testing.T) {
	t.Parallel()

	svc := mustService(t, newStubCouponRepo())
	_, err := svc.Create(context.Background(), CreateInput{
		Code:  "DEMAIS",
		Type:  enums.CouponTypePercentage,
		Value: decimal.NewFromInt(150),
	})
	if got := pkgerrors.As(err); got == nil || got.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestCreateUppercasesCode(t *testing.T) {
	t.Parallel()

	repo := newStubCouponRepo()
	svc := mustService(t, repo)
	created, err := svc.Create(context.Background(), CreateInput{
		Code:  " frete ",
		Type:  enums.CouponTypeFreeDelivery,
		Value: decimal.Zero,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Code != "FRETE" {
		t.Fatalf("code not normalized: %s", created.Code)
	}
	if !created.IsActive {
		t.Fatalf("new coupons start active")
	}
}

func TestAppendPhoneSetSemantics(t *testing.T) {
	t.Parallel()

	used, changed := appendPhone(nil, "84 98800-1122")
	if !changed || len(used) != 1 || used[0] != "84988001122" {
		t.Fatalf("first append failed: %v", used)
	}
	again, changed := appendPhone(used, "(84)98800-1122")
	if changed || len(again) != 1 {
		t.Fatalf("duplicate phone must not grow the set: %v", again)
	}
}
