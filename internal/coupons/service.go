package coupons

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/andrefarias/pedefacil-backend/pkg/db/models"
	"github.com/andrefarias/pedefacil-backend/pkg/enums"
	pkgerrors "github.com/andrefarias/pedefacil-backend/pkg/errors"
)

// Service exposes coupon validation and admin management.
type Service interface {
	Validate(ctx context.Context, code, phone string) (*models.Coupon, error)
	MarkUsed(ctx context.Context, tx *gorm.DB, code, phone string) error
	Create(ctx context.Context, input CreateInput) (*models.Coupon, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Coupon, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]models.Coupon, error)
}

// CreateInput carries the admin-facing fields of a new coupon.
type CreateInput struct {
	Code      string
	Type      enums.CouponType
	Value     decimal.Decimal
	ExpiresAt *time.Time
}

// UpdateInput uses pointers so partial updates leave untouched fields alone.
type UpdateInput struct {
	Value     *decimal.Decimal
	IsActive  *bool
	ExpiresAt *time.Time
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds the coupon service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository is required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// Validate checks that the coupon exists, is active, has not expired, and has
// not been redeemed by this phone before. Inactive coupons are reported as not
// found so disabled codes are indistinguishable from unknown ones.
func (s *service) Validate(ctx context.Context, code, phone string) (*models.Coupon, error) {
	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading coupon")
	}
	if !coupon.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}
	if coupon.ExpiresAt != nil && coupon.ExpiresAt.Before(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeExpired, "coupon expired")
	}
	if containsPhone(coupon.UsedBy, phone) {
		return nil, pkgerrors.New(pkgerrors.CodeAlreadyUsed, "coupon already used by this phone")
	}
	return coupon, nil
}

// MarkUsed records a redemption for the phone. It is idempotent: a phone
// already present leaves the row unchanged. Passing tx binds the write to a
// surrounding transaction.
func (s *service) MarkUsed(ctx context.Context, tx *gorm.DB, code, phone string) error {
	repo := s.repo
	if tx != nil {
		repo = repo.WithTx(tx)
	}

	coupon, err := repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading coupon")
	}

	updated, changed := appendPhone(coupon.UsedBy, phone)
	if !changed {
		return nil
	}
	coupon.UsedBy = updated
	if _, err := repo.Update(ctx, coupon); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving coupon redemption")
	}
	return nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Coupon, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown coupon type")
	}
	if err := validateValue(input.Type, input.Value); err != nil {
		return nil, err
	}

	coupon := &models.Coupon{
		Code:      code,
		Type:      input.Type,
		Value:     input.Value,
		IsActive:  true,
		ExpiresAt: input.ExpiresAt,
	}
	created, err := s.repo.Create(ctx, coupon)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "creating coupon")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Coupon, error) {
	coupon, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading coupon")
	}

	if input.Value != nil {
		if err := validateValue(coupon.Type, *input.Value); err != nil {
			return nil, err
		}
		coupon.Value = *input.Value
	}
	if input.IsActive != nil {
		coupon.IsActive = *input.IsActive
	}
	if input.ExpiresAt != nil {
		coupon.ExpiresAt = input.ExpiresAt
	}

	updated, err := s.repo.Update(ctx, coupon)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating coupon")
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting coupon")
	}
	return nil
}

func (s *service) List(ctx context.Context) ([]models.Coupon, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing coupons")
	}
	return out, nil
}

func validateValue(couponType enums.CouponType, value decimal.Decimal) error {
	switch couponType {
	case enums.CouponTypePercentage:
		if value.LessThanOrEqual(decimal.Zero) || value.GreaterThan(decimal.NewFromInt(100)) {
			return pkgerrors.New(pkgerrors.CodeValidation, "percentage must be between 0 and 100")
		}
	case enums.CouponTypeFixed:
		if value.LessThanOrEqual(decimal.Zero) {
			return pkgerrors.New(pkgerrors.CodeValidation, "fixed value must be positive")
		}
	case enums.CouponTypeFreeDelivery:
		if !value.IsZero() {
			return pkgerrors.New(pkgerrors.CodeValidation, "free delivery coupons carry no value")
		}
	}
	return nil
}

// NormalizePhone strips everything but digits so stored and compared phones
// share one canonical form.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func containsPhone(used []string, phone string) bool {
	needle := NormalizePhone(phone)
	for _, entry := range used {
		if NormalizePhone(entry) == needle {
			return true
		}
	}
	return false
}

// appendPhone adds the normalized phone when absent, reporting whether the
// slice changed.
func appendPhone(used []string, phone string) ([]string, bool) {
	if containsPhone(used, phone) {
		return used, false
	}
	return append(used, NormalizePhone(phone)), true
}
