package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/Abhinav-710/LearnOrbit/models"
	"github.com/Abhinav-710/LearnOrbit/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// validateCouponForUser runs the side-effect-free coupon checks shared by the
// preview endpoint and order creation. It returns the coupon when usable, or
// an AppError carrying the rejection status and a display-ready message.
func validateCouponForUser(db *gorm.DB, code string, userID uint) (*models.Coupon, *utils.AppError) {
	normalized := strings.ToUpper(strings.TrimSpace(code))

	var coupon models.Coupon
	if err := db.Where("code = ? AND is_active = ?", normalized, true).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundError("Invalid coupon code")
		}
		return nil, utils.InternalError("Failed to validate coupon", err)
	}

	if coupon.ExpiresAt != nil && coupon.ExpiresAt.Before(time.Now()) {
		return nil, utils.BadRequestError("Coupon expired")
	}

	// Read-then-act: two validations racing near the cap can both pass and
	// later both increment, overshooting max_uses_total by a small margin.
	// The unique index on coupon_redemptions is the real per-user guard;
	// uses_total is an advisory aggregate.
	if coupon.MaxUsesTotal > 0 && coupon.UsesTotal >= coupon.MaxUsesTotal {
		return nil, utils.BadRequestError("Coupon usage limit reached")
	}

	var redemption models.CouponRedemption
	err := db.Where("coupon_code = ? AND user_id = ?", coupon.Code, userID).First(&redemption).Error
	if err == nil {
		return nil, utils.BadRequestError("Coupon already used")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.InternalError("Failed to validate coupon", err)
	}

	if coupon.PercentOff <= 0 || coupon.PercentOff > 100 {
		return nil, utils.BadRequestError("Coupon is not valid")
	}

	return &coupon, nil
}

// reserveCouponRedemption soft-claims the coupon for the user as soon as an
// order referencing it exists. Insert-if-absent: a duplicate claim is not an
// error and must never fail the order that triggered it.
func reserveCouponRedemption(db *gorm.DB, coupon *models.Coupon, userID, paymentID uint) {
	redemption := models.CouponRedemption{
		CouponCode: coupon.Code,
		CouponID:   coupon.ID,
		UserID:     userID,
		PaymentID:  paymentID,
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&redemption).Error; err != nil {
		utils.LogError("Failed to reserve coupon %s for user %d: %v", coupon.Code, userID, err)
	}
}
