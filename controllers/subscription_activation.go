package controllers

import (
	"errors"
	"time"

	"github.com/Abhinav-710/LearnOrbit/models"
	"github.com/Abhinav-710/LearnOrbit/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApplyPostPaymentUpdates activates the subscription purchased by a paid
// payment: expires the user's prior active subscriptions, creates the new
// one, mirrors it onto the user row and confirms the coupon redemption, all
// in one transaction.
//
// It must stay safe to call any number of times for the same payment. The
// synchronous verify endpoint and the Razorpay webhook both land here, in
// either order, and the provider redelivers webhooks on retry; the
// subscription_activated flag is the idempotency gate that makes every call
// after the first a no-op. Returns nil, nil when there is nothing to do.
func ApplyPostPaymentUpdates(db *gorm.DB, payment *models.Payment) (*models.Subscription, error) {
	if payment == nil || payment.SubscriptionActivated {
		return nil, nil
	}

	startDate := time.Now()
	var endDate *time.Time
	var plan models.SubscriptionPlan
	if err := db.Where("plan_name = ?", payment.Plan).First(&plan).Error; err == nil {
		endDate = utils.ComputeSubscriptionEndDate(&plan, startDate)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	subscription := models.Subscription{
		UserID:    payment.UserID,
		UserEmail: payment.UserEmail,
		UserName:  payment.UserName,
		Plan:      payment.Plan,
		Status:    models.SubscriptionStatusActive,
		StartDate: startDate,
		EndDate:   endDate,
		IsActive:  true,
	}

	couponRedeemedBefore := payment.CouponRedeemed
	err := db.Transaction(func(tx *gorm.DB) error {
		// Expiring by {user_id, status: active} filter only touches genuinely
		// active rows, so re-running after a partial failure is harmless.
		if err := tx.Model(&models.Subscription{}).
			Where("user_id = ? AND status = ?", payment.UserID, models.SubscriptionStatusActive).
			Updates(map[string]interface{}{
				"status":    models.SubscriptionStatusExpired,
				"is_active": false,
			}).Error; err != nil {
			return err
		}

		if err := tx.Create(&subscription).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.User{}).Where("id = ?", payment.UserID).
			Updates(map[string]interface{}{
				"subscription_plan":       payment.Plan,
				"subscription_status":     models.SubscriptionStatusActive,
				"subscription_start_date": startDate,
				"subscription_end_date":   endDate,
			}).Error; err != nil {
			return err
		}

		if payment.CouponCode != "" && !payment.CouponRedeemed {
			var coupon models.Coupon
			err := tx.Where("code = ?", payment.CouponCode).First(&coupon).Error
			if err == nil {
				redemption := models.CouponRedemption{
					CouponCode: coupon.Code,
					CouponID:   coupon.ID,
					UserID:     payment.UserID,
					PaymentID:  payment.ID,
				}
				if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&redemption).Error; err != nil {
					return err
				}
				// Atomic increment, not read-modify-write.
				if err := tx.Model(&models.Coupon{}).Where("id = ?", coupon.ID).
					UpdateColumn("uses_total", gorm.Expr("uses_total + ?", 1)).Error; err != nil {
					return err
				}
				payment.CouponRedeemed = true
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		payment.SubscriptionActivated = true
		return tx.Save(payment).Error
	})
	if err != nil {
		payment.SubscriptionActivated = false
		payment.CouponRedeemed = couponRedeemedBefore
		utils.LogError("Failed to activate subscription for payment %d: %v", payment.ID, err)
		return nil, err
	}

	utils.LogInfo("Activated %s subscription %d for user ID: %d", subscription.Plan, subscription.ID, subscription.UserID)
	return &subscription, nil
}
