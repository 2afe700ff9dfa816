package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon is a percent-off discount code. UsesTotal is an advisory aggregate;
// the per-user guard is the unique index on CouponRedemption.
type Coupon struct {
	gorm.Model
	Code           string     `gorm:"uniqueIndex;not null" json:"code"`
	PercentOff     int        `gorm:"not null" json:"percent_off"`
	Description    string     `json:"description"`
	IsActive       bool       `gorm:"default:true" json:"is_active"`
	MaxUsesTotal   int        `json:"max_uses_total"` // 0 means unlimited
	MaxUsesPerUser int        `gorm:"default:1" json:"max_uses_per_user"`
	UsesTotal      int        `json:"uses_total"`
	ExpiresAt      *time.Time `json:"expires_at"`
}

// CouponRedemption records that a user has claimed a coupon. A row is inserted
// (if absent) when an order referencing the coupon is created, so the claim
// exists before the payment settles.
type CouponRedemption struct {
	gorm.Model
	CouponCode string `gorm:"uniqueIndex:idx_coupon_redemptions_code_user;not null" json:"coupon_code"`
	UserID     uint   `gorm:"uniqueIndex:idx_coupon_redemptions_code_user;not null" json:"user_id"`
	CouponID   uint   `json:"coupon_id"`
	PaymentID  uint   `json:"payment_id"`
}
