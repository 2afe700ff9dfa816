package models

import (
	"time"

	"gorm.io/gorm"
)

// PaymentStatus is the lifecycle state of one checkout attempt.
type PaymentStatus string

const (
	PaymentStatusCreated   PaymentStatus = "created"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// CanTransitionTo reports whether moving to next is a legal lifecycle step.
// failed, cancelled and refunded are terminal; paid only moves to refunded.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	switch s {
	case PaymentStatusCreated:
		return next == PaymentStatusPaid || next == PaymentStatusFailed || next == PaymentStatusCancelled
	case PaymentStatusPaid:
		return next == PaymentStatusRefunded
	default:
		return false
	}
}

// Payment tracks one checkout attempt against Razorpay. All amounts are in
// paise. SubscriptionActivated is the idempotency gate for activation: it is
// set at most once, only after the payment is paid.
type Payment struct {
	gorm.Model
	UserID    uint   `gorm:"index;not null" json:"user_id"`
	UserEmail string `gorm:"index" json:"user_email"`
	UserName  string `json:"user_name"`
	Plan      string `gorm:"not null" json:"plan"`

	BaseAmount      int64  `json:"base_amount"`
	Amount          int64  `gorm:"not null" json:"amount"`
	DiscountPercent int    `json:"discount_percent"`
	DiscountAmount  int64  `json:"discount_amount"`
	Currency        string `gorm:"default:INR" json:"currency"`

	Status      PaymentStatus `gorm:"default:created" json:"status"`
	Provider    string        `gorm:"default:razorpay" json:"provider"`
	UpgradeFrom string        `json:"upgrade_from"`
	OrderID     string        `gorm:"index" json:"order_id"`
	PaymentID   string        `gorm:"index" json:"payment_id"`

	Method           string `json:"method"`
	Bank             string `json:"bank"`
	Wallet           string `json:"wallet"`
	VPA              string `json:"vpa"`
	ErrorCode        string `json:"error_code"`
	ErrorDescription string `json:"error_description"`

	CouponCode            string     `json:"coupon_code"`
	CouponRedeemed        bool       `json:"coupon_redeemed"`
	PaidAt                *time.Time `json:"paid_at"`
	SubscriptionActivated bool       `json:"subscription_activated"`
}
