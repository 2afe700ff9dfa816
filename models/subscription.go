package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusExpired   = "expired"
	SubscriptionStatusCancelled = "cancelled"
)

// Subscription grants a plan's benefits to a user for a period. A nil EndDate
// means lifetime access. The activator keeps at most one active subscription
// per user by expiring prior actives in the same transaction that creates the
// new one.
type Subscription struct {
	gorm.Model
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	UserEmail string     `gorm:"index" json:"user_email"`
	UserName  string     `json:"user_name"`
	Plan      string     `gorm:"not null" json:"plan"`
	Status    string     `gorm:"default:active" json:"status"`
	StartDate time.Time  `gorm:"not null" json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	IsActive  bool       `gorm:"default:true" json:"is_active"`
}
