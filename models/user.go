package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a learner or admin account. The subscription_* columns are a
// denormalized mirror of the most recently activated Subscription and must be
// kept in step with it.
type User struct {
	gorm.Model
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Password    string    `json:"-"`
	FullName    string    `json:"full_name"`
	Phone       string    `json:"phone"`
	IsBlocked   bool      `json:"is_blocked"`
	IsAdmin     bool      `gorm:"default:false" json:"is_admin"`
	LastLoginAt time.Time `json:"last_login_at"`

	SubscriptionPlan      string     `json:"subscription_plan"`
	SubscriptionStatus    string     `json:"subscription_status"`
	SubscriptionStartDate *time.Time `json:"subscription_start_date"`
	SubscriptionEndDate   *time.Time `json:"subscription_end_date"`
}
