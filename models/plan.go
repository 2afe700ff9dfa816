package models

import (
	"gorm.io/gorm"
)

// SubscriptionPlan is a purchasable tier. Price is stored in paise; display
// formatting is the only place amounts are converted to rupees.
type SubscriptionPlan struct {
	gorm.Model
	PlanName      string `gorm:"uniqueIndex;not null" json:"plan_name"`
	DisplayName   string `gorm:"not null" json:"display_name"`
	Description   string `json:"description"`
	Price         int64  `json:"price"`
	DurationValue int    `gorm:"default:1" json:"duration_value"`
	DurationUnit  string `gorm:"default:months" json:"duration_unit"` // days, months or years
	IsLifetime    bool   `json:"is_lifetime"`
	IsPopular     bool   `json:"is_popular"`
	IsActive      bool   `gorm:"default:true" json:"is_active"`
	SortOrder     int    `json:"sort_order"`
}
