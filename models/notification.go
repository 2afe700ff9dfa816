package models

import (
	"gorm.io/gorm"
)

// Notification is an in-app message, created alongside the best-effort email.
type Notification struct {
	gorm.Model
	UserEmail string `gorm:"index;not null" json:"user_email"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	Read      bool   `gorm:"default:false" json:"read"`
}
