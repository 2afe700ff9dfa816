package controllers

import (
	"github.com/Abhinav-710/LearnOrbit/config"
	"github.com/Abhinav-710/LearnOrbit/models"
	"github.com/Abhinav-710/LearnOrbit/utils"
	"github.com/gin-gonic/gin"
)

// ListNotifications returns the authenticated user's notifications, newest
// first.
func ListNotifications(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var notifications []models.Notification
	if err := config.DB.Where("user_email = ?", user.Email).
		Order("created_at DESC").Limit(100).Find(&notifications).Error; err != nil {
		utils.LogError("Failed to load notifications for %s: %v", user.Email, err)
		utils.InternalServerError(c, "Failed to load notifications", err)
		return
	}

	utils.Success(c, "Notifications retrieved successfully", gin.H{"notifications": notifications})
}
