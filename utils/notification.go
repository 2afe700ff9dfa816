package utils

import (
	"github.com/Abhinav-710/LearnOrbit/config"
	"github.com/Abhinav-710/LearnOrbit/models"
)

// CreateNotification stores an in-app notification and emails the user.
// Fire-and-forget: failures are logged and never bubble up to the caller,
// so activation cannot be blocked by the dispatcher.
func CreateNotification(userEmail, title, message, notificationType string) {
	notification := models.Notification{
		UserEmail: userEmail,
		Title:     title,
		Message:   message,
		Type:      notificationType,
	}
	if err := config.DB.Create(&notification).Error; err != nil {
		LogError("Failed to create notification for %s: %v", userEmail, err)
	}

	go func() {
		if err := SendEmail(userEmail, title, message); err != nil {
			LogError("Failed to send notification email to %s: %v", userEmail, err)
		}
	}()
}
