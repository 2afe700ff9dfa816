package controllers

import (
	"github.com/Abhinav-710/LearnOrbit/config"
	"github.com/Abhinav-710/LearnOrbit/models"
	"github.com/Abhinav-710/LearnOrbit/utils"
	"github.com/gin-gonic/gin"
)

// ListPayments returns the authenticated user's checkout history.
func ListPayments(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var payments []models.Payment
	if err := config.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").Find(&payments).Error; err != nil {
		utils.LogError("Failed to load payments for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to load payments", err)
		return
	}

	utils.Success(c, "Payments retrieved successfully", gin.H{"payments": payments})
}

// ListAllPayments returns every payment. Admin only (enforced by the route
// group).
func ListAllPayments(c *gin.Context) {
	var payments []models.Payment
	if err := config.DB.Order("created_at DESC").Find(&payments).Error; err != nil {
		utils.LogError("Failed to load payments: %v", err)
		utils.InternalServerError(c, "Failed to load payments", err)
		return
	}

	utils.Success(c, "Payments retrieved successfully", gin.H{"payments": payments})
}

// CancelPayment abandons a pending checkout. Only a created payment moves to
// cancelled; anything else is a no-op returning the current record.
func CancelPayment(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var payment models.Payment
	if err := config.DB.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).
		First(&payment).Error; err != nil {
		utils.NotFound(c, "Payment not found")
		return
	}

	if payment.Status != models.PaymentStatusCreated {
		utils.Success(c, "Payment is not pending", gin.H{"payment": payment})
		return
	}

	payment.Status = models.PaymentStatusCancelled
	payment.ErrorDescription = "Checkout cancelled"
	if err := config.DB.Save(&payment).Error; err != nil {
		utils.LogError("Failed to cancel payment %d: %v", payment.ID, err)
		utils.InternalServerError(c, "Failed to cancel payment", err)
		return
	}

	utils.LogInfo("Payment %d cancelled by user ID: %d", payment.ID, user.ID)
	utils.Success(c, "Payment cancelled", gin.H{"payment": payment})
}
