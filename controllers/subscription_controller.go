package controllers

import (
	"strconv"
	"strings"
	"time"

	"github.com/Abhinav-710/LearnOrbit/config"
	"github.com/Abhinav-710/LearnOrbit/models"
	"github.com/Abhinav-710/LearnOrbit/utils"
	"github.com/gin-gonic/gin"
)

// ListSubscriptions returns the user's subscriptions, or every subscription
// when an admin passes all=true. Supports status/plan filters and a limit.
func ListSubscriptions(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	query := config.DB.Model(&models.Subscription{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if plan := c.Query("plan"); plan != "" {
		query = query.Where("plan = ?", plan)
	}

	if c.Query("all") == "true" {
		if !user.IsAdmin {
			utils.Forbidden(c, "Admin access required")
			return
		}
	} else {
		query = query.Where("user_id = ? AND is_active = ?", user.ID, true)
	}

	limit := 100
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}

	var subscriptions []models.Subscription
	if err := query.Order("created_at DESC").Limit(limit).Find(&subscriptions).Error; err != nil {
		utils.LogError("Failed to load subscriptions for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to load subscriptions", err)
		return
	}

	utils.Success(c, "Subscriptions retrieved successfully", gin.H{"subscriptions": subscriptions})
}

// CreateSubscriptionRequest is the admin grant body. Dates default to
// now/now+plan duration when omitted.
type CreateSubscriptionRequest struct {
	UserID    uint       `json:"user_id" binding:"required"`
	Plan      string     `json:"plan" binding:"required"`
	Status    string     `json:"status"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// CreateSubscription grants a subscription outside the payment flow, e.g.
// for promotions or support cases. Admin only.
func CreateSubscription(c *gin.Context) {
	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "user_id and plan are required", err.Error())
		return
	}

	db := config.DB
	planName := strings.ToLower(strings.TrimSpace(req.Plan))
	var plan models.SubscriptionPlan
	if err := db.Where("plan_name = ? AND is_active = ?", planName, true).First(&plan).Error; err != nil {
		utils.BadRequest(c, "Plan is not available", nil)
		return
	}

	var user models.User
	if err := db.First(&user, req.UserID).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	startDate := time.Now()
	if req.StartDate != nil {
		startDate = *req.StartDate
	}
	endDate := req.EndDate
	if endDate == nil {
		endDate = utils.ComputeSubscriptionEndDate(&plan, startDate)
	}
	status := req.Status
	if status == "" {
		status = models.SubscriptionStatusActive
	}

	subscription := models.Subscription{
		UserID:    user.ID,
		UserEmail: user.Email,
		UserName:  user.FullName,
		Plan:      planName,
		Status:    status,
		StartDate: startDate,
		EndDate:   endDate,
		IsActive:  status == models.SubscriptionStatusActive,
	}
	if err := db.Create(&subscription).Error; err != nil {
		utils.LogError("Failed to create subscription for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to create subscription", err)
		return
	}

	if subscription.Status == models.SubscriptionStatusActive {
		if err := db.Model(&models.User{}).Where("id = ?", user.ID).
			Updates(map[string]interface{}{
				"subscription_plan":       planName,
				"subscription_status":     models.SubscriptionStatusActive,
				"subscription_start_date": startDate,
				"subscription_end_date":   endDate,
			}).Error; err != nil {
			utils.LogError("Failed to mirror subscription onto user ID: %d: %v", user.ID, err)
			utils.InternalServerError(c, "Failed to update user subscription", err)
			return
		}
		utils.CreateNotification(user.Email, "Subscription activated",
			"Your "+planName+" plan is now active.", "subscription")
	}

	utils.Created(c, "Subscription created successfully", gin.H{"subscription": subscription})
}

// UpdateSubscriptionRequest carries partial subscription updates.
type UpdateSubscriptionRequest struct {
	Status    *string    `json:"status"`
	Plan      *string    `json:"plan"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// UpdateSubscription edits a subscription. Owners can edit their own;
// admins can edit any.
func UpdateSubscription(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var subscription models.Subscription
	if err := config.DB.First(&subscription, c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Subscription not found")
		return
	}

	if !user.IsAdmin && subscription.UserID != user.ID {
		utils.Forbidden(c, "Not authorized")
		return
	}

	var req UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if req.Status != nil {
		subscription.Status = *req.Status
		subscription.IsActive = *req.Status == models.SubscriptionStatusActive
	}
	if req.Plan != nil {
		subscription.Plan = strings.ToLower(strings.TrimSpace(*req.Plan))
	}
	if req.StartDate != nil {
		subscription.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		subscription.EndDate = req.EndDate
	}

	if err := config.DB.Save(&subscription).Error; err != nil {
		utils.LogError("Failed to update subscription %d: %v", subscription.ID, err)
		utils.InternalServerError(c, "Failed to update subscription", err)
		return
	}

	if subscription.Status == models.SubscriptionStatusActive {
		if err := config.DB.Model(&models.User{}).Where("id = ?", subscription.UserID).
			Update("subscription_plan", subscription.Plan).Error; err != nil {
			utils.LogError("Failed to mirror plan onto user ID: %d: %v", subscription.UserID, err)
		}
	}

	utils.Success(c, "Subscription updated successfully", gin.H{"subscription": subscription})
}

// DeleteSubscription cancels a subscription (soft deactivate). Owners can
// cancel their own; admins can cancel any.
func DeleteSubscription(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var subscription models.Subscription
	if err := config.DB.First(&subscription, c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Subscription not found")
		return
	}

	if !user.IsAdmin && subscription.UserID != user.ID {
		utils.Forbidden(c, "Not authorized")
		return
	}

	subscription.IsActive = false
	subscription.Status = models.SubscriptionStatusCancelled
	if err := config.DB.Save(&subscription).Error; err != nil {
		utils.LogError("Failed to cancel subscription %d: %v", subscription.ID, err)
		utils.InternalServerError(c, "Failed to cancel subscription", err)
		return
	}

	utils.LogInfo("Subscription %d cancelled", subscription.ID)
	utils.Success(c, "Subscription cancelled", gin.H{"subscription": subscription})
}
