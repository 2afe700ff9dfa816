package controllers

import (
	"strings"

	"github.com/Abhinav-710/LearnOrbit/config"
	"github.com/Abhinav-710/LearnOrbit/models"
	"github.com/Abhinav-710/LearnOrbit/utils"
	"github.com/gin-gonic/gin"
)

// ValidateCouponRequest is the body for the coupon preview endpoint.
type ValidateCouponRequest struct {
	Code string `json:"code" binding:"required"`
	Plan string `json:"plan"`
}

// ValidateCoupon previews a coupon for the authenticated user without any
// side effects. When a plan is supplied the response includes the discounted
// pricing against that plan's full price.
func ValidateCoupon(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var req ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "coupon code is required", err.Error())
		return
	}

	db := config.DB
	coupon, appErr := validateCouponForUser(db, req.Code, user.ID)
	if appErr != nil {
		if appErr.Err != nil {
			utils.LogError("Coupon validation failed for user ID: %d: %v", user.ID, appErr.Err)
		}
		utils.RespondAppError(c, appErr)
		return
	}

	data := gin.H{
		"valid":       true,
		"code":        coupon.Code,
		"percent_off": coupon.PercentOff,
	}

	if req.Plan != "" {
		planName := strings.ToLower(strings.TrimSpace(req.Plan))
		var plan models.SubscriptionPlan
		if err := db.Where("plan_name = ? AND is_active = ?", planName, true).First(&plan).Error; err != nil {
			utils.NotFound(c, "Plan not available")
			return
		}
		discountAmount := utils.PercentDiscount(plan.Price, coupon.PercentOff)
		finalAmount := plan.Price - discountAmount
		if finalAmount < 0 {
			finalAmount = 0
		}
		data["base_amount"] = plan.Price
		data["discount_amount"] = discountAmount
		data["final_amount"] = finalAmount
	}

	utils.Success(c, "Coupon is valid", data)
}
