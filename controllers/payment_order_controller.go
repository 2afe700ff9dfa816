package controllers

import (
	"net/http"
	"os"
	"strings"

	"github.com/Abhinav-710/LearnOrbit/config"
	"github.com/Abhinav-710/LearnOrbit/models"
	"github.com/Abhinav-710/LearnOrbit/utils"
	"github.com/gin-gonic/gin"
)

// Razorpay refuses orders under INR 1, so a fully discounted order still
// cannot go through the gateway.
const minPayableAmountPaise = 100

// CreateOrderRequest is the body for POST /payments/order.
type CreateOrderRequest struct {
	Plan       string `json:"plan" binding:"required"`
	CouponCode string `json:"coupon_code"`
}

// CreatePaymentOrder computes the payable amount for a plan purchase or
// upgrade, creates the remote Razorpay order and persists the local Payment
// record in created state.
func CreatePaymentOrder(c *gin.Context) {
	utils.LogInfo("CreatePaymentOrder called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid order request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request. plan is required", err.Error())
		return
	}

	db := config.DB
	planName := strings.ToLower(strings.TrimSpace(req.Plan))
	var plan models.SubscriptionPlan
	if err := db.Where("plan_name = ? AND is_active = ?", planName, true).First(&plan).Error; err != nil {
		utils.LogError("Plan not available: %s for user ID: %d", planName, user.ID)
		utils.NotFound(c, "Plan not available")
		return
	}

	// Upgrade proration: flat price difference against the user's current
	// plan, never time-weighted. Only strict price increases are allowed.
	var currentPlan *models.SubscriptionPlan
	if user.SubscriptionStatus == models.SubscriptionStatusActive && user.SubscriptionPlan != "" {
		var cp models.SubscriptionPlan
		if err := db.Where("plan_name = ?", user.SubscriptionPlan).First(&cp).Error; err == nil {
			currentPlan = &cp
		}
	}

	baseAmount := plan.Price
	payableAmount := baseAmount
	upgradeFrom := ""
	if currentPlan != nil {
		if currentPlan.PlanName == plan.PlanName {
			utils.BadRequest(c, "You already have this plan", nil)
			return
		}
		if baseAmount <= currentPlan.Price {
			utils.BadRequest(c, "Only upgrades are allowed", nil)
			return
		}
		payableAmount = baseAmount - currentPlan.Price
		upgradeFrom = currentPlan.PlanName
	}

	// The coupon discounts the already-prorated amount, not the plan price.
	var coupon *models.Coupon
	discountPercent := 0
	var discountAmount int64
	if req.CouponCode != "" {
		validated, appErr := validateCouponForUser(db, req.CouponCode, user.ID)
		if appErr != nil {
			utils.LogInfo("Coupon %s rejected for user ID: %d: %s", req.CouponCode, user.ID, appErr.Message)
			utils.RespondAppError(c, appErr)
			return
		}
		coupon = validated
		discountPercent = coupon.PercentOff
		discountAmount = utils.PercentDiscount(payableAmount, discountPercent)
	}

	finalAmount := payableAmount - discountAmount
	if finalAmount < 0 {
		finalAmount = 0
	}
	if finalAmount < minPayableAmountPaise {
		utils.BadRequest(c, "Amount must be at least INR 1", nil)
		return
	}

	order, err := utils.CreateRazorpayOrder(finalAmount, "INR",
		utils.BuildRazorpayReceipt(plan.PlanName, user.ID),
		map[string]interface{}{
			"plan":       plan.PlanName,
			"user_email": user.Email,
		})
	if err != nil {
		utils.LogError("Failed to create Razorpay order for user ID: %d: %v", user.ID, err)
		// The provider's description becomes the caller-visible error; the
		// raw error body stays behind the debug flag.
		message := "Failed to create payment order"
		data := gin.H{"correlation_id": c.GetString("RequestID")}
		if details := utils.ExtractRazorpayError(err); details != nil {
			if details.Description != "" {
				message = details.Description
			}
			if details.Code != "" {
				data["code"] = details.Code
			}
		}
		if os.Getenv("DEBUG_API_ERRORS") == "true" {
			data["detail"] = err.Error()
		}
		utils.Error(c, http.StatusInternalServerError, message, data)
		return
	}
	utils.LogInfo("Created Razorpay order %s for user ID: %d, amount: %d paise", order.ID, user.ID, finalAmount)

	payment := models.Payment{
		UserID:          user.ID,
		UserEmail:       user.Email,
		UserName:        user.FullName,
		Plan:            plan.PlanName,
		BaseAmount:      baseAmount,
		Amount:          finalAmount,
		DiscountPercent: discountPercent,
		DiscountAmount:  discountAmount,
		Currency:        order.Currency,
		Status:          models.PaymentStatusCreated,
		Provider:        "razorpay",
		UpgradeFrom:     upgradeFrom,
		OrderID:         order.ID,
	}
	if coupon != nil {
		payment.CouponCode = coupon.Code
	}
	if err := db.Create(&payment).Error; err != nil {
		utils.LogError("Failed to record payment for order %s: %v", order.ID, err)
		utils.InternalServerError(c, "Failed to record payment", err)
		return
	}

	if coupon != nil {
		reserveCouponRedemption(db, coupon, user.ID, payment.ID)
	}

	utils.Success(c, "Payment order created", gin.H{
		"order_id":          order.ID,
		"amount":            finalAmount,
		"currency":          order.Currency,
		"amount_display":    "₹" + utils.FormatAmount(finalAmount),
		"key_id":            os.Getenv("RAZORPAY_KEY_ID"),
		"payment_record_id": payment.ID,
		"plan":              plan.PlanName,
		"base_amount":       baseAmount,
		"discount_percent":  discountPercent,
		"discount_amount":   discountAmount,
		"upgrade_from":      upgradeFrom,
	})
}
