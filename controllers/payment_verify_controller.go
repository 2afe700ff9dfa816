package controllers

import (
	"fmt"
	"time"

	"github.com/Abhinav-710/LearnOrbit/config"
	"github.com/Abhinav-710/LearnOrbit/models"
	"github.com/Abhinav-710/LearnOrbit/utils"
	"github.com/gin-gonic/gin"
)

// VerifyPaymentRequest carries the client-side checkout result.
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

// VerifyPayment handles the synchronous verification call after checkout.
// Idempotent: an already-paid payment short-circuits to success, and
// activation itself tolerates replays, so racing the webhook is safe.
func VerifyPayment(c *gin.Context) {
	utils.LogInfo("VerifyPayment called")

	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Missing payment verification data", err.Error())
		return
	}

	db := config.DB
	var payment models.Payment
	if err := db.Where("order_id = ?", req.RazorpayOrderID).First(&payment).Error; err != nil {
		utils.LogError("Payment not found for order %s", req.RazorpayOrderID)
		utils.NotFound(c, "Payment not found")
		return
	}

	if payment.Status == models.PaymentStatusPaid {
		utils.LogInfo("Payment for order %s already paid, short-circuiting", req.RazorpayOrderID)
		utils.Success(c, "Payment already verified", gin.H{"status": string(models.PaymentStatusPaid)})
		return
	}

	if !utils.VerifyRazorpaySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		utils.LogError("Signature verification failed for order %s", req.RazorpayOrderID)
		if payment.Status.CanTransitionTo(models.PaymentStatusFailed) {
			payment.Status = models.PaymentStatusFailed
			payment.ErrorDescription = "Signature verification failed"
			if err := db.Save(&payment).Error; err != nil {
				utils.LogError("Failed to mark payment %d failed: %v", payment.ID, err)
			}
		}
		utils.BadRequest(c, "Payment verification failed", gin.H{"retry": true})
		return
	}

	if !payment.Status.CanTransitionTo(models.PaymentStatusPaid) {
		utils.LogError("Illegal transition %s -> paid for order %s", payment.Status, req.RazorpayOrderID)
		utils.BadRequest(c, "Payment can no longer be completed", nil)
		return
	}

	// Best-effort enrichment; activation proceeds without it.
	details, err := utils.FetchRazorpayPayment(req.RazorpayPaymentID)
	if err != nil {
		utils.LogDebug("Could not fetch payment details for %s: %v", req.RazorpayPaymentID, err)
		details = nil
	}

	now := time.Now()
	payment.Status = models.PaymentStatusPaid
	payment.PaymentID = req.RazorpayPaymentID
	payment.PaidAt = &now
	if details != nil {
		payment.Method = details.Method
		payment.Bank = details.Bank
		payment.Wallet = details.Wallet
		payment.VPA = details.VPA
	}
	if err := db.Save(&payment).Error; err != nil {
		utils.LogError("Failed to persist paid payment %d: %v", payment.ID, err)
		utils.InternalServerError(c, "Failed to update payment", err)
		return
	}

	subscription, err := ApplyPostPaymentUpdates(db, &payment)
	if err != nil {
		utils.InternalServerError(c, "Failed to activate subscription", err)
		return
	}

	if subscription != nil {
		utils.CreateNotification(payment.UserEmail, "Payment successful",
			fmt.Sprintf("Your payment for the %s plan was successful.", payment.Plan), "payment")
	}

	utils.Success(c, "Payment verified successfully", gin.H{"subscription": subscription})
}
