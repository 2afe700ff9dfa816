package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/Abhinav-710/LearnOrbit/config"
	"github.com/Abhinav-710/LearnOrbit/models"
	"github.com/Abhinav-710/LearnOrbit/utils"
	"github.com/gin-gonic/gin"
)

type webhookPaymentEntity struct {
	ID               string `json:"id"`
	OrderID          string `json:"order_id"`
	Method           string `json:"method"`
	Bank             string `json:"bank"`
	Wallet           string `json:"wallet"`
	VPA              string `json:"vpa"`
	ErrorCode        string `json:"error_code"`
	ErrorDescription string `json:"error_description"`
}

type webhookPayload struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity webhookPaymentEntity `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandleRazorpayWebhook processes asynchronous payment events. The signature
// is checked over the raw body before any parsing. Events we cannot act on
// (unknown event types, order ids we never issued) are acknowledged with
// success so the provider stops retrying them.
func HandleRazorpayWebhook(c *gin.Context) {
	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.BadRequest(c, "Unable to read request body", nil)
		return
	}

	signature := c.GetHeader("X-Razorpay-Signature")
	if !utils.VerifyRazorpayWebhookSignature(rawBody, signature) {
		utils.LogError("Webhook signature verification failed")
		utils.BadRequest(c, "Invalid signature", nil)
		return
	}

	var payload webhookPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		utils.LogError("Malformed webhook body: %v", err)
		utils.BadRequest(c, "Malformed webhook body", nil)
		return
	}

	entity := payload.Payload.Payment.Entity
	if entity.OrderID == "" {
		utils.Success(c, "ok", nil)
		return
	}

	db := config.DB
	var payment models.Payment
	if err := db.Where("order_id = ?", entity.OrderID).First(&payment).Error; err != nil {
		// Stale or test event for an order we never created.
		utils.LogInfo("Webhook for unknown order %s acknowledged", entity.OrderID)
		utils.Success(c, "ok", nil)
		return
	}

	switch payload.Event {
	case "payment.failed":
		if payment.Status.CanTransitionTo(models.PaymentStatusFailed) {
			payment.Status = models.PaymentStatusFailed
			if entity.ID != "" {
				payment.PaymentID = entity.ID
			}
			payment.Method = entity.Method
			payment.Bank = entity.Bank
			payment.Wallet = entity.Wallet
			payment.VPA = entity.VPA
			payment.ErrorCode = entity.ErrorCode
			payment.ErrorDescription = entity.ErrorDescription
			if err := db.Save(&payment).Error; err != nil {
				utils.LogError("Failed to mark payment %d failed: %v", payment.ID, err)
				utils.InternalServerError(c, "Webhook failed", err)
				return
			}
		}

	case "payment.captured":
		if payment.Status != models.PaymentStatusPaid {
			if !payment.Status.CanTransitionTo(models.PaymentStatusPaid) {
				utils.LogInfo("Ignoring capture for payment %d in state %s", payment.ID, payment.Status)
				utils.Success(c, "ok", nil)
				return
			}
			now := time.Now()
			payment.Status = models.PaymentStatusPaid
			if entity.ID != "" {
				payment.PaymentID = entity.ID
			}
			payment.Method = entity.Method
			payment.Bank = entity.Bank
			payment.Wallet = entity.Wallet
			payment.VPA = entity.VPA
			payment.PaidAt = &now
			if err := db.Save(&payment).Error; err != nil {
				utils.LogError("Failed to mark payment %d paid: %v", payment.ID, err)
				utils.InternalServerError(c, "Webhook failed", err)
				return
			}
		}
		// Always attempt activation, even on redelivery: the gate inside
		// makes duplicates no-ops.
		subscription, err := ApplyPostPaymentUpdates(db, &payment)
		if err != nil {
			utils.InternalServerError(c, "Webhook failed", err)
			return
		}
		if subscription != nil {
			utils.CreateNotification(payment.UserEmail, "Subscription activated",
				fmt.Sprintf("Your %s plan is now active.", payment.Plan), "subscription")
		}

	case "refund.processed":
		// Flips the payment only; the subscription and the user mirror are
		// left for manual reconciliation.
		if payment.Status.CanTransitionTo(models.PaymentStatusRefunded) {
			payment.Status = models.PaymentStatusRefunded
			if err := db.Save(&payment).Error; err != nil {
				utils.LogError("Failed to mark payment %d refunded: %v", payment.ID, err)
				utils.InternalServerError(c, "Webhook failed", err)
				return
			}
		}

	default:
		utils.LogDebug("Ignoring webhook event %s", payload.Event)
	}

	utils.Success(c, "ok", nil)
}
