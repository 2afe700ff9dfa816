package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	razorpay "github.com/razorpay/razorpay-go"
)

// RazorpayOrder is the slice of the provider's order we care about.
type RazorpayOrder struct {
	ID       string
	Amount   int64
	Currency string
}

// RazorpayPaymentDetails holds the diagnostic fields fetched after capture.
type RazorpayPaymentDetails struct {
	Method string
	Bank   string
	Wallet string
	VPA    string
}

// CreateRazorpayOrder creates a remote order for an amount in paise. It is a
// package variable so handler tests can stub the gateway.
var CreateRazorpayOrder = func(amountPaise int64, currency, receipt string, notes map[string]interface{}) (*RazorpayOrder, error) {
	keyID := os.Getenv("RAZORPAY_KEY_ID")
	keySecret := os.Getenv("RAZORPAY_KEY_SECRET")
	if keyID == "" || keySecret == "" {
		return nil, fmt.Errorf("razorpay is not configured")
	}

	client := razorpay.NewClient(keyID, keySecret)
	orderData := map[string]interface{}{
		"amount":          amountPaise,
		"currency":        currency,
		"receipt":         receipt,
		"payment_capture": 1,
	}
	if len(notes) > 0 {
		orderData["notes"] = notes
	}

	rzOrder, err := client.Order.Create(orderData, nil)
	if err != nil {
		return nil, err
	}
	return &RazorpayOrder{
		ID:       fmt.Sprintf("%v", rzOrder["id"]),
		Amount:   amountPaise,
		Currency: currency,
	}, nil
}

// FetchRazorpayPayment fetches method/bank/wallet/vpa for a captured payment.
// Best-effort enrichment only; callers must tolerate failure. Stubbed in tests.
var FetchRazorpayPayment = func(paymentID string) (*RazorpayPaymentDetails, error) {
	keyID := os.Getenv("RAZORPAY_KEY_ID")
	keySecret := os.Getenv("RAZORPAY_KEY_SECRET")
	if keyID == "" || keySecret == "" {
		return nil, fmt.Errorf("razorpay is not configured")
	}

	client := razorpay.NewClient(keyID, keySecret)
	data, err := client.Payment.Fetch(paymentID, nil, nil)
	if err != nil {
		return nil, err
	}

	details := &RazorpayPaymentDetails{}
	if v, ok := data["method"].(string); ok {
		details.Method = v
	}
	if v, ok := data["bank"].(string); ok {
		details.Bank = v
	}
	if v, ok := data["wallet"].(string); ok {
		details.Wallet = v
	}
	if v, ok := data["vpa"].(string); ok {
		details.VPA = v
	}
	return details, nil
}

// RazorpayErrorDetails is the provider-visible slice of an API failure.
type RazorpayErrorDetails struct {
	Code        string
	Description string
	Field       string
}

// ExtractRazorpayError pulls the provider code/description out of a
// razorpay-go error. The SDK surfaces API failures as the raw response body,
// a JSON envelope of the form {"error":{"code":...,"description":...}}.
// Returns nil when the error carries no such envelope.
func ExtractRazorpayError(err error) *RazorpayErrorDetails {
	if err == nil {
		return nil
	}

	var payload struct {
		Error struct {
			Code             string `json:"code"`
			ErrorCode        string `json:"error_code"`
			Description      string `json:"description"`
			ErrorDescription string `json:"error_description"`
			Field            string `json:"field"`
		} `json:"error"`
	}
	if jsonErr := json.Unmarshal([]byte(err.Error()), &payload); jsonErr != nil {
		return nil
	}

	details := &RazorpayErrorDetails{
		Code:        payload.Error.Code,
		Description: payload.Error.Description,
		Field:       payload.Error.Field,
	}
	if details.Code == "" {
		details.Code = payload.Error.ErrorCode
	}
	if details.Description == "" {
		details.Description = payload.Error.ErrorDescription
	}
	if details.Code == "" && details.Description == "" {
		return nil
	}
	return details
}

// VerifyRazorpaySignature checks the checkout signature, an HMAC-SHA256 over
// "order_id|payment_id" with the key secret. A missing secret fails closed.
func VerifyRazorpaySignature(orderID, paymentID, signature string) bool {
	keySecret := os.Getenv("RAZORPAY_KEY_SECRET")
	if keySecret == "" || signature == "" {
		return false
	}
	return hmacMatches(keySecret, orderID+"|"+paymentID, signature)
}

// VerifyRazorpayWebhookSignature checks the webhook signature, an HMAC-SHA256
// over the raw request body with the webhook secret. The body must be the raw
// bytes as received, before any JSON parsing.
func VerifyRazorpayWebhookSignature(rawBody []byte, signature string) bool {
	webhookSecret := os.Getenv("RAZORPAY_WEBHOOK_SECRET")
	if webhookSecret == "" || signature == "" || len(rawBody) == 0 {
		return false
	}
	return hmacMatches(webhookSecret, string(rawBody), signature)
}

func hmacMatches(secret, payload, signature string) bool {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(payload))
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// BuildRazorpayReceipt derives a receipt from the plan and user. Razorpay caps
// receipts at 40 characters; the timestamp keeps retries collision-free
// without needing global uniqueness.
func BuildRazorpayReceipt(planName string, userID uint) string {
	suffix := strconv.FormatUint(uint64(userID), 10)
	if len(suffix) > 8 {
		suffix = suffix[len(suffix)-8:]
	}
	receipt := fmt.Sprintf("plan-%s-%s-%d", planName, suffix, time.Now().UnixMilli())
	if len(receipt) > 40 {
		receipt = receipt[:40]
	}
	return receipt
}
