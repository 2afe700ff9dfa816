package utils

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Abhinav-710/LearnOrbit/models"
)

// ComputeSubscriptionEndDate returns the expiry for a subscription to plan
// starting at startDate, or nil for lifetime plans. Deterministic for a given
// (plan, startDate); both the order preview and activation use it so the two
// never drift. Month arithmetic follows time.AddDate normalization.
func ComputeSubscriptionEndDate(plan *models.SubscriptionPlan, startDate time.Time) *time.Time {
	if plan == nil || plan.IsLifetime {
		return nil
	}
	value := plan.DurationValue
	if value <= 0 {
		value = 1
	}
	var end time.Time
	switch strings.ToLower(plan.DurationUnit) {
	case "days":
		end = startDate.AddDate(0, 0, value)
	case "years":
		end = startDate.AddDate(value, 0, 0)
	default:
		end = startDate.AddDate(0, value, 0)
	}
	return &end
}

// PercentDiscount computes round(amount*percent/100) in paise, clamped so the
// discount never exceeds the amount.
func PercentDiscount(amount int64, percent int) int64 {
	if amount <= 0 || percent <= 0 {
		return 0
	}
	discount := int64(math.Round(float64(amount) * float64(percent) / 100))
	if discount > amount {
		return amount
	}
	return discount
}

// FormatAmount renders paise as a rupee string. This is the only place
// amounts leave minor units.
func FormatAmount(paise int64) string {
	return fmt.Sprintf("%.2f", float64(paise)/100)
}
