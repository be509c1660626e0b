package membership

import (
	"time"

	"github.com/rhanierex/Gym-Management/internal/models"
)

// Subscription policy: pure date and billing arithmetic. Everything here is
// deterministic; an unrecognized plan type falls back to monthly behavior
// rather than erroring, matching how the front desk has always priced it.

// PeriodDays returns the subscription length in days for a plan type
func PeriodDays(plan models.PlanType) int {
	switch plan {
	case models.PlanMonthly:
		return 30
	case models.PlanQuarterly:
		return 90
	case models.PlanSemiannual:
		return 180
	case models.PlanAnnual:
		return 365
	default:
		return 30
	}
}

// BilledMonths returns the fee multiplier for a plan type
func BilledMonths(plan models.PlanType) int {
	switch plan {
	case models.PlanMonthly:
		return 1
	case models.PlanQuarterly:
		return 3
	case models.PlanSemiannual:
		return 6
	case models.PlanAnnual:
		return 12
	default:
		return 1
	}
}

// ExpiryFrom computes the expiry date of a period starting at registeredAt
func ExpiryFrom(registeredAt time.Time, plan models.PlanType) time.Time {
	return registeredAt.AddDate(0, 0, PeriodDays(plan))
}

// InitialTotal computes the amount due on first registration: the plan's
// billed months times the monthly fee, plus the one-time registration fee.
func InitialTotal(plan models.PlanType, monthlyFee, registrationFee float64) float64 {
	return monthlyFee*float64(BilledMonths(plan)) + registrationFee
}

// RenewalTotal computes the amount due on renewal. The registration fee is
// waived; only the recurring portion is billed.
func RenewalTotal(plan models.PlanType, monthlyFee float64) float64 {
	return monthlyFee * float64(BilledMonths(plan))
}
