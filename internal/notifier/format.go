package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/rhanierex/Gym-Management/internal/membership"
	"github.com/rhanierex/Gym-Management/internal/models"
)

const divider = "━━━━━━━━━━━━━━━━━━━━━━"

// DaysLeftStatus renders the countdown line used across alerts and bot replies
func DaysLeftStatus(m models.Member, asOf time.Time) string {
	days := m.DaysLeft(asOf)
	switch {
	case days < 0:
		return fmt.Sprintf("❌ EXPIRED (%d days ago)", -days)
	case days == 0:
		return "⚠️ Expires TODAY"
	case days == 1:
		return "⚠️ Expires TOMORROW"
	default:
		return fmt.Sprintf("📅 Expires in %d days", days)
	}
}

// FormatExpiryAlert builds the HTML alert pushed by the scheduled check
func FormatExpiryAlert(members []models.Member, asOf time.Time) string {
	var b strings.Builder
	b.WriteString("🚨 <b>ALERT: Memberships Expiring Soon</b>\n")
	b.WriteString(divider + "\n\n")

	for _, m := range members {
		fmt.Fprintf(&b, "👤 <b>%s</b>\n", m.Name)
		fmt.Fprintf(&b, "🆔 <code>%s</code>\n", m.MemberID)
		fmt.Fprintf(&b, "📱 %s\n", m.Phone)
		fmt.Fprintf(&b, "💳 %s\n", m.PlanType.Label())
		fmt.Fprintf(&b, "📅 %s\n", m.ExpiresAt.Format("02-01-2006"))
		fmt.Fprintf(&b, "⏰ %s\n", DaysLeftStatus(m, asOf))
		b.WriteString(divider + "\n\n")
	}

	fmt.Fprintf(&b, "📊 Total: <b>%d</b> members", len(members))
	return b.String()
}

// FormatNewMember builds the registration heads-up
func FormatNewMember(m models.Member) string {
	var b strings.Builder
	b.WriteString("🎉 <b>New Member Registered</b>\n")
	b.WriteString(divider + "\n\n")
	fmt.Fprintf(&b, "🆔 <code>%s</code>\n", m.MemberID)
	fmt.Fprintf(&b, "👤 <b>%s</b>\n", m.Name)
	fmt.Fprintf(&b, "📱 %s\n", m.Phone)
	fmt.Fprintf(&b, "💳 %s\n", m.PlanType.Label())
	fmt.Fprintf(&b, "📆 Registered: %s\n", m.RegisteredAt.Format("02-01-2006"))
	fmt.Fprintf(&b, "📅 Expires: %s\n", m.ExpiresAt.Format("02-01-2006"))
	fmt.Fprintf(&b, "💰 Total: %.0f\n", m.Total)
	return b.String()
}

// FormatDailySummary builds the stats push
func FormatDailySummary(stats membership.GymStats, asOf time.Time) string {
	var b strings.Builder
	b.WriteString("📊 <b>GYM SUMMARY</b>\n")
	b.WriteString(divider + "\n\n")
	fmt.Fprintf(&b, "✅ Active: <b>%d</b>\n", stats.ActiveMembers)
	fmt.Fprintf(&b, "❌ Expired: <b>%d</b>\n", stats.ExpiredMembers)
	fmt.Fprintf(&b, "⚠️ Expiring within 3 days: <b>%d</b>\n\n", stats.ExpiringSoon)
	fmt.Fprintf(&b, "💵 Total revenue: <b>%.0f</b>\n\n", stats.TotalRevenue)
	fmt.Fprintf(&b, "🕒 %s", asOf.Format("02-01-2006 15:04:05"))
	return b.String()
}
