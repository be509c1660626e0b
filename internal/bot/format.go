package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/rhanierex/Gym-Management/internal/models"
	"github.com/rhanierex/Gym-Management/internal/notifier"
)

const divider = "━━━━━━━━━━━━━━━━━━━━━━"

func statusEmoji(m models.Member, asOf time.Time) string {
	days := m.DaysLeft(asOf)
	switch {
	case days < 0:
		return "🔴"
	case days <= 3:
		return "🟡"
	default:
		return "🟢"
	}
}

// FormatHelp is the /start and /help reply
func FormatHelp() string {
	return `🏋️ <b>Welcome to the Gym Management Bot!</b>

Available commands:

📋 <b>MEMBER INFO:</b>
/check <code>MEMBER_ID</code> - Show member details
/find <code>NAME</code> - Search members by name
/expiring - Members expiring within 3 days
/active - All active members

📊 <b>STATISTICS:</b>
/stats - Gym statistics
/alert - Trigger the expiry alert

❓ <b>HELP:</b>
/help - This menu

` + divider + `
💡 <i>Paste a member id for a quick check!</i>
Example: <code>MG698144</code>`
}

// FormatMemberInfo is the /check reply
func FormatMemberInfo(m models.Member, asOf time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>MEMBER INFO</b>\n", statusEmoji(m, asOf))
	b.WriteString(divider + "\n\n")
	fmt.Fprintf(&b, "🆔 ID: <code>%s</code>\n", m.MemberID)
	fmt.Fprintf(&b, "👤 Name: <b>%s</b>\n", m.Name)
	fmt.Fprintf(&b, "📱 Phone: %s\n", m.Phone)
	fmt.Fprintf(&b, "🏠 Address: %s\n", m.Address)
	fmt.Fprintf(&b, "👔 Occupation: %s\n", m.Occupation)
	fmt.Fprintf(&b, "⚧ Gender: %s\n\n", m.Gender)
	fmt.Fprintf(&b, "💳 Plan: <b>%s</b>\n", m.PlanType.Label())
	fmt.Fprintf(&b, "💰 Fee: %.0f/month\n", m.MonthlyFee)
	fmt.Fprintf(&b, "📆 Registered: %s\n", m.RegisteredAt.Format("02-01-2006"))
	fmt.Fprintf(&b, "📅 Expires: %s\n\n", m.ExpiresAt.Format("02-01-2006"))
	fmt.Fprintf(&b, "⏰ Status: %s\n\n", notifier.DaysLeftStatus(m, asOf))
	fmt.Fprintf(&b, "🕒 %s", asOf.Format("02-01-2006 15:04:05"))
	return b.String()
}

// FormatSearchResults is the /find reply
func FormatSearchResults(query string, members []models.Member, asOf time.Time) string {
	if len(members) == 0 {
		return fmt.Sprintf("❌ No members matching '<b>%s</b>'", query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔍 <b>SEARCH RESULTS: %s</b>\n", query)
	b.WriteString(divider + "\n\n")

	shown := members
	if len(shown) > maxSearchResults {
		shown = shown[:maxSearchResults]
	}
	for i, m := range shown {
		fmt.Fprintf(&b, "%d. %s <b>%s</b>\n", i+1, statusEmoji(m, asOf), m.Name)
		fmt.Fprintf(&b, "   🆔 <code>%s</code>\n", m.MemberID)
		fmt.Fprintf(&b, "   📅 %s\n", m.ExpiresAt.Format("02-01-2006"))
		fmt.Fprintf(&b, "   ⏰ %d days left\n\n", m.DaysLeft(asOf))
	}
	if len(members) > maxSearchResults {
		fmt.Fprintf(&b, "<i>...and %d more</i>\n\n", len(members)-maxSearchResults)
	}
	fmt.Fprintf(&b, "📊 Total: <b>%d</b> found", len(members))
	return b.String()
}

// FormatExpiringList is the /expiring reply
func FormatExpiringList(members []models.Member, asOf time.Time) string {
	if len(members) == 0 {
		return "✅ No memberships expiring within 3 days!"
	}

	var b strings.Builder
	b.WriteString("⚠️ <b>EXPIRING WITHIN 3 DAYS</b>\n")
	b.WriteString(divider + "\n\n")

	for i, m := range members {
		fmt.Fprintf(&b, "%d. 👤 <b>%s</b>\n", i+1, m.Name)
		fmt.Fprintf(&b, "   🆔 <code>%s</code>\n", m.MemberID)
		fmt.Fprintf(&b, "   📱 %s\n", m.Phone)
		fmt.Fprintf(&b, "   📅 %s\n", m.ExpiresAt.Format("02-01-2006"))
		fmt.Fprintf(&b, "   ⏰ %s\n\n", notifier.DaysLeftStatus(m, asOf))
	}
	fmt.Fprintf(&b, "📊 Total: <b>%d</b> members", len(members))
	return b.String()
}

// FormatActiveList is the /active reply
func FormatActiveList(members []models.Member, asOf time.Time) string {
	if len(members) == 0 {
		return "❌ No active members"
	}

	var b strings.Builder
	b.WriteString("✅ <b>ACTIVE MEMBERS</b>\n")
	b.WriteString(divider + "\n\n")

	shown := members
	if len(shown) > maxActiveResults {
		shown = shown[:maxActiveResults]
	}
	for i, m := range shown {
		fmt.Fprintf(&b, "%d. %s <b>%s</b>\n", i+1, statusEmoji(m, asOf), m.Name)
		fmt.Fprintf(&b, "   🆔 <code>%s</code>\n", m.MemberID)
		fmt.Fprintf(&b, "   📅 %s (%dd)\n\n", m.ExpiresAt.Format("02-01-2006"), m.DaysLeft(asOf))
	}
	if len(members) > maxActiveResults {
		fmt.Fprintf(&b, "<i>...and %d more</i>\n\n", len(members)-maxActiveResults)
	}
	fmt.Fprintf(&b, "📊 Total: <b>%d</b> active members", len(members))
	return b.String()
}
