package bot

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rhanierex/Gym-Management/internal/models"
)

func member(id, name string, expires time.Time) models.Member {
	return models.Member{
		MemberID:  id,
		Name:      name,
		Phone:     "081234567890",
		PlanType:  models.PlanMonthly,
		ExpiresAt: expires,
	}
}

func TestStatusEmoji(t *testing.T) {
	now := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		expires  time.Time
		expected string
	}{
		{"lapsed", now.AddDate(0, 0, -1), "🔴"},
		{"expiring within window", now.AddDate(0, 0, 2), "🟡"},
		{"window boundary", now.AddDate(0, 0, 3), "🟡"},
		{"comfortably active", now.AddDate(0, 0, 4), "🟢"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := statusEmoji(models.Member{ExpiresAt: tt.expires}, now)
			if got != tt.expected {
				t.Errorf("statusEmoji() = %q; want %q", got, tt.expected)
			}
		})
	}
}

func TestFormatSearchResultsTruncates(t *testing.T) {
	now := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)

	var members []models.Member
	for i := 0; i < maxSearchResults+5; i++ {
		members = append(members, member(fmt.Sprintf("MG%06d", i), fmt.Sprintf("Member %d", i), now.AddDate(0, 1, 0)))
	}

	text := FormatSearchResults("member", members, now)
	if !strings.Contains(text, fmt.Sprintf("MG%06d", maxSearchResults-1)) {
		t.Errorf("last listed member is missing from the reply")
	}
	if strings.Contains(text, fmt.Sprintf("MG%06d", maxSearchResults)) {
		t.Errorf("reply lists more than %d members", maxSearchResults)
	}
	if !strings.Contains(text, "...and 5 more") {
		t.Errorf("reply should mention the 5 truncated members, got:\n%s", text)
	}
	if !strings.Contains(text, fmt.Sprintf("Total: <b>%d</b> found", len(members))) {
		t.Errorf("footer should count all matches, not only the shown ones")
	}
}

func TestFormatSearchResultsEmpty(t *testing.T) {
	text := FormatSearchResults("nobody", nil, time.Now())
	if !strings.Contains(text, "No members matching") {
		t.Errorf("empty search reply = %q", text)
	}
}

func TestFormatExpiringListEmpty(t *testing.T) {
	text := FormatExpiringList(nil, time.Now())
	if !strings.Contains(text, "No memberships expiring") {
		t.Errorf("empty expiring reply = %q", text)
	}
}

func TestFormatActiveListTruncates(t *testing.T) {
	now := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)

	var members []models.Member
	for i := 0; i < maxActiveResults+2; i++ {
		members = append(members, member(fmt.Sprintf("MG%06d", i), fmt.Sprintf("Member %d", i), now.AddDate(0, 1, 0)))
	}

	text := FormatActiveList(members, now)
	if strings.Contains(text, fmt.Sprintf("MG%06d", maxActiveResults)) {
		t.Errorf("reply lists more than %d members", maxActiveResults)
	}
	if !strings.Contains(text, "...and 2 more") {
		t.Errorf("reply should mention the truncated members, got:\n%s", text)
	}
}

func TestFormatMemberInfoCarriesIdentity(t *testing.T) {
	now := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)
	m := member("MG123456", "Budi Santoso", now.AddDate(0, 0, 10))
	m.RegisteredAt = now.AddDate(0, 0, -20)

	text := FormatMemberInfo(m, now)
	for _, want := range []string{"MG123456", "Budi Santoso", "Monthly", "Expires in 10 days"} {
		if !strings.Contains(text, want) {
			t.Errorf("member info reply is missing %q:\n%s", want, text)
		}
	}
}
