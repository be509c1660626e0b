package notifier

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rhanierex/Gym-Management/internal/membership"
	"github.com/rhanierex/Gym-Management/internal/models"
)

// fakeMessenger records what would have been sent
type fakeMessenger struct {
	sent []string
	fail error
}

func (f *fakeMessenger) SendMessage(ctx context.Context, chatID, text string) error {
	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, text)
	return nil
}

// fakeRegistryStore seeds a membership registry without a database
type fakeRegistryStore struct {
	membership.Store
	members []models.Member
}

func (s *fakeRegistryStore) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]models.Member, error) {
	var out []models.Member
	for _, m := range s.members {
		if !m.ExpiresAt.Before(from) && !m.ExpiresAt.After(to) {
			out = append(out, m)
		}
	}
	return out, nil
}

func member(id, name string, expires time.Time) models.Member {
	return models.Member{
		MemberID:  id,
		Name:      name,
		Phone:     "081234567890",
		PlanType:  models.PlanMonthly,
		ExpiresAt: expires,
	}
}

func testNotifier(msgr Messenger, members ...models.Member) *Notifier {
	registry := membership.NewRegistry(&fakeRegistryStore{members: members}, nil)
	return New(registry, msgr, "12345", membership.DefaultAlertWindow)
}

func TestRunScheduledCheckAlertsWithinWindow(t *testing.T) {
	now := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)
	msgr := &fakeMessenger{}

	n := testNotifier(msgr,
		member("MG000001", "Budi", now.Add(24*time.Hour)),
		member("MG000002", "Sari", now.Add(96*time.Hour)),
	)
	n.now = func() time.Time { return now }

	count, err := n.RunScheduledCheck(context.Background())
	if err != nil {
		t.Fatalf("RunScheduledCheck() error: %v", err)
	}
	if count != 1 {
		t.Errorf("alerted %d members; want 1, only MG000001 is inside the window", count)
	}
	if len(msgr.sent) != 1 {
		t.Fatalf("sent %d messages; want 1", len(msgr.sent))
	}
	if !strings.Contains(msgr.sent[0], "MG000001") || strings.Contains(msgr.sent[0], "MG000002") {
		t.Errorf("alert text should list MG000001 only, got:\n%s", msgr.sent[0])
	}
}

func TestRunScheduledCheckNoExpiringMembers(t *testing.T) {
	now := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)
	msgr := &fakeMessenger{}

	n := testNotifier(msgr, member("MG000001", "Budi", now.Add(30*24*time.Hour)))
	n.now = func() time.Time { return now }

	count, err := n.RunScheduledCheck(context.Background())
	if err != nil {
		t.Fatalf("RunScheduledCheck() error: %v", err)
	}
	if count != 0 {
		t.Errorf("alerted %d members; want 0", count)
	}
	if len(msgr.sent) != 0 {
		t.Errorf("sent %d messages; want none when nobody is expiring", len(msgr.sent))
	}
}

func TestNotifySwallowsDispatchFailure(t *testing.T) {
	now := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)
	msgr := &fakeMessenger{fail: errors.New("connection refused")}

	n := testNotifier(msgr, member("MG000001", "Budi", now.Add(24*time.Hour)))
	n.now = func() time.Time { return now }

	// Dispatch failure must not surface to the scheduler
	count, err := n.RunScheduledCheck(context.Background())
	if err != nil {
		t.Fatalf("RunScheduledCheck() error = %v; dispatch failures must be swallowed", err)
	}
	if count != 1 {
		t.Errorf("count = %d; want 1, the scan itself succeeded", count)
	}
}

func TestMemberRegisteredWrapsFailure(t *testing.T) {
	msgr := &fakeMessenger{fail: errors.New("timeout")}
	n := testNotifier(msgr)

	err := n.MemberRegistered(context.Background(), member("MG000001", "Budi", time.Now()))
	var notifErr *membership.NotificationError
	if !errors.As(err, &notifErr) {
		t.Errorf("MemberRegistered() error = %v; want NotificationError", err)
	}
}

func TestDaysLeftStatus(t *testing.T) {
	now := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		expires  time.Time
		expected string
	}{
		{"lapsed", now.AddDate(0, 0, -5), "❌ EXPIRED (5 days ago)"},
		{"today", now.Add(2 * time.Hour), "⚠️ Expires TODAY"},
		{"tomorrow", now.AddDate(0, 0, 1), "⚠️ Expires TOMORROW"},
		{"later", now.AddDate(0, 0, 3), "📅 Expires in 3 days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DaysLeftStatus(models.Member{ExpiresAt: tt.expires}, now)
			if got != tt.expected {
				t.Errorf("DaysLeftStatus() = %q; want %q", got, tt.expected)
			}
		})
	}
}

func TestFormatExpiryAlertListsEveryMember(t *testing.T) {
	now := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)
	members := []models.Member{
		member("MG000001", "Budi", now.Add(24*time.Hour)),
		member("MG000002", "Sari", now.Add(48*time.Hour)),
	}

	text := FormatExpiryAlert(members, now)
	for _, m := range members {
		if !strings.Contains(text, m.MemberID) {
			t.Errorf("alert is missing %s", m.MemberID)
		}
		if !strings.Contains(text, m.Name) {
			t.Errorf("alert is missing %s", m.Name)
		}
	}
	if !strings.Contains(text, "Total: <b>2</b>") {
		t.Errorf("alert footer should count 2 members, got:\n%s", text)
	}
}
