package notifier

import (
	"context"
	"log"
	"time"

	"github.com/rhanierex/Gym-Management/internal/membership"
	"github.com/rhanierex/Gym-Management/internal/models"
)

// Messenger is the outbound channel the notifier pushes alerts through. The
// notifier knows nothing about the protocol behind it, only that a send can
// fail. Implementations must bound their own network timeout.
type Messenger interface {
	SendMessage(ctx context.Context, chatID, text string) error
}

// Notifier scans the member registry for soon-to-expire memberships and
// pushes alerts to the configured chat. Alerts are fire-and-forget: a failed
// dispatch is logged and never propagated to the caller, and repeated runs
// re-alert the same members because invocations are time-gated externally.
type Notifier struct {
	registry  *membership.Registry
	messenger Messenger
	chatID    string
	window    time.Duration
	now       func() time.Time
}

func New(registry *membership.Registry, messenger Messenger, chatID string, window time.Duration) *Notifier {
	if window <= 0 {
		window = membership.DefaultAlertWindow
	}
	return &Notifier{
		registry:  registry,
		messenger: messenger,
		chatID:    chatID,
		window:    window,
		now:       time.Now,
	}
}

// ScanExpiring returns members whose expiry falls within the window after asOf
func (n *Notifier) ScanExpiring(ctx context.Context, asOf time.Time, window time.Duration) ([]models.Member, error) {
	return n.registry.ListExpiringWithin(ctx, asOf, window)
}

// Notify formats and dispatches an expiry alert for the batch. A dispatch
// failure is logged and swallowed.
func (n *Notifier) Notify(ctx context.Context, members []models.Member) {
	if len(members) == 0 {
		return
	}
	text := FormatExpiryAlert(members, n.now())
	if err := n.messenger.SendMessage(ctx, n.chatID, text); err != nil {
		log.Printf("expiry notifier: %v", &membership.NotificationError{Err: err})
	}
}

// RunScheduledCheck is the body of the twice-daily alert slots. Registry read
// errors propagate so the scheduler can record the failure; dispatch errors
// do not.
func (n *Notifier) RunScheduledCheck(ctx context.Context) (int, error) {
	members, err := n.ScanExpiring(ctx, n.now(), n.window)
	if err != nil {
		return 0, err
	}
	if len(members) == 0 {
		return 0, nil
	}
	n.Notify(ctx, members)
	return len(members), nil
}

// MemberRegistered implements membership.Alerter: a best-effort heads-up to
// the owner's chat whenever the front desk registers a new member.
func (n *Notifier) MemberRegistered(ctx context.Context, m models.Member) error {
	if err := n.messenger.SendMessage(ctx, n.chatID, FormatNewMember(m)); err != nil {
		return &membership.NotificationError{Err: err}
	}
	return nil
}

// SendDailySummary pushes the headline gym numbers to the owner's chat
func (n *Notifier) SendDailySummary(ctx context.Context) error {
	asOf := n.now()
	stats, err := n.registry.Stats(ctx, asOf)
	if err != nil {
		return err
	}
	if err := n.messenger.SendMessage(ctx, n.chatID, FormatDailySummary(stats, asOf)); err != nil {
		log.Printf("daily summary: %v", &membership.NotificationError{Err: err})
	}
	return nil
}
