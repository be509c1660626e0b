package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/rhanierex/Gym-Management/internal/membership"
	"github.com/rhanierex/Gym-Management/internal/notifier"
	"github.com/rhanierex/Gym-Management/internal/services"
)

// Listing limits carried over from the owner's phone screen: longer replies
// get truncated with a "...and N more" line.
const (
	maxSearchResults = 10
	maxActiveResults = 15
)

// Bot serves the owner's status queries over Telegram long polling. All of
// its commands are read-only except /alert, which triggers the same expiry
// check the scheduled slots run.
type Bot struct {
	registry *membership.Registry
	notifier *notifier.Notifier
	tg       *services.TelegramService

	lastUpdateID int64
	now          func() time.Time
}

func New(registry *membership.Registry, n *notifier.Notifier, tg *services.TelegramService) *Bot {
	return &Bot{
		registry: registry,
		notifier: n,
		tg:       tg,
		now:      time.Now,
	}
}

// Run polls for updates until the context is canceled
func (b *Bot) Run(ctx context.Context) error {
	if !b.tg.Configured() {
		return fmt.Errorf("telegram bot token not configured")
	}

	log.Println("Telegram bot polling started")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		updates, err := b.tg.GetUpdates(ctx, b.lastUpdateID+1)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			log.Printf("bot: poll error: %v", err)
			select {
			case <-time.After(5 * time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}

		for _, update := range updates {
			b.lastUpdateID = update.UpdateID
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			chatID := strconv.FormatInt(update.Message.Chat.ID, 10)
			b.handleMessage(ctx, chatID, update.Message.Text)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, chatID, text string) {
	text = strings.TrimSpace(text)
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return
	}
	command := strings.ToLower(parts[0])
	args := parts[1:]

	var reply string
	var err error

	switch {
	case command == "/start" || command == "/help":
		reply = FormatHelp()
	case command == "/check":
		reply, err = b.checkMember(ctx, args)
	case command == "/find":
		reply, err = b.findMembers(ctx, args)
	case command == "/expiring":
		reply, err = b.listExpiring(ctx)
	case command == "/active":
		reply, err = b.listActive(ctx)
	case command == "/stats":
		reply, err = b.stats(ctx)
	case command == "/alert":
		reply, err = b.triggerAlert(ctx)
	case membership.MemberIDPattern.MatchString(strings.ToUpper(text)):
		// Bare member id pasted into the chat: quick check.
		reply, err = b.checkMember(ctx, []string{text})
	default:
		reply = "❓ Unknown command.\n\nType /help to see the command list."
	}

	if err != nil {
		reply = fmt.Sprintf("❌ %s", err)
	}
	if sendErr := b.tg.SendMessage(ctx, chatID, reply); sendErr != nil {
		log.Printf("bot: reply to %s failed: %v", chatID, sendErr)
	}
}

func (b *Bot) checkMember(ctx context.Context, args []string) (string, error) {
	if len(args) == 0 {
		return "❌ Wrong format.\n\nUse: /check <code>MG123456</code>", nil
	}
	memberID := strings.ToUpper(strings.TrimSpace(args[0]))
	m, err := b.registry.FindByID(ctx, memberID)
	var notFound *membership.NotFoundError
	if errors.As(err, &notFound) {
		return fmt.Sprintf("❌ Member <code>%s</code> not found", memberID), nil
	}
	if err != nil {
		return "", err
	}
	return FormatMemberInfo(*m, b.now()), nil
}

func (b *Bot) findMembers(ctx context.Context, args []string) (string, error) {
	if len(args) == 0 {
		return "❌ Wrong format.\n\nUse: /find <code>member name</code>", nil
	}
	query := strings.Join(args, " ")
	members, err := b.registry.FindByName(ctx, query)
	if err != nil {
		return "", err
	}
	return FormatSearchResults(query, members, b.now()), nil
}

func (b *Bot) listExpiring(ctx context.Context) (string, error) {
	members, err := b.registry.ListExpiringWithin(ctx, b.now(), membership.DefaultAlertWindow)
	if err != nil {
		return "", err
	}
	return FormatExpiringList(members, b.now()), nil
}

func (b *Bot) listActive(ctx context.Context) (string, error) {
	members, err := b.registry.ListActive(ctx, b.now())
	if err != nil {
		return "", err
	}
	return FormatActiveList(members, b.now()), nil
}

func (b *Bot) stats(ctx context.Context) (string, error) {
	stats, err := b.registry.Stats(ctx, b.now())
	if err != nil {
		return "", err
	}
	return notifier.FormatDailySummary(stats, b.now()), nil
}

func (b *Bot) triggerAlert(ctx context.Context) (string, error) {
	count, err := b.notifier.RunScheduledCheck(ctx)
	if err != nil {
		return "", err
	}
	if count == 0 {
		return "✅ No memberships expiring within 3 days", nil
	}
	return fmt.Sprintf("✅ Alert sent for <b>%d</b> members", count), nil
}
