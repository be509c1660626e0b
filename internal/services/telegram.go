package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// TelegramService talks to the Telegram Bot API. It implements
// notifier.Messenger for outbound alerts and feeds the bot's long-poll loop.
type TelegramService struct {
	baseURL string
	token   string
	chatID  string
	client  *http.Client
}

func NewTelegramService() *TelegramService {
	base := os.Getenv("TELEGRAM_API_URL")
	if base == "" {
		base = "https://api.telegram.org"
	}
	return &TelegramService{
		baseURL: base,
		token:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		chatID:  os.Getenv("TELEGRAM_CHAT_ID"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured reports whether a bot token is present
func (s *TelegramService) Configured() bool {
	return s.token != ""
}

// DefaultChatID is the owner's chat configured for unsolicited alerts
func (s *TelegramService) DefaultChatID() string {
	return s.chatID
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

func (s *TelegramService) makeRequest(ctx context.Context, method string, payload interface{}, result interface{}) error {
	var bodyReader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		bodyReader = bytes.NewBuffer(data)
	}

	url := fmt.Sprintf("%s/bot%s/%s", s.baseURL, s.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !parsed.OK {
		return fmt.Errorf("telegram %s failed with status %d: %s", method, resp.StatusCode, parsed.Description)
	}
	if result != nil {
		if err := json.Unmarshal(parsed.Result, result); err != nil {
			return fmt.Errorf("failed to decode result: %w", err)
		}
	}
	return nil
}

// SendMessage sends an HTML-formatted message to the given chat. An empty
// chatID falls back to the configured owner chat.
func (s *TelegramService) SendMessage(ctx context.Context, chatID, text string) error {
	if !s.Configured() {
		return fmt.Errorf("telegram bot token not configured")
	}
	if chatID == "" {
		chatID = s.chatID
	}
	if chatID == "" {
		return fmt.Errorf("no telegram chat id configured")
	}

	return s.makeRequest(ctx, "sendMessage", map[string]string{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "HTML",
	}, nil)
}

// Update is one inbound event from getUpdates
type Update struct {
	UpdateID int64 `json:"update_id"`
	Message  *struct {
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
		Text string `json:"text"`
	} `json:"message"`
}

// GetUpdates long-polls for new updates after the given offset
func (s *TelegramService) GetUpdates(ctx context.Context, offset int64) ([]Update, error) {
	if !s.Configured() {
		return nil, fmt.Errorf("telegram bot token not configured")
	}

	// The long poll can legitimately hang for the full poll window, so the
	// request carries its own generous deadline instead of the client's.
	pollCtx, cancel := context.WithTimeout(ctx, 40*time.Second)
	defer cancel()

	client := &http.Client{Timeout: 45 * time.Second}
	url := fmt.Sprintf("%s/bot%s/getUpdates?timeout=30&offset=%d", s.baseURL, s.token, offset)
	req, err := http.NewRequestWithContext(pollCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to poll updates: %w", err)
	}
	defer resp.Body.Close()

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if !parsed.OK {
		return nil, fmt.Errorf("telegram getUpdates failed with status %d: %s", resp.StatusCode, parsed.Description)
	}

	var updates []Update
	if err := json.Unmarshal(parsed.Result, &updates); err != nil {
		return nil, fmt.Errorf("failed to decode updates: %w", err)
	}
	return updates, nil
}
