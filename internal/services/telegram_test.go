package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testTelegramService(baseURL string) *TelegramService {
	return &TelegramService{
		baseURL: baseURL,
		token:   "test-token",
		chatID:  "12345",
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func TestSendMessage(t *testing.T) {
	var received map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bottest-token/sendMessage" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	s := testTelegramService(srv.URL)
	if err := s.SendMessage(context.Background(), "67890", "hello"); err != nil {
		t.Fatalf("SendMessage() error: %v", err)
	}

	if received["chat_id"] != "67890" {
		t.Errorf("chat_id = %v; want 67890", received["chat_id"])
	}
	if received["text"] != "hello" {
		t.Errorf("text = %v; want hello", received["text"])
	}
	if received["parse_mode"] != "HTML" {
		t.Errorf("parse_mode = %v; want HTML", received["parse_mode"])
	}
}

func TestSendMessageFallsBackToDefaultChat(t *testing.T) {
	var received map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
		w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	s := testTelegramService(srv.URL)
	if err := s.SendMessage(context.Background(), "", "hello"); err != nil {
		t.Fatalf("SendMessage() error: %v", err)
	}
	if received["chat_id"] != "12345" {
		t.Errorf("chat_id = %v; want the configured default 12345", received["chat_id"])
	}
}

func TestSendMessageAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	s := testTelegramService(srv.URL)
	if err := s.SendMessage(context.Background(), "67890", "hello"); err == nil {
		t.Fatal("SendMessage() returned nil; want the API error surfaced")
	}
}
