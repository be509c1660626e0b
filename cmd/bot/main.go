package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/rhanierex/Gym-Management/internal/bot"
	"github.com/rhanierex/Gym-Management/internal/membership"
	"github.com/rhanierex/Gym-Management/internal/notifier"
	"github.com/rhanierex/Gym-Management/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	db, err := services.InitDB(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	tg := services.NewTelegramService()
	if !tg.Configured() {
		log.Fatal("TELEGRAM_BOT_TOKEN not set, bot cannot start")
	}

	registry := membership.NewRegistry(membership.NewGormStore(db), nil)
	alerts := notifier.New(registry, tg, tg.DefaultChatID(), membership.DefaultAlertWindow)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down bot...")
		cancel()
	}()

	log.Println("Bot started. Polling for updates...")
	if err := bot.New(registry, alerts, tg).Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("Bot stopped with error: %v", err)
	}
}
