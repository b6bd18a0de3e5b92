// Dispatcher worker: polls for scheduled notifications that have come due and
// delivers them. Run alongside the API against the same database.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"flavorfeed/internal/database"
	"flavorfeed/internal/events"
	"flavorfeed/internal/modules/notification"
)

const (
	pollInterval = 30 * time.Second
	batchLimit   = 200
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	repo := notification.NewRepository(db)
	registry := notification.NewRegistry()
	transport := notification.NewLogTransport(repo)
	dispatcher := notification.NewDispatcher(repo, registry, transport, events.NewBus())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("dispatcher worker started, polling every %s", pollInterval)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		n, err := dispatcher.DispatchDue(ctx, batchLimit)
		if err != nil {
			log.Printf("dispatch due failed: %v", err)
		} else if n > 0 {
			log.Printf("dispatched %d scheduled notifications", n)
		}

		select {
		case <-ctx.Done():
			log.Println("dispatcher worker stopping")
			return
		case <-ticker.C:
		}
	}
}
