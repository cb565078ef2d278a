// Command bot runs the Telegram file organizer together with its web
// dashboard.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Load .env file to environments
	_ "github.com/joho/godotenv/autoload"

	"github.com/dricdias/telegram-bot/internal/bot"
	"github.com/dricdias/telegram-bot/internal/database"
	"github.com/dricdias/telegram-bot/internal/organizer"
	"github.com/dricdias/telegram-bot/internal/server"
	"github.com/dricdias/telegram-bot/internal/storage"
	"github.com/dricdias/telegram-bot/internal/ws"
)

// newBlobStore picks the payload backend from BLOB_BACKEND. A nil store keeps
// payloads inline in the database.
func newBlobStore() (storage.BlobStore, error) {
	switch os.Getenv("BLOB_BACKEND") {
	case "", "badger":
		path := os.Getenv("BLOB_PATH")
		if path == "" {
			path = "data/blobs"
		}
		return storage.NewBadgerStore(path)
	case "gcs":
		bucket := os.Getenv("GCS_BUCKET")
		if bucket == "" {
			log.Fatal("GCS_BUCKET must be set when BLOB_BACKEND=gcs")
		}
		return storage.NewCloudStorageClient(bucket)
	case "inline":
		return nil, nil
	default:
		log.Fatalf("unknown BLOB_BACKEND %q (want badger, gcs or inline)", os.Getenv("BLOB_BACKEND"))
		return nil, nil
	}
}

func main() {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is not set")
	}

	db, err := database.GetMainDB()
	if err != nil {
		log.Fatal("failed to connect to database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	blobs, err := newBlobStore()
	if err != nil {
		log.Fatal("failed to open blob store: ", err)
	}
	if blobs != nil {
		defer func() {
			if err := blobs.Close(); err != nil {
				log.Printf("failed to close blob store: %v", err)
			}
		}()
	}

	hub := ws.NewHub()
	go hub.Run()

	svc := organizer.NewService(db, blobs)

	tgBot, err := bot.New(token, svc, hub)
	if err != nil {
		log.Fatal("failed to create bot: ", err)
	}
	go tgBot.Start()

	srv := server.NewServer(db, svc, hub)
	go func() {
		log.Printf("Dashboard listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	tgBot.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}
