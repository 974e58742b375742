package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"pairchat/backend/internal/api/handler"
	"pairchat/backend/internal/chatcore"
	"pairchat/backend/internal/config"
	"pairchat/backend/internal/notify"
	"pairchat/backend/internal/storage"
)

// setupDependencies opens the optional PostgreSQL archive and Redis fan-out.
// Either returns nil when not configured.
func setupDependencies(cfg *config.Config) (*storage.Service, *redis.Client) {
	var archive *storage.Service
	if cfg.DatabaseDSN != "" {
		db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
		if err != nil {
			log.Fatalf("Failed to connect PostgreSQL: %v", err)
		}
		archive = storage.NewService(db)
		if err := archive.Migrate(); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Println("Room archive enabled (PostgreSQL).")
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Fatalf("Failed to connect Redis: %v", err)
		}
		log.Println("Redis notification fan-out enabled.")
	}

	return archive, rdb
}

func main() {
	log.Println("Starting PairChat Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	archive, rdb := setupDependencies(cfg)

	// Notification channels: WebSocket hub always, Redis and Telegram when
	// configured. All of them are best effort.
	hub := notify.NewHub()
	notifiers := notify.Fanout{hub}
	if rdb != nil {
		notifiers = append(notifiers, notify.NewRedisPublisher(rdb))
	}

	var telegram *notify.TelegramSender
	if cfg.TelegramToken != "" {
		var err error
		telegram, err = notify.NewTelegramSender(cfg.TelegramToken)
		if err != nil {
			log.Fatalf("Failed to start Telegram sender: %v", err)
		}
		notifiers = append(notifiers, telegram)
	}

	var archiver chatcore.Archiver
	if archive != nil {
		archiver = archive
	}
	core := chatcore.NewService(chatcore.Options{
		Secret:          []byte(cfg.JWTSecret),
		WaitMin:         cfg.WaitMin,
		WaitMax:         cfg.WaitMax,
		MailboxCapacity: cfg.MailboxCapacity,
	}, notifiers, archiver)

	// A dropped notification socket tears the session down.
	hub.OnDisconnect = core.DisconnectUser

	r := gin.Default()
	h := handler.NewHandler(core, hub, telegram)

	r.POST("/queue", h.EnterQueue)
	r.POST("/rooms/:room_id/join", h.JoinRoom)
	r.POST("/rooms/:room_id/messages", h.SendMessage)
	r.POST("/rooms/:room_id/wait", h.WaitForMessage)
	r.POST("/rooms/:room_id/leave", h.LeaveChat)
	r.GET("/status", h.Status)
	r.GET("/ws", h.ServeWebSocket)
	r.POST("/notify/telegram", h.BindTelegram)

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
		// Long polls must outlive the read timeout; only writes after the
		// poll resolves are bounded.
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   cfg.WaitMax + 10*time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
