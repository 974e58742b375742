package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Wait window bounds applied to every wait_for_message call.
const (
	DefaultWaitMin = 1 * time.Second
	DefaultWaitMax = 300 * time.Second

	// DefaultMailboxCapacity bounds a recipient's mailbox so an absent
	// collector cannot grow memory without limit.
	DefaultMailboxCapacity = 100
)

// Config holds all runtime settings, read from the environment.
// DatabaseDSN, RedisAddr, and TelegramToken are optional; leaving one empty
// disables the corresponding component.
type Config struct {
	Addr            string
	JWTSecret       string
	WaitMin         time.Duration
	WaitMax         time.Duration
	MailboxCapacity int

	DatabaseDSN   string
	RedisAddr     string
	RedisPassword string
	TelegramToken string
}

// Load reads the configuration from the environment, applying defaults.
func Load() *Config {
	return &Config{
		Addr:            envString("ADDR", ":8080"),
		JWTSecret:       envString("JWT_SECRET", "dev-only-secret"),
		WaitMin:         envDuration("WAIT_MIN", DefaultWaitMin),
		WaitMax:         envDuration("WAIT_MAX", DefaultWaitMax),
		MailboxCapacity: envInt("MAILBOX_CAPACITY", DefaultMailboxCapacity),
		DatabaseDSN:     os.Getenv("DATABASE_DSN"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		TelegramToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("config: invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
