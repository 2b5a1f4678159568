package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv        string
	HTTPAddr      string
	EncryptionKey []byte
	// AdminTokens maps an admin API token to the admin's name.
	AdminTokens map[string]string

	// TrustProxyHeaders takes the client address from X-Forwarded-For and
	// X-Real-IP. Only enable behind a proxy that overwrites them.
	TrustProxyHeaders bool

	Postgres    PostgresConfig
	Redis       RedisConfig
	SelfService SelfServiceConfig
	Telegram    TelegramConfig
}

type PostgresConfig struct {
	URL string // Empty means the in-memory store
}

type RedisConfig struct {
	URL string // Empty means the in-memory limiter
}

type SelfServiceConfig struct {
	Limit  int
	Window time.Duration
}

type TelegramConfig struct {
	BotToken     string // Empty disables Telegram
	AdminChatID  int64
	ModeratorIDs []int64
	Mode         string // "polling" or "webhook"
	WebhookURL   string
	WebhookPort  string
}

func (c *Config) IsDev() bool { return c.AppEnv == "dev" }

func (t TelegramConfig) Enabled() bool { return t.BotToken != "" }

var bindings = map[string]string{
	"app.env":                "APP_ENV",
	"http.addr":              "HTTP_ADDR",
	"http.trust_proxy":       "TRUST_PROXY_HEADERS",
	"database.url":           "DATABASE_URL",
	"encryption.key":         "ENCRYPTION_KEY",
	"admin.tokens":           "ADMIN_TOKENS",
	"redis.url":              "REDIS_URL",
	"selfservice.limit":      "SELF_SERVICE_LIMIT",
	"selfservice.window":     "SELF_SERVICE_WINDOW",
	"telegram.token":         "TELEGRAM_BOT_TOKEN",
	"telegram.admin_chat_id": "TELEGRAM_ADMIN_CHAT_ID",
	"telegram.moderator_ids": "TELEGRAM_MODERATOR_IDS",
	"telegram.mode":          "TELEGRAM_MODE",
	"telegram.webhook_url":   "TELEGRAM_WEBHOOK_URL",
	"telegram.webhook_port":  "TELEGRAM_WEBHOOK_PORT",
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("could not bind %s: %w", key, err)
		}
	}

	v.SetDefault("app.env", "dev")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.trust_proxy", false)
	v.SetDefault("selfservice.limit", 20)
	v.SetDefault("selfservice.window", "15m")
	v.SetDefault("telegram.mode", "polling")
	v.SetDefault("telegram.webhook_port", "8443")

	cfg := Config{
		AppEnv:            v.GetString("app.env"),
		HTTPAddr:          v.GetString("http.addr"),
		TrustProxyHeaders: v.GetBool("http.trust_proxy"),
		Postgres:          PostgresConfig{URL: v.GetString("database.url")},
		Redis:             RedisConfig{URL: v.GetString("redis.url")},
		SelfService: SelfServiceConfig{
			Limit:  v.GetInt("selfservice.limit"),
			Window: v.GetDuration("selfservice.window"),
		},
		Telegram: TelegramConfig{
			BotToken:    v.GetString("telegram.token"),
			AdminChatID: v.GetInt64("telegram.admin_chat_id"),
			Mode:        v.GetString("telegram.mode"),
			WebhookURL:  v.GetString("telegram.webhook_url"),
			WebhookPort: v.GetString("telegram.webhook_port"),
		},
	}

	rawKey := v.GetString("encryption.key")
	if rawKey == "" {
		return nil, errors.New("ENCRYPTION_KEY is not set in environment or .env file")
	}
	if len(rawKey) != 64 {
		return nil, fmt.Errorf("ENCRYPTION_KEY must be a 64-character hex string (32 bytes), but got %d chars", len(rawKey))
	}
	key, err := hex.DecodeString(rawKey)
	if err != nil {
		return nil, fmt.Errorf("ENCRYPTION_KEY is not valid hex: %w", err)
	}
	cfg.EncryptionKey = key

	if cfg.AdminTokens, err = parseAdminTokens(v.GetString("admin.tokens")); err != nil {
		return nil, err
	}
	if cfg.Telegram.ModeratorIDs, err = parseIDs(v.GetString("telegram.moderator_ids")); err != nil {
		return nil, err
	}

	if cfg.SelfService.Limit <= 0 {
		return nil, fmt.Errorf("SELF_SERVICE_LIMIT must be positive, got %d", cfg.SelfService.Limit)
	}
	if cfg.SelfService.Window <= 0 {
		return nil, errors.New("SELF_SERVICE_WINDOW must be a positive duration")
	}
	if cfg.Telegram.Enabled() {
		switch cfg.Telegram.Mode {
		case "polling":
		case "webhook":
			if cfg.Telegram.WebhookURL == "" {
				return nil, errors.New("TELEGRAM_WEBHOOK_URL is required in webhook mode")
			}
		default:
			return nil, fmt.Errorf("TELEGRAM_MODE must be polling or webhook, got %q", cfg.Telegram.Mode)
		}
	}

	return &cfg, nil
}

// parseAdminTokens reads "name:token,name:token".
func parseAdminTokens(raw string) (map[string]string, error) {
	tokens := make(map[string]string)
	for _, pair := range splitList(raw) {
		name, token, ok := strings.Cut(pair, ":")
		name, token = strings.TrimSpace(name), strings.TrimSpace(token)
		if !ok || name == "" || token == "" {
			return nil, fmt.Errorf("ADMIN_TOKENS entry %q must look like name:token", pair)
		}
		if _, dup := tokens[token]; dup {
			return nil, fmt.Errorf("ADMIN_TOKENS has a duplicate token for %q", name)
		}
		tokens[token] = name
	}
	return tokens, nil
}

func parseIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, s := range splitList(raw) {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_MODERATOR_IDS entry %q is not a number", s)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
