package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig 汇总运行站点所需的基础配置。
type AppConfig struct {
	ListenAddr    string
	Port          string
	DatabasePath  string
	SessionSecret string
	GinMode       string
	LogLevel      string
	SiteBaseURL   string
	ExportDir     string

	WhatsAppNumber      string
	WhatsAppDefaultText string

	MetaPixelID     string
	MetaAccessToken string
	MetaAPIVersion  string

	TrackingQueueSize int
	TrackingWorkers   int

	// SectionTimeout 为 0 时延迟区块无限等待，保持占位符。
	SectionTimeout     time.Duration
	SectionConcurrency int

	AdminUserName string
	AdminPassword string
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	port := env("PORT", "8080")

	listenAddr := env("LISTEN_ADDR", fmt.Sprintf(":%s", port))

	return AppConfig{
		ListenAddr:    listenAddr,
		Port:          port,
		DatabasePath:  env("DATABASE_PATH", "projyotish.db"),
		SessionSecret: env("SESSION_SECRET", "projyotish-dev-secret"),
		GinMode:       env("GIN_MODE", "release"),
		LogLevel:      env("LOG_LEVEL", "info"),
		SiteBaseURL:   strings.TrimRight(env("SITE_BASE_URL", "https://projyotish.com"), "/"),
		ExportDir:     env("EXPORT_DIR", "out"),

		WhatsAppNumber:      env("WHATSAPP_NUMBER", "918291218234"),
		WhatsAppDefaultText: env("WHATSAPP_DEFAULT_TEXT", "Namaste"),

		MetaPixelID:     env("META_PIXEL_ID", ""),
		MetaAccessToken: env("META_ACCESS_TOKEN", ""),
		MetaAPIVersion:  env("META_API_VERSION", "v19.0"),

		TrackingQueueSize: envInt("TRACKING_QUEUE_SIZE", 256),
		TrackingWorkers:   envInt("TRACKING_WORKERS", 2),

		SectionTimeout:     envDuration("SECTION_TIMEOUT", 0),
		SectionConcurrency: envInt("SECTION_CONCURRENCY", 4),

		AdminUserName: env("ADMIN_USER_NAME", ""),
		AdminPassword: env("ADMIN_PASSWORD", ""),
	}
}

// MetaEnabled 仅在像素 ID 与访问令牌同时配置时返回 true。
func (c AppConfig) MetaEnabled() bool {
	return c.MetaPixelID != "" && c.MetaAccessToken != ""
}

func env(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
