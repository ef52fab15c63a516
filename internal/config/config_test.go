package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "LISTEN_ADDR", "DATABASE_PATH", "SITE_BASE_URL", "SECTION_TIMEOUT", "TRACKING_WORKERS", "META_PIXEL_ID", "META_ACCESS_TOKEN"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.ListenAddr != ":8080" {
		t.Fatalf("expected default listen addr :8080, got %q", cfg.ListenAddr)
	}
	if cfg.DatabasePath != "projyotish.db" {
		t.Fatalf("unexpected database path %q", cfg.DatabasePath)
	}
	if cfg.SectionTimeout != 0 {
		t.Fatalf("expected sections to wait forever by default, got %s", cfg.SectionTimeout)
	}
	if cfg.TrackingWorkers != 2 {
		t.Fatalf("expected 2 tracking workers, got %d", cfg.TrackingWorkers)
	}
	if cfg.MetaEnabled() {
		t.Fatal("meta collector should be disabled without credentials")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("SITE_BASE_URL", "https://example.test/")
	t.Setenv("SECTION_TIMEOUT", "3s")
	t.Setenv("TRACKING_QUEUE_SIZE", "not-a-number")
	t.Setenv("META_PIXEL_ID", "123")
	t.Setenv("META_ACCESS_TOKEN", "token")

	cfg := Load()

	if cfg.ListenAddr != ":9000" {
		t.Fatalf("expected listen addr derived from PORT, got %q", cfg.ListenAddr)
	}
	if cfg.SiteBaseURL != "https://example.test" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.SiteBaseURL)
	}
	if cfg.SectionTimeout != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %s", cfg.SectionTimeout)
	}
	if cfg.TrackingQueueSize != 256 {
		t.Fatalf("expected invalid queue size to fall back to 256, got %d", cfg.TrackingQueueSize)
	}
	if !cfg.MetaEnabled() {
		t.Fatal("expected meta collector to be enabled")
	}
}
