package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/projyotish/internal/app"
	"github.com/projyotish/internal/config"
	"github.com/projyotish/internal/logging"
	"github.com/projyotish/internal/outbound"
)

// 将全部页面导出为静态站点，CTA 直接指向 wa.me，由前端脚本上报点击。
func main() {
	cfg := config.Load()

	out := flag.String("out", cfg.ExportDir, "output directory")
	flag.Parse()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	links := outbound.Links{
		Number:      cfg.WhatsAppNumber,
		DefaultText: cfg.WhatsAppDefaultText,
		Direct:      true,
	}
	site, err := app.NewSite(cfg, links, logger)
	if err != nil {
		logger.Fatal("failed to build site", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary, err := site.Export(ctx, *out)
	if err != nil {
		logger.Fatal("export failed", zap.Error(err))
	}

	logger.Info("site exported",
		zap.String("dir", *out),
		zap.Int("pages", summary.Pages),
		zap.Int("images", summary.Images),
		zap.Int("static_files", summary.StaticFiles),
		zap.Int("failed_sections", summary.FailedSections),
	)
}
