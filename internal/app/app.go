// Package app wires configuration, storage, content and HTTP routing into a
// runnable site.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/projyotish/internal/config"
	"github.com/projyotish/internal/content"
	"github.com/projyotish/internal/db"
	"github.com/projyotish/internal/handler"
	"github.com/projyotish/internal/logging"
	"github.com/projyotish/internal/ogimage"
	"github.com/projyotish/internal/outbound"
	"github.com/projyotish/internal/render"
	"github.com/projyotish/internal/router"
	"github.com/projyotish/internal/sections"
	"github.com/projyotish/internal/service"
	"github.com/projyotish/web"
)

const (
	// Brand 出现在分享图与页面标题中。
	Brand   = "ProJyotish"
	tagline = "Vedic astrology on WhatsApp"
)

// App 持有运行站点的全部组件。
type App struct {
	Config  config.AppConfig
	Logger  *zap.Logger
	DB      *gorm.DB
	Library *content.Library
	Links   outbound.Links
	Pages   *service.PageService
	Leads   *service.LeadService
	Tracker *outbound.Tracker
	Images  *ogimage.Renderer
	Handler http.Handler
}

// New 初始化数据库与内容并构建路由。gdb 为 nil 时按配置打开 SQLite。
func New(cfg config.AppConfig, gdb *gorm.DB, logger *zap.Logger) (*App, error) {
	logger = logging.OrNop(logger)

	if gdb == nil {
		if err := db.Init(cfg.DatabasePath); err != nil {
			return nil, fmt.Errorf("init database: %w", err)
		}
		gdb = db.DB
	} else {
		if err := gdb.AutoMigrate(db.Models()...); err != nil {
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		db.DB = gdb
	}

	if err := db.EnsureUser(cfg.AdminUserName, cfg.AdminPassword); err != nil {
		return nil, fmt.Errorf("ensure admin user: %w", err)
	}

	links := outbound.Links{Number: cfg.WhatsAppNumber, DefaultText: cfg.WhatsAppDefaultText}
	site, err := NewSite(cfg, links, logger)
	if err != nil {
		return nil, err
	}

	leads := service.NewLeadService(gdb)
	collectors := outbound.Fanout{leads, outbound.LogCollector{Logger: logger}}
	if cfg.MetaEnabled() {
		collectors = append(collectors, outbound.NewMetaConversions(cfg.MetaPixelID, cfg.MetaAccessToken, cfg.MetaAPIVersion))
		logger.Info("meta conversions collector enabled", zap.String("pixel_id", cfg.MetaPixelID))
	}
	tracker := outbound.NewTracker(collectors, outbound.TrackerOptions{
		QueueSize: cfg.TrackingQueueSize,
		Workers:   cfg.TrackingWorkers,
		Logger:    logger,
	})

	api := handler.NewAPI(handler.Deps{
		DB:       gdb,
		Pages:    site.Pages,
		Leads:    leads,
		Outbound: outbound.NewHandler(tracker, logger),
		Links:    links,
		OGImages: site.Images,
		Logger:   logger,
	})

	var paths []string
	for _, page := range site.Pages.Pages() {
		paths = append(paths, page.Path)
	}
	engine, err := router.SetupRouter(api, paths, router.Options{
		SessionSecret: cfg.SessionSecret,
		Templates:     web.Templates(),
		Static:        web.Static(),
		Logger:        logger,
	})
	if err != nil {
		_ = tracker.Close(context.Background())
		return nil, err
	}

	site.DB = gdb
	site.Leads = leads
	site.Tracker = tracker
	site.Handler = engine
	return site, nil
}

// NewSite 构建不依赖数据库的页面渲染部分，静态导出直接使用它。
func NewSite(cfg config.AppConfig, links outbound.Links, logger *zap.Logger) (*App, error) {
	logger = logging.OrNop(logger)

	lib, err := content.Load(web.Content(), logger)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}

	catalog := sections.NewCatalog(lib, links)
	renderer := render.New(render.Options{
		Timeout:     cfg.SectionTimeout,
		Concurrency: cfg.SectionConcurrency,
		Logger:      logger,
	})
	pages, err := service.NewPageService(lib, catalog, renderer, web.Templates(), service.PageOptions{
		BaseURL: cfg.SiteBaseURL,
		PixelID: cfg.MetaPixelID,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	for _, page := range pages.Pages() {
		for _, ref := range page.Sections {
			if !catalog.Has(ref.ID) {
				logger.Warn("page references unknown section", zap.String("page", page.Key), zap.String("section", ref.ID))
			}
		}
	}

	return &App{
		Config:  cfg,
		Logger:  logger,
		Library: lib,
		Links:   links,
		Pages:   pages,
		Images:  ogimage.New(Brand, tagline),
	}, nil
}

// Close 等待排队的事件投递完成后关闭数据库。
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Tracker != nil {
		if err := a.Tracker.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close tracker: %w", err))
		}
		if dropped := a.Tracker.Dropped(); dropped > 0 {
			a.Logger.Warn("tracking events dropped", zap.Int64("dropped", dropped))
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
