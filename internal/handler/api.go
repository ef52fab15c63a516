package handler

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/projyotish/internal/db"
	"github.com/projyotish/internal/logging"
	"github.com/projyotish/internal/ogimage"
	"github.com/projyotish/internal/outbound"
	"github.com/projyotish/internal/service"
)

type leadProvider interface {
	Overview(limit int) (service.LeadOverview, error)
	HourlyTrend(now time.Time, hours int) ([]service.HourlyLeadPoint, error)
	RecentEvents(limit int) ([]db.LeadEvent, error)
}

// Deps 汇总处理器依赖。
type Deps struct {
	DB       *gorm.DB
	Pages    *service.PageService
	Leads    leadProvider
	Outbound *outbound.Handler
	Links    outbound.Links
	OGImages *ogimage.Renderer
	Logger   *zap.Logger
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db       *gorm.DB
	pages    *service.PageService
	leads    leadProvider
	outbound *outbound.Handler
	links    outbound.Links
	ogimages *ogimage.Renderer
	logger   *zap.Logger
	now      func() time.Time
}

// NewAPI constructs a handler set with shared services.
func NewAPI(deps Deps) *API {
	logger := logging.OrNop(deps.Logger)
	out := deps.Outbound
	if out == nil {
		out = outbound.NewHandler(nil, logger)
	}
	return &API{
		db:       deps.DB,
		pages:    deps.Pages,
		leads:    deps.Leads,
		outbound: out,
		links:    deps.Links,
		ogimages: deps.OGImages,
		logger:   logger.Named("http"),
		now:      time.Now,
	}
}
