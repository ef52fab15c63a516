package router

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/projyotish/internal/handler"
	"github.com/projyotish/internal/logging"
)

const requestIDHeader = "X-Request-ID"

// Options 配置路由所需的外部资源。
type Options struct {
	SessionSecret string
	Templates     fs.FS
	Static        fs.FS
	Logger        *zap.Logger
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, paths []string, opts Options) (*gin.Engine, error) {
	logger := logging.OrNop(opts.Logger)

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger.Named("access")))

	// 配置会话中间件
	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/admin",
		MaxAge:   12 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("projyotish_session", store))

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"relativeTime": func(t time.Time) string {
			return formatRelativeTime(time.Now(), t)
		},
		"percent": func(part, whole uint64) int {
			if whole == 0 {
				return 0
			}
			return int(part * 100 / whole)
		},
	}).ParseFS(opts.Templates, "admin/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse admin templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	// 静态文件服务
	r.StaticFS("/static", http.FS(opts.Static))

	for _, path := range paths {
		r.GET(path, api.ShowPage)
		r.HEAD(path, api.ShowPage)
	}
	r.GET("/go/whatsapp", api.WhatsAppRedirect)
	r.POST("/api/track", api.TrackEvent)
	r.GET("/og/:file", api.ShowOGImage)
	r.GET("/healthz", api.HealthCheck)

	// 后台管理路由
	admin := r.Group("/admin")
	{
		admin.GET("/login", api.ShowLoginPage)
		admin.POST("/login", api.Login)
		admin.GET("/logout", api.Logout)

		// 需要认证的后台路由
		auth := admin.Group("")
		auth.Use(handler.AuthRequired())
		{
			auth.GET("", func(c *gin.Context) { c.Redirect(http.StatusFound, "/admin/leads") })
			auth.GET("/leads", api.ShowLeadDashboard)
		}
	}

	r.NoRoute(api.NotFound)

	return r, nil
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("remote_ip", c.ClientIP()),
			zap.String("request_id", requestID),
		}
		if visitor := c.GetString(handler.VisitorContextKey); visitor != "" {
			fields = append(fields, zap.String("visitor_id", visitor))
		}
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			logger.Error("request", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}

func formatRelativeTime(now, t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute")
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour")
	case d < 30*24*time.Hour:
		return plural(int(d/(24*time.Hour)), "day")
	case d < 365*24*time.Hour:
		return plural(int(d/(30*24*time.Hour)), "month")
	default:
		return plural(int(d/(365*24*time.Hour)), "year")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
