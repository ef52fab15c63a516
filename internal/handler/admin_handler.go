package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/projyotish/internal/db"
	"github.com/projyotish/internal/service"
)

const (
	dashboardTopCTAs      = 10
	dashboardTrendHours   = 24
	dashboardRecentEvents = 20
)

// ShowLoginPage 渲染登录页面
func (a *API) ShowLoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"title": "Admin Login",
	})
}

// Login 处理用户登录请求
func (a *API) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := db.Authenticate(a.db, username, password)
	if err != nil {
		if !errors.Is(err, db.ErrInvalidCredentials) {
			a.logger.Error("admin login failed", zap.Error(err))
		}
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"title":    "Admin Login",
			"error":    "Invalid username or password",
			"username": strings.TrimSpace(username),
		})
		return
	}

	// 设置会话
	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Set("username", user.Username)
	if err := session.Save(); err != nil {
		a.logger.Error("save admin session failed", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{
			"title": "Admin Login",
			"error": "Could not start session",
		})
		return
	}

	c.Redirect(http.StatusFound, "/admin/leads")
}

// Logout 处理用户登出
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()
	c.Redirect(http.StatusFound, "/admin/login")
}

// ShowLeadDashboard 渲染出站点击统计面板
func (a *API) ShowLeadDashboard(c *gin.Context) {
	session := sessions.Default(c)
	username, _ := session.Get("username").(string)

	data := gin.H{
		"title":    "Leads",
		"username": username,
	}

	if a.leads == nil {
		data["overview"] = service.LeadOverview{}
		c.HTML(http.StatusOK, "leads.html", data)
		return
	}

	overview, err := a.leads.Overview(dashboardTopCTAs)
	if err != nil {
		a.logger.Error("load lead overview failed", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "leads.html", gin.H{
			"title": "Leads",
			"error": "Failed to load lead statistics",
		})
		return
	}

	trend, err := a.leads.HourlyTrend(a.now(), dashboardTrendHours)
	if err != nil {
		a.logger.Warn("load lead trend failed", zap.Error(err))
	}

	recent, err := a.leads.RecentEvents(dashboardRecentEvents)
	if err != nil {
		a.logger.Warn("load recent lead events failed", zap.Error(err))
	}

	var peak uint64
	for _, point := range trend {
		if point.Events > peak {
			peak = point.Events
		}
	}

	data["overview"] = overview
	data["trend"] = trend
	data["trendPeak"] = peak
	data["recent"] = recent
	c.HTML(http.StatusOK, "leads.html", data)
}

// AuthRequired 是一个简单的认证中间件
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")
		if userID == nil {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
