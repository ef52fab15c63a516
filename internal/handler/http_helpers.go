package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/projyotish/internal/outbound"
)

const (
	visitorCookieName   = "pj_visitor_id"
	visitorCookieMaxAge = 365 * 24 * 60 * 60

	// VisitorContextKey 是请求上下文中访客 id 的键。
	VisitorContextKey = "visitor_id"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func ensureVisitorID(c *gin.Context) string {
	if id, ok := c.Get(VisitorContextKey); ok {
		if visitor, ok := id.(string); ok && visitor != "" {
			return visitor
		}
	}
	if id, err := c.Cookie(visitorCookieName); err == nil && validVisitorID(id) {
		c.Set(VisitorContextKey, id)
		return id
	}

	visitorID := uuid.NewString()
	secure := c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https")

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     visitorCookieName,
		Value:    visitorID,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		MaxAge:   visitorCookieMaxAge,
		Expires:  time.Now().Add(365 * 24 * time.Hour),
		SameSite: http.SameSiteLaxMode,
	})
	c.Set(VisitorContextKey, visitorID)

	return visitorID
}

func validVisitorID(id string) bool {
	_, err := uuid.Parse(strings.TrimSpace(id))
	return err == nil
}

func limitString(value string, max int) string {
	return outbound.LimitString(value, max)
}
