package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/projyotish/internal/content"
)

// ShowPage streams the landing page registered for the request path.
func (a *API) ShowPage(c *gin.Context) {
	page, err := a.pages.Lookup(c.Request.URL.Path)
	if err != nil {
		a.NotFound(c)
		return
	}
	ensureVisitorID(c)

	header := c.Writer.Header()
	header.Set("Content-Type", "text/html; charset=utf-8")
	header.Set("X-Content-Type-Options", "nosniff")
	c.Status(http.StatusOK)

	if _, err := a.pages.Stream(c.Request.Context(), c.Writer, page); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			a.logger.Debug("client left before page finished", zap.String("page", page.Key))
			return
		}
		a.logger.Warn("page stream failed", zap.String("page", page.Key), zap.Error(err))
	}
}

// NotFound renders the 404 page through the site shell for GET requests and
// a JSON error otherwise.
func (a *API) NotFound(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		respondError(c, http.StatusNotFound, "not found")
		return
	}
	c.Writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusNotFound)
	if err := a.pages.NotFound(c.Writer, content.NormalizePath(c.Request.URL.Path)); err != nil {
		a.logger.Warn("not found page failed", zap.Error(err))
	}
}
