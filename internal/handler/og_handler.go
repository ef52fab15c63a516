package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ShowOGImage serves the share preview of a page as /og/<key>.png.
func (a *API) ShowOGImage(c *gin.Context) {
	key, ok := strings.CutSuffix(c.Param("file"), ".png")
	if !ok || key == "" || a.ogimages == nil {
		a.NotFound(c)
		return
	}

	var title string
	for _, page := range a.pages.Pages() {
		if page.Key == key {
			title = page.Title
			break
		}
	}
	if title == "" {
		a.NotFound(c)
		return
	}

	data, err := a.ogimages.PNG(key, title)
	if err != nil {
		a.logger.Error("render og image failed", zap.String("page", key), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "image unavailable")
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/png", data)
}
