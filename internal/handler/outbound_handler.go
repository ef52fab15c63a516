package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/projyotish/internal/content"
	"github.com/projyotish/internal/outbound"
)

const (
	maxContentNameLength = 120
	maxMessageLength     = 500
	maxBeaconBytes       = 4 << 10
)

// WhatsAppRedirect records a Lead for the clicked call to action and sends
// the visitor to the chat. The destination is always built from the
// configured number, never taken from the request.
func (a *API) WhatsAppRedirect(c *gin.Context) {
	text := limitString(c.Query("text"), maxMessageLength)
	action := outbound.Action{
		EventName:   outbound.EventLead,
		Payload:     outbound.Payload{ContentName: limitString(c.Query("cta"), maxContentNameLength)},
		Destination: a.links.Destination(text),
	}

	dest := a.outbound.Trigger(action, a.eventMeta(c, pagePath(c.Query("page"))))

	c.Header("Referrer-Policy", "no-referrer")
	c.Header("Cache-Control", "no-store")
	c.Redirect(http.StatusFound, dest)
}

type trackRequest struct {
	Event       string `json:"event"`
	ContentName string `json:"content_name"`
	Path        string `json:"path"`
}

// TrackEvent accepts click beacons sent by pages served without the
// redirect endpoint. It answers 202 whatever the collectors do with it.
func (a *API) TrackEvent(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBeaconBytes)

	var req trackRequest
	if !bindJSON(c, &req, "invalid tracking payload") {
		return
	}

	name := outbound.EventLead
	if req.Event != "" {
		parsed, err := outbound.ParseEventName(req.Event)
		if err != nil {
			if errors.Is(err, outbound.ErrUnknownEvent) {
				respondError(c, http.StatusBadRequest, "unknown event")
				return
			}
			respondError(c, http.StatusBadRequest, "invalid event")
			return
		}
		name = parsed
	}

	a.outbound.Trigger(outbound.Action{
		EventName: name,
		Payload:   outbound.Payload{ContentName: limitString(req.ContentName, maxContentNameLength)},
	}, a.eventMeta(c, pagePath(req.Path)))

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

func (a *API) eventMeta(c *gin.Context, pagePath string) outbound.Meta {
	return outbound.Meta{
		PagePath:  pagePath,
		VisitorID: ensureVisitorID(c),
		UserAgent: c.Request.UserAgent(),
		ClientIP:  c.ClientIP(),
		SourceURL: c.Request.Referer(),
	}
}

// pagePath 规范化客户端上报的页面路径，空值保持为空。
func pagePath(raw string) string {
	raw = limitString(raw, outbound.MaxPagePathLength)
	if raw == "" {
		return ""
	}
	return content.NormalizePath(raw)
}
