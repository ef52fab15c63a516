// Package outbound implements click-through actions: a tracking event is
// emitted fire-and-forget and the visitor is sent to an external chat link.
package outbound

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrUnknownEvent 表示事件名不在允许的词表中。
var ErrUnknownEvent = errors.New("unknown event name")

// EventName is a tracking event name understood by the ad collector.
type EventName string

const (
	EventLead        EventName = "Lead"
	EventContact     EventName = "Contact"
	EventViewContent EventName = "ViewContent"
)

// ParseEventName 校验事件名，大小写不敏感。
func ParseEventName(raw string) (EventName, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "lead":
		return EventLead, nil
	case "contact":
		return EventContact, nil
	case "viewcontent", "view_content":
		return EventViewContent, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEvent, raw)
	}
}

// Payload carries the named content identifier of the clicked element.
type Payload struct {
	ContentName string `json:"content_name"`
}

// Action 描述一次出站点击：要上报的事件以及跳转目标。
type Action struct {
	EventName   EventName
	Payload     Payload
	Destination string
}

// Meta is request context attached to an event.
type Meta struct {
	PagePath  string
	VisitorID string
	UserAgent string
	ClientIP  string
	SourceURL string
}

// Event 是投递给收集器的追踪事件。
type Event struct {
	ID          string
	Name        EventName
	ContentName string
	PagePath    string
	VisitorID   string
	UserAgent   string
	ClientIP    string
	SourceURL   string
	OccurredAt  time.Time
}

const maxContentNameLength = 120

// NewEvent builds an event with a fresh id.
func NewEvent(name EventName, payload Payload, meta Meta, now time.Time) Event {
	return Event{
		ID:          uuid.NewString(),
		Name:        name,
		ContentName: LimitString(payload.ContentName, maxContentNameLength),
		PagePath:    strings.TrimSpace(meta.PagePath),
		VisitorID:   strings.TrimSpace(meta.VisitorID),
		UserAgent:   meta.UserAgent,
		ClientIP:    meta.ClientIP,
		SourceURL:   meta.SourceURL,
		OccurredAt:  now.UTC(),
	}
}
