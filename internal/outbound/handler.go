package outbound

import (
	"time"

	"go.uber.org/zap"

	"github.com/projyotish/internal/logging"
)

// Handler performs outbound actions.
type Handler struct {
	emitter Emitter
	logger  *zap.Logger
	now     func() time.Time
}

// NewHandler 创建出站处理器，emitter 可以为 nil（此时只跳转不上报）。
func NewHandler(emitter Emitter, logger *zap.Logger) *Handler {
	return &Handler{
		emitter: emitter,
		logger:  logging.OrNop(logger).Named("outbound"),
		now:     time.Now,
	}
}

// Trigger emits exactly one event for action and returns the destination.
// The emit is fire-and-forget; its failure never changes the result. Every
// call emits a new event, repeated clicks are not deduplicated.
func (h *Handler) Trigger(action Action, meta Meta) string {
	name := action.EventName
	if _, err := ParseEventName(string(name)); err != nil {
		name = EventLead
	}
	h.emit(NewEvent(name, action.Payload, meta, h.now()))
	return action.Destination
}

func (h *Handler) emit(event Event) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Warn("tracking emit panicked", zap.Any("panic", rec))
		}
	}()
	if h.emitter == nil {
		return
	}
	h.emitter.Emit(event)
}
