package outbound_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/projyotish/internal/content"
	"github.com/projyotish/internal/outbound"
)

type recordingEmitter struct {
	mu     sync.Mutex
	events []outbound.Event
}

func (r *recordingEmitter) Emit(event outbound.Event) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return true
}

type panickingEmitter struct{ calls int }

func (p *panickingEmitter) Emit(outbound.Event) bool {
	p.calls++
	panic("collector unreachable")
}

func TestDeepLinkEncoding(t *testing.T) {
	require.Equal(t, "https://wa.me/918291218234?text=Namaste", outbound.DeepLink("918291218234", "Namaste"))
	require.Equal(t,
		"https://wa.me/918291218234?text=I%20want%20to%20know%20my%20marriage%20timing",
		outbound.DeepLink("+91 82912 18234", "I want to know my marriage timing"),
	)
	require.Equal(t, "https://wa.me/918291218234", outbound.DeepLink("918291218234", "  "))
	require.Equal(t, "https://wa.me/1?text=a%26b%3Dc", outbound.DeepLink("1", "a&b=c"))
}

func TestLinksHref(t *testing.T) {
	cta := content.CallToAction{ContentName: "Hero WhatsApp CTA", Message: "Namaste"}

	redirect := outbound.Links{Number: "918291218234", DefaultText: "Hi"}
	require.Equal(t, "/go/whatsapp?cta=Hero+WhatsApp+CTA&text=Namaste", redirect.Href(cta))
	require.Equal(t, "/go/whatsapp", redirect.Href(content.CallToAction{}))

	direct := outbound.Links{Number: "918291218234", DefaultText: "Hi", Direct: true}
	require.Equal(t, "https://wa.me/918291218234?text=Namaste", direct.Href(cta))
	require.Equal(t, "https://wa.me/918291218234?text=Hi", direct.Href(content.CallToAction{}))
}

func TestLinksHrefCarriesPage(t *testing.T) {
	cta := content.CallToAction{ContentName: "Marriage Timing CTA", Message: "Hi"}
	base := outbound.Links{Number: "918291218234"}

	require.Equal(t, "/go/whatsapp?cta=Marriage+Timing+CTA&page=%2Flove%2F&text=Hi", base.ForPage("/love/").Href(cta))
	require.Equal(t, "/go/whatsapp?cta=Marriage+Timing+CTA&page=%2Fmarriage-timing%2F&text=Hi", base.ForPage("/marriage-timing/").Href(cta))
	require.Empty(t, base.Page, "ForPage must not change the receiver")

	long := base.ForPage("/" + strings.Repeat("p", 400)).Href(content.CallToAction{})
	require.Equal(t, "/go/whatsapp?page=%2F"+strings.Repeat("p", outbound.MaxPagePathLength-1), long)

	direct := outbound.Links{Number: "918291218234", Direct: true}.ForPage("/love/")
	require.Equal(t, "https://wa.me/918291218234?text=Hi", direct.Href(cta))
}

func TestNewEventCapsContentNameOnCharacterBoundary(t *testing.T) {
	name := strings.Repeat("a", 119) + "ज्योतिष"
	event := outbound.NewEvent(outbound.EventLead, outbound.Payload{ContentName: name}, outbound.Meta{}, time.Now())

	require.True(t, utf8.ValidString(event.ContentName), "content name %q", event.ContentName)
	require.Equal(t, strings.Repeat("a", 119), event.ContentName)

	short := outbound.NewEvent(outbound.EventLead, outbound.Payload{ContentName: "  ज्योतिष CTA "}, outbound.Meta{}, time.Now())
	require.Equal(t, "ज्योतिष CTA", short.ContentName)
}

func TestLimitString(t *testing.T) {
	require.Equal(t, "abc", outbound.LimitString("  abc  ", 10))
	require.Equal(t, "ab", outbound.LimitString("abcdef", 2))
	require.Equal(t, "", outbound.LimitString("ज", 2))
}

func TestParseEventName(t *testing.T) {
	for raw, want := range map[string]outbound.EventName{
		"Lead":         outbound.EventLead,
		"contact":      outbound.EventContact,
		"ViewContent":  outbound.EventViewContent,
		"view_content": outbound.EventViewContent,
	} {
		got, err := outbound.ParseEventName(raw)
		require.NoError(t, err, raw)
		require.Equal(t, want, got)
	}
	_, err := outbound.ParseEventName("Purchase")
	require.ErrorIs(t, err, outbound.ErrUnknownEvent)
}

func TestTriggerEmitsOncePerCall(t *testing.T) {
	emitter := &recordingEmitter{}
	h := outbound.NewHandler(emitter, nil)

	action := outbound.Action{
		EventName:   outbound.EventLead,
		Payload:     outbound.Payload{ContentName: "Floating WhatsApp CTA"},
		Destination: "https://wa.me/918291218234?text=Namaste",
	}
	first := h.Trigger(action, outbound.Meta{PagePath: "/"})
	second := h.Trigger(action, outbound.Meta{PagePath: "/"})

	require.Equal(t, action.Destination, first)
	require.Equal(t, action.Destination, second)
	require.Len(t, emitter.events, 2)
	require.NotEqual(t, emitter.events[0].ID, emitter.events[1].ID)
	for _, event := range emitter.events {
		require.Equal(t, outbound.EventLead, event.Name)
		require.Equal(t, "Floating WhatsApp CTA", event.ContentName)
	}
}

func TestTriggerNavigatesWhenEmitFails(t *testing.T) {
	emitter := &panickingEmitter{}
	h := outbound.NewHandler(emitter, nil)

	dest := h.Trigger(outbound.Action{
		EventName:   outbound.EventLead,
		Payload:     outbound.Payload{ContentName: "Floating WhatsApp CTA"},
		Destination: "https://wa.me/918291218234",
	}, outbound.Meta{})

	require.Equal(t, "https://wa.me/918291218234", dest)
	require.Equal(t, 1, emitter.calls)
}

func TestTriggerDefaultsUnknownEventToLead(t *testing.T) {
	emitter := &recordingEmitter{}
	outbound.NewHandler(emitter, nil).Trigger(outbound.Action{EventName: "Purchase"}, outbound.Meta{})
	require.Equal(t, outbound.EventLead, emitter.events[0].Name)
}

func TestTrackerNeverBlocks(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	blocking := outbound.CollectorFunc(func(ctx context.Context, _ outbound.Event) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return nil
	})

	tracker := outbound.NewTracker(blocking, outbound.TrackerOptions{QueueSize: 1, Workers: 1})
	defer func() {
		close(release)
		require.NoError(t, tracker.Close(context.Background()))
	}()

	require.True(t, tracker.Emit(outbound.Event{Name: outbound.EventLead}))
	<-started
	require.True(t, tracker.Emit(outbound.Event{Name: outbound.EventLead}))

	done := make(chan bool, 1)
	go func() { done <- tracker.Emit(outbound.Event{Name: outbound.EventLead}) }()
	select {
	case accepted := <-done:
		require.False(t, accepted)
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a full queue")
	}
	require.EqualValues(t, 1, tracker.Dropped())
}

func TestTrackerSurvivesCollectorFailures(t *testing.T) {
	var mu sync.Mutex
	var delivered []string
	collector := outbound.CollectorFunc(func(_ context.Context, event outbound.Event) error {
		switch event.ContentName {
		case "panic":
			panic("boom")
		case "error":
			return errors.New("unreachable")
		}
		mu.Lock()
		delivered = append(delivered, event.ContentName)
		mu.Unlock()
		return nil
	})

	tracker := outbound.NewTracker(collector, outbound.TrackerOptions{QueueSize: 8, Workers: 1})
	for _, name := range []string{"panic", "error", "ok"} {
		require.True(t, tracker.Emit(outbound.Event{ContentName: name}))
	}
	require.NoError(t, tracker.Close(context.Background()))

	require.Equal(t, []string{"ok"}, delivered)
	require.EqualValues(t, 2, tracker.Failed())
	require.False(t, tracker.Emit(outbound.Event{}), "closed tracker accepts nothing")
}

func TestFanoutContinuesAfterFailure(t *testing.T) {
	var reached bool
	fanout := outbound.Fanout{
		outbound.CollectorFunc(func(context.Context, outbound.Event) error { return errors.New("down") }),
		nil,
		outbound.CollectorFunc(func(context.Context, outbound.Event) error { panic("bad") }),
		outbound.CollectorFunc(func(context.Context, outbound.Event) error { reached = true; return nil }),
	}
	err := fanout.Collect(context.Background(), outbound.Event{})
	require.Error(t, err)
	require.True(t, reached)
}

func TestMetaConversionsPayload(t *testing.T) {
	var got struct {
		Data []map[string]any `json:"data"`
	}
	var query string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		require.Equal(t, "/v19.0/PIXEL/events", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	collector := outbound.NewMetaConversions("PIXEL", "secret", "")
	collector.SetBaseURL(server.URL)
	collector.SetHTTPClient(server.Client())

	event := outbound.NewEvent(outbound.EventLead, outbound.Payload{ContentName: "Hero WhatsApp CTA"},
		outbound.Meta{VisitorID: "visitor-1", ClientIP: "10.0.0.1"}, time.Unix(1700000000, 0))
	require.NoError(t, collector.Collect(context.Background(), event))

	require.Equal(t, "access_token=secret", query)
	require.Len(t, got.Data, 1)
	require.Equal(t, "Lead", got.Data[0]["event_name"])
	require.EqualValues(t, 1700000000, got.Data[0]["event_time"])
	user := got.Data[0]["user_data"].(map[string]any)
	require.Len(t, user["external_id"], 64)
	require.NotContains(t, user["external_id"], "visitor-1")
}

func TestMetaConversionsRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid token"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	collector := outbound.NewMetaConversions("PIXEL", "bad", "v19.0")
	collector.SetBaseURL(server.URL)

	err := collector.Collect(context.Background(), outbound.Event{Name: outbound.EventLead})
	require.ErrorIs(t, err, outbound.ErrConversionsRejected)
	require.True(t, strings.Contains(err.Error(), "invalid token"))
}
