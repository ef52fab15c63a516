package outbound

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrConversionsRejected 表示转化接口返回了非 2xx 响应。
var ErrConversionsRejected = errors.New("conversions api rejected event")

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type conversionsRequest struct {
	Data []conversionsEvent `json:"data"`
}

type conversionsEvent struct {
	EventName      string           `json:"event_name"`
	EventTime      int64            `json:"event_time"`
	EventID        string           `json:"event_id"`
	ActionSource   string           `json:"action_source"`
	EventSourceURL string           `json:"event_source_url,omitempty"`
	UserData       conversionsUser  `json:"user_data"`
	CustomData     conversionsExtra `json:"custom_data"`
}

type conversionsUser struct {
	ClientIPAddress string `json:"client_ip_address,omitempty"`
	ClientUserAgent string `json:"client_user_agent,omitempty"`
	ExternalID      string `json:"external_id,omitempty"`
}

type conversionsExtra struct {
	ContentName string `json:"content_name,omitempty"`
}

// MetaConversions forwards events to the Meta Conversions API.
type MetaConversions struct {
	pixelID    string
	token      string
	apiVersion string
	baseURL    string
	http       httpDoer
}

// NewMetaConversions 创建转化接口收集器。
func NewMetaConversions(pixelID, token, apiVersion string) *MetaConversions {
	version := strings.TrimSpace(apiVersion)
	if version == "" {
		version = "v19.0"
	}
	return &MetaConversions{
		pixelID:    strings.TrimSpace(pixelID),
		token:      strings.TrimSpace(token),
		apiVersion: version,
		baseURL:    "https://graph.facebook.com",
		http:       &http.Client{Timeout: 10 * time.Second},
	}
}

func (m *MetaConversions) SetHTTPClient(client httpDoer) {
	if client == nil {
		m.http = &http.Client{Timeout: 10 * time.Second}
		return
	}
	m.http = client
}

func (m *MetaConversions) SetBaseURL(base string) {
	m.baseURL = strings.TrimRight(strings.TrimSpace(base), "/")
}

func (m *MetaConversions) endpoint() string {
	return fmt.Sprintf("%s/%s/%s/events?access_token=%s",
		m.baseURL, m.apiVersion, url.PathEscape(m.pixelID), url.QueryEscape(m.token))
}

func (m *MetaConversions) Collect(ctx context.Context, event Event) error {
	body, err := json.Marshal(conversionsRequest{Data: []conversionsEvent{toConversionsEvent(event)}})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.http.Do(req)
	if err != nil {
		return fmt.Errorf("conversions api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrConversionsRejected, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func toConversionsEvent(event Event) conversionsEvent {
	out := conversionsEvent{
		EventName:      string(event.Name),
		EventTime:      event.OccurredAt.Unix(),
		EventID:        event.ID,
		ActionSource:   "website",
		EventSourceURL: event.SourceURL,
		UserData: conversionsUser{
			ClientIPAddress: event.ClientIP,
			ClientUserAgent: event.UserAgent,
		},
		CustomData: conversionsExtra{ContentName: event.ContentName},
	}
	if event.VisitorID != "" {
		sum := sha256.Sum256([]byte(event.VisitorID))
		out.UserData.ExternalID = hex.EncodeToString(sum[:])
	}
	return out
}
