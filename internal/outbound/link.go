package outbound

import (
	"net/url"
	"strings"

	"github.com/projyotish/internal/content"
)

const (
	// WhatsAppBase is the deep link origin of the chat service.
	WhatsAppBase = "https://wa.me/"
	// RedirectPath 是服务端跳转入口。
	RedirectPath = "/go/whatsapp"
)

// DeepLink builds the chat deep link for number with a prefilled message.
// Spaces are encoded as %20 so the message survives every WhatsApp client.
func DeepLink(number, text string) string {
	link := WhatsAppBase + digits(number)
	text = strings.TrimSpace(text)
	if text == "" {
		return link
	}
	return link + "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

func digits(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Links 生成页面上 CTA 的链接。
// Direct 模式直接指向 wa.me（静态导出时使用，由前端脚本上报事件）；
// 否则指向服务端跳转入口，由服务端上报事件后再重定向。
type Links struct {
	Number      string
	DefaultText string
	Direct      bool
	// Page 是 CTA 所在页面的路径，随跳转一起上报。
	Page string
}

// MaxPagePathLength caps the page path carried by a redirect link.
const MaxPagePathLength = 255

// ForPage returns a copy of l whose redirect links carry pagePath.
func (l Links) ForPage(pagePath string) Links {
	l.Page = pagePath
	return l
}

// Message returns the prefilled text, falling back to the default.
func (l Links) Message(text string) string {
	if strings.TrimSpace(text) == "" {
		return l.DefaultText
	}
	return text
}

// Destination returns the deep link for a message.
func (l Links) Destination(text string) string {
	return DeepLink(l.Number, l.Message(text))
}

// Href returns the href for a call to action.
func (l Links) Href(cta content.CallToAction) string {
	if l.Direct {
		return l.Destination(cta.Message)
	}
	query := url.Values{}
	if name := strings.TrimSpace(cta.ContentName); name != "" {
		query.Set("cta", name)
	}
	if page := LimitString(l.Page, MaxPagePathLength); page != "" {
		query.Set("page", page)
	}
	if msg := strings.TrimSpace(cta.Message); msg != "" {
		query.Set("text", msg)
	}
	if len(query) == 0 {
		return RedirectPath
	}
	return RedirectPath + "?" + query.Encode()
}

// LimitString trims value and cuts it to at most max bytes without splitting
// a multi-byte character.
func LimitString(value string, max int) string {
	value = strings.TrimSpace(value)
	if len(value) <= max {
		return value
	}
	return strings.ToValidUTF8(value[:max], "")
}
