package sections

import (
	"bytes"
	"context"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/projyotish/internal/content"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

func renderMarkdown(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes())), nil
}

// legalBody 渲染并缓存法律文档，同一文档并发请求只渲染一次。
func (c *Catalog) legalBody(doc content.LegalDoc) (template.HTML, error) {
	if cached, ok := c.legalCache.Load(doc.Key); ok {
		return cached.(template.HTML), nil
	}
	v, err, _ := c.legalGroup.Do(doc.Key, func() (any, error) {
		body, err := renderMarkdown(doc.Body)
		if err != nil {
			return nil, err
		}
		c.legalCache.Store(doc.Key, body)
		return body, nil
	})
	if err != nil {
		return "", err
	}
	return v.(template.HTML), nil
}

func (c *Catalog) legal(_ context.Context, page content.PageDescriptor) (g.Node, error) {
	doc, err := c.lib.Legal(page.Key)
	if err != nil {
		return nil, err
	}
	body, err := c.legalBody(doc)
	if err != nil {
		return nil, err
	}

	title := doc.Title
	if title == "" {
		title = page.Title
	}

	return Article(Class("section legal"),
		Div(Class("container narrow"),
			H1(Class("section-title"), g.Text(title)),
			g.If(doc.Updated != "", P(Class("muted"), g.Text("Last updated: "+doc.Updated))),
			Div(Class("prose"), g.Raw(string(body))),
		),
	), nil
}
