package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/PuerkitoBio/goquery"

	"github.com/projyotish/internal/content"
	"github.com/projyotish/internal/outbound"
	"github.com/projyotish/internal/render"
	"github.com/projyotish/internal/sections"
	"github.com/projyotish/web"
)

func newTestPageService(t *testing.T, lib *content.Library) *PageService {
	t.Helper()
	catalog := sections.NewCatalog(lib, outbound.Links{Number: "918291218234", DefaultText: "Namaste"})
	svc, err := NewPageService(lib, catalog, render.New(render.Options{}), web.Templates(), PageOptions{BaseURL: "https://projyotish.com"})
	if err != nil {
		t.Fatalf("failed to create page service: %v", err)
	}
	return svc
}

func embeddedLibrary(t *testing.T) *content.Library {
	t.Helper()
	lib, err := content.Load(web.Content(), nil)
	if err != nil {
		t.Fatalf("failed to load content: %v", err)
	}
	return lib
}

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse html: %v", err)
	}
	return doc
}

func TestExportWritesSectionsInDocumentOrder(t *testing.T) {
	lib := embeddedLibrary(t)
	svc := newTestPageService(t, lib)

	for _, page := range lib.Pages() {
		var buf bytes.Buffer
		reports, err := svc.Export(context.Background(), &buf, page)
		if err != nil {
			t.Fatalf("export %s failed: %v", page.Key, err)
		}
		for _, report := range reports {
			if report.State != render.StateResolved {
				t.Fatalf("page %s section %s not resolved: %v", page.Key, report.ID, report.Err)
			}
		}

		doc := parseHTML(t, buf.String())
		var got []string
		doc.Find("main [data-section]").Each(func(_ int, s *goquery.Selection) {
			id, _ := s.Attr("data-section")
			got = append(got, id)
		})
		if len(got) != len(page.Sections) {
			t.Fatalf("page %s: expected %d sections, got %v", page.Key, len(page.Sections), got)
		}
		for i, ref := range page.Sections {
			if got[i] != ref.ID {
				t.Fatalf("page %s: section %d expected %s, got %s", page.Key, i, ref.ID, got[i])
			}
		}
	}
}

func TestShellExposesMetadata(t *testing.T) {
	lib := embeddedLibrary(t)
	svc := newTestPageService(t, lib)
	page, err := lib.Page("love")
	if err != nil {
		t.Fatalf("missing love page: %v", err)
	}

	var buf bytes.Buffer
	if _, err := svc.Export(context.Background(), &buf, page); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	doc := parseHTML(t, buf.String())

	if got := doc.Find("title").Text(); got != page.Title {
		t.Fatalf("expected title %q, got %q", page.Title, got)
	}
	if got := doc.Find(`meta[name="description"]`).AttrOr("content", ""); got != page.Description {
		t.Fatalf("unexpected description %q", got)
	}
	if got := doc.Find(`link[rel="canonical"]`).AttrOr("href", ""); got != "https://projyotish.com/love/" {
		t.Fatalf("unexpected canonical %q", got)
	}
	if got := doc.Find(`meta[property="og:image"]`).AttrOr("content", ""); got != "https://projyotish.com/og/love.png" {
		t.Fatalf("unexpected og:image %q", got)
	}

	active := doc.Find(".site-nav a.active")
	if active.Length() != 1 || active.AttrOr("href", "") != "/love/" {
		t.Fatalf("expected /love/ to be the only active nav link, got %d", active.Length())
	}
	if doc.Find(".floating-cta").Length() != 0 {
		t.Fatal("floating CTA should only render on the home page")
	}
}

func TestHomeHasFloatingCTA(t *testing.T) {
	lib := embeddedLibrary(t)
	svc := newTestPageService(t, lib)
	page, _ := lib.Page("home")

	var buf bytes.Buffer
	if _, err := svc.Export(context.Background(), &buf, page); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	doc := parseHTML(t, buf.String())
	link := doc.Find(".floating-cta a")
	if link.AttrOr("data-content-name", "") != sections.FloatingContentName {
		t.Fatalf("unexpected floating CTA %q", link.AttrOr("data-content-name", ""))
	}
}

func TestStreamWritesPlaceholdersThenChunks(t *testing.T) {
	lib := embeddedLibrary(t)
	svc := newTestPageService(t, lib)
	page, _ := lib.Page("home")

	var buf bytes.Buffer
	if _, err := svc.Stream(context.Background(), &buf, page); err != nil {
		t.Fatalf("stream failed: %v", err)
	}
	out := buf.String()

	footer := strings.Index(out, `<footer class="site-footer">`)
	if footer < 0 {
		t.Fatal("missing footer")
	}
	last := -1
	for _, ref := range page.Sections[1:] {
		slot := strings.Index(out, `id="slot-`+ref.ID+`"`)
		chunk := strings.Index(out, `id="tpl-`+ref.ID+`"`)
		if slot < 0 || slot > footer {
			t.Fatalf("placeholder for %s should precede the footer", ref.ID)
		}
		if chunk < footer || chunk < last {
			t.Fatalf("chunk for %s out of order", ref.ID)
		}
		last = chunk
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "</html>") {
		t.Fatal("document should be closed after streaming")
	}
}

func TestFailedSectionDoesNotBreakPage(t *testing.T) {
	fsys := fstest.MapFS{
		"pages.yaml": &fstest.MapFile{Data: []byte(`
pages:
  - key: promo
    path: /promo/
    title: Promo
    description: A promo page
    sections:
      - id: hero
      - id: mystery
        loading: deferred
      - id: cta
        loading: deferred
`)},
		"copy.yaml": &fstest.MapFile{Data: []byte(`
promo:
  hero:
    headline: Hello
  closing:
    title: Bye
`)},
	}
	lib, err := content.Load(fsys, nil)
	if err != nil {
		t.Fatalf("failed to load content: %v", err)
	}
	svc := newTestPageService(t, lib)
	page, _ := lib.Page("promo")

	var buf bytes.Buffer
	reports, err := svc.Stream(context.Background(), &buf, page)
	if err != nil {
		t.Fatalf("stream failed: %v", err)
	}
	if reports[1].State != render.StateFailed || reports[2].State != render.StateResolved {
		t.Fatalf("unexpected reports %+v", reports)
	}
	out := buf.String()
	if strings.Contains(out, `id="tpl-mystery"`) || !strings.Contains(out, `id="tpl-cta"`) {
		t.Fatal("failed section should stay a placeholder while its sibling resolves")
	}
}

func TestNotFoundUsesShell(t *testing.T) {
	svc := newTestPageService(t, embeddedLibrary(t))

	var buf bytes.Buffer
	if err := svc.NotFound(&buf, "/horoscope/"); err != nil {
		t.Fatalf("not found render failed: %v", err)
	}
	doc := parseHTML(t, buf.String())
	if doc.Find(".site-header").Length() != 1 || doc.Find(".site-footer").Length() != 1 {
		t.Fatal("404 page should keep header and footer")
	}
	if doc.Find(`meta[name="robots"]`).AttrOr("content", "") != "noindex" {
		t.Fatal("404 page should not be indexed")
	}
	if !strings.Contains(doc.Find("main").Text(), "/horoscope/") {
		t.Fatal("404 page should mention the requested path")
	}
	if doc.Find(".site-nav a.active").Length() != 0 {
		t.Fatal("no nav link should be active on a 404")
	}
}
