package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/projyotish/internal/config"
	"github.com/projyotish/internal/outbound"
)

func TestExportWritesStaticSite(t *testing.T) {
	cfg := config.AppConfig{SiteBaseURL: "https://projyotish.com", SectionConcurrency: 2}
	site, err := NewSite(cfg, outbound.Links{Number: "918291218234", DefaultText: "Namaste", Direct: true}, nil)
	require.NoError(t, err)

	dir := t.TempDir()
	summary, err := site.Export(context.Background(), dir)
	require.NoError(t, err)

	pages := site.Pages.Pages()
	require.Equal(t, len(pages), summary.Pages)
	require.Equal(t, len(pages), summary.Images)
	require.Zero(t, summary.FailedSections)
	require.Positive(t, summary.StaticFiles)

	for _, page := range pages {
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(strings.Trim(page.Path, "/")), "index.html"))
		require.NoError(t, err, page.Path)

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
		require.NoError(t, err)
		require.Zero(t, doc.Find(`[data-slot-state="pending"]`).Length(), "page %s kept a placeholder", page.Path)
		require.Zero(t, doc.Find("template").Length(), "page %s has streamed chunks", page.Path)

		doc.Find("a[data-track]").Each(func(_ int, s *goquery.Selection) {
			href, _ := s.Attr("href")
			require.True(t, strings.HasPrefix(href, outbound.WhatsAppBase), "page %s links through %q", page.Path, href)
		})

		_, err = os.Stat(filepath.Join(dir, "og", page.Key+".png"))
		require.NoError(t, err)
	}

	_, err = os.Stat(filepath.Join(dir, "404.html"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "static", "js", "site.js"))
	require.NoError(t, err)
}
