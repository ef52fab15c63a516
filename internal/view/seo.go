package view

import (
	"strings"

	"github.com/projyotish/internal/content"
)

// SiteName is used for og:site_name and the twitter handle.
const SiteName = "ProJyotish"

type OpenGraph struct {
	Title       string
	Description string
	URL         string
	Image       string
	Type        string
	SiteName    string
}

type Twitter struct {
	Card        string
	Title       string
	Description string
	Image       string
}

// Meta 汇总文档头部的 SEO 元数据。
type Meta struct {
	Title       string
	Description string
	Canonical   string
	OG          OpenGraph
	Twitter     Twitter
}

// BuildMeta derives head metadata from a page descriptor. baseURL has no
// trailing slash; the canonical URL always ends with one.
func BuildMeta(page content.PageDescriptor, baseURL string) Meta {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	canonical := base + content.NormalizePath(page.Path)
	image := base + "/og/" + page.Key + ".png"

	ogType := "website"
	if page.Path != "/" {
		ogType = "article"
	}

	return Meta{
		Title:       page.Title,
		Description: page.Description,
		Canonical:   canonical,
		OG: OpenGraph{
			Title:       page.Title,
			Description: page.Description,
			URL:         canonical,
			Image:       image,
			Type:        ogType,
			SiteName:    SiteName,
		},
		Twitter: Twitter{
			Card:        "summary_large_image",
			Title:       page.Title,
			Description: page.Description,
			Image:       image,
		},
	}
}
