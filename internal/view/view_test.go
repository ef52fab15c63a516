package view

import (
	"strings"
	"testing"

	"github.com/projyotish/internal/content"
)

func TestBuildNavMarksExactPathOnly(t *testing.T) {
	items := BuildNav(MainNav, "/love")
	active := 0
	for _, item := range items {
		if item.Active {
			active++
			if item.Href != "/love/" {
				t.Fatalf("unexpected active item %s", item.Href)
			}
		}
	}
	if active != 1 {
		t.Fatalf("expected exactly one active item, got %d", active)
	}
}

func TestBuildNavHomeNotActiveOnSubpages(t *testing.T) {
	for _, item := range BuildNav(MainNav, "/pricing/") {
		if item.Href == "/" && item.Active {
			t.Fatal("home should not be active on /pricing/")
		}
	}
	home := BuildNav(MainNav, "")
	if !home[0].Active {
		t.Fatal("home should be active for empty path")
	}
}

func TestIconFallback(t *testing.T) {
	for _, key := range IconKeys() {
		if !strings.Contains(string(IconSVG(key)), "<svg") {
			t.Fatalf("icon %s has no svg", key)
		}
	}
	if IconSVG("unknown") != IconSVG("") {
		t.Fatal("unknown icons should share the fallback")
	}
	if IconSVG(" Heart ") != IconSVG("heart") {
		t.Fatal("icon keys should be case-insensitive")
	}
}

func TestBuildMeta(t *testing.T) {
	page := content.PageDescriptor{Key: "love", Path: "/love/", Title: "Love", Description: "Timing"}
	meta := BuildMeta(page, "https://projyotish.com/")

	if meta.Canonical != "https://projyotish.com/love/" {
		t.Fatalf("unexpected canonical %s", meta.Canonical)
	}
	if meta.OG.Image != "https://projyotish.com/og/love.png" {
		t.Fatalf("unexpected og image %s", meta.OG.Image)
	}
	if meta.Twitter.Card != "summary_large_image" || meta.OG.Type != "article" {
		t.Fatalf("unexpected card metadata %+v", meta)
	}

	home := BuildMeta(content.PageDescriptor{Key: "home", Path: "/"}, "https://projyotish.com")
	if home.Canonical != "https://projyotish.com/" || home.OG.Type != "website" {
		t.Fatalf("unexpected home meta %+v", home)
	}
}
