package view

import (
	"html/template"
	"strings"
)

type iconAsset struct {
	Key string
	SVG string
}

const svgOpen = `<svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round" aria-hidden="true">`

var (
	iconDefinitions = []iconAsset{
		{Key: "briefcase", SVG: svgOpen + `<path d="M16 20V4a2 2 0 0 0-2-2h-4a2 2 0 0 0-2 2v16"/><rect width="20" height="14" x="2" y="6" rx="2"/></svg>`},
		{Key: "infinity", SVG: svgOpen + `<path d="M12 12c-2-2.67-4-4-6-4a4 4 0 1 0 0 8c2 0 4-1.33 6-4Zm0 0c2 2.67 4 4 6 4a4 4 0 0 0 0-8c-2 0-4 1.33-6 4Z"/></svg>`},
		{Key: "shield-check", SVG: svgOpen + `<path d="M20 13c0 5-3.5 7.5-7.66 8.95a1 1 0 0 1-.67-.01C7.5 20.5 4 18 4 13V6a1 1 0 0 1 1-1c2 0 4.5-1.2 6.24-2.72a1.17 1.17 0 0 1 1.52 0C14.51 3.81 17 5 19 5a1 1 0 0 1 1 1z"/><path d="m9 12 2 2 4-4"/></svg>`},
		{Key: "trending-up", SVG: svgOpen + `<polyline points="22 7 13.5 15.5 8.5 10.5 2 17"/><polyline points="16 7 22 7 22 13"/></svg>`},
		{Key: "clock", SVG: svgOpen + `<circle cx="12" cy="12" r="10"/><polyline points="12 6 12 12 16 14"/></svg>`},
		{Key: "heart-pulse", SVG: svgOpen + `<path d="M19 14c1.49-1.46 3-3.21 3-5.5A5.5 5.5 0 0 0 16.5 3c-1.76 0-3 .5-4.5 2-1.5-1.5-2.74-2-4.5-2A5.5 5.5 0 0 0 2 8.5c0 2.3 1.5 4.05 3 5.5l7 7Z"/><path d="M3.22 12H9.5l.5-1 2 4.5 2-7 1.5 3.5h5.27"/></svg>`},
		{Key: "heart", SVG: svgOpen + `<path d="M19 14c1.49-1.46 3-3.21 3-5.5A5.5 5.5 0 0 0 16.5 3c-1.76 0-3 .5-4.5 2-1.5-1.5-2.74-2-4.5-2A5.5 5.5 0 0 0 2 8.5c0 2.3 1.5 4.05 3 5.5l7 7Z"/></svg>`},
		{Key: "wallet", SVG: svgOpen + `<path d="M19 7V4a1 1 0 0 0-1-1H5a2 2 0 0 0 0 4h15a1 1 0 0 1 1 1v4h-3a2 2 0 0 0 0 4h3a1 1 0 0 0 1-1v-2a1 1 0 0 0-1-1"/><path d="M3 5v14a2 2 0 0 0 2 2h15a1 1 0 0 0 1-1v-4"/></svg>`},
		{Key: "quote", SVG: svgOpen + `<path d="M3 21c3 0 7-1 7-8V5c0-1.25-.76-2.02-2-2H4c-1.25 0-2 .75-2 1.97V11c0 1.25.75 2 2 2 1 0 1 0 1 1v1c0 1-1 2-2 2s-1 .01-1 1.03V20c0 1 0 1 1 1z"/><path d="M15 21c3 0 7-1 7-8V5c0-1.25-.76-2.02-2-2h-4c-1.25 0-2 .75-2 1.97V11c0 1.25.75 2 2 2h.75c0 2.25.25 4-2.75 4v3c0 1 0 1 1 1z"/></svg>`},
		{Key: "star", SVG: svgOpen + `<polygon points="12 2 15.09 8.26 22 9.27 17 14.14 18.18 21.02 12 17.77 5.82 21.02 7 14.14 2 9.27 8.91 8.26 12 2"/></svg>`},
		{Key: "check", SVG: svgOpen + `<path d="M20 6 9 17l-5-5"/></svg>`},
		{Key: "message-circle", SVG: svgOpen + `<path d="M7.9 20A9 9 0 1 0 4 16.1L2 22Z"/></svg>`},
	}
	defaultIcon = iconAsset{Key: "sparkles", SVG: svgOpen + `<path d="M9.94 14.06 8.5 18.5l-1.44-4.44L2.5 12.5l4.56-1.56L8.5 6.5l1.44 4.44 4.56 1.56zM18 2v4M20 4h-4M19 15v4M21 17h-4"/></svg>`}
	iconLookup  = func() map[string]iconAsset {
		lookup := make(map[string]iconAsset, len(iconDefinitions)+1)
		for _, icon := range iconDefinitions {
			lookup[icon.Key] = icon
		}
		lookup[defaultIcon.Key] = defaultIcon
		return lookup
	}()
)

// IconKeys 返回所有已登记的图标 key，按登记顺序。
func IconKeys() []string {
	keys := make([]string, 0, len(iconDefinitions))
	for _, icon := range iconDefinitions {
		keys = append(keys, icon.Key)
	}
	return keys
}

// IconSVG resolves the SVG markup for a given key, falling back to the default icon.
func IconSVG(key string) template.HTML {
	trimmed := strings.ToLower(strings.TrimSpace(key))
	if icon, ok := iconLookup[trimmed]; ok && trimmed != "" {
		return template.HTML(icon.SVG)
	}
	return template.HTML(defaultIcon.SVG)
}

// HasIcon reports whether key has a dedicated icon.
func HasIcon(key string) bool {
	_, ok := iconLookup[strings.ToLower(strings.TrimSpace(key))]
	return ok
}
