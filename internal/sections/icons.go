package sections

import (
	"strings"
	"unicode/utf8"

	g "maragu.dev/gomponents"

	"github.com/projyotish/internal/view"
)

func icon(key string) g.Node {
	return g.Raw(string(view.IconSVG(key)))
}

func initial(name string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(name))
	if r == utf8.RuneError {
		return ""
	}
	return strings.ToUpper(string(r))
}
