package render

import (
	"html/template"
	"strings"

	"github.com/projyotish/internal/content"
)

// SwapScript defines the client hook used by streamed chunks. It replaces the
// pending placeholder with the template content of the same section.
const SwapScript = `window.__pjSwap=function(id){var t=document.getElementById("tpl-"+id),s=document.getElementById("slot-"+id);if(!t||!s){return}s.replaceWith(t.content.cloneNode(true));t.remove()};`

func placeholder(ref content.SectionRef) string {
	id := template.HTMLEscapeString(ref.ID)
	var b strings.Builder
	b.WriteString(`<div id="slot-`)
	b.WriteString(id)
	b.WriteString(`" data-section="`)
	b.WriteString(id)
	b.WriteString(`" data-slot-state="pending"`)
	if ref.Placeholder.Empty() {
		b.WriteString(` hidden></div>`)
		return b.String()
	}
	b.WriteString(` class="section-skeleton `)
	b.WriteString(template.HTMLEscapeString(ref.Placeholder.Height))
	b.WriteString(`" aria-busy="true"></div>`)
	return b.String()
}

func wrap(ref content.SectionRef, html template.HTML) string {
	id := template.HTMLEscapeString(ref.ID)
	return `<div data-section="` + id + `" data-slot-state="resolved">` + string(html) + `</div>`
}

func swapChunk(ref content.SectionRef, html template.HTML) string {
	id := template.HTMLEscapeString(ref.ID)
	return `<template id="tpl-` + id + `">` + wrap(ref, html) + `</template>` +
		`<script>__pjSwap("` + template.JSEscapeString(ref.ID) + `")</script>` + "\n"
}

func unavailable(ref content.SectionRef) string {
	return `<div data-section="` + template.HTMLEscapeString(ref.ID) + `" data-slot-state="failed"></div>`
}
